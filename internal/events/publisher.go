package events

//go:generate go run go.uber.org/mock/mockgen -source=./publisher.go -destination=./mocks/publisher_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"staybook/infras/kafka"
	"staybook/infras/otel"
	"staybook/shared/constant"
)

const (
	TopicBookingCreated   = "booking.created"
	TopicBookingConfirmed = "booking.confirmed"
	TopicReviewCreated    = "review.created"
)

// Publisher emits domain events for downstream consumers. Publishing is
// best-effort; callers treat failures as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload any) error
}

type kafkaPublisher struct {
	client kafka.Client
	otel   otel.Otel
}

func New(client kafka.Client, otel otel.Otel) Publisher {
	return &kafkaPublisher{
		client: client,
		otel:   otel,
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, topic, key string, payload any) (err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Publish")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute("event.topic", topic)

	err = p.client.SendMessages(ctx, topic, kafka.Message{Key: key, Value: payload})
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("failed to publish event")

		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

type BookingEvent struct {
	BookingID  string `json:"booking_id"`
	UserID     string `json:"user_id"`
	LocationID string `json:"location_id"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Confirmed  bool   `json:"confirmed"`
}

type ReviewEvent struct {
	ReviewID   string `json:"review_id"`
	UserID     string `json:"user_id"`
	LocationID string `json:"location_id"`
	Rating     int    `json:"rating"`
}
