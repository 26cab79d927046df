package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"staybook/config"
	"staybook/infras/mailer"
	"staybook/infras/otel"
	"staybook/internal/domains/booking/model"
	"staybook/internal/domains/booking/model/dto"
	"staybook/internal/domains/booking/repository"
	locationModel "staybook/internal/domains/location/model"
	locationRepo "staybook/internal/domains/location/repository"
	"staybook/internal/events"
	"staybook/shared"
	"staybook/shared/cache"
	"staybook/shared/constant"
	gDto "staybook/shared/dto"
	"staybook/shared/failure"
	"staybook/shared/timezone"
)

const (
	cacheGetAllLocations = "location:gets"
)

type Booking interface {
	Create(ctx context.Context, locationID string, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Activate(ctx context.Context, token string) (dto.ActivateBookingResponse, error)
	GetMine(ctx context.Context, params gDto.QueryParams) (dto.GetBookingsResponse, error)
	IsAvailable(ctx context.Context, locationID string, start, end time.Time) (bool, error)
}

type serviceImpl struct {
	repo         repository.Booking
	locationRepo locationRepo.Location
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
	mailer       mailer.Mailer
	publisher    events.Publisher
	now          func() time.Time
}

func New(repo repository.Booking, locationRepo locationRepo.Location, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, mailer mailer.Mailer, publisher events.Publisher) Booking {
	return &serviceImpl{
		repo:         repo,
		locationRepo: locationRepo,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
		mailer:       mailer,
		publisher:    publisher,
		now:          timezone.Now,
	}
}

// NewWithClock is New with an injected time source.
func NewWithClock(repo repository.Booking, locationRepo locationRepo.Location, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, mailer mailer.Mailer, publisher events.Publisher, now func() time.Time) Booking {
	svc, _ := New(repo, locationRepo, cfg, cache, otel, mailer, publisher).(*serviceImpl)
	svc.now = now

	return svc
}

// validateInterval enforces the booking window rules before any storage
// access: the interval is half-open, end must be strictly after start,
// and start must not lie in the past.
func validateInterval(start, end, now time.Time) error {
	if !end.After(start) {
		return failure.BadRequestFromString("end_time must be after start_time") // nolint:wrapcheck
	}

	if start.Before(now) {
		return failure.BadRequestFromString("start_time must not be in the past") // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) Create(ctx context.Context, locationID string, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	start, end, err := req.Interval()
	if err != nil {
		log.Error().Err(err).Msg("failed to parse booking interval")

		return res, failure.BadRequestFromString(fmt.Sprintf("invalid date/time format: %v", err)) // nolint:wrapcheck
	}

	if err = validateInterval(start, end, s.now()); err != nil {
		return res, err
	}

	booking := req.ToModel(user, locationID, start, end)

	if err = s.repo.CreateChecked(ctx, booking); err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingConflict):
			return res, failure.Conflict("location is already booked for the requested interval") // nolint:wrapcheck
		case errors.Is(err, repository.ErrLocationNotFound):
			return res, failure.NotFound("location not found") // nolint:wrapcheck
		default:
			log.Error().Err(err).Msg("failed to create booking")

			return res, fmt.Errorf("failed to create booking: %w", err)
		}
	}

	location, locErr := s.locationRepo.Get(ctx, shared.FilterByID(locationID, locationModel.FieldID, locationModel.TableName))
	if locErr != nil {
		log.Error().Err(locErr).Msg("failed to load location for activation email")
	}

	// The booking exists in pending state regardless of what happens to
	// the notification or the event below.
	go s.notifyCreated(context.WithoutCancel(ctx), booking, location)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) notifyCreated(ctx context.Context, booking model.Booking, location locationModel.Location) {
	email, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	if email != "" {
		link := fmt.Sprintf("%s/v1/activate/%s", s.cfg.App.BaseURL, booking.ActivationCode)
		subject := "Confirm your booking at " + location.Name
		body := fmt.Sprintf(
			"<p>You booked <b>%s</b> from %s till %s.</p><p><a href=%q>Confirm your booking</a></p>",
			location.Name,
			booking.StartTime.Format(constant.DateFormat),
			booking.EndTime.Format(constant.DateFormat),
			link,
		)

		if err := s.mailer.SendActivationEmail(email, subject, body); err != nil {
			log.Error().Err(err).Str("booking_id", booking.ID).Msg("activation email delivery failed")
		}
	}

	event := events.BookingEvent{
		BookingID:  booking.ID,
		UserID:     booking.UserID,
		LocationID: booking.LocationID,
		StartTime:  booking.StartTime.Format(constant.DateFormat),
		EndTime:    booking.EndTime.Format(constant.DateFormat),
		Confirmed:  booking.Confirmed,
	}

	if err := s.publisher.Publish(ctx, events.TopicBookingCreated, booking.ID, event); err != nil {
		log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to publish booking created event")
	}
}

// Activate redeems an activation token. Redeeming an already-confirmed
// booking is a no-op that re-confirms; an unknown token is a not found.
func (s *serviceImpl) Activate(ctx context.Context, token string) (res dto.ActivateBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Activate")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.repo.GetByActivationCode(ctx, token)
	if err != nil {
		log.Error().Err(err).Msg("failed to look up activation token")

		return res, fmt.Errorf("failed to look up activation token: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("activation token not found") // nolint:wrapcheck
	}

	if !booking.Confirmed {
		if err = s.repo.Confirm(ctx, booking.ID); err != nil {
			if errors.Is(err, repository.ErrBookingConflict) {
				return res, failure.Conflict("an overlapping booking was confirmed first") // nolint:wrapcheck
			}

			log.Error().Err(err).Msg("failed to confirm booking")

			return res, fmt.Errorf("failed to confirm booking: %w", err)
		}

		go func() {
			c := context.WithoutCancel(ctx)

			event := events.BookingEvent{
				BookingID:  booking.ID,
				UserID:     booking.UserID,
				LocationID: booking.LocationID,
				StartTime:  booking.StartTime.Format(constant.DateFormat),
				EndTime:    booking.EndTime.Format(constant.DateFormat),
				Confirmed:  true,
			}

			if err := s.publisher.Publish(c, events.TopicBookingConfirmed, booking.ID, event); err != nil {
				log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to publish booking confirmed event")
			}

			// A newly confirmed booking changes availability results.
			shared.InvalidateCaches(c, s.cache, cacheGetAllLocations)
		}()
	}

	return dto.ActivateBookingResponse{
		ID:         booking.ID,
		LocationID: booking.LocationID,
		Confirmed:  true,
	}, nil
}

func (s *serviceImpl) GetMine(ctx context.Context, params gDto.QueryParams) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetMine")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldUserID,
				Operator: gDto.FilterOperatorEq,
				Value:    user,
				Table:    model.TableName,
			},
		},
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	bookings, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(bookings, total, params.Limit)

	return res, nil
}

// IsAvailable reports whether the location is free of confirmed bookings
// over [start, end).
func (s *serviceImpl) IsAvailable(ctx context.Context, locationID string, start, end time.Time) (bool, error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.IsAvailable")
	defer scope.End()

	exists, err := s.repo.ExistsConfirmedOverlap(ctx, locationID, start, end)
	if err != nil {
		log.Error().Err(err).Msg("failed to check availability")

		return false, fmt.Errorf("failed to check availability: %w", err)
	}

	return !exists, nil
}
