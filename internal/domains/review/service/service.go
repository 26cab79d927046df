package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	locationModel "staybook/internal/domains/location/model"
	locationRepo "staybook/internal/domains/location/repository"
	"staybook/internal/domains/review/model"
	"staybook/internal/domains/review/model/dto"
	"staybook/internal/domains/review/repository"
	"staybook/internal/events"
	"staybook/infras/otel"
	"staybook/shared"
	"staybook/shared/cache"
	"staybook/shared/constant"
	gDto "staybook/shared/dto"
	"staybook/shared/failure"
)

const (
	cacheGetAllLocations = "location:gets"
	cacheGetLocation     = "location:get"
)

type Review interface {
	Create(ctx context.Context, locationID string, req dto.CreateReviewRequest) (dto.ReviewResponse, error)
	Delete(ctx context.Context, reviewID string) error
	GetByLocation(ctx context.Context, locationID string, params gDto.QueryParams) (dto.GetReviewsResponse, error)
}

type serviceImpl struct {
	repo         repository.Review
	locationRepo locationRepo.Location
	cache        cache.RedisCache
	otel         otel.Otel
	publisher    events.Publisher
}

func New(repo repository.Review, locationRepo locationRepo.Location, cache cache.RedisCache, otel otel.Otel, publisher events.Publisher) Review {
	return &serviceImpl{
		repo:         repo,
		locationRepo: locationRepo,
		cache:        cache,
		otel:         otel,
		publisher:    publisher,
	}
}

// Create stores a review and folds it into the location's mean rating.
// One review per user per location; a second attempt is a conflict.
func (s *serviceImpl) Create(ctx context.Context, locationID string, req dto.CreateReviewRequest) (res dto.ReviewResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".review.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	exists, err := s.locationRepo.Exist(ctx, shared.FilterByID(locationID, locationModel.FieldID, locationModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check location existence")

		return res, fmt.Errorf("failed to check location existence: %w", err)
	}

	if !exists {
		return res, failure.NotFound("location not found") // nolint:wrapcheck
	}

	review := req.ToModel(user, locationID)

	if err = s.repo.CreateWithRating(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			return res, failure.Duplicate("you have already reviewed this location") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create review")

		return res, fmt.Errorf("failed to create review: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		event := events.ReviewEvent{
			ReviewID:   review.ID,
			UserID:     review.UserID,
			LocationID: review.LocationID,
			Rating:     review.Rating,
		}

		if err := s.publisher.Publish(c, events.TopicReviewCreated, review.ID, event); err != nil {
			log.Error().Err(err).Str("review_id", review.ID).Msg("failed to publish review created event")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllLocations)
		shared.InvalidateCaches(c, s.cache, cacheGetLocation)
	}()

	res.FromModel(review)

	return res, nil
}

// Delete removes a review. Only the author or an administrator may
// delete it; the location's rating is recomputed without it.
func (s *serviceImpl) Delete(ctx context.Context, reviewID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".review.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	review, err := s.repo.Get(ctx, shared.FilterByID(reviewID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get review")

		return fmt.Errorf("failed to get review: %w", err)
	}

	if review.ID == constant.Empty {
		return failure.NotFound("review not found") // nolint:wrapcheck
	}

	if review.UserID != user && role != constant.RoleAdmin {
		return failure.Forbidden("you are not allowed to delete this review") // nolint:wrapcheck
	}

	if err = s.repo.DeleteWithRating(ctx, review.ID, review.LocationID); err != nil {
		log.Error().Err(err).Msg("failed to delete review")

		return fmt.Errorf("failed to delete review: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllLocations)
		shared.InvalidateCaches(c, s.cache, cacheGetLocation)
	}()

	return nil
}

func (s *serviceImpl) GetByLocation(ctx context.Context, locationID string, params gDto.QueryParams) (res dto.GetReviewsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".review.GetByLocation")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldLocationID,
				Operator: gDto.FilterOperatorEq,
				Value:    locationID,
				Table:    model.TableName,
			},
		},
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reviews")

		return res, fmt.Errorf("failed to count reviews: %w", err)
	}

	reviews, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reviews")

		return res, fmt.Errorf("failed to get reviews: %w", err)
	}

	res.FromModels(reviews, total, params.Limit)

	return res, nil
}
