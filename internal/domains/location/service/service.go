package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"staybook/config"
	"staybook/infras/otel"
	bookingRepo "staybook/internal/domains/booking/repository"
	"staybook/internal/domains/location/model"
	"staybook/internal/domains/location/model/dto"
	"staybook/internal/domains/location/repository"
	reviewModel "staybook/internal/domains/review/model"
	reviewDto "staybook/internal/domains/review/model/dto"
	reviewRepo "staybook/internal/domains/review/repository"
	"staybook/shared"
	"staybook/shared/cache"
	"staybook/shared/constant"
	gDto "staybook/shared/dto"
	"staybook/shared/failure"
	"staybook/shared/timezone"
)

const (
	cacheGetAllLocations = "location:gets"
	cacheGetLocation     = "location:get"
)

type Location interface {
	Create(ctx context.Context, req dto.CreateLocationRequest) (dto.LocationResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateLocationRequest) (dto.LocationResponse, error)
	Delete(ctx context.Context, id string) error
	GetAll(ctx context.Context, params gDto.QueryParams, search dto.SearchLocationsQuery) (dto.GetLocationsResponse, error)
	Get(ctx context.Context, id string) (dto.LocationDetailResponse, error)
}

type serviceImpl struct {
	repo        repository.Location
	bookingRepo bookingRepo.Booking
	reviewRepo  reviewRepo.Review
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
	now         func() time.Time
}

func New(repo repository.Location, bookingRepo bookingRepo.Booking, reviewRepo reviewRepo.Review, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Location {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		reviewRepo:  reviewRepo,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
		now:         timezone.Now,
	}
}

// NewWithClock is New with an injected time source.
func NewWithClock(repo repository.Location, bookingRepo bookingRepo.Booking, reviewRepo reviewRepo.Review, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, now func() time.Time) Location {
	svc, _ := New(repo, bookingRepo, reviewRepo, cfg, cache, otel).(*serviceImpl)
	svc.now = now

	return svc
}

// normalizeSort maps the public sort keys onto columns. Unknown keys fall
// back to the default instead of erroring.
func normalizeSort(params gDto.QueryParams) gDto.QueryParams {
	switch params.SortBy {
	case "price":
		params.SortBy = model.FieldPricePerNight
		params.SortDir = gDto.SortDirAsc
	case "rating":
		params.SortBy = model.FieldRating
		params.SortDir = gDto.SortDirDesc
	case "name", constant.Empty:
		params.SortBy = model.FieldName
		params.SortDir = gDto.SortDirAsc
	default:
		params.SortBy = model.FieldName
		params.SortDir = gDto.SortDirAsc
	}

	return params
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateLocationRequest) (res dto.LocationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".location.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	location := req.ToModel(user)

	if err = s.repo.Insert(ctx, location); err != nil {
		log.Error().Err(err).Msg("failed to create location")

		return res, fmt.Errorf("failed to create location: %w", err)
	}

	go shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, cacheGetAllLocations)

	res.FromModel(location)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, id string, req dto.UpdateLocationRequest) (res dto.LocationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".location.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	location, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get location")

		return res, fmt.Errorf("failed to get location: %w", err)
	}

	if location.ID == constant.Empty {
		return res, failure.NotFound("location not found") // nolint:wrapcheck
	}

	fields := shared.TransformFields(req, user)

	if err = s.repo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update location")

		return res, fmt.Errorf("failed to update location: %w", err)
	}

	location, err = s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to reload location")

		return res, fmt.Errorf("failed to reload location: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetLocation, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete location from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllLocations)
	}()

	res.FromModel(location)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".location.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exists, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check location existence")

		return fmt.Errorf("failed to check location existence: %w", err)
	}

	if !exists {
		return failure.NotFound("location not found") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete location")

		return fmt.Errorf("failed to delete location: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetLocation, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete location from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllLocations)
	}()

	return nil
}

// GetAll lists the catalog. Filters compose as text match first, then
// availability over the requested window, with sorting applied last.
func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, search dto.SearchLocationsQuery) (res dto.GetLocationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".location.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	params = normalizeSort(params)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if search.Query != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldName,
			Operator: gDto.FilterOperatorLike,
			Value:    search.Query,
			Table:    model.TableName,
		})
	}

	if search.StartDate != nil && search.EndDate != nil {
		busyIDs, busyErr := s.bookingRepo.OverlappingLocationIDs(ctx, *search.StartDate, *search.EndDate)
		if busyErr != nil {
			log.Error().Err(busyErr).Msg("failed to resolve unavailable locations")

			return res, fmt.Errorf("failed to resolve unavailable locations: %w", busyErr)
		}

		if len(busyIDs) > 0 {
			filter.Filters = append(filter.Filters, gDto.Filter{
				Field:    model.FieldID,
				Operator: gDto.FilterOperatorNotIn,
				Value:    busyIDs,
				Table:    model.TableName,
				ArgName:  "busy_location_id",
			})
		}
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllLocations, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for locations")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count locations")

		return res, fmt.Errorf("failed to count locations: %w", err)
	}

	locations, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get locations")

		return res, fmt.Errorf("failed to get locations: %w", err)
	}

	activeIDs, err := s.bookingRepo.ActiveLocationIDs(ctx, s.now())
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve currently booked locations")

		return res, fmt.Errorf("failed to resolve currently booked locations: %w", err)
	}

	bookedNow := make(map[string]bool, len(activeIDs))
	for _, id := range activeIDs {
		bookedNow[id] = true
	}

	res.FromModels(locations, bookedNow, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save locations to cache")
		}
	}()

	return res, nil
}

// Get returns the detail view: the location, its reviews, and the
// requesting user's own review when one exists.
func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.LocationDetailResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".location.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	location, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get location")

		return res, fmt.Errorf("failed to get location: %w", err)
	}

	if location.ID == constant.Empty {
		return res, failure.NotFound("location not found") // nolint:wrapcheck
	}

	reviewFilter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    reviewModel.FieldLocationID,
				Operator: gDto.FilterOperatorEq,
				Value:    id,
				Table:    reviewModel.TableName,
			},
		},
	}

	reviews, err := s.reviewRepo.GetAll(ctx, gDto.QueryParams{SortBy: reviewModel.FieldID, SortDir: gDto.SortDirAsc}, reviewFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reviews")

		return res, fmt.Errorf("failed to get reviews: %w", err)
	}

	res.FromModel(location)

	res.Reviews = make([]reviewDto.ReviewResponse, len(reviews))

	for i, review := range reviews {
		res.Reviews[i].FromModel(review)

		if review.UserID == user {
			own := res.Reviews[i]
			res.OwnReview = &own
		}
	}

	return res, nil
}
