package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"staybook/infras/otel"
	"staybook/internal/domains/reaction/model"
	"staybook/internal/domains/reaction/model/dto"
	"staybook/internal/domains/reaction/repository"
	"staybook/shared"
	"staybook/shared/cache"
	"staybook/shared/constant"
	"staybook/shared/failure"
	gModel "staybook/shared/model"
	"staybook/shared/timezone"
)

const (
	cacheGetAllLocations = "location:gets"
	cacheGetLocation     = "location:get"
)

type Reaction interface {
	ToggleLike(ctx context.Context, locationID string) (dto.ToggleReactionResponse, error)
	ToggleDislike(ctx context.Context, locationID string) (dto.ToggleReactionResponse, error)
	ToggleFavourite(ctx context.Context, locationID string) (dto.ToggleReactionResponse, error)
}

type serviceImpl struct {
	repo  repository.Reaction
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Reaction, cache cache.RedisCache, otel otel.Otel) Reaction {
	return &serviceImpl{
		repo:  repo,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) ToggleLike(ctx context.Context, locationID string) (dto.ToggleReactionResponse, error) {
	return s.toggle(ctx, locationID, model.KindLike)
}

func (s *serviceImpl) ToggleDislike(ctx context.Context, locationID string) (dto.ToggleReactionResponse, error) {
	return s.toggle(ctx, locationID, model.KindDislike)
}

func (s *serviceImpl) ToggleFavourite(ctx context.Context, locationID string) (dto.ToggleReactionResponse, error) {
	return s.toggle(ctx, locationID, model.KindFavourite)
}

func (s *serviceImpl) toggle(ctx context.Context, locationID, kind string) (res dto.ToggleReactionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reaction.toggle")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	reaction := model.Reaction{
		ID:         uuid.NewString(),
		UserID:     user,
		LocationID: locationID,
		Kind:       kind,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}

	result, err := s.repo.Toggle(ctx, reaction)
	if err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return res, failure.NotFound("location not found") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to toggle reaction")

		return res, fmt.Errorf("failed to toggle reaction: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllLocations)
		shared.InvalidateCaches(c, s.cache, cacheGetLocation)
	}()

	return dto.ToggleReactionResponse{
		LocationID:   locationID,
		Kind:         kind,
		Active:       result.Active,
		LikeCount:    result.LikeCount,
		DislikeCount: result.DislikeCount,
	}, nil
}
