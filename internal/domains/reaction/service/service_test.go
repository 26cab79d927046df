package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"staybook/infras/otel/mocks"
	reactionMocks "staybook/internal/domains/reaction/mocks"
	"staybook/internal/domains/reaction/model"
	"staybook/internal/domains/reaction/repository"
	"staybook/internal/domains/reaction/service"
	cacheMocks "staybook/shared/cache/mocks"
	"staybook/shared/constant"
	"staybook/shared/failure"
)

func newReactionService(ctrl *gomock.Controller) (service.Reaction, *reactionMocks.MockReaction, *cacheMocks.MockRedisCache) {
	mockRepo := reactionMocks.NewMockReaction(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockRepo, mockCache, mockOtel)

	return svc, mockRepo, mockCache
}

func TestReactionService_ToggleLike(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, mockCache := newReactionService(ctrl)

	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")

	mockCache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	// First toggle adds the like and bumps the counter.
	mockRepo.EXPECT().
		Toggle(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, reaction model.Reaction) (repository.ToggleResult, error) {
			assert.Equal(t, model.KindLike, reaction.Kind)
			assert.Equal(t, "test-user-id", reaction.UserID)
			assert.Equal(t, "location-1", reaction.LocationID)

			return repository.ToggleResult{Active: true, LikeCount: 1, DislikeCount: 0}, nil
		})

	res, err := svc.ToggleLike(ctx, "location-1")
	assert.NoError(t, err)
	assert.True(t, res.Active)
	assert.Equal(t, 1, res.LikeCount)

	// Second toggle removes it again.
	mockRepo.EXPECT().
		Toggle(gomock.Any(), gomock.Any()).
		Return(repository.ToggleResult{Active: false, LikeCount: 0, DislikeCount: 0}, nil)

	res, err = svc.ToggleLike(ctx, "location-1")
	assert.NoError(t, err)
	assert.False(t, res.Active)
	assert.Equal(t, 0, res.LikeCount)
}

func TestReactionService_ToggleDislikeDisplacesLike(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, mockCache := newReactionService(ctrl)

	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")

	mockCache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	// The repository reports the post-toggle counters; a dislike added on
	// top of an existing like leaves at most one of the pair standing.
	mockRepo.EXPECT().
		Toggle(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, reaction model.Reaction) (repository.ToggleResult, error) {
			assert.Equal(t, model.KindDislike, reaction.Kind)

			return repository.ToggleResult{Active: true, LikeCount: 0, DislikeCount: 1}, nil
		})

	res, err := svc.ToggleDislike(ctx, "location-1")
	assert.NoError(t, err)
	assert.True(t, res.Active)
	assert.Equal(t, 0, res.LikeCount)
	assert.Equal(t, 1, res.DislikeCount)
}

func TestReactionService_ToggleFavourite(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, mockCache := newReactionService(ctrl)

	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")

	mockCache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	// Favourites never move the like and dislike counters.
	mockRepo.EXPECT().
		Toggle(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, reaction model.Reaction) (repository.ToggleResult, error) {
			assert.Equal(t, model.KindFavourite, reaction.Kind)

			return repository.ToggleResult{Active: true, LikeCount: 3, DislikeCount: 1}, nil
		})

	res, err := svc.ToggleFavourite(ctx, "location-1")
	assert.NoError(t, err)
	assert.True(t, res.Active)
	assert.Equal(t, model.KindFavourite, res.Kind)
}

func TestReactionService_ToggleErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, _ := newReactionService(ctrl)

	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")

	mockRepo.EXPECT().
		Toggle(gomock.Any(), gomock.Any()).
		Return(repository.ToggleResult{}, repository.ErrLocationNotFound)

	_, err := svc.ToggleLike(ctx, "missing-location")
	assert.Error(t, err)
	assert.True(t, failure.IsCode(err, http.StatusNotFound))

	mockRepo.EXPECT().
		Toggle(gomock.Any(), gomock.Any()).
		Return(repository.ToggleResult{}, errors.New("database error"))

	_, err = svc.ToggleLike(ctx, "location-1")
	assert.Error(t, err)
}
