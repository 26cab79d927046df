package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"staybook/infras/otel/mocks"
	locationMocks "staybook/internal/domains/location/mocks"
	reviewMocks "staybook/internal/domains/review/mocks"
	"staybook/internal/domains/review/model"
	"staybook/internal/domains/review/model/dto"
	"staybook/internal/domains/review/repository"
	"staybook/internal/domains/review/service"
	eventMocks "staybook/internal/events/mocks"
	cacheMocks "staybook/shared/cache/mocks"
	"staybook/shared/constant"
	gDto "staybook/shared/dto"
	"staybook/shared/failure"
)

func newReviewService(ctrl *gomock.Controller) (
	service.Review,
	*reviewMocks.MockReview,
	*locationMocks.MockLocation,
	*eventMocks.MockPublisher,
	*cacheMocks.MockRedisCache,
) {
	mockRepo := reviewMocks.NewMockReview(ctrl)
	mockLocationRepo := locationMocks.NewMockLocation(ctrl)
	mockPublisher := eventMocks.NewMockPublisher(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockRepo, mockLocationRepo, mockCache, mockOtel, mockPublisher)

	return svc, mockRepo, mockLocationRepo, mockPublisher, mockCache
}

func userContext(userID, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func TestReviewService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, mockLocationRepo, mockPublisher, mockCache := newReviewService(ctrl)

	tests := []struct {
		name      string
		req       dto.CreateReviewRequest
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful creation",
			req:  dto.CreateReviewRequest{Rating: 4, Comment: "Lovely stay"},
			setupMock: func() {
				mockLocationRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					CreateWithRating(gomock.Any(), gomock.Any()).
					Return(nil)

				mockPublisher.EXPECT().
					Publish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()

				mockCache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
		},
		{
			name: "unknown location",
			req:  dto.CreateReviewRequest{Rating: 4},
			setupMock: func() {
				mockLocationRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
		{
			name: "second review for the same location",
			req:  dto.CreateReviewRequest{Rating: 2},
			setupMock: func() {
				mockLocationRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					CreateWithRating(gomock.Any(), gomock.Any()).
					Return(repository.ErrDuplicateReview)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "repository error",
			req:  dto.CreateReviewRequest{Rating: 5},
			setupMock: func() {
				mockLocationRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					CreateWithRating(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Create(userContext("test-user-id", constant.RoleUser), "location-1", tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.True(t, failure.IsCode(err, tt.wantCode))
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "location-1", res.LocationID)
				assert.Equal(t, "test-user-id", res.UserID)
				assert.Equal(t, tt.req.Rating, res.Rating)
			}
		})
	}
}

func TestReviewService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, _, _, mockCache := newReviewService(ctrl)

	review := model.Review{
		ID:         "review-1",
		UserID:     "author-id",
		LocationID: "location-1",
		Rating:     4,
	}

	tests := []struct {
		name      string
		ctx       context.Context
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "author can delete own review",
			ctx:  userContext("author-id", constant.RoleUser),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(review, nil)

				mockRepo.EXPECT().
					DeleteWithRating(gomock.Any(), "review-1", "location-1").
					Return(nil)

				mockCache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
		},
		{
			name: "admin can delete any review",
			ctx:  userContext("someone-else", constant.RoleAdmin),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(review, nil)

				mockRepo.EXPECT().
					DeleteWithRating(gomock.Any(), "review-1", "location-1").
					Return(nil)

				mockCache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
		},
		{
			name: "other user is forbidden",
			ctx:  userContext("someone-else", constant.RoleUser),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(review, nil)
			},
			wantErr:  true,
			wantCode: http.StatusForbidden,
		},
		{
			name: "unknown review",
			ctx:  userContext("author-id", constant.RoleUser),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Review{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Delete(tt.ctx, "review-1")

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.True(t, failure.IsCode(err, tt.wantCode))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReviewService_GetByLocation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, _, _, _ := newReviewService(ctrl)

	mockRepo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		Return(2, nil)

	mockRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Review{
			{ID: "review-1", LocationID: "location-1", Rating: 5},
			{ID: "review-2", LocationID: "location-1", Rating: 3},
		}, nil)

	res, err := svc.GetByLocation(context.Background(), "location-1", gDto.QueryParams{Page: 1, Limit: 10})
	assert.NoError(t, err)
	assert.Len(t, res.Reviews, 2)
	assert.Equal(t, 2, res.TotalData)
}
