package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"staybook/config"
	mailerMocks "staybook/infras/mailer/mocks"
	"staybook/infras/otel/mocks"
	bookingMocks "staybook/internal/domains/booking/mocks"
	"staybook/internal/domains/booking/model"
	"staybook/internal/domains/booking/model/dto"
	"staybook/internal/domains/booking/repository"
	"staybook/internal/domains/booking/service"
	locationMocks "staybook/internal/domains/location/mocks"
	locationModel "staybook/internal/domains/location/model"
	eventMocks "staybook/internal/events/mocks"
	cacheMocks "staybook/shared/cache/mocks"
	"staybook/shared/constant"
	gDto "staybook/shared/dto"
	"staybook/shared/failure"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newBookingService(ctrl *gomock.Controller) (
	service.Booking,
	*bookingMocks.MockBooking,
	*locationMocks.MockLocation,
	*mailerMocks.MockMailer,
	*eventMocks.MockPublisher,
	*cacheMocks.MockRedisCache,
) {
	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockLocationRepo := locationMocks.NewMockLocation(ctrl)
	mockMailer := mailerMocks.NewMockMailer(ctrl)
	mockPublisher := eventMocks.NewMockPublisher(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.App.BaseURL = "http://localhost:8080"
	cfg.Cache.TTL = 3600

	svc := service.NewWithClock(mockRepo, mockLocationRepo, cfg, mockCache, mockOtel, mockMailer, mockPublisher, func() time.Time {
		return testNow
	})

	return svc, mockRepo, mockLocationRepo, mockMailer, mockPublisher, mockCache
}

func authedContext() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")

	return context.WithValue(ctx, constant.ContextKeyUserEmail, "user@example.com")
}

func TestBookingService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, mockLocationRepo, mockMailer, mockPublisher, _ := newBookingService(ctrl)

	tests := []struct {
		name      string
		req       dto.CreateBookingRequest
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful creation",
			req: dto.CreateBookingRequest{
				StartTime: testNow.Add(24 * time.Hour).Format(time.RFC3339),
				EndTime:   testNow.Add(48 * time.Hour).Format(time.RFC3339),
			},
			setupMock: func() {
				mockRepo.EXPECT().
					CreateChecked(gomock.Any(), gomock.Any()).
					Return(nil)

				mockLocationRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(locationModel.Location{ID: "location-1", Name: "Seaside Cabin"}, nil)

				mockMailer.EXPECT().
					SendActivationEmail(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()

				mockPublisher.EXPECT().
					Publish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
		},
		{
			name: "invalid time format",
			req: dto.CreateBookingRequest{
				StartTime: "not-a-date",
				EndTime:   testNow.Add(48 * time.Hour).Format(time.RFC3339),
			},
			setupMock: func() {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "end not after start",
			req: dto.CreateBookingRequest{
				StartTime: testNow.Add(48 * time.Hour).Format(time.RFC3339),
				EndTime:   testNow.Add(24 * time.Hour).Format(time.RFC3339),
			},
			setupMock: func() {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "zero length interval",
			req: dto.CreateBookingRequest{
				StartTime: testNow.Add(24 * time.Hour).Format(time.RFC3339),
				EndTime:   testNow.Add(24 * time.Hour).Format(time.RFC3339),
			},
			setupMock: func() {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "start in the past",
			req: dto.CreateBookingRequest{
				StartTime: testNow.Add(-time.Hour).Format(time.RFC3339),
				EndTime:   testNow.Add(24 * time.Hour).Format(time.RFC3339),
			},
			setupMock: func() {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "overlapping confirmed booking",
			req: dto.CreateBookingRequest{
				StartTime: testNow.Add(24 * time.Hour).Format(time.RFC3339),
				EndTime:   testNow.Add(48 * time.Hour).Format(time.RFC3339),
			},
			setupMock: func() {
				mockRepo.EXPECT().
					CreateChecked(gomock.Any(), gomock.Any()).
					Return(repository.ErrBookingConflict)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "unknown location",
			req: dto.CreateBookingRequest{
				StartTime: testNow.Add(24 * time.Hour).Format(time.RFC3339),
				EndTime:   testNow.Add(48 * time.Hour).Format(time.RFC3339),
			},
			setupMock: func() {
				mockRepo.EXPECT().
					CreateChecked(gomock.Any(), gomock.Any()).
					Return(repository.ErrLocationNotFound)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
		{
			name: "repository error",
			req: dto.CreateBookingRequest{
				StartTime: testNow.Add(24 * time.Hour).Format(time.RFC3339),
				EndTime:   testNow.Add(48 * time.Hour).Format(time.RFC3339),
			},
			setupMock: func() {
				mockRepo.EXPECT().
					CreateChecked(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Create(authedContext(), "location-1", tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.True(t, failure.IsCode(err, tt.wantCode))
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "location-1", res.LocationID)
				assert.False(t, res.Confirmed)
				assert.NotEmpty(t, res.ID)
			}
		})
	}
}

func TestBookingService_CreateBackToBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, mockLocationRepo, mockMailer, mockPublisher, _ := newBookingService(ctrl)

	// An interval starting exactly when another ends does not conflict.
	// The repository decides; the service must pass it through untouched.
	mockRepo.EXPECT().
		CreateChecked(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, booking model.Booking) error {
			assert.True(t, booking.EndTime.After(booking.StartTime))

			return nil
		})

	mockLocationRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(locationModel.Location{ID: "location-1", Name: "Seaside Cabin"}, nil)

	mockMailer.EXPECT().
		SendActivationEmail(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	mockPublisher.EXPECT().
		Publish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	req := dto.CreateBookingRequest{
		StartTime: testNow.Add(48 * time.Hour).Format(time.RFC3339),
		EndTime:   testNow.Add(72 * time.Hour).Format(time.RFC3339),
	}

	_, err := svc.Create(authedContext(), "location-1", req)
	assert.NoError(t, err)
}

func TestBookingService_Activate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, _, _, mockPublisher, mockCache := newBookingService(ctrl)

	pending := model.Booking{
		ID:             "booking-1",
		UserID:         "test-user-id",
		LocationID:     "location-1",
		StartTime:      testNow.Add(24 * time.Hour),
		EndTime:        testNow.Add(48 * time.Hour),
		Confirmed:      false,
		ActivationCode: "token-1",
	}

	confirmed := pending
	confirmed.Confirmed = true

	tests := []struct {
		name      string
		token     string
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name:  "successful activation",
			token: "token-1",
			setupMock: func() {
				mockRepo.EXPECT().
					GetByActivationCode(gomock.Any(), "token-1").
					Return(pending, nil)

				mockRepo.EXPECT().
					Confirm(gomock.Any(), "booking-1").
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
			name:  "already confirmed is idempotent",
			token: "token-1",
			setupMock: func() {
				mockRepo.EXPECT().
					GetByActivationCode(gomock.Any(), "token-1").
					Return(confirmed, nil)
			},
			wantErr: false,
		},
		{
			name:  "overlapping sibling confirmed first",
			token: "token-1",
			setupMock: func() {
				mockRepo.EXPECT().
					GetByActivationCode(gomock.Any(), "token-1").
					Return(pending, nil)

				mockRepo.EXPECT().
					Confirm(gomock.Any(), "booking-1").
					Return(repository.ErrBookingConflict)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name:  "unknown token",
			token: "missing-token",
			setupMock: func() {
				mockRepo.EXPECT().
					GetByActivationCode(gomock.Any(), "missing-token").
					Return(model.Booking{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
		{
			name:  "repository error",
			token: "token-1",
			setupMock: func() {
				mockRepo.EXPECT().
					GetByActivationCode(gomock.Any(), "token-1").
					Return(model.Booking{}, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Activate(context.Background(), tt.token)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.True(t, failure.IsCode(err, tt.wantCode))
				}
			} else {
				assert.NoError(t, err)
				assert.True(t, res.Confirmed)
				assert.Equal(t, "booking-1", res.ID)
			}
		})
	}
}

func TestBookingService_IsAvailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, _, _, _, _ := newBookingService(ctrl)

	start := testNow.Add(24 * time.Hour)
	end := testNow.Add(48 * time.Hour)

	mockRepo.EXPECT().
		ExistsConfirmedOverlap(gomock.Any(), "location-1", start, end).
		Return(true, nil)

	available, err := svc.IsAvailable(context.Background(), "location-1", start, end)
	assert.NoError(t, err)
	assert.False(t, available)

	mockRepo.EXPECT().
		ExistsConfirmedOverlap(gomock.Any(), "location-1", start, end).
		Return(false, nil)

	available, err = svc.IsAvailable(context.Background(), "location-1", start, end)
	assert.NoError(t, err)
	assert.True(t, available)
}

func TestBookingService_GetMine(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, _, _, _, _ := newBookingService(ctrl)

	mockRepo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		Return(2, nil)

	mockRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Booking{
			{ID: "booking-1", UserID: "test-user-id"},
			{ID: "booking-2", UserID: "test-user-id"},
		}, nil)

	res, err := svc.GetMine(authedContext(), gDto.QueryParams{Page: 1, Limit: 10, SortBy: "created_at", SortDir: gDto.SortDirDesc})
	assert.NoError(t, err)
	assert.Len(t, res.Bookings, 2)
	assert.Equal(t, 2, res.TotalData)
}
