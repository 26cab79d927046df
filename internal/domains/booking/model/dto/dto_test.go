package dto_test

import (
	"testing"
	"time"

	"staybook/internal/domains/booking/model"
	"staybook/internal/domains/booking/model/dto"
	"staybook/shared/constant"
	gModel "staybook/shared/model"
	"staybook/shared/timezone"

	"github.com/stretchr/testify/assert"
)

func TestCreateBookingRequest_Interval(t *testing.T) {
	req := dto.CreateBookingRequest{
		StartTime: "2025-07-01T14:00:00Z",
		EndTime:   "2025-07-03T10:00:00Z",
	}

	start, end, err := req.Interval()
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, 7, 1, 14, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 7, 3, 10, 0, 0, 0, time.UTC), end)
	assert.True(t, start.Before(end))
}

func TestCreateBookingRequest_IntervalInvalidFormat(t *testing.T) {
	req := dto.CreateBookingRequest{
		StartTime: "01-07-2025",
		EndTime:   "2025-07-03T10:00:00Z",
	}

	_, _, err := req.Interval()
	assert.Error(t, err)

	req = dto.CreateBookingRequest{
		StartTime: "2025-07-01T14:00:00Z",
		EndTime:   "not-a-date",
	}

	_, _, err = req.Interval()
	assert.Error(t, err)
}

func TestCreateBookingRequest_ToModel(t *testing.T) {
	req := dto.CreateBookingRequest{
		StartTime: "2025-07-01T14:00:00Z",
		EndTime:   "2025-07-03T10:00:00Z",
	}

	start, end, err := req.Interval()
	assert.NoError(t, err)

	userID := "test-user-id"
	booking := req.ToModel(userID, "test-location-id", start, end)

	assert.NotEmpty(t, booking.ID, "expected ID to be generated")
	assert.NotEmpty(t, booking.ActivationCode, "expected activation code to be generated")
	assert.NotEqual(t, booking.ID, booking.ActivationCode)
	assert.Equal(t, userID, booking.UserID)
	assert.Equal(t, "test-location-id", booking.LocationID)
	assert.Equal(t, start, booking.StartTime)
	assert.Equal(t, end, booking.EndTime)
	assert.False(t, booking.Confirmed, "expected new bookings to be unconfirmed")
	assert.Equal(t, userID, booking.CreatedBy)
	assert.False(t, booking.CreatedAt.IsZero(), "expected CreatedAt to be set")
}

func TestBookingResponse_FromModel(t *testing.T) {
	now := timezone.Now()
	bookingModel := model.Booking{
		ID:             "test-id",
		UserID:         "test-user-id",
		LocationID:     "test-location-id",
		StartTime:      time.Date(2025, 7, 1, 14, 0, 0, 0, time.UTC),
		EndTime:        time.Date(2025, 7, 3, 10, 0, 0, 0, time.UTC),
		Confirmed:      true,
		ActivationCode: "test-activation-code",
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  "test-user-id",
			ModifiedBy: "test-user-id",
		},
	}

	var response dto.BookingResponse
	response.FromModel(bookingModel)

	assert.Equal(t, bookingModel.ID, response.ID)
	assert.Equal(t, bookingModel.UserID, response.UserID)
	assert.Equal(t, bookingModel.LocationID, response.LocationID)
	assert.Equal(t, bookingModel.StartTime.Format(constant.DateFormat), response.StartTime)
	assert.Equal(t, bookingModel.EndTime.Format(constant.DateFormat), response.EndTime)
	assert.True(t, response.Confirmed)
}

func TestGetBookingsResponse_FromModels(t *testing.T) {
	bookings := []model.Booking{
		{ID: "test-id-1", UserID: "test-user-id", LocationID: "test-location-id"},
		{ID: "test-id-2", UserID: "test-user-id", LocationID: "test-location-id", Confirmed: true},
	}

	var response dto.GetBookingsResponse
	response.FromModels(bookings, 12, 5)

	assert.Len(t, response.Bookings, 2)
	assert.Equal(t, 12, response.TotalData)
	assert.Equal(t, 3, response.TotalPage)
	assert.Equal(t, "test-id-1", response.Bookings[0].ID)
	assert.True(t, response.Bookings[1].Confirmed)
}
