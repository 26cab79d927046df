package dto

import (
	"time"

	"github.com/google/uuid"

	"staybook/internal/domains/booking/model"
	"staybook/shared"
	"staybook/shared/constant"
	gDto "staybook/shared/dto"
	gModel "staybook/shared/model"
	"staybook/shared/timezone"
)

type CreateBookingRequest struct {
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time"   validate:"required"`
}

// Interval parses the requested booking window. Format errors are
// reported per field by the caller.
func (c *CreateBookingRequest) Interval() (start, end time.Time, err error) {
	start, err = time.Parse(constant.DateFormat, c.StartTime)
	if err != nil {
		return start, end, err
	}

	end, err = time.Parse(constant.DateFormat, c.EndTime)

	return start, end, err
}

func (c *CreateBookingRequest) ToModel(user, locationID string, start, end time.Time) model.Booking {
	return model.Booking{
		ID:             uuid.NewString(),
		UserID:         user,
		LocationID:     locationID,
		StartTime:      start,
		EndTime:        end,
		Confirmed:      false,
		ActivationCode: uuid.NewString(),
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type BookingResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	LocationID string `json:"location_id"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Confirmed  bool   `json:"confirmed"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.UserID = model.UserID
	r.LocationID = model.LocationID
	r.StartTime = model.StartTime.Format(constant.DateFormat)
	r.EndTime = model.EndTime.Format(constant.DateFormat)
	r.Confirmed = model.Confirmed
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

type ActivateBookingResponse struct {
	ID         string `json:"id"`
	LocationID string `json:"location_id"`
	Confirmed  bool   `json:"confirmed"`
}
