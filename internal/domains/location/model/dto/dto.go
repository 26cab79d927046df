package dto

import (
	"time"

	"github.com/google/uuid"

	"staybook/internal/domains/location/model"
	reviewDto "staybook/internal/domains/review/model/dto"
	"staybook/shared"
	gDto "staybook/shared/dto"
	gModel "staybook/shared/model"
	"staybook/shared/timezone"
)

type CreateLocationRequest struct {
	Name          string  `json:"name"            validate:"required,min=3,max=30"`
	Country       string  `json:"country"         validate:"required,max=20"`
	City          string  `json:"city"            validate:"required,max=20"`
	Region        string  `json:"region"          validate:"required,max=20"`
	Street        string  `json:"street"          validate:"required,max=30"`
	Description   string  `json:"description"     validate:"required,max=100"`
	PhotoURL      string  `json:"photo_url"       validate:"required,url"`
	PricePerNight float64 `json:"price_per_night" validate:"required,gt=0"`
	Capacity      int     `json:"capacity"        validate:"required,min=1"`
}

func (c *CreateLocationRequest) ToModel(user string) model.Location {
	return model.Location{
		ID:            uuid.NewString(),
		Name:          c.Name,
		Country:       c.Country,
		City:          c.City,
		Region:        c.Region,
		Street:        c.Street,
		Description:   c.Description,
		PhotoURL:      c.PhotoURL,
		PricePerNight: c.PricePerNight,
		Capacity:      c.Capacity,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateLocationRequest struct {
	Name          string  `db:"name"            json:"name"            validate:"omitempty,min=3,max=30"`
	Country       string  `db:"country"         json:"country"         validate:"omitempty,max=20"`
	City          string  `db:"city"            json:"city"            validate:"omitempty,max=20"`
	Region        string  `db:"region"          json:"region"          validate:"omitempty,max=20"`
	Street        string  `db:"street"          json:"street"          validate:"omitempty,max=30"`
	Description   string  `db:"description"     json:"description"     validate:"omitempty,max=100"`
	PhotoURL      string  `db:"photo_url"       json:"photo_url"       validate:"omitempty,url"`
	PricePerNight float64 `db:"price_per_night" json:"price_per_night" validate:"omitempty,gt=0"`
	Capacity      int     `db:"capacity"        json:"capacity"        validate:"omitempty,min=1"`
}

type LocationResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Country         string  `json:"country"`
	City            string  `json:"city"`
	Region          string  `json:"region"`
	Street          string  `json:"street"`
	Description     string  `json:"description"`
	PhotoURL        string  `json:"photo_url"`
	PricePerNight   float64 `json:"price_per_night"`
	Capacity        int     `json:"capacity"`
	Rating          float64 `json:"rating"`
	LikeCount       int     `json:"like_count"`
	DislikeCount    int     `json:"dislike_count"`
	CurrentlyBooked bool    `json:"currently_booked"`
	gDto.Metadata
}

func (r *LocationResponse) FromModel(model model.Location) {
	r.ID = model.ID
	r.Name = model.Name
	r.Country = model.Country
	r.City = model.City
	r.Region = model.Region
	r.Street = model.Street
	r.Description = model.Description
	r.PhotoURL = model.PhotoURL
	r.PricePerNight = model.PricePerNight
	r.Capacity = model.Capacity
	r.Rating = model.Rating
	r.LikeCount = model.LikeCount
	r.DislikeCount = model.DislikeCount
	r.Metadata.FromModel(model.Metadata)
}

type GetLocationsResponse struct {
	Locations []LocationResponse `json:"locations"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetLocationsResponse) FromModels(models []model.Location, bookedNow map[string]bool, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Locations = make([]LocationResponse, len(models))
	for i, mod := range models {
		r.Locations[i].FromModel(mod)
		r.Locations[i].CurrentlyBooked = bookedNow[mod.ID]
	}
}

// SearchLocationsQuery carries the catalog filters: a case-insensitive
// substring match on name and an availability window. The window only
// applies when both bounds are present.
type SearchLocationsQuery struct {
	Query     string
	StartDate *time.Time
	EndDate   *time.Time
}

type LocationDetailResponse struct {
	LocationResponse
	Reviews   []reviewDto.ReviewResponse `json:"reviews"`
	OwnReview *reviewDto.ReviewResponse  `json:"own_review,omitempty"`
}
