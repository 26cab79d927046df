package dto

import (
	"github.com/google/uuid"

	"staybook/internal/domains/review/model"
	"staybook/shared"
	gDto "staybook/shared/dto"
	gModel "staybook/shared/model"
	"staybook/shared/timezone"
)

type CreateReviewRequest struct {
	Rating  int    `json:"rating"  validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"omitempty,max=1000"`
}

func (c *CreateReviewRequest) ToModel(user, locationID string) model.Review {
	return model.Review{
		ID:         uuid.NewString(),
		UserID:     user,
		LocationID: locationID,
		Rating:     c.Rating,
		Comment:    c.Comment,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type ReviewResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	LocationID string `json:"location_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
	gDto.Metadata
}

func (r *ReviewResponse) FromModel(model model.Review) {
	r.ID = model.ID
	r.UserID = model.UserID
	r.LocationID = model.LocationID
	r.Rating = model.Rating
	r.Comment = model.Comment
	r.Metadata.FromModel(model.Metadata)
}

type GetReviewsResponse struct {
	Reviews   []ReviewResponse `json:"reviews"`
	TotalPage int              `json:"total_page"`
	TotalData int              `json:"total_data"`
}

func (r *GetReviewsResponse) FromModels(models []model.Review, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reviews = make([]ReviewResponse, len(models))
	for i, mod := range models {
		r.Reviews[i].FromModel(mod)
	}
}
