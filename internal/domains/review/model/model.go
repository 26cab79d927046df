package model

import "staybook/shared/model"

const (
	TableName  = "reviews"
	EntityName = "review"

	FieldID         = "id"
	FieldUserID     = "user_id"
	FieldLocationID = "location_id"
	FieldRating     = "rating"
	FieldComment    = "comment"
)

type Review struct {
	ID         string `db:"id"`
	UserID     string `db:"user_id"`
	LocationID string `db:"location_id"`
	Rating     int    `db:"rating"`
	Comment    string `db:"comment"`
	model.Metadata
}
