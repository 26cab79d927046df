package model

import "staybook/shared/model"

const (
	TableName  = "locations"
	EntityName = "location"

	FieldID            = "id"
	FieldName          = "name"
	FieldCountry       = "country"
	FieldCity          = "city"
	FieldRegion        = "region"
	FieldStreet        = "street"
	FieldDescription   = "description"
	FieldPhotoURL      = "photo_url"
	FieldPricePerNight = "price_per_night"
	FieldCapacity      = "capacity"
	FieldRating        = "rating"
	FieldLikeCount     = "like_count"
	FieldDislikeCount  = "dislike_count"
)

type Location struct {
	ID            string  `db:"id"`
	Name          string  `db:"name"`
	Country       string  `db:"country"`
	City          string  `db:"city"`
	Region        string  `db:"region"`
	Street        string  `db:"street"`
	Description   string  `db:"description"`
	PhotoURL      string  `db:"photo_url"`
	PricePerNight float64 `db:"price_per_night"`
	Capacity      int     `db:"capacity"`
	Rating        float64 `db:"rating"`
	LikeCount     int     `db:"like_count"`
	DislikeCount  int     `db:"dislike_count"`
	model.Metadata
}
