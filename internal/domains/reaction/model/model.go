package model

import "staybook/shared/model"

const (
	TableName  = "reactions"
	EntityName = "reaction"

	FieldID         = "id"
	FieldUserID     = "user_id"
	FieldLocationID = "location_id"
	FieldKind       = "kind"

	KindLike      = "like"
	KindDislike   = "dislike"
	KindFavourite = "favourite"
)

type Reaction struct {
	ID         string `db:"id"`
	UserID     string `db:"user_id"`
	LocationID string `db:"location_id"`
	Kind       string `db:"kind"`
	model.Metadata
}
