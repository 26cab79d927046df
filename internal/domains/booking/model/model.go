package model

import (
	"time"

	"staybook/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID             = "id"
	FieldUserID         = "user_id"
	FieldLocationID     = "location_id"
	FieldStartTime      = "start_time"
	FieldEndTime        = "end_time"
	FieldConfirmed      = "confirmed"
	FieldActivationCode = "activation_code"
)

type Booking struct {
	ID             string    `db:"id"`
	UserID         string    `db:"user_id"`
	LocationID     string    `db:"location_id"`
	StartTime      time.Time `db:"start_time"`
	EndTime        time.Time `db:"end_time"`
	Confirmed      bool      `db:"confirmed"`
	ActivationCode string    `db:"activation_code"`
	model.Metadata
}

// Overlaps reports whether the booking's half-open interval [start, end)
// overlaps [s, e). Back-to-back intervals do not overlap.
func (b *Booking) Overlaps(s, e time.Time) bool {
	return b.StartTime.Before(e) && b.EndTime.After(s)
}
