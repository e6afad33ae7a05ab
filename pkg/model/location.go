package model

import "time"

// MaxLocationDimension caps wall space width and height in centimeters.
const MaxLocationDimension = 1000

// Location is a physical display space. Width and height are positive
// integers capped at MaxLocationDimension. UpdatedAt is the optimistic
// concurrency token.
type Location struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Width       int       `json:"width" bson:"width" validate:"required,min=1,max=1000"`
	Height      int       `json:"height" bson:"height" validate:"required,min=1,max=1000"`
	Description string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=500"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// LocationUpdate carries a partial location update plus the optional
// concurrency token.
type LocationUpdate struct {
	Width             *int       `json:"width,omitempty" validate:"omitempty,min=1,max=1000"`
	Height            *int       `json:"height,omitempty" validate:"omitempty,min=1,max=1000"`
	Description       *string    `json:"description,omitempty" validate:"omitempty,max=500"`
	ExpectedUpdatedAt *time.Time `json:"updated_at,omitempty"`
}
