package model

import "time"

// Artwork is a piece that can be assigned to a display location through an
// exhibition. UpdatedAt is the optimistic concurrency token.
type Artwork struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Title     string    `json:"title" bson:"title" validate:"required,min=1,max=200"`
	Artist    string    `json:"artist" bson:"artist" validate:"required,min=1,max=200"`
	DetailURL string    `json:"detail_url,omitempty" bson:"detail_url,omitempty" validate:"omitempty,url,max=500"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// ArtworkUpdate carries a partial artwork update plus the optional
// concurrency token.
type ArtworkUpdate struct {
	Title             *string    `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Artist            *string    `json:"artist,omitempty" validate:"omitempty,min=1,max=200"`
	DetailURL         *string    `json:"detail_url,omitempty" validate:"omitempty,max=500"`
	ExpectedUpdatedAt *time.Time `json:"updated_at,omitempty"`
}
