package model

import (
	"time"

	"galleria/pkg/dates"
)

// Exhibition statuses. Status is set by clients and never derived from the
// clock: an exhibition whose date range covers today can still be stored as
// scheduled.
const (
	StatusScheduled = "scheduled"
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// ValidStatus reports whether s is one of the three allowed statuses.
func ValidStatus(s string) bool {
	return s == StatusScheduled || s == StatusActive || s == StatusCompleted
}

// Exhibition assigns one artwork to one display location for a closed range
// of calendar dates. UpdatedAt doubles as the optimistic concurrency token:
// every successful mutation replaces it.
type Exhibition struct {
	ID         string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ArtworkID  string     `json:"artwork_id" bson:"artwork_id" validate:"required,mongodb"`
	LocationID string     `json:"location_id" bson:"location_id" validate:"required,mongodb"`
	StartDate  dates.Date `json:"start_date" bson:"start_date" validate:"required,calendardate"`
	EndDate    dates.Date `json:"end_date" bson:"end_date" validate:"required,calendardate"`
	Status     string     `json:"status" bson:"status" validate:"required,oneof=scheduled active completed"`
	Notes      string     `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=1000"`
	CreatedAt  time.Time  `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt  time.Time  `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// Interval returns the exhibition's closed date range.
func (e *Exhibition) Interval() dates.Interval {
	return dates.NewInterval(e.StartDate, e.EndDate)
}

// Blocking reports whether this exhibition participates in overlap checks.
// Completed exhibitions are exempt and may overlap anything.
func (e *Exhibition) Blocking() bool {
	return e.Status == StatusScheduled || e.Status == StatusActive
}

// ExhibitionUpdate carries a partial update. Nil pointers leave the stored
// value untouched. ExpectedUpdatedAt, when present, is the optimistic
// concurrency token the caller last observed; when absent the guard is
// skipped.
type ExhibitionUpdate struct {
	ArtworkID         *string     `json:"artwork_id,omitempty" validate:"omitempty,mongodb"`
	LocationID        *string     `json:"location_id,omitempty" validate:"omitempty,mongodb"`
	StartDate         *dates.Date `json:"start_date,omitempty" validate:"omitempty,calendardate"`
	EndDate           *dates.Date `json:"end_date,omitempty" validate:"omitempty,calendardate"`
	Status            string      `json:"status,omitempty" validate:"omitempty,oneof=scheduled active completed"`
	Notes             *string     `json:"notes,omitempty" validate:"omitempty,max=1000"`
	ExpectedUpdatedAt *time.Time  `json:"updated_at,omitempty"`
}

// ExhibitionFilter narrows list queries. CurrentOnly keeps exhibitions whose
// date range covers today, regardless of stored status.
type ExhibitionFilter struct {
	Status      string
	CurrentOnly bool
}

// ArtworkRef is the artwork summary embedded in an enriched exhibition view.
type ArtworkRef struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	DetailURL string `json:"detail_url,omitempty"`
}

// LocationRef is the location summary embedded in an enriched exhibition view.
type LocationRef struct {
	ID          string `json:"id"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Description string `json:"description,omitempty"`
}

// ExhibitionDetail is an exhibition joined with its artwork and location.
type ExhibitionDetail struct {
	Exhibition
	Artwork  *ArtworkRef  `json:"artwork,omitempty"`
	Location *LocationRef `json:"location,omitempty"`
}

// Availability is the result of a conflict probe for a location and range.
type Availability struct {
	Available              bool `json:"available"`
	ConflictingExhibitions int  `json:"conflicting_exhibitions"`
}
