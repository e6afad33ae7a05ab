package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	exhibitionserrors "galleria/internal/exhibitions/errors"
	"galleria/internal/exhibitions/repository"
	"galleria/internal/exhibitions/validator"
	"galleria/pkg/config"
	"galleria/pkg/dates"
	apperrors "galleria/pkg/errors"
	"galleria/pkg/logger"
	"galleria/pkg/model"
	"galleria/pkg/sanitizer"
)

// ArtworkResolver confirms an artwork exists and returns its summary.
// Implemented by the artworks service; injected to avoid a package cycle.
type ArtworkResolver interface {
	ResolveArtwork(ctx context.Context, id string) (*model.ArtworkRef, error)
}

// LocationResolver confirms a location exists and returns its summary.
type LocationResolver interface {
	ResolveLocation(ctx context.Context, id string) (*model.LocationRef, error)
}

// EventPublisher emits exhibition lifecycle events. Implementations must not
// block the request path on broker failures.
type EventPublisher interface {
	PublishExhibitionEvent(ctx context.Context, eventType string, exhibition *model.Exhibition) error
}

// Event types published on exhibition mutations.
const (
	EventExhibitionCreated = "exhibition.created"
	EventExhibitionUpdated = "exhibition.updated"
	EventExhibitionDeleted = "exhibition.deleted"
)

type ExhibitionService interface {
	Create(ctx context.Context, exhibition *model.Exhibition) error
	GetByID(ctx context.Context, id string) (*model.ExhibitionDetail, error)
	GetAll(ctx context.Context, filter model.ExhibitionFilter, limit int, offset int64) ([]*model.Exhibition, int64, error)
	GetCurrent(ctx context.Context) ([]*model.Exhibition, error)
	Update(ctx context.Context, id string, updates *model.ExhibitionUpdate) (*model.Exhibition, error)
	Delete(ctx context.Context, id string) error
	CheckAvailability(ctx context.Context, locationID string, start, end dates.Date, excludeID string) (*model.Availability, error)
	GetLocationSchedule(ctx context.Context, locationID string, year, month int) ([]*model.Exhibition, error)
}

type exhibitionService struct {
	repo      repository.ExhibitionRepository
	lockRepo  repository.SlotLockRepository
	validator *validator.ExhibitionValidator
	artworks  ArtworkResolver
	locations LocationResolver
	events    EventPublisher
	cfg       *config.Config
	log       *logger.Logger
}

func NewExhibitionService(
	repo repository.ExhibitionRepository,
	lockRepo repository.SlotLockRepository,
	validator *validator.ExhibitionValidator,
	artworks ArtworkResolver,
	locations LocationResolver,
	events EventPublisher,
	cfg *config.Config,
	log *logger.Logger,
) ExhibitionService {
	return &exhibitionService{
		repo:      repo,
		lockRepo:  lockRepo,
		validator: validator,
		artworks:  artworks,
		locations: locations,
		events:    events,
		cfg:       cfg,
		log:       log,
	}
}

func (s *exhibitionService) Create(ctx context.Context, exhibition *model.Exhibition) error {
	s.applyDefaults(exhibition)
	s.sanitize(exhibition)
	if err := s.validate(exhibition); err != nil {
		return err
	}

	if err := s.resolveReferences(ctx, exhibition); err != nil {
		return err
	}

	lock, err := s.acquireSlotLock(ctx, exhibition.LocationID)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseSlotLock(context.WithoutCancel(ctx), lock); releaseErr != nil {
			s.log.Warn("Failed to release slot lock", "lock_id", lock.ID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoConflict(sessCtx, exhibition, ""); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, exhibition); err != nil {
			return apperrors.Internal("Failed to create exhibition", err)
		}
		return nil
	})
	if err != nil {
		s.log.Error("Failed to create exhibition",
			"location_id", exhibition.LocationID,
			"start_date", exhibition.StartDate,
			"end_date", exhibition.EndDate,
			"error", err,
		)
		return err
	}

	s.log.Info("Exhibition created successfully",
		"id", exhibition.ID,
		"artwork_id", exhibition.ArtworkID,
		"location_id", exhibition.LocationID,
		"start_date", exhibition.StartDate,
		"end_date", exhibition.EndDate,
	)
	s.publish(ctx, EventExhibitionCreated, exhibition)
	return nil
}

func (s *exhibitionService) GetByID(ctx context.Context, id string) (*model.ExhibitionDetail, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Exhibition ID cannot be empty")
	}

	exhibition, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateLookupError(err, id)
	}

	detail := &model.ExhibitionDetail{Exhibition: *exhibition}

	// Enrichment is best effort: a reference deleted out from under a
	// completed exhibition leaves the summary nil rather than failing the read.
	if artwork, err := s.artworks.ResolveArtwork(ctx, exhibition.ArtworkID); err == nil {
		detail.Artwork = artwork
	}
	if location, err := s.locations.ResolveLocation(ctx, exhibition.LocationID); err == nil {
		detail.Location = location
	}

	return detail, nil
}

func (s *exhibitionService) GetAll(ctx context.Context, filter model.ExhibitionFilter, limit int, offset int64) ([]*model.Exhibition, int64, error) {
	if filter.Status != "" && !model.ValidStatus(filter.Status) {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("invalid status filter: %s", filter.Status))
	}

	var count int64
	var exhibitions []*model.Exhibition
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, filter)
		if errCount != nil {
			s.log.Error("Failed to count exhibitions", "error", errCount)
			errCount = apperrors.Internal("Failed to count exhibitions", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		exhibitions, errFind = s.repo.FindAll(ctx, filter, limit, offset)
		if errFind != nil {
			s.log.Error("Failed to list exhibitions", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve exhibitions", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return exhibitions, count, nil
}

func (s *exhibitionService) GetCurrent(ctx context.Context) ([]*model.Exhibition, error) {
	exhibitions, err := s.repo.FindCurrent(ctx, dates.Today())
	if err != nil {
		s.log.Error("Failed to list current exhibitions", "error", err)
		return nil, apperrors.Internal("Failed to retrieve current exhibitions", err)
	}
	return exhibitions, nil
}

func (s *exhibitionService) Update(ctx context.Context, id string, updates *model.ExhibitionUpdate) (*model.Exhibition, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Exhibition ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateLookupError(err, id)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.log.Warn("Exhibition update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeExhibitionUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return nil, err
	}

	if err := s.resolveReferences(ctx, merged); err != nil {
		return nil, err
	}

	lock, err := s.acquireSlotLock(ctx, merged.LocationID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releaseSlotLock(context.WithoutCancel(ctx), lock); releaseErr != nil {
			s.log.Warn("Failed to release slot lock", "lock_id", lock.ID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoConflict(sessCtx, merged, id); err != nil {
			return err
		}
		if err := s.repo.Update(sessCtx, id, merged, updates.ExpectedUpdatedAt); err != nil {
			if errors.Is(err, exhibitionserrors.ErrStale) {
				return apperrors.StaleWrite("Exhibition")
			}
			if errors.Is(err, exhibitionserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Exhibition", id)
			}
			return apperrors.Internal("Failed to update exhibition", err)
		}
		return nil
	})
	if err != nil {
		s.log.Error("Failed to update exhibition", "id", id, "error", err)
		return nil, err
	}

	s.log.Info("Exhibition updated successfully", "id", id)
	s.publish(ctx, EventExhibitionUpdated, merged)
	return merged, nil
}

func (s *exhibitionService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Exhibition ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.translateLookupError(err, id)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, exhibitionserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Exhibition", id)
		}
		if errors.Is(err, exhibitionserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid exhibition ID format")
		}
		return apperrors.Internal("Failed to delete exhibition", err)
	}

	s.log.Info("Exhibition deleted successfully", "id", id)
	s.publish(ctx, EventExhibitionDeleted, existing)
	return nil
}

// CheckAvailability is a read-only probe sharing the exact filter the
// conflict-checked write path uses, so its verdict matches what a create
// would decide at the same instant.
func (s *exhibitionService) CheckAvailability(ctx context.Context, locationID string, start, end dates.Date, excludeID string) (*model.Availability, error) {
	if locationID == "" {
		return nil, apperrors.InvalidInput("Location ID cannot be empty")
	}
	if !start.IsValid() || !end.IsValid() {
		return nil, apperrors.Validation("start_date and end_date must be calendar dates in YYYY-MM-DD format", nil)
	}
	if !start.Before(end) {
		return nil, apperrors.Validation("end_date must be after start_date", nil)
	}

	if _, err := s.locations.ResolveLocation(ctx, locationID); err != nil {
		return nil, err
	}

	candidates, err := s.repo.FindOverlapping(ctx, locationID, start, end, excludeID)
	if err != nil {
		if errors.Is(err, exhibitionserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid exclude_exhibition_id format")
		}
		s.log.Error("Failed to check availability", "location_id", locationID, "error", err)
		return nil, apperrors.Internal("Failed to check availability", err)
	}

	requested := dates.NewInterval(start, end)
	conflicting := 0
	for _, e := range candidates {
		if e.Blocking() && dates.Conflicts(e.Interval(), requested) {
			conflicting++
		}
	}

	return &model.Availability{
		Available:              conflicting == 0,
		ConflictingExhibitions: conflicting,
	}, nil
}

func (s *exhibitionService) GetLocationSchedule(ctx context.Context, locationID string, year, month int) ([]*model.Exhibition, error) {
	if locationID == "" {
		return nil, apperrors.InvalidInput("Location ID cannot be empty")
	}
	if year < 1 || month < 1 || month > 12 {
		return nil, apperrors.InvalidInput("year and month must identify a calendar month")
	}

	if _, err := s.locations.ResolveLocation(ctx, locationID); err != nil {
		return nil, err
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	start := dates.Date(first.Format(dates.Layout))
	end := dates.Date(last.Format(dates.Layout))

	exhibitions, err := s.repo.FindByLocationAndRange(ctx, locationID, start, end)
	if err != nil {
		s.log.Error("Failed to load location schedule", "location_id", locationID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve location schedule", err)
	}

	return exhibitions, nil
}

// --- Helpers ---

func (s *exhibitionService) applyDefaults(e *model.Exhibition) {
	if e.Status == "" {
		e.Status = model.StatusScheduled
	}
}

func (s *exhibitionService) sanitize(e *model.Exhibition) {
	e.Notes = sanitizer.NormalizeNotes(e.Notes)
}

func (s *exhibitionService) validate(exhibition *model.Exhibition) error {
	if err := s.validator.Validate(exhibition); err != nil {
		s.log.Warn("Exhibition validation failed", "error", err)
		return apperrors.Validation("Exhibition validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *exhibitionService) resolveReferences(ctx context.Context, e *model.Exhibition) error {
	if _, err := s.artworks.ResolveArtwork(ctx, e.ArtworkID); err != nil {
		return err
	}
	if _, err := s.locations.ResolveLocation(ctx, e.LocationID); err != nil {
		return err
	}
	return nil
}

func (s *exhibitionService) translateLookupError(err error, id string) error {
	if errors.Is(err, exhibitionserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Exhibition", id)
	}
	if errors.Is(err, exhibitionserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid exhibition ID format")
	}
	return apperrors.Internal("Failed to retrieve exhibition", err)
}

func (s *exhibitionService) mergeExhibitionUpdates(existing *model.Exhibition, updates *model.ExhibitionUpdate) *model.Exhibition {
	merged := *existing

	if updates.ArtworkID != nil {
		merged.ArtworkID = *updates.ArtworkID
	}
	if updates.LocationID != nil {
		merged.LocationID = *updates.LocationID
	}
	if updates.StartDate != nil {
		merged.StartDate = *updates.StartDate
	}
	if updates.EndDate != nil {
		merged.EndDate = *updates.EndDate
	}
	if updates.Status != "" {
		merged.Status = updates.Status
	}
	if updates.Notes != nil {
		merged.Notes = *updates.Notes
	}

	return &merged
}

// verifyNoConflict enforces the core invariant: scheduled and active
// exhibitions at one location never overlap, touching endpoints included.
// Runs inside the session transaction so the check and the write commit
// together.
func (s *exhibitionService) verifyNoConflict(ctx context.Context, exhibition *model.Exhibition, excludeID string) error {
	if !exhibition.Blocking() {
		return nil
	}

	candidates, err := s.repo.FindOverlapping(ctx, exhibition.LocationID, exhibition.StartDate, exhibition.EndDate, excludeID)
	if err != nil {
		return apperrors.Internal("Failed to check existing exhibitions", err)
	}

	requested := exhibition.Interval()
	for _, e := range candidates {
		if dates.Conflicts(e.Interval(), requested) {
			return apperrors.Conflict(fmt.Sprintf(
				"Exhibition dates overlap with existing exhibition (%s - %s)",
				e.StartDate, e.EndDate,
			)).WithDetails(map[string]any{
				"conflicting_exhibition_id": e.ID,
				"start_date":                string(e.StartDate),
				"end_date":                  string(e.EndDate),
			})
		}
	}
	return nil
}

// acquireSlotLock takes the per-location advisory lock, retrying contended
// attempts with exponential backoff before giving up with 503. The conflict
// check itself is never skipped; the lock only serializes writers. Each
// acquisition carries a fresh token so release cannot remove a lock the TTL
// reaper already handed to another writer.
func (s *exhibitionService) acquireSlotLock(ctx context.Context, locationID string) (*model.SlotLock, error) {
	lockID := fmt.Sprintf("exhibition_lock_loc_%s", locationID)

	backoff := s.cfg.LockRetryBackoff
	attempts := s.cfg.LockRetryAttempts + 1

	for attempt := 1; attempt <= attempts; attempt++ {
		lock := &model.SlotLock{
			ID:        lockID,
			Token:     uuid.NewString(),
			ExpiresAt: time.Now().Add(s.cfg.LockTTL),
		}

		_, err := s.lockRepo.Create(ctx, lock)
		if err == nil {
			return lock, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return nil, apperrors.Internal("Failed to acquire slot lock", err)
		}

		if attempt == attempts {
			break
		}

		s.log.Debug("Slot lock contended, retrying",
			"lock_id", lockID,
			"attempt", attempt,
			"backoff", backoff,
		)

		select {
		case <-ctx.Done():
			return nil, apperrors.Timeout("Request cancelled while waiting for slot lock")
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return nil, apperrors.Unavailable("This location is being booked by another request. Please try again.")
}

func (s *exhibitionService) releaseSlotLock(ctx context.Context, lock *model.SlotLock) error {
	return s.lockRepo.Delete(ctx, lock.ID, lock.Token)
}

func (s *exhibitionService) publish(ctx context.Context, eventType string, exhibition *model.Exhibition) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishExhibitionEvent(ctx, eventType, exhibition); err != nil {
		s.log.Warn("Failed to publish exhibition event",
			"event_type", eventType,
			"exhibition_id", exhibition.ID,
			"error", err,
		)
	}
}
