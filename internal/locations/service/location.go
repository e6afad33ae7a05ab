package service

import (
	"context"
	"errors"
	"sync"

	locationserrors "galleria/internal/locations/errors"
	"galleria/internal/locations/repository"
	"galleria/internal/locations/validator"
	apperrors "galleria/pkg/errors"
	"galleria/pkg/logger"
	"galleria/pkg/model"
	"galleria/pkg/sanitizer"
)

// ExhibitionRefCounter reports how many live (scheduled or active)
// exhibitions occupy a location.
type ExhibitionRefCounter interface {
	CountByLocation(ctx context.Context, locationID string) (int64, error)
}

type LocationService interface {
	Create(ctx context.Context, location *model.Location) error
	GetByID(ctx context.Context, id string) (*model.Location, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Location, int64, error)
	Update(ctx context.Context, id string, updates *model.LocationUpdate) (*model.Location, error)
	Delete(ctx context.Context, id string) error

	// ResolveLocation implements the exhibitions service's LocationResolver.
	ResolveLocation(ctx context.Context, id string) (*model.LocationRef, error)
}

type locationService struct {
	repo      repository.LocationRepository
	refCounts ExhibitionRefCounter
	validator *validator.LocationValidator
	log       *logger.Logger
}

func NewLocationService(
	repo repository.LocationRepository,
	refCounts ExhibitionRefCounter,
	validator *validator.LocationValidator,
	log *logger.Logger,
) LocationService {
	return &locationService{
		repo:      repo,
		refCounts: refCounts,
		validator: validator,
		log:       log,
	}
}

func (s *locationService) Create(ctx context.Context, location *model.Location) error {
	s.sanitize(location)
	if err := s.validate(location); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, location); err != nil {
		s.log.Error("Failed to create location", "error", err)
		return apperrors.Internal("Failed to create location", err)
	}

	s.log.Info("Location created successfully", "id", location.ID)
	return nil
}

func (s *locationService) GetByID(ctx context.Context, id string) (*model.Location, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Location ID cannot be empty")
	}

	location, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateLookupError(err, id)
	}

	return location, nil
}

func (s *locationService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Location, int64, error) {
	var count int64
	var locations []*model.Location
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.log.Error("Failed to count locations", "error", errCount)
			errCount = apperrors.Internal("Failed to count locations", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		locations, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.log.Error("Failed to list locations", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve locations", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return locations, count, nil
}

func (s *locationService) Update(ctx context.Context, id string, updates *model.LocationUpdate) (*model.Location, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Location ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateLookupError(err, id)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.log.Warn("Location update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeLocationUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, merged, updates.ExpectedUpdatedAt); err != nil {
		if errors.Is(err, locationserrors.ErrStale) {
			return nil, apperrors.StaleWrite("Location")
		}
		if errors.Is(err, locationserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Location", id)
		}
		s.log.Error("Failed to update location", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update location", err)
	}

	s.log.Info("Location updated successfully", "id", id)
	return merged, nil
}

// Delete removes a location unless a scheduled or active exhibition still
// occupies it. Completed exhibitions never block deletion.
func (s *locationService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Location ID cannot be empty")
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return s.translateLookupError(err, id)
	}

	refs, err := s.refCounts.CountByLocation(ctx, id)
	if err != nil {
		s.log.Error("Failed to count exhibitions at location", "id", id, "error", err)
		return apperrors.Internal("Failed to check location references", err)
	}
	if refs > 0 {
		return apperrors.ReferenceConflict("Location", refs)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, locationserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Location", id)
		}
		return apperrors.Internal("Failed to delete location", err)
	}

	s.log.Info("Location deleted successfully", "id", id)
	return nil
}

func (s *locationService) ResolveLocation(ctx context.Context, id string) (*model.LocationRef, error) {
	location, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.LocationRef{
		ID:          location.ID,
		Width:       location.Width,
		Height:      location.Height,
		Description: location.Description,
	}, nil
}

// --- Helpers ---

func (s *locationService) sanitize(l *model.Location) {
	l.Description = sanitizer.TrimAndNormalize(l.Description)
}

func (s *locationService) validate(location *model.Location) error {
	if err := s.validator.Validate(location); err != nil {
		s.log.Warn("Location validation failed", "error", err)
		return apperrors.Validation("Location validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *locationService) translateLookupError(err error, id string) error {
	if errors.Is(err, locationserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Location", id)
	}
	if errors.Is(err, locationserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid location ID format")
	}
	return apperrors.Internal("Failed to retrieve location", err)
}

func (s *locationService) mergeLocationUpdates(existing *model.Location, updates *model.LocationUpdate) *model.Location {
	merged := *existing

	if updates.Width != nil {
		merged.Width = *updates.Width
	}
	if updates.Height != nil {
		merged.Height = *updates.Height
	}
	if updates.Description != nil {
		merged.Description = *updates.Description
	}

	return &merged
}
