package service

import (
	"context"
	"errors"
	"sync"

	artworkserrors "galleria/internal/artworks/errors"
	"galleria/internal/artworks/repository"
	"galleria/internal/artworks/validator"
	apperrors "galleria/pkg/errors"
	"galleria/pkg/logger"
	"galleria/pkg/model"
	"galleria/pkg/sanitizer"
)

// ExhibitionRefCounter reports how many live (scheduled or active)
// exhibitions reference an artwork. Injected to avoid a package cycle with
// the exhibitions domain.
type ExhibitionRefCounter interface {
	CountByArtwork(ctx context.Context, artworkID string) (int64, error)
}

type ArtworkService interface {
	Create(ctx context.Context, artwork *model.Artwork) error
	GetByID(ctx context.Context, id string) (*model.Artwork, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Artwork, int64, error)
	Update(ctx context.Context, id string, updates *model.ArtworkUpdate) (*model.Artwork, error)
	Delete(ctx context.Context, id string) error

	// ResolveArtwork implements the exhibitions service's ArtworkResolver.
	ResolveArtwork(ctx context.Context, id string) (*model.ArtworkRef, error)
}

type artworkService struct {
	repo      repository.ArtworkRepository
	refCounts ExhibitionRefCounter
	validator *validator.ArtworkValidator
	log       *logger.Logger
}

func NewArtworkService(
	repo repository.ArtworkRepository,
	refCounts ExhibitionRefCounter,
	validator *validator.ArtworkValidator,
	log *logger.Logger,
) ArtworkService {
	return &artworkService{
		repo:      repo,
		refCounts: refCounts,
		validator: validator,
		log:       log,
	}
}

func (s *artworkService) Create(ctx context.Context, artwork *model.Artwork) error {
	s.sanitize(artwork)
	if err := s.validate(artwork); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, artwork); err != nil {
		s.log.Error("Failed to create artwork", "error", err)
		return apperrors.Internal("Failed to create artwork", err)
	}

	s.log.Info("Artwork created successfully", "id", artwork.ID, "title", artwork.Title)
	return nil
}

func (s *artworkService) GetByID(ctx context.Context, id string) (*model.Artwork, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Artwork ID cannot be empty")
	}

	artwork, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateLookupError(err, id)
	}

	return artwork, nil
}

func (s *artworkService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Artwork, int64, error) {
	var count int64
	var artworks []*model.Artwork
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.log.Error("Failed to count artworks", "error", errCount)
			errCount = apperrors.Internal("Failed to count artworks", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		artworks, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.log.Error("Failed to list artworks", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve artworks", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return artworks, count, nil
}

func (s *artworkService) Update(ctx context.Context, id string, updates *model.ArtworkUpdate) (*model.Artwork, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Artwork ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateLookupError(err, id)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.log.Warn("Artwork update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeArtworkUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, merged, updates.ExpectedUpdatedAt); err != nil {
		if errors.Is(err, artworkserrors.ErrStale) {
			return nil, apperrors.StaleWrite("Artwork")
		}
		if errors.Is(err, artworkserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Artwork", id)
		}
		s.log.Error("Failed to update artwork", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update artwork", err)
	}

	s.log.Info("Artwork updated successfully", "id", id)
	return merged, nil
}

// Delete removes an artwork unless a scheduled or active exhibition still
// references it. Completed exhibitions never block deletion.
func (s *artworkService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Artwork ID cannot be empty")
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return s.translateLookupError(err, id)
	}

	refs, err := s.refCounts.CountByArtwork(ctx, id)
	if err != nil {
		s.log.Error("Failed to count exhibitions referencing artwork", "id", id, "error", err)
		return apperrors.Internal("Failed to check artwork references", err)
	}
	if refs > 0 {
		return apperrors.ReferenceConflict("Artwork", refs)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, artworkserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Artwork", id)
		}
		return apperrors.Internal("Failed to delete artwork", err)
	}

	s.log.Info("Artwork deleted successfully", "id", id)
	return nil
}

func (s *artworkService) ResolveArtwork(ctx context.Context, id string) (*model.ArtworkRef, error) {
	artwork, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.ArtworkRef{
		ID:        artwork.ID,
		Title:     artwork.Title,
		Artist:    artwork.Artist,
		DetailURL: artwork.DetailURL,
	}, nil
}

// --- Helpers ---

func (s *artworkService) sanitize(a *model.Artwork) {
	a.Title = sanitizer.NormalizeTitle(a.Title)
	a.Artist = sanitizer.NormalizeArtist(a.Artist)
	a.DetailURL = sanitizer.NormalizeURL(a.DetailURL)
}

func (s *artworkService) validate(artwork *model.Artwork) error {
	if err := s.validator.Validate(artwork); err != nil {
		s.log.Warn("Artwork validation failed", "error", err)
		return apperrors.Validation("Artwork validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *artworkService) translateLookupError(err error, id string) error {
	if errors.Is(err, artworkserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Artwork", id)
	}
	if errors.Is(err, artworkserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid artwork ID format")
	}
	return apperrors.Internal("Failed to retrieve artwork", err)
}

func (s *artworkService) mergeArtworkUpdates(existing *model.Artwork, updates *model.ArtworkUpdate) *model.Artwork {
	merged := *existing

	if updates.Title != nil {
		merged.Title = *updates.Title
	}
	if updates.Artist != nil {
		merged.Artist = *updates.Artist
	}
	if updates.DetailURL != nil {
		merged.DetailURL = *updates.DetailURL
	}

	return &merged
}
