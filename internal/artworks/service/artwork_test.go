package service

import (
	"context"
	"testing"
	"time"

	artworkserrors "galleria/internal/artworks/errors"
	"galleria/internal/artworks/validator"
	apperrors "galleria/pkg/errors"
	"galleria/pkg/logger"
	"galleria/pkg/model"
)

// ────────────────────────────────────────────────
// Mocks
// ────────────────────────────────────────────────

type mockArtworkRepository struct {
	createFunc   func(ctx context.Context, artwork *model.Artwork) error
	findByIDFunc func(ctx context.Context, id string) (*model.Artwork, error)
	updateFunc   func(ctx context.Context, id string, artwork *model.Artwork, expectedUpdatedAt *time.Time) error
	deleteFunc   func(ctx context.Context, id string) error

	deleteCalls int
}

func (m *mockArtworkRepository) Create(ctx context.Context, artwork *model.Artwork) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, artwork)
	}
	artwork.ID = "507f1f77bcf86cd799439011"
	return nil
}

func (m *mockArtworkRepository) FindByID(ctx context.Context, id string) (*model.Artwork, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, artworkserrors.ErrNotFound
}

func (m *mockArtworkRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Artwork, error) {
	return []*model.Artwork{}, nil
}

func (m *mockArtworkRepository) Update(ctx context.Context, id string, artwork *model.Artwork, expectedUpdatedAt *time.Time) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, artwork, expectedUpdatedAt)
	}
	return nil
}

func (m *mockArtworkRepository) Delete(ctx context.Context, id string) error {
	m.deleteCalls++
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockArtworkRepository) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

type stubRefCounter struct {
	count int64
	err   error
}

func (s *stubRefCounter) CountByArtwork(ctx context.Context, artworkID string) (int64, error) {
	return s.count, s.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
}

func newTestService(repo *mockArtworkRepository, refs *stubRefCounter) ArtworkService {
	log := testLogger()
	return NewArtworkService(repo, refs, validator.NewArtworkValidator(log), log)
}

func storedArtwork() *model.Artwork {
	return &model.Artwork{
		ID:        "507f1f77bcf86cd799439011",
		Title:     "静寂の森",
		Artist:    "佐藤花子",
		DetailURL: "https://example.com/artwork2",
		UpdatedAt: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
	}
}

// ────────────────────────────────────────────────
// Tests for the deletion guard
// ────────────────────────────────────────────────

func TestDelete_BlockedByReferences(t *testing.T) {
	repo := &mockArtworkRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Artwork, error) {
			return storedArtwork(), nil
		},
	}
	svc := newTestService(repo, &stubRefCounter{count: 2})

	err := svc.Delete(context.Background(), "507f1f77bcf86cd799439011")
	if !apperrors.HasCode(err, apperrors.CodeReferenceConflict) {
		t.Fatalf("expected REFERENCE_CONFLICT, got %v", err)
	}

	appErr := apperrors.AsAppError(err)
	if appErr.HTTPStatus != 409 {
		t.Errorf("expected status 409, got %d", appErr.HTTPStatus)
	}
	if appErr.Details["referencing_exhibitions"] != int64(2) {
		t.Errorf("expected reference count in details, got %v", appErr.Details)
	}
	if repo.deleteCalls != 0 {
		t.Error("delete must not reach the repository while references exist")
	}
}

func TestDelete_AllowedAtZeroReferences(t *testing.T) {
	repo := &mockArtworkRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Artwork, error) {
			return storedArtwork(), nil
		},
	}
	svc := newTestService(repo, &stubRefCounter{count: 0})

	if err := svc.Delete(context.Background(), "507f1f77bcf86cd799439011"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.deleteCalls != 1 {
		t.Errorf("expected repository delete, got %d calls", repo.deleteCalls)
	}
}

func TestDelete_NotFound(t *testing.T) {
	svc := newTestService(&mockArtworkRepository{}, &stubRefCounter{})

	err := svc.Delete(context.Background(), "507f1f77bcf86cd799439011")
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

// ────────────────────────────────────────────────
// Tests for Update()
// ────────────────────────────────────────────────

func TestUpdate_StaleToken(t *testing.T) {
	repo := &mockArtworkRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Artwork, error) {
			return storedArtwork(), nil
		},
		updateFunc: func(ctx context.Context, id string, artwork *model.Artwork, expectedUpdatedAt *time.Time) error {
			return artworkserrors.ErrStale
		},
	}
	svc := newTestService(repo, &stubRefCounter{})

	title := "新しい題名"
	stale := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	_, err := svc.Update(context.Background(), "507f1f77bcf86cd799439011", &model.ArtworkUpdate{
		Title:             &title,
		ExpectedUpdatedAt: &stale,
	})
	if !apperrors.HasCode(err, apperrors.CodeStaleWrite) {
		t.Fatalf("expected STALE_WRITE, got %v", err)
	}
}

func TestUpdate_MergeAndSanitize(t *testing.T) {
	var written *model.Artwork
	repo := &mockArtworkRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Artwork, error) {
			return storedArtwork(), nil
		},
		updateFunc: func(ctx context.Context, id string, artwork *model.Artwork, expectedUpdatedAt *time.Time) error {
			written = artwork
			return nil
		},
	}
	svc := newTestService(repo, &stubRefCounter{})

	title := "  都市の  鼓動  "
	if _, err := svc.Update(context.Background(), "507f1f77bcf86cd799439011", &model.ArtworkUpdate{
		Title: &title,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if written == nil {
		t.Fatal("expected repository update")
	}
	if written.Title != "都市の 鼓動" {
		t.Errorf("expected normalized title, got %q", written.Title)
	}
	if written.Artist != "佐藤花子" {
		t.Errorf("unset artist must survive the merge, got %q", written.Artist)
	}
}

// ────────────────────────────────────────────────
// Tests for Create() and ResolveArtwork()
// ────────────────────────────────────────────────

func TestCreate_ValidationFailure(t *testing.T) {
	svc := newTestService(&mockArtworkRepository{}, &stubRefCounter{})

	err := svc.Create(context.Background(), &model.Artwork{Artist: "名無し"})
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR for missing title, got %v", err)
	}
}

func TestResolveArtwork(t *testing.T) {
	repo := &mockArtworkRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Artwork, error) {
			return storedArtwork(), nil
		},
	}
	svc := newTestService(repo, &stubRefCounter{})

	ref, err := svc.ResolveArtwork(context.Background(), "507f1f77bcf86cd799439011")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Title != "静寂の森" || ref.Artist != "佐藤花子" {
		t.Errorf("unexpected summary: %+v", ref)
	}
}
