package service

import (
	"context"
	"testing"
	"time"

	locationserrors "galleria/internal/locations/errors"
	"galleria/internal/locations/validator"
	apperrors "galleria/pkg/errors"
	"galleria/pkg/logger"
	"galleria/pkg/model"
)

// ────────────────────────────────────────────────
// Mocks
// ────────────────────────────────────────────────

type mockLocationRepository struct {
	createFunc   func(ctx context.Context, location *model.Location) error
	findByIDFunc func(ctx context.Context, id string) (*model.Location, error)
	updateFunc   func(ctx context.Context, id string, location *model.Location, expectedUpdatedAt *time.Time) error

	deleteCalls int
}

func (m *mockLocationRepository) Create(ctx context.Context, location *model.Location) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, location)
	}
	location.ID = "507f1f77bcf86cd799439012"
	return nil
}

func (m *mockLocationRepository) FindByID(ctx context.Context, id string) (*model.Location, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, locationserrors.ErrNotFound
}

func (m *mockLocationRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Location, error) {
	return []*model.Location{}, nil
}

func (m *mockLocationRepository) Update(ctx context.Context, id string, location *model.Location, expectedUpdatedAt *time.Time) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, location, expectedUpdatedAt)
	}
	return nil
}

func (m *mockLocationRepository) Delete(ctx context.Context, id string) error {
	m.deleteCalls++
	return nil
}

func (m *mockLocationRepository) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

type stubRefCounter struct {
	count int64
}

func (s *stubRefCounter) CountByLocation(ctx context.Context, locationID string) (int64, error) {
	return s.count, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
}

func newTestService(repo *mockLocationRepository, refs *stubRefCounter) LocationService {
	log := testLogger()
	return NewLocationService(repo, refs, validator.NewLocationValidator(log), log)
}

func storedLocation() *model.Location {
	return &model.Location{
		ID:          "507f1f77bcf86cd799439012",
		Width:       100,
		Height:      80,
		Description: "エントランス正面",
		UpdatedAt:   time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
	}
}

// ────────────────────────────────────────────────
// Tests
// ────────────────────────────────────────────────

func TestDelete_BlockedByReferences(t *testing.T) {
	repo := &mockLocationRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Location, error) {
			return storedLocation(), nil
		},
	}
	svc := newTestService(repo, &stubRefCounter{count: 1})

	err := svc.Delete(context.Background(), "507f1f77bcf86cd799439012")
	if !apperrors.HasCode(err, apperrors.CodeReferenceConflict) {
		t.Fatalf("expected REFERENCE_CONFLICT, got %v", err)
	}
	if repo.deleteCalls != 0 {
		t.Error("delete must not reach the repository while references exist")
	}
}

func TestDelete_AllowedAtZeroReferences(t *testing.T) {
	repo := &mockLocationRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Location, error) {
			return storedLocation(), nil
		},
	}
	svc := newTestService(repo, &stubRefCounter{count: 0})

	if err := svc.Delete(context.Background(), "507f1f77bcf86cd799439012"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.deleteCalls != 1 {
		t.Errorf("expected repository delete, got %d calls", repo.deleteCalls)
	}
}

func TestCreate_DimensionLimits(t *testing.T) {
	svc := newTestService(&mockLocationRepository{}, &stubRefCounter{})

	tests := []struct {
		name   string
		width  int
		height int
		wantOK bool
	}{
		{"valid", 100, 80, true},
		{"zero width", 0, 80, false},
		{"negative height", 100, -1, false},
		{"width over cap", model.MaxLocationDimension + 1, 80, false},
		{"at cap", model.MaxLocationDimension, model.MaxLocationDimension, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Create(context.Background(), &model.Location{
				Width:  tt.width,
				Height: tt.height,
			})
			if tt.wantOK && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.wantOK && !apperrors.HasCode(err, apperrors.CodeValidation) {
				t.Fatalf("expected VALIDATION_ERROR, got %v", err)
			}
		})
	}
}

func TestUpdate_StaleToken(t *testing.T) {
	repo := &mockLocationRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Location, error) {
			return storedLocation(), nil
		},
		updateFunc: func(ctx context.Context, id string, location *model.Location, expectedUpdatedAt *time.Time) error {
			return locationserrors.ErrStale
		},
	}
	svc := newTestService(repo, &stubRefCounter{})

	width := 120
	stale := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	_, err := svc.Update(context.Background(), "507f1f77bcf86cd799439012", &model.LocationUpdate{
		Width:             &width,
		ExpectedUpdatedAt: &stale,
	})
	if !apperrors.HasCode(err, apperrors.CodeStaleWrite) {
		t.Fatalf("expected STALE_WRITE, got %v", err)
	}
}

func TestResolveLocation(t *testing.T) {
	repo := &mockLocationRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Location, error) {
			return storedLocation(), nil
		},
	}
	svc := newTestService(repo, &stubRefCounter{})

	ref, err := svc.ResolveLocation(context.Background(), "507f1f77bcf86cd799439012")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Width != 100 || ref.Height != 80 {
		t.Errorf("unexpected summary: %+v", ref)
	}
}
