package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"

	"galleria/pkg/dates"
	apperrors "galleria/pkg/errors"
	"galleria/pkg/logger"
	"galleria/pkg/model"
)

// Mock service for testing
type mockExhibitionService struct {
	createFunc            func(ctx context.Context, exhibition *model.Exhibition) error
	getByIDFunc           func(ctx context.Context, id string) (*model.ExhibitionDetail, error)
	getAllFunc            func(ctx context.Context, filter model.ExhibitionFilter, limit int, offset int64) ([]*model.Exhibition, int64, error)
	updateFunc            func(ctx context.Context, id string, updates *model.ExhibitionUpdate) (*model.Exhibition, error)
	deleteFunc            func(ctx context.Context, id string) error
	checkAvailabilityFunc func(ctx context.Context, locationID string, start, end dates.Date, excludeID string) (*model.Availability, error)
}

func (m *mockExhibitionService) Create(ctx context.Context, exhibition *model.Exhibition) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, exhibition)
	}
	return nil
}

func (m *mockExhibitionService) GetByID(ctx context.Context, id string) (*model.ExhibitionDetail, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, apperrors.NotFoundWithID("Exhibition", id)
}

func (m *mockExhibitionService) GetAll(ctx context.Context, filter model.ExhibitionFilter, limit int, offset int64) ([]*model.Exhibition, int64, error) {
	if m.getAllFunc != nil {
		return m.getAllFunc(ctx, filter, limit, offset)
	}
	return []*model.Exhibition{}, 0, nil
}

func (m *mockExhibitionService) GetCurrent(ctx context.Context) ([]*model.Exhibition, error) {
	return []*model.Exhibition{}, nil
}

func (m *mockExhibitionService) Update(ctx context.Context, id string, updates *model.ExhibitionUpdate) (*model.Exhibition, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, updates)
	}
	return nil, nil
}

func (m *mockExhibitionService) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockExhibitionService) CheckAvailability(ctx context.Context, locationID string, start, end dates.Date, excludeID string) (*model.Availability, error) {
	if m.checkAvailabilityFunc != nil {
		return m.checkAvailabilityFunc(ctx, locationID, start, end, excludeID)
	}
	return &model.Availability{Available: true}, nil
}

func (m *mockExhibitionService) GetLocationSchedule(ctx context.Context, locationID string, year, month int) ([]*model.Exhibition, error) {
	return []*model.Exhibition{}, nil
}

func testHandler(svc *mockExhibitionService) *ExhibitionHandler {
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
	return NewExhibitionHandler(svc, log)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return body
}

func TestCreate_Returns201(t *testing.T) {
	svc := &mockExhibitionService{
		createFunc: func(ctx context.Context, exhibition *model.Exhibition) error {
			exhibition.ID = "507f1f77bcf86cd799439099"
			return nil
		},
	}
	handler := testHandler(svc)

	payload := `{"artwork_id":"507f1f77bcf86cd799439011","location_id":"507f1f77bcf86cd799439012","start_date":"2026-09-01","end_date":"2026-09-30"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/exhibitions", strings.NewReader(payload))
	w := httptest.NewRecorder()

	handler.Create(w, req, httprouter.Params{})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", w.Code)
	}
}

func TestCreate_MalformedBody(t *testing.T) {
	handler := testHandler(&mockExhibitionService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/exhibitions", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	handler.Create(w, req, httprouter.Params{})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestCreate_IgnoresClientSuppliedID(t *testing.T) {
	// A client-chosen id would be stored as a string _id that ObjectID
	// lookups can never match, leaving an undeletable document blocking its
	// location. The handler strips it so the repository assigns one.
	var captured string
	svc := &mockExhibitionService{
		createFunc: func(ctx context.Context, exhibition *model.Exhibition) error {
			captured = exhibition.ID
			exhibition.ID = "507f1f77bcf86cd799439099"
			return nil
		},
	}
	handler := testHandler(svc)

	payload := `{"id":"phantom-id","artwork_id":"507f1f77bcf86cd799439011","location_id":"507f1f77bcf86cd799439012","start_date":"2026-09-01","end_date":"2026-09-30"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/exhibitions", strings.NewReader(payload))
	w := httptest.NewRecorder()

	handler.Create(w, req, httprouter.Params{})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", w.Code)
	}
	if captured != "" {
		t.Errorf("client-supplied id must be cleared before create, got %q", captured)
	}
}

func TestCreate_RejectsUnknownFields(t *testing.T) {
	created := false
	svc := &mockExhibitionService{
		createFunc: func(ctx context.Context, exhibition *model.Exhibition) error {
			created = true
			return nil
		},
	}
	handler := testHandler(svc)

	payload := `{"artwork_id":"507f1f77bcf86cd799439011","location_id":"507f1f77bcf86cd799439012","strat_date":"2026-09-01","end_date":"2026-09-30"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/exhibitions", strings.NewReader(payload))
	w := httptest.NewRecorder()

	handler.Create(w, req, httprouter.Params{})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for unknown field, got %d", w.Code)
	}
	if created {
		t.Error("create must not run on a body with unknown fields")
	}
	if body := decodeError(t, w); body["code"] != apperrors.CodeInvalidInput {
		t.Errorf("expected code INVALID_INPUT, got %v", body["code"])
	}
}

func TestUpdate_RejectsUnknownFields(t *testing.T) {
	updated := false
	svc := &mockExhibitionService{
		updateFunc: func(ctx context.Context, id string, updates *model.ExhibitionUpdate) (*model.Exhibition, error) {
			updated = true
			return &model.Exhibition{}, nil
		},
	}
	handler := testHandler(svc)

	// A typoed key must fail the request, not silently leave the stored
	// value unchanged.
	req := httptest.NewRequest(http.MethodPut, "/api/v1/exhibitions/id/507f1f77bcf86cd799439050",
		strings.NewReader(`{"strat_date":"2026-10-01"}`))
	w := httptest.NewRecorder()

	handler.Update(w, req, httprouter.Params{{Key: "id", Value: "507f1f77bcf86cd799439050"}})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for unknown field, got %d", w.Code)
	}
	if updated {
		t.Error("update must not run on a body with unknown fields")
	}
}

func TestCreate_ConflictMapsTo409(t *testing.T) {
	svc := &mockExhibitionService{
		createFunc: func(ctx context.Context, exhibition *model.Exhibition) error {
			return apperrors.Conflict("Exhibition dates overlap with existing exhibition (2026-09-15 - 2026-10-15)").
				WithDetails(map[string]any{"conflicting_exhibition_id": "507f1f77bcf86cd799439020"})
		},
	}
	handler := testHandler(svc)

	payload := `{"artwork_id":"507f1f77bcf86cd799439011","location_id":"507f1f77bcf86cd799439012","start_date":"2026-09-01","end_date":"2026-09-30"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/exhibitions", strings.NewReader(payload))
	w := httptest.NewRecorder()

	handler.Create(w, req, httprouter.Params{})

	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", w.Code)
	}
	body := decodeError(t, w)
	if body["code"] != apperrors.CodeConflict {
		t.Errorf("expected code CONFLICT, got %v", body["code"])
	}
	details, _ := body["details"].(map[string]any)
	if details["conflicting_exhibition_id"] != "507f1f77bcf86cd799439020" {
		t.Errorf("expected conflicting exhibition in details, got %v", body["details"])
	}
}

func TestCreate_LockContentionMapsTo503(t *testing.T) {
	svc := &mockExhibitionService{
		createFunc: func(ctx context.Context, exhibition *model.Exhibition) error {
			return apperrors.Unavailable("This location")
		},
	}
	handler := testHandler(svc)

	payload := `{"artwork_id":"507f1f77bcf86cd799439011","location_id":"507f1f77bcf86cd799439012","start_date":"2026-09-01","end_date":"2026-09-30"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/exhibitions", strings.NewReader(payload))
	w := httptest.NewRecorder()

	handler.Create(w, req, httprouter.Params{})

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", w.Code)
	}
	if body := decodeError(t, w); body["code"] != apperrors.CodeUnavailable {
		t.Errorf("expected code SERVICE_UNAVAILABLE, got %v", body["code"])
	}
}

func TestUpdate_StaleWriteMapsTo409(t *testing.T) {
	svc := &mockExhibitionService{
		updateFunc: func(ctx context.Context, id string, updates *model.ExhibitionUpdate) (*model.Exhibition, error) {
			return nil, apperrors.StaleWrite("Exhibition")
		},
	}
	handler := testHandler(svc)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/exhibitions/id/507f1f77bcf86cd799439050",
		strings.NewReader(`{"notes":"late edit","updated_at":"2026-08-01T12:00:00Z"}`))
	w := httptest.NewRecorder()

	handler.Update(w, req, httprouter.Params{{Key: "id", Value: "507f1f77bcf86cd799439050"}})

	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", w.Code)
	}
	if body := decodeError(t, w); body["code"] != apperrors.CodeStaleWrite {
		t.Errorf("expected code STALE_WRITE, got %v", body["code"])
	}
}

func TestGetByID_NotFoundMapsTo404(t *testing.T) {
	handler := testHandler(&mockExhibitionService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/exhibitions/id/507f1f77bcf86cd799439050", nil)
	w := httptest.NewRecorder()

	handler.GetByID(w, req, httprouter.Params{{Key: "id", Value: "507f1f77bcf86cd799439050"}})

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
	if body := decodeError(t, w); body["code"] != apperrors.CodeNotFound {
		t.Errorf("expected code NOT_FOUND, got %v", body["code"])
	}
}

func TestDelete_Returns204(t *testing.T) {
	handler := testHandler(&mockExhibitionService{})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/exhibitions/id/507f1f77bcf86cd799439050", nil)
	w := httptest.NewRecorder()

	handler.Delete(w, req, httprouter.Params{{Key: "id", Value: "507f1f77bcf86cd799439050"}})

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", w.Code)
	}
}

func TestGetAll_ParsesFilter(t *testing.T) {
	var captured model.ExhibitionFilter
	svc := &mockExhibitionService{
		getAllFunc: func(ctx context.Context, filter model.ExhibitionFilter, limit int, offset int64) ([]*model.Exhibition, int64, error) {
			captured = filter
			return []*model.Exhibition{}, 0, nil
		},
	}
	handler := testHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/exhibitions?status=active&current=true", nil)
	w := httptest.NewRecorder()

	handler.GetAll(w, req, httprouter.Params{})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if captured.Status != model.StatusActive || !captured.CurrentOnly {
		t.Errorf("unexpected filter: %+v", captured)
	}
}
