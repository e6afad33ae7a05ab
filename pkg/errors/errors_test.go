package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	plain := New(CodeConflict, "range already booked", http.StatusConflict)
	if got := plain.Error(); got != "CONFLICT: range already booked" {
		t.Errorf("unexpected message: %q", got)
	}

	cause := errors.New("write failed")
	wrapped := Wrap(cause, CodeInternal, "storage failure", http.StatusInternalServerError)
	if got := wrapped.Error(); got != "INTERNAL_ERROR: storage failure (caused by: write failed)" {
		t.Errorf("unexpected wrapped message: %q", got)
	}
	if !errors.Is(wrapped, cause) {
		t.Error("wrapped error should unwrap to its cause")
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"not found", NotFound("Exhibition"), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("bad input", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("missing id"), CodeInvalidInput, http.StatusBadRequest},
		{"conflict", Conflict("overlapping range"), CodeConflict, http.StatusConflict},
		{"stale write", StaleWrite("Exhibition"), CodeStaleWrite, http.StatusConflict},
		{"reference conflict", ReferenceConflict("Artwork", 2), CodeReferenceConflict, http.StatusConflict},
		{"internal", Internal("boom", nil), CodeInternal, http.StatusInternalServerError},
		{"timeout", Timeout("gave up"), CodeTimeout, http.StatusGatewayTimeout},
		{"unavailable", Unavailable("exhibition scheduling"), CodeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", tt.err.Code, tt.wantCode)
			}
			if tt.err.StatusCode() != tt.wantStatus {
				t.Errorf("status = %d, want %d", tt.err.StatusCode(), tt.wantStatus)
			}
		})
	}
}

func TestStaleWriteDistinctFromConflict(t *testing.T) {
	stale := StaleWrite("Exhibition")
	overlap := Conflict("range already booked")

	if stale.StatusCode() != overlap.StatusCode() {
		t.Error("both conflict kinds should map to the same HTTP status")
	}
	if stale.Code == overlap.Code {
		t.Error("stale writes and overlap conflicts must stay distinguishable by code")
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Exhibition", "abc123")
	if err.Details["id"] != "abc123" {
		t.Errorf("details id = %v", err.Details["id"])
	}
	if err.Details["resource"] != "Exhibition" {
		t.Errorf("details resource = %v", err.Details["resource"])
	}
}

func TestReferenceConflictDetails(t *testing.T) {
	err := ReferenceConflict("Location", 3)
	if err.Details["referencing_exhibitions"] != int64(3) {
		t.Errorf("details = %v", err.Details)
	}
}

func TestAsAppError(t *testing.T) {
	appErr := Conflict("x")
	if AsAppError(appErr) != appErr {
		t.Error("AsAppError should return the same AppError")
	}

	raw := errors.New("driver exploded")
	converted := AsAppError(raw)
	if converted.Code != CodeInternal {
		t.Errorf("raw errors should convert to internal, got %q", converted.Code)
	}
	if !errors.Is(converted, raw) {
		t.Error("converted error should keep the cause")
	}
}

func TestHasCode(t *testing.T) {
	if !HasCode(StaleWrite("Exhibition"), CodeStaleWrite) {
		t.Error("HasCode should match")
	}
	if HasCode(errors.New("plain"), CodeStaleWrite) {
		t.Error("HasCode should reject non-AppErrors")
	}
	if HasCode(nil, CodeStaleWrite) {
		t.Error("HasCode should reject nil")
	}
}
