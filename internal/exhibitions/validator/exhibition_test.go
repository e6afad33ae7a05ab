package validator

import (
	"strings"
	"testing"

	"galleria/pkg/dates"
	"galleria/pkg/logger"
	"galleria/pkg/model"
)

func newTestValidator() *ExhibitionValidator {
	return NewExhibitionValidator(logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	}))
}

func validExhibition() *model.Exhibition {
	return &model.Exhibition{
		ArtworkID:  "507f1f77bcf86cd799439011",
		LocationID: "507f1f77bcf86cd799439012",
		StartDate:  "2026-09-01",
		EndDate:    "2026-09-30",
		Status:     model.StatusScheduled,
	}
}

func TestValidate_AcceptsWellFormedExhibition(t *testing.T) {
	v := newTestValidator()

	if err := v.Validate(validExhibition()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_CalendarDates(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name    string
		start   dates.Date
		end     dates.Date
		wantErr string
	}{
		{"valid range", "2026-09-01", "2026-09-30", ""},
		{"leap day", "2024-02-29", "2024-03-15", ""},
		{"impossible day", "2026-02-30", "2026-03-15", "calendar date"},
		{"non-leap february 29", "2026-02-29", "2026-03-15", "calendar date"},
		{"missing zero padding", "2026-9-01", "2026-09-30", "calendar date"},
		{"slash format", "2026/09/01", "2026-09-30", "calendar date"},
		{"reversed order", "2026-09-30", "2026-09-01", "after start_date"},
		{"equal dates", "2026-09-01", "2026-09-01", "after start_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exhibition := validExhibition()
			exhibition.StartDate = tt.start
			exhibition.EndDate = tt.end

			err := v.Validate(exhibition)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidate_Status(t *testing.T) {
	v := newTestValidator()

	for _, status := range []string{model.StatusScheduled, model.StatusActive, model.StatusCompleted} {
		exhibition := validExhibition()
		exhibition.Status = status
		if err := v.Validate(exhibition); err != nil {
			t.Errorf("status %q should validate, got %v", status, err)
		}
	}

	exhibition := validExhibition()
	exhibition.Status = "cancelled"
	if err := v.Validate(exhibition); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestValidate_References(t *testing.T) {
	v := newTestValidator()

	exhibition := validExhibition()
	exhibition.ArtworkID = "not-an-object-id"
	err := v.Validate(exhibition)
	if err == nil || !strings.Contains(err.Error(), "ObjectID") {
		t.Errorf("expected ObjectID error, got %v", err)
	}

	exhibition = validExhibition()
	exhibition.LocationID = ""
	if err := v.Validate(exhibition); err == nil {
		t.Error("expected error for missing location reference")
	}
}

func TestValidateUpdate_PartialDates(t *testing.T) {
	v := newTestValidator()

	// A single date pointer cannot be ordered against the stored value here;
	// the service re-validates the merged document.
	start := dates.Date("2026-12-01")
	if err := v.ValidateUpdate(&model.ExhibitionUpdate{StartDate: &start}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	end := dates.Date("2026-11-01")
	err := v.ValidateUpdate(&model.ExhibitionUpdate{StartDate: &start, EndDate: &end})
	if err == nil || !strings.Contains(err.Error(), "after start_date") {
		t.Errorf("expected ordering error when both dates update, got %v", err)
	}

	bad := dates.Date("2026-13-01")
	if err := v.ValidateUpdate(&model.ExhibitionUpdate{StartDate: &bad}); err == nil {
		t.Error("expected error for impossible month")
	}
}
