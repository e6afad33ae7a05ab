package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"galleria/pkg/dates"
	"galleria/pkg/logger"
	"galleria/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type ExhibitionValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewExhibitionValidator(log *logger.Logger) *ExhibitionValidator {
	v := validator.New()

	if err := v.RegisterValidation("calendardate", validateCalendarDate); err != nil {
		log.Fatal("Failed to register 'calendardate' validator",
			"error", err,
		)
	}

	return &ExhibitionValidator{
		validate: v,
		logger:   log,
	}
}

// validateCalendarDate accepts ISO YYYY-MM-DD strings that survive a
// round-trip through time.Parse, so "2024-02-30" and "2024-6-01" both fail.
func validateCalendarDate(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(dates.Date)
	if !ok {
		return false
	}
	return value.IsValid()
}

func (v *ExhibitionValidator) Validate(exhibition *model.Exhibition) error {
	if err := v.validate.Struct(exhibition); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}

	if !exhibition.StartDate.Before(exhibition.EndDate) {
		return ValidationErrors{
			ValidationError{
				Field:   "EndDate",
				Message: "end_date must be after start_date",
			},
		}
	}

	return nil
}

func (v *ExhibitionValidator) ValidateUpdate(update *model.ExhibitionUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}

	if update.StartDate != nil && update.EndDate != nil {
		if !update.StartDate.Before(*update.EndDate) {
			return ValidationErrors{
				ValidationError{
					Field:   "EndDate",
					Message: "end_date must be after start_date",
				},
			}
		}
	}

	return nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "calendardate":
			message = fmt.Sprintf("%s must be a calendar date in YYYY-MM-DD format", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
