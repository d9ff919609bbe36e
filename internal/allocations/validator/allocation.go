package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fleetalloc/pkg/logger"
	"fleetalloc/pkg/model"

	"github.com/go-playground/validator/v10"
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

type AllocationValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewAllocationValidator(log *logger.Logger) *AllocationValidator {
	return &AllocationValidator{
		validate: validator.New(),
		logger:   log,
	}
}

// ValidateCreate checks the input shape and rejects past-dated candidates.
func (v *AllocationValidator) ValidateCreate(input *model.AllocationInput) error {
	if err := v.validateShape(input); err != nil {
		return err
	}

	if input.AllocationDate.Before(time.Now()) {
		return ValidationErrors{
			ValidationError{
				Field:   "AllocationDate",
				Message: "allocation_date cannot be in the past",
			},
		}
	}

	return nil
}

// ValidateUpdate checks the input shape only. The proposed-date rule on
// update belongs to the admission engine, which reports it as a conflict
// rather than a validation failure.
func (v *AllocationValidator) ValidateUpdate(input *model.AllocationInput) error {
	return v.validateShape(input)
}

func (v *AllocationValidator) validateShape(input *model.AllocationInput) error {
	if err := v.validate.Struct(input); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			translated := v.translateValidationErrors(validationErrs)
			v.logger.Debug("Allocation input failed validation",
				"employee_id", input.EmployeeID,
				"vehicle_id", input.VehicleID,
				"errors", translated.Error(),
			)
			return translated
		}
		return err
	}
	return nil
}

func (v *AllocationValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "gte":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "lte":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
