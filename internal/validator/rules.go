package validator

import (
	"visaflow_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules adds the domain-specific tags.
func registerCustomRules(v *validator.Validate) error {
	if err := v.RegisterValidation("case_status", validateCaseStatus); err != nil {
		return err
	}
	if err := v.RegisterValidation("call_mode", validateCallMode); err != nil {
		return err
	}
	return nil
}

func validateCaseStatus(fl validator.FieldLevel) bool {
	return models.CaseStatus(fl.Field().String()).Valid()
}

func validateCallMode(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case string(models.CallModeVideo), string(models.CallModeAudio):
		return true
	}
	return false
}
