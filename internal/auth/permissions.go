package auth

import (
	"errors"

	"visaflow_backend/internal/models"
)

// ValidateRole rejects roles outside the fixed set.
func ValidateRole(role models.UserRole) error {
	switch role {
	case models.UserRoleClient, models.UserRoleAgent, models.UserRoleAdmin:
		return nil
	default:
		return errors.New("invalid role")
	}
}
