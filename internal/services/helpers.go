package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

func calculateTotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		pages++
	}
	return pages
}

func generateSecureToken() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}

// generateCaseReference builds a human-readable case number like
// VF-20260831-4F2A1C. Uniqueness is enforced by the DB constraint.
func generateCaseReference() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("VF-%s-%s", time.Now().UTC().Format("20060102"), suffix)
}
