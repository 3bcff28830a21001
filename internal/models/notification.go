package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification types created by server-side events.
const (
	NotificationTypeCaseStatus     = "case_status"
	NotificationTypeDocumentReview = "document_review"
	NotificationTypeIncomingCall   = "incoming_call"
	NotificationTypeSystem         = "system"
)

type Notification struct {
	BaseModel
	UserID    string         `gorm:"not null;index" json:"user_id"`
	Type      string         `gorm:"not null" json:"type"`
	Title     string         `gorm:"not null" json:"title"`
	Message   string         `json:"message"`
	ActionURL string         `json:"action_url"`
	Data      datatypes.JSON `gorm:"type:jsonb" json:"data,omitempty"` // {"case_id": "...", "status": "..."}
	IsRead    bool           `gorm:"default:false" json:"is_read"`
	ReadAt    *time.Time     `json:"read_at"`
}
