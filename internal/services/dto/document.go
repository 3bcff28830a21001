package dto

import (
	"time"

	"visaflow_backend/internal/models"
)

type CreateDocumentRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=255"`
	FileURL  string `json:"file_url" validate:"required,url"`
	MimeType string `json:"mime_type" validate:"omitempty,max=100"`
	Size     int64  `json:"size" validate:"omitempty,min=0"`
}

type ReviewDocumentRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
	Note   string `json:"note" validate:"omitempty,max=1000"`
}

type DocumentResponse struct {
	ID         string                `json:"id"`
	CaseID     string                `json:"case_id"`
	UploaderID string                `json:"uploader_id"`
	Name       string                `json:"name"`
	FileURL    string                `json:"file_url"`
	MimeType   string                `json:"mime_type"`
	Size       int64                 `json:"size"`
	Status     models.DocumentStatus `json:"status"`
	ReviewNote string                `json:"review_note,omitempty"`
	CreatedAt  time.Time             `json:"created_at"`
}
