package models

type DocumentStatus string

const (
	DocumentStatusPending  DocumentStatus = "pending"
	DocumentStatusApproved DocumentStatus = "approved"
	DocumentStatusRejected DocumentStatus = "rejected"
)

func (s DocumentStatus) Valid() bool {
	switch s {
	case DocumentStatusPending, DocumentStatusApproved, DocumentStatusRejected:
		return true
	}
	return false
}

// Document is a file attached to a case. The file body lives in external
// storage; this row holds the metadata and the review state.
type Document struct {
	BaseModel
	CaseID     string         `gorm:"not null;index" json:"case_id"`
	UploaderID string         `gorm:"not null" json:"uploader_id"`
	Name       string         `gorm:"not null" json:"name"`
	FileURL    string         `gorm:"not null" json:"file_url"`
	MimeType   string         `json:"mime_type"`
	Size       int64          `json:"size"`
	Status     DocumentStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	ReviewNote string         `json:"review_note"`
}
