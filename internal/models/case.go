package models

// CaseStatus is the fixed lifecycle of an immigration case.
type CaseStatus string

const (
	CaseStatusSubmitted         CaseStatus = "SUBMITTED"
	CaseStatusUnderReview       CaseStatus = "UNDER_REVIEW"
	CaseStatusDocumentsRequired CaseStatus = "DOCUMENTS_REQUIRED"
	CaseStatusProcessing        CaseStatus = "PROCESSING"
	CaseStatusApproved          CaseStatus = "APPROVED"
	CaseStatusRejected          CaseStatus = "REJECTED"
	CaseStatusClosed            CaseStatus = "CLOSED"
)

// Valid reports whether s is a member of the fixed enum.
func (s CaseStatus) Valid() bool {
	switch s {
	case CaseStatusSubmitted, CaseStatusUnderReview, CaseStatusDocumentsRequired,
		CaseStatusProcessing, CaseStatusApproved, CaseStatusRejected, CaseStatusClosed:
		return true
	}
	return false
}

// Case is an immigration-service application owned by a client and
// optionally assigned to an agent.
type Case struct {
	BaseModel
	Reference   string     `gorm:"uniqueIndex;not null" json:"reference"`
	ClientID    string     `gorm:"not null;index" json:"client_id"`
	AgentID     *string    `gorm:"index" json:"agent_id"`
	ServiceType string     `gorm:"not null" json:"service_type"` // "work_visa", "study_permit", ...
	Title       string     `gorm:"not null" json:"title"`
	Summary     string     `json:"summary"`
	Status      CaseStatus `gorm:"type:varchar(30);not null;default:'SUBMITTED'" json:"status"`

	// Relations
	Client    *User           `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Agent     *User           `gorm:"foreignKey:AgentID" json:"agent,omitempty"`
	History   []StatusHistory `gorm:"foreignKey:CaseID" json:"history,omitempty"`
	Documents []Document      `gorm:"foreignKey:CaseID" json:"documents,omitempty"`
}

// StatusHistory is the append-only audit record of a case transition.
// Rows are created on each transition and never updated or deleted.
type StatusHistory struct {
	BaseModel
	CaseID    string     `gorm:"not null;index" json:"case_id"`
	Status    CaseStatus `gorm:"type:varchar(30);not null" json:"status"`
	ChangedBy string     `gorm:"not null" json:"changed_by"`
	Note      string     `json:"note"`
}
