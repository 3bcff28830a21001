package dto

import (
	"time"

	"visaflow_backend/internal/models"
)

type CreateCaseRequest struct {
	ServiceType string `json:"service_type" validate:"required,min=2,max=50"`
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Summary     string `json:"summary" validate:"omitempty,max=2000"`
}

type UpdateCaseStatusRequest struct {
	Status string `json:"status" validate:"required,case_status"`
	Note   string `json:"note" validate:"omitempty,max=1000"`
}

type AssignAgentRequest struct {
	AgentID string `json:"agent_id" validate:"required"`
}

type CaseCriteria struct {
	Status      string
	ServiceType string
	Page        int
	PageSize    int
}

type CaseResponse struct {
	ID          string            `json:"id"`
	Reference   string            `json:"reference"`
	ClientID    string            `json:"client_id"`
	AgentID     *string           `json:"agent_id"`
	ServiceType string            `json:"service_type"`
	Title       string            `json:"title"`
	Summary     string            `json:"summary"`
	Status      models.CaseStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type CaseListResponse struct {
	Cases      []*CaseResponse `json:"cases"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

type StatusHistoryResponse struct {
	ID        string            `json:"id"`
	Status    models.CaseStatus `json:"status"`
	ChangedBy string            `json:"changed_by"`
	Note      string            `json:"note"`
	CreatedAt time.Time         `json:"created_at"`
}
