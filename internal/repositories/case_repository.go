package repositories

import (
	"errors"

	"visaflow_backend/internal/models"

	"gorm.io/gorm"
)

var ErrCaseNotFound = errors.New("case not found")

type CaseFilter struct {
	ClientID    string
	AgentID     string
	Status      models.CaseStatus
	ServiceType string
	Page        int
	PageSize    int
}

type CaseRepository interface {
	Create(c *models.Case) error
	FindByID(id string) (*models.Case, error)
	FindWithFilter(filter CaseFilter) ([]models.Case, int64, error)
	AssignAgent(caseID, agentID string) error

	// UpdateStatusWithHistory persists the new status and appends the
	// audit row in a single transaction.
	UpdateStatusWithHistory(caseID string, status models.CaseStatus, history *models.StatusHistory) error

	FindHistory(caseID string) ([]models.StatusHistory, error)
}

type CaseRepositoryImpl struct {
	db *gorm.DB
}

func NewCaseRepository(db *gorm.DB) CaseRepository {
	return &CaseRepositoryImpl{db: db}
}

func (r *CaseRepositoryImpl) Create(c *models.Case) error {
	return r.db.Create(c).Error
}

func (r *CaseRepositoryImpl) FindByID(id string) (*models.Case, error) {
	var c models.Case
	err := r.db.Preload("Client").Preload("Agent").First(&c, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCaseNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CaseRepositoryImpl) FindWithFilter(filter CaseFilter) ([]models.Case, int64, error) {
	query := r.db.Model(&models.Case{})

	if filter.ClientID != "" {
		query = query.Where("client_id = ?", filter.ClientID)
	}
	if filter.AgentID != "" {
		query = query.Where("agent_id = ?", filter.AgentID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ServiceType != "" {
		query = query.Where("service_type = ?", filter.ServiceType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	var cases []models.Case
	err := query.Order("created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&cases).Error
	return cases, total, err
}

func (r *CaseRepositoryImpl) AssignAgent(caseID, agentID string) error {
	result := r.db.Model(&models.Case{}).Where("id = ?", caseID).Update("agent_id", agentID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCaseNotFound
	}
	return nil
}

func (r *CaseRepositoryImpl) UpdateStatusWithHistory(caseID string, status models.CaseStatus, history *models.StatusHistory) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Case{}).Where("id = ?", caseID).Update("status", status)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCaseNotFound
		}
		return tx.Create(history).Error
	})
}

func (r *CaseRepositoryImpl) FindHistory(caseID string) ([]models.StatusHistory, error) {
	var history []models.StatusHistory
	err := r.db.Where("case_id = ?", caseID).Order("created_at ASC").Find(&history).Error
	return history, err
}
