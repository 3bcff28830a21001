package repositories

import (
	"errors"

	"visaflow_backend/internal/models"

	"gorm.io/gorm"
)

var ErrDocumentNotFound = errors.New("document not found")

type DocumentRepository interface {
	Create(doc *models.Document) error
	FindByID(id string) (*models.Document, error)
	FindByCaseID(caseID string) ([]models.Document, error)
	UpdateStatus(id string, status models.DocumentStatus, note string) error
	Delete(id string) error
}

type DocumentRepositoryImpl struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &DocumentRepositoryImpl{db: db}
}

func (r *DocumentRepositoryImpl) Create(doc *models.Document) error {
	return r.db.Create(doc).Error
}

func (r *DocumentRepositoryImpl) FindByID(id string) (*models.Document, error) {
	var doc models.Document
	err := r.db.First(&doc, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepositoryImpl) FindByCaseID(caseID string) ([]models.Document, error) {
	var docs []models.Document
	err := r.db.Where("case_id = ?", caseID).Order("created_at DESC").Find(&docs).Error
	return docs, err
}

func (r *DocumentRepositoryImpl) UpdateStatus(id string, status models.DocumentStatus, note string) error {
	result := r.db.Model(&models.Document{}).Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "review_note": note})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

func (r *DocumentRepositoryImpl) Delete(id string) error {
	return r.db.Delete(&models.Document{}, "id = ?", id).Error
}
