package repositories

import (
	"errors"

	"visaflow_backend/internal/models"

	"gorm.io/gorm"
)

type DeviceTokenRepository interface {
	Upsert(token *models.DeviceToken) error
	FindByUserID(userID string) ([]models.DeviceToken, error)
	DeleteByToken(userID, token string) error
	DeleteByUserID(userID string) error
}

type DeviceTokenRepositoryImpl struct {
	db *gorm.DB
}

func NewDeviceTokenRepository(db *gorm.DB) DeviceTokenRepository {
	return &DeviceTokenRepositoryImpl{db: db}
}

// Upsert re-registers a token that already exists, moving it to the
// current user. Push tokens migrate between accounts on shared devices.
func (r *DeviceTokenRepositoryImpl) Upsert(token *models.DeviceToken) error {
	var existing models.DeviceToken
	err := r.db.First(&existing, "token = ?", token.Token).Error
	if err == nil {
		existing.UserID = token.UserID
		existing.Platform = token.Platform
		return r.db.Save(&existing).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.Create(token).Error
}

func (r *DeviceTokenRepositoryImpl) FindByUserID(userID string) ([]models.DeviceToken, error) {
	var tokens []models.DeviceToken
	err := r.db.Where("user_id = ?", userID).Find(&tokens).Error
	return tokens, err
}

func (r *DeviceTokenRepositoryImpl) DeleteByToken(userID, token string) error {
	return r.db.Delete(&models.DeviceToken{}, "user_id = ? AND token = ?", userID, token).Error
}

func (r *DeviceTokenRepositoryImpl) DeleteByUserID(userID string) error {
	return r.db.Delete(&models.DeviceToken{}, "user_id = ?", userID).Error
}
