package repositories

import (
	"errors"
	"time"

	"clubreg_backend/internal/models"

	"gorm.io/gorm"
)

var ErrRegistrationNotFound = errors.New("pending registration not found")

type RegistrationRepository interface {
	Create(reg *models.PendingRegistration) error
	Update(reg *models.PendingRegistration) error
	FindByID(id string) (*models.PendingRegistration, error)
	// FindActiveByEmail returns the single non-merged row for an email.
	FindActiveByEmail(email string) (*models.PendingRegistration, error)
	// MarkMerged records the merge exactly once. Returns false when another
	// caller already merged the row.
	MarkMerged(id, parentID, playerID string, now time.Time) (bool, error)
}

type RegistrationRepositoryImpl struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &RegistrationRepositoryImpl{db: db}
}

func (r *RegistrationRepositoryImpl) Create(reg *models.PendingRegistration) error {
	return r.db.Create(reg).Error
}

func (r *RegistrationRepositoryImpl) Update(reg *models.PendingRegistration) error {
	return r.db.Save(reg).Error
}

func (r *RegistrationRepositoryImpl) FindByID(id string) (*models.PendingRegistration, error) {
	var reg models.PendingRegistration
	err := r.db.First(&reg, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	return &reg, nil
}

func (r *RegistrationRepositoryImpl) FindActiveByEmail(email string) (*models.PendingRegistration, error) {
	var reg models.PendingRegistration
	err := r.db.First(&reg, "email = ? AND merged_at IS NULL", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	return &reg, nil
}

func (r *RegistrationRepositoryImpl) MarkMerged(id, parentID, playerID string, now time.Time) (bool, error) {
	result := r.db.Model(&models.PendingRegistration{}).
		Where("id = ? AND merged_at IS NULL", id).
		Updates(map[string]interface{}{
			"merged_at": now,
			"parent_id": parentID,
			"player_id": playerID,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
