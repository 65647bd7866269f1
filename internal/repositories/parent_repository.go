package repositories

import (
	"errors"

	"clubreg_backend/internal/models"

	"gorm.io/gorm"
)

var ErrParentNotFound = errors.New("parent not found")

type ParentRepository interface {
	Create(parent *models.Parent) error
	Update(parent *models.Parent) error
	FindByID(id string) (*models.Parent, error)
	FindByEmail(email string) (*models.Parent, error)
	UpdatePasswordHash(id, hash string) error
}

type ParentRepositoryImpl struct {
	db *gorm.DB
}

func NewParentRepository(db *gorm.DB) ParentRepository {
	return &ParentRepositoryImpl{db: db}
}

func (r *ParentRepositoryImpl) Create(parent *models.Parent) error {
	return r.db.Create(parent).Error
}

func (r *ParentRepositoryImpl) Update(parent *models.Parent) error {
	return r.db.Save(parent).Error
}

func (r *ParentRepositoryImpl) FindByID(id string) (*models.Parent, error) {
	var parent models.Parent
	err := r.db.First(&parent, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParentNotFound
		}
		return nil, err
	}
	return &parent, nil
}

func (r *ParentRepositoryImpl) FindByEmail(email string) (*models.Parent, error) {
	var parent models.Parent
	err := r.db.First(&parent, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParentNotFound
		}
		return nil, err
	}
	return &parent, nil
}

func (r *ParentRepositoryImpl) UpdatePasswordHash(id, hash string) error {
	result := r.db.Model(&models.Parent{}).Where("id = ?", id).Update("password_hash", hash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrParentNotFound
	}
	return nil
}
