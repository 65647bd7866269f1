package repositories

import (
	"errors"
	"time"

	"clubreg_backend/internal/models"

	"gorm.io/gorm"
)

var ErrPlayerNotFound = errors.New("player not found")

type PlayerRepository interface {
	Create(player *models.Player) error
	FindByID(id string) (*models.Player, error)
	// FindByParentNameDOB backs the defensive pre-insert check in the merge
	// flow (crash window between player insert and merged_at).
	FindByParentNameDOB(parentID, firstName, lastName string, dob time.Time) (*models.Player, error)
	UpdateStatus(id string, status models.PlayerStatus) error
	// SetGatewayCustomerID only fills an empty column, so a concurrent first
	// checkout cannot clobber an already-persisted customer reference.
	SetGatewayCustomerID(id, customerID string) error
}

type PlayerRepositoryImpl struct {
	db *gorm.DB
}

func NewPlayerRepository(db *gorm.DB) PlayerRepository {
	return &PlayerRepositoryImpl{db: db}
}

func (r *PlayerRepositoryImpl) Create(player *models.Player) error {
	return r.db.Create(player).Error
}

func (r *PlayerRepositoryImpl) FindByID(id string) (*models.Player, error) {
	var player models.Player
	err := r.db.First(&player, "id = ? AND is_deleted = ?", id, false).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return &player, nil
}

func (r *PlayerRepositoryImpl) FindByParentNameDOB(parentID, firstName, lastName string, dob time.Time) (*models.Player, error) {
	var player models.Player
	err := r.db.First(&player,
		"parent_id = ? AND first_name = ? AND last_name = ? AND date_of_birth = ? AND is_deleted = ?",
		parentID, firstName, lastName, dob, false).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return &player, nil
}

func (r *PlayerRepositoryImpl) UpdateStatus(id string, status models.PlayerStatus) error {
	result := r.db.Model(&models.Player{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPlayerNotFound
	}
	return nil
}

func (r *PlayerRepositoryImpl) SetGatewayCustomerID(id, customerID string) error {
	return r.db.Model(&models.Player{}).
		Where("id = ? AND (gateway_customer_id IS NULL OR gateway_customer_id = '')", id).
		Update("gateway_customer_id", customerID).Error
}
