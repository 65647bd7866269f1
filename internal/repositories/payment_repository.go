package repositories

import (
	"errors"
	"time"

	"clubreg_backend/internal/models"

	"gorm.io/gorm"
)

var ErrPaymentNotFound = errors.New("payment not found")

type PaymentRepository interface {
	Create(payment *models.Payment) error
	FindByGatewaySessionID(sessionID string) (*models.Payment, error)
	FindLatestByPlayerID(playerID string) (*models.Payment, error)
	// MarkPaid transitions pending->paid. The conditional update is the
	// reconciliation concurrency guard: exactly one racing caller wins.
	MarkPaid(sessionID string, paidAt time.Time) (bool, error)
	// MarkFailed transitions pending->failed, same guard.
	MarkFailed(sessionID string) (bool, error)
}

type PaymentRepositoryImpl struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &PaymentRepositoryImpl{db: db}
}

func (r *PaymentRepositoryImpl) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

func (r *PaymentRepositoryImpl) FindByGatewaySessionID(sessionID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.First(&payment, "gateway_session_id = ?", sessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepositoryImpl) FindLatestByPlayerID(playerID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.Order("created_at DESC").First(&payment, "player_id = ?", playerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepositoryImpl) MarkPaid(sessionID string, paidAt time.Time) (bool, error) {
	result := r.db.Model(&models.Payment{}).
		Where("gateway_session_id = ? AND status = ?", sessionID, models.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":  models.PaymentStatusPaid,
			"paid_at": paidAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PaymentRepositoryImpl) MarkFailed(sessionID string) (bool, error) {
	result := r.db.Model(&models.Payment{}).
		Where("gateway_session_id = ? AND status = ?", sessionID, models.PaymentStatusPending).
		Update("status", models.PaymentStatusFailed)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
