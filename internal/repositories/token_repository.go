package repositories

import (
	"errors"
	"time"

	"clubreg_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenUsedOrExpired = errors.New("token already used or expired")
)

type TokenRepository interface {
	Create(token *models.Token) error
	FindByValue(value string) (*models.Token, error)
	// Consume atomically marks the token used. Exactly one caller ever
	// succeeds for a given value; losers get ErrTokenUsedOrExpired. The
	// purpose is part of the guard so a token can never be burned through
	// the wrong endpoint.
	Consume(value string, purpose models.TokenPurpose, now time.Time) (*models.Token, error)
	// RevokeBySubject invalidates all unused tokens of a purpose for a
	// subject, e.g. when a re-registration issues a replacement link.
	RevokeBySubject(purpose models.TokenPurpose, subjectID string, now time.Time) error
}

type TokenRepositoryImpl struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &TokenRepositoryImpl{db: db}
}

func (r *TokenRepositoryImpl) Create(token *models.Token) error {
	return r.db.Create(token).Error
}

func (r *TokenRepositoryImpl) FindByValue(value string) (*models.Token, error) {
	var token models.Token
	err := r.db.First(&token, "value = ?", value).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

func (r *TokenRepositoryImpl) Consume(value string, purpose models.TokenPurpose, now time.Time) (*models.Token, error) {
	// Single conditional UPDATE, not read-then-write: the WHERE clause is the
	// concurrency guard across stateless instances.
	result := r.db.Model(&models.Token{}).
		Where("value = ? AND purpose = ? AND used_at IS NULL AND expires_at > ?", value, purpose, now).
		Update("used_at", now)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Lost the race, expired, or unknown. Distinguish only for callers
		// that care; both map to one client-facing message anyway.
		var existing models.Token
		err := r.db.First(&existing, "value = ?", value).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		if err != nil {
			return nil, err
		}
		return nil, ErrTokenUsedOrExpired
	}

	return r.FindByValue(value)
}

func (r *TokenRepositoryImpl) RevokeBySubject(purpose models.TokenPurpose, subjectID string, now time.Time) error {
	return r.db.Model(&models.Token{}).
		Where("purpose = ? AND subject_id = ? AND used_at IS NULL", purpose, subjectID).
		Update("used_at", now).Error
}
