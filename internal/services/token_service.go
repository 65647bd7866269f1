package services

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"clubreg_backend/internal/models"
	"clubreg_backend/internal/repositories"
	"clubreg_backend/pkg/apperrors"
)

// TokenService owns the single-use token lifecycle. Registration links,
// checkout-access links and password resets all go through it.
type TokenService interface {
	Issue(purpose models.TokenPurpose, subjectID string, ttl time.Duration) (*models.Token, error)
	// Peek returns the record without consuming it. Expired and used tokens
	// are still returned, for diagnostics.
	Peek(value string) (*models.Token, error)
	// Consume validates and burns the token in one atomic step. On any
	// failure the caller gets the one generic token error.
	Consume(value string, purpose models.TokenPurpose) (*models.Token, error)
	// Revoke invalidates outstanding tokens for a subject, used when a
	// re-registration replaces the invite link.
	Revoke(purpose models.TokenPurpose, subjectID string) error
}

type TokenServiceImpl struct {
	tokenRepo repositories.TokenRepository
}

func NewTokenService(tokenRepo repositories.TokenRepository) TokenService {
	return &TokenServiceImpl{tokenRepo: tokenRepo}
}

func (s *TokenServiceImpl) Issue(purpose models.TokenPurpose, subjectID string, ttl time.Duration) (*models.Token, error) {
	now := time.Now()
	token := &models.Token{
		Value:     generateTokenValue(),
		Purpose:   purpose,
		SubjectID: subjectID,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}

	if err := s.tokenRepo.Create(token); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return token, nil
}

func (s *TokenServiceImpl) Peek(value string) (*models.Token, error) {
	token, err := s.tokenRepo.FindByValue(value)
	if err != nil {
		if apperrors.Is(err, repositories.ErrTokenNotFound) {
			return nil, apperrors.NewNotFoundError("token", "Token not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return token, nil
}

func (s *TokenServiceImpl) Consume(value string, purpose models.TokenPurpose) (*models.Token, error) {
	token, err := s.tokenRepo.Consume(value, purpose, time.Now())
	if err != nil {
		if apperrors.Is(err, repositories.ErrTokenNotFound) ||
			apperrors.Is(err, repositories.ErrTokenUsedOrExpired) {
			return nil, apperrors.ErrTokenInvalid
		}
		return nil, apperrors.InternalError(err)
	}
	return token, nil
}

func (s *TokenServiceImpl) Revoke(purpose models.TokenPurpose, subjectID string) error {
	if err := s.tokenRepo.RevokeBySubject(purpose, subjectID, time.Now()); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// generateTokenValue returns 256 bits of crypto randomness as hex. Values are
// opaque and non-sequential; guessing one is not feasible.
func generateTokenValue() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the OS entropy source is broken.
		panic("token generation: " + err.Error())
	}
	return hex.EncodeToString(buf)
}
