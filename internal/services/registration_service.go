package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clubreg_backend/internal/email"
	"clubreg_backend/internal/geo"
	"clubreg_backend/internal/logger"
	"clubreg_backend/internal/models"
	"clubreg_backend/internal/repositories"
	"clubreg_backend/internal/services/dto"
	"clubreg_backend/pkg/apperrors"
)

// RegistrationConfig is the explicit configuration handed to the intake
// service; nothing here reads the environment.
type RegistrationConfig struct {
	BaseURL        string
	AdminEmail     string
	InviteTokenTTL time.Duration
	AccessTokenTTL time.Duration
	ResetTokenTTL  time.Duration
}

type RegistrationService interface {
	// Register records a prospective parent+player pair and invites the
	// parent by email. Re-registering an email before the link is used
	// overwrites the pending row in place (this is the resend path).
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
}

type RegistrationServiceImpl struct {
	regRepo       repositories.RegistrationRepository
	tokenService  TokenService
	geoVerifier   geo.Verifier
	emailProvider email.Provider
	cfg           RegistrationConfig
}

func NewRegistrationService(
	regRepo repositories.RegistrationRepository,
	tokenService TokenService,
	geoVerifier geo.Verifier,
	emailProvider email.Provider,
	cfg RegistrationConfig,
) RegistrationService {
	return &RegistrationServiceImpl{
		regRepo:       regRepo,
		tokenService:  tokenService,
		geoVerifier:   geoVerifier,
		emailProvider: emailProvider,
		cfg:           cfg,
	}
}

func (s *RegistrationServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	birthdate, err := time.Parse("2006-01-02", req.Player.Birthdate)
	if err != nil {
		return nil, apperrors.ValidationError(map[string]string{
			"birthdate": "must be a YYYY-MM-DD date",
		})
	}

	// Location gate. Rejection is reported with an override hint; a caller
	// that sets areaOverride proceeds anyway.
	if result := s.geoVerifier.Verify(req.Zip); !result.Allowed && !req.AreaOverride {
		logger.CtxInfo(ctx, "registration rejected by service-area check",
			"zip", req.Zip, "reason", result.Reason)
		return nil, apperrors.AreaNotServed(result.Reason)
	}

	normalizedEmail := strings.ToLower(strings.TrimSpace(req.Parent.Email))

	reg, err := s.regRepo.FindActiveByEmail(normalizedEmail)
	switch {
	case err == nil:
		// One non-merged row per email: overwrite in place, revoke the old
		// invite so only the newest link works.
		s.applyRequest(reg, req, normalizedEmail, birthdate)
		if err := s.tokenService.Revoke(models.TokenPurposeRegistration, reg.ID); err != nil {
			return nil, err
		}
	case apperrors.Is(err, repositories.ErrRegistrationNotFound):
		reg = &models.PendingRegistration{}
		s.applyRequest(reg, req, normalizedEmail, birthdate)
		if err := s.regRepo.Create(reg); err != nil {
			return nil, apperrors.InternalError(err)
		}
	default:
		return nil, apperrors.InternalError(err)
	}

	token, err := s.tokenService.Issue(models.TokenPurposeRegistration, reg.ID, s.cfg.InviteTokenTTL)
	if err != nil {
		return nil, err
	}

	// Denormalized copy for audit and for rebuilding the invite URL.
	reg.Token = token.Value
	reg.TokenExpiresAt = token.ExpiresAt
	if err := s.regRepo.Update(reg); err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Invitation delivery is best-effort; the registration persists and can
	// be re-invited by registering the same email again.
	s.sendInvitation(ctx, reg, token)

	return &dto.RegisterResponse{
		RegistrationID: reg.ID,
		TokenIssued:    true,
	}, nil
}

func (s *RegistrationServiceImpl) applyRequest(reg *models.PendingRegistration, req *dto.RegisterRequest, normalizedEmail string, birthdate time.Time) {
	reg.Email = normalizedEmail
	reg.ParentFirstName = req.Parent.FirstName
	reg.ParentLastName = req.Parent.LastName
	reg.ParentPhone = req.Parent.Phone
	reg.PlayerFirstName = req.Player.FirstName
	reg.PlayerLastName = req.Player.LastName
	reg.PlayerGender = req.Player.Gender
	reg.PlayerBirthdate = birthdate
	reg.PlayerGrade = req.Player.Grade
	reg.PlayerExperience = req.Player.Experience
	reg.Zip = req.Zip
}

func (s *RegistrationServiceImpl) sendInvitation(ctx context.Context, reg *models.PendingRegistration, token *models.Token) {
	inviteURL := fmt.Sprintf("%s/register/confirm?token=%s", s.cfg.BaseURL, token.Value)

	err := s.emailProvider.SendWithTemplate(email.TemplateInvitation, email.TemplateData{
		"ParentFirstName": reg.ParentFirstName,
		"PlayerName":      reg.PlayerFirstName + " " + reg.PlayerLastName,
		"InviteURL":       inviteURL,
		"ExpiresAt":       token.ExpiresAt.Format("January 2, 2006"),
	}, &email.Email{
		To:      []string{reg.Email},
		Subject: "Finish your player registration",
	})
	if err != nil {
		logger.CtxWithError(ctx, "failed to send invitation email", err,
			"registration_id", reg.ID)
	}
}
