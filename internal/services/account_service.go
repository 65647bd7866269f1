package services

import (
	"context"
	"fmt"
	"time"

	"clubreg_backend/internal/email"
	"clubreg_backend/internal/logger"
	"clubreg_backend/internal/models"
	"clubreg_backend/internal/repositories"
	"clubreg_backend/internal/services/dto"
	"clubreg_backend/pkg/apperrors"

	"golang.org/x/crypto/bcrypt"
)

// AccountService turns a redeemed registration into a Parent and a Player,
// and owns the password set/reset path.
type AccountService interface {
	// Redeem consumes a registration token and idempotently creates/links
	// the Parent and Player. A double-click returns the same ids and never
	// creates a second Player.
	Redeem(ctx context.Context, tokenValue string) (*dto.RedeemResponse, error)
	RequestPasswordReset(ctx context.Context, parentEmail string) error
	ResetPassword(ctx context.Context, tokenValue, newPassword string) error
}

type AccountServiceImpl struct {
	regRepo       repositories.RegistrationRepository
	parentRepo    repositories.ParentRepository
	playerRepo    repositories.PlayerRepository
	tokenService  TokenService
	emailProvider email.Provider
	cfg           RegistrationConfig
}

func NewAccountService(
	regRepo repositories.RegistrationRepository,
	parentRepo repositories.ParentRepository,
	playerRepo repositories.PlayerRepository,
	tokenService TokenService,
	emailProvider email.Provider,
	cfg RegistrationConfig,
) AccountService {
	return &AccountServiceImpl{
		regRepo:       regRepo,
		parentRepo:    parentRepo,
		playerRepo:    playerRepo,
		tokenService:  tokenService,
		emailProvider: emailProvider,
		cfg:           cfg,
	}
}

func (s *AccountServiceImpl) Redeem(ctx context.Context, tokenValue string) (*dto.RedeemResponse, error) {
	token, err := s.tokenService.Consume(tokenValue, models.TokenPurposeRegistration)
	if err != nil {
		// A second click arrives after the first consumed the token. If the
		// registration behind this exact token already merged, replay the
		// stored ids instead of showing "link expired" for a success case.
		if replay := s.replayMerged(tokenValue); replay != nil {
			return replay, nil
		}
		return nil, err
	}

	reg, err := s.regRepo.FindByID(token.SubjectID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRegistrationNotFound) {
			return nil, apperrors.ErrRegistrationNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if reg.Merged() && reg.ParentID != nil && reg.PlayerID != nil {
		return &dto.RedeemResponse{ParentID: *reg.ParentID, PlayerID: *reg.PlayerID}, nil
	}

	parent, err := s.resolveParent(reg)
	if err != nil {
		return nil, err
	}

	player, err := s.resolvePlayer(reg, parent)
	if err != nil {
		return nil, err
	}

	merged, err := s.regRepo.MarkMerged(reg.ID, parent.ID, player.ID, time.Now())
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !merged {
		// A concurrent redeem won the merged_at transition; its ids are the
		// canonical ones.
		current, err := s.regRepo.FindByID(reg.ID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if current.ParentID != nil && current.PlayerID != nil {
			return &dto.RedeemResponse{ParentID: *current.ParentID, PlayerID: *current.PlayerID}, nil
		}
		return nil, apperrors.NewConflictError("registration", "Registration is already being processed")
	}

	// First-time transition winner: exactly one admin notification and one
	// checkout link per registration.
	s.notifyMerged(ctx, reg, parent, player)

	return &dto.RedeemResponse{ParentID: parent.ID, PlayerID: player.ID}, nil
}

// replayMerged resolves a consumed token back to its merged registration.
func (s *AccountServiceImpl) replayMerged(tokenValue string) *dto.RedeemResponse {
	token, err := s.tokenService.Peek(tokenValue)
	if err != nil || token.Purpose != models.TokenPurposeRegistration {
		return nil
	}

	reg, err := s.regRepo.FindByID(token.SubjectID)
	if err != nil || !reg.Merged() || reg.ParentID == nil || reg.PlayerID == nil {
		return nil
	}

	return &dto.RedeemResponse{ParentID: *reg.ParentID, PlayerID: *reg.PlayerID}
}

// resolveParent finds or creates the Parent for a registration. Precedence is
// email match, then create. Existing rows only get missing fields filled;
// populated data is never overwritten with registration blanks.
func (s *AccountServiceImpl) resolveParent(reg *models.PendingRegistration) (*models.Parent, error) {
	parent, err := s.parentRepo.FindByEmail(reg.Email)
	if err == nil {
		changed := false
		if parent.FirstName == "" && reg.ParentFirstName != "" {
			parent.FirstName = reg.ParentFirstName
			changed = true
		}
		if parent.LastName == "" && reg.ParentLastName != "" {
			parent.LastName = reg.ParentLastName
			changed = true
		}
		if parent.Phone == "" && reg.ParentPhone != "" {
			parent.Phone = reg.ParentPhone
			changed = true
		}
		if parent.Zip == "" && reg.Zip != "" {
			parent.Zip = reg.Zip
			changed = true
		}
		if changed {
			if err := s.parentRepo.Update(parent); err != nil {
				return nil, apperrors.InternalError(err)
			}
		}
		return parent, nil
	}
	if !apperrors.Is(err, repositories.ErrParentNotFound) {
		return nil, apperrors.InternalError(err)
	}

	parent = &models.Parent{
		Email:     reg.Email,
		FirstName: reg.ParentFirstName,
		LastName:  reg.ParentLastName,
		Phone:     reg.ParentPhone,
		Zip:       reg.Zip,
	}
	if err := s.parentRepo.Create(parent); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return parent, nil
}

// resolvePlayer defensively re-checks for an existing Player before inserting,
// closing the crash window between player creation and marking merged.
func (s *AccountServiceImpl) resolvePlayer(reg *models.PendingRegistration, parent *models.Parent) (*models.Player, error) {
	player, err := s.playerRepo.FindByParentNameDOB(parent.ID, reg.PlayerFirstName, reg.PlayerLastName, reg.PlayerBirthdate)
	if err == nil {
		return player, nil
	}
	if !apperrors.Is(err, repositories.ErrPlayerNotFound) {
		return nil, apperrors.InternalError(err)
	}

	player = &models.Player{
		ParentID:    parent.ID,
		FirstName:   reg.PlayerFirstName,
		LastName:    reg.PlayerLastName,
		DateOfBirth: reg.PlayerBirthdate,
		Gender:      reg.PlayerGender,
		Grade:       reg.PlayerGrade,
		Experience:  reg.PlayerExperience,
		Status:      models.PlayerStatusPending,
	}
	if err := s.playerRepo.Create(player); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return player, nil
}

func (s *AccountServiceImpl) notifyMerged(ctx context.Context, reg *models.PendingRegistration, parent *models.Parent, player *models.Player) {
	playerName := player.FirstName + " " + player.LastName

	if s.cfg.AdminEmail != "" {
		err := s.emailProvider.SendWithTemplate(email.TemplateAdminNewPlayer, email.TemplateData{
			"PlayerName":      playerName,
			"PlayerBirthdate": player.DateOfBirth.Format("2006-01-02"),
			"ParentName":      parent.FirstName + " " + parent.LastName,
			"ParentEmail":     parent.Email,
		}, &email.Email{
			To:      []string{s.cfg.AdminEmail},
			Subject: "New player registered: " + playerName,
		})
		if err != nil {
			logger.CtxWithError(ctx, "failed to send admin notification", err,
				"registration_id", reg.ID)
		}
	}

	// Checkout-access link so the parent can pay without a login session.
	accessToken, err := s.tokenService.Issue(models.TokenPurposeCheckoutAccess, player.ID, s.cfg.AccessTokenTTL)
	if err != nil {
		logger.CtxWithError(ctx, "failed to issue checkout access token", err,
			"player_id", player.ID)
		return
	}

	checkoutURL := fmt.Sprintf("%s/checkout?player=%s&access=%s", s.cfg.BaseURL, player.ID, accessToken.Value)
	sendErr := s.emailProvider.Send(&email.Email{
		To:      []string{parent.Email},
		Subject: "Registration confirmed - complete your payment",
		HTMLBody: fmt.Sprintf(
			"<p>%s is registered! <a href=%q>Pay the club fee</a> to activate their spot.</p>",
			playerName, checkoutURL),
	})
	if sendErr != nil {
		logger.CtxWithError(ctx, "failed to send checkout link email", sendErr,
			"player_id", player.ID)
	}
}

func (s *AccountServiceImpl) RequestPasswordReset(ctx context.Context, parentEmail string) error {
	parent, err := s.parentRepo.FindByEmail(parentEmail)
	if err != nil {
		if apperrors.Is(err, repositories.ErrParentNotFound) {
			// Always succeed so the endpoint cannot enumerate accounts.
			return nil
		}
		return apperrors.InternalError(err)
	}

	token, err := s.tokenService.Issue(models.TokenPurposePasswordReset, parent.ID, s.cfg.ResetTokenTTL)
	if err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/password-reset?token=%s", s.cfg.BaseURL, token.Value)
	sendErr := s.emailProvider.SendWithTemplate(email.TemplatePasswordReset, email.TemplateData{
		"ResetURL":   resetURL,
		"TTLMinutes": int(s.cfg.ResetTokenTTL.Minutes()),
	}, &email.Email{
		To:      []string{parent.Email},
		Subject: "Reset your password",
	})
	if sendErr != nil {
		logger.CtxWithError(ctx, "failed to send password reset email", sendErr,
			"parent_id", parent.ID)
	}

	return nil
}

func (s *AccountServiceImpl) ResetPassword(ctx context.Context, tokenValue, newPassword string) error {
	token, err := s.tokenService.Consume(tokenValue, models.TokenPurposePasswordReset)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.parentRepo.UpdatePasswordHash(token.SubjectID, string(hash)); err != nil {
		if apperrors.Is(err, repositories.ErrParentNotFound) {
			return apperrors.ErrParentNotFound
		}
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "password reset completed", "parent_id", token.SubjectID)
	return nil
}
