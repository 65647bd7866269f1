package services

import (
	"context"
	"time"

	"clubreg_backend/internal/email"
	"clubreg_backend/internal/gateway"
	"clubreg_backend/internal/logger"
	"clubreg_backend/internal/models"
	"clubreg_backend/internal/repositories"
	"clubreg_backend/internal/services/dto"
	"clubreg_backend/pkg/apperrors"
)

// PaymentService reconciles local payment state with the gateway. Reconcile
// is invoked by two independent triggers (async webhook, client poll) that
// race in production; it must never double-credit a payment or double-send a
// confirmation.
type PaymentService interface {
	Reconcile(ctx context.Context, sessionID string) (*dto.ReconcileResult, error)
}

type PaymentServiceImpl struct {
	paymentRepo   repositories.PaymentRepository
	playerRepo    repositories.PlayerRepository
	parentRepo    repositories.ParentRepository
	gw            gateway.PaymentGateway
	emailProvider email.Provider
}

func NewPaymentService(
	paymentRepo repositories.PaymentRepository,
	playerRepo repositories.PlayerRepository,
	parentRepo repositories.ParentRepository,
	gw gateway.PaymentGateway,
	emailProvider email.Provider,
) PaymentService {
	return &PaymentServiceImpl{
		paymentRepo:   paymentRepo,
		playerRepo:    playerRepo,
		parentRepo:    parentRepo,
		gw:            gw,
		emailProvider: emailProvider,
	}
}

func (s *PaymentServiceImpl) Reconcile(ctx context.Context, sessionID string) (*dto.ReconcileResult, error) {
	payment, err := s.paymentRepo.FindByGatewaySessionID(sessionID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPaymentNotFound) {
			// Likely a webhook for a foreign session; callers log and move on.
			return nil, apperrors.ErrPaymentNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	// Primary defense against double-processing: terminal states short-circuit
	// before any gateway call.
	if payment.Status == models.PaymentStatusPaid {
		return &dto.ReconcileResult{Already: true}, nil
	}
	if payment.Status == models.PaymentStatusFailed {
		return &dto.ReconcileResult{}, nil
	}

	status, err := s.gw.GetSessionStatus(ctx, sessionID)
	if err != nil {
		// Transient gateway read failure: the external triggers retry
		// (webhook redelivery, client re-poll), so just report it.
		return nil, apperrors.GatewayError(err)
	}

	switch status {
	case gateway.SessionStatusPaid:
		return s.applyPaid(ctx, payment)
	case gateway.SessionStatusFailed:
		if _, err := s.paymentRepo.MarkFailed(sessionID); err != nil {
			return nil, apperrors.InternalError(err)
		}
		return &dto.ReconcileResult{}, nil
	default:
		// Not yet paid: no mutation, caller polls again.
		return &dto.ReconcileResult{}, nil
	}
}

func (s *PaymentServiceImpl) applyPaid(ctx context.Context, payment *models.Payment) (*dto.ReconcileResult, error) {
	// The pending->paid transition is the concurrency guard: only one racing
	// caller wins it; the loser hits the paid short-circuit on retry.
	won, err := s.paymentRepo.MarkPaid(payment.GatewaySessionID, time.Now())
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !won {
		return &dto.ReconcileResult{Already: true}, nil
	}

	if err := s.playerRepo.UpdateStatus(payment.PlayerID, models.PlayerStatusActive); err != nil {
		// Payment state stays paid regardless; the activation is repairable
		// and losing the payment record is not.
		logger.CtxWithError(ctx, "failed to activate player after payment", err,
			"player_id", payment.PlayerID, "session_id", payment.GatewaySessionID)
	}

	logger.CtxInfo(ctx, "payment reconciled",
		"session_id", payment.GatewaySessionID,
		"player_id", payment.PlayerID,
		"amount", payment.Amount)

	// Only the transition winner notifies, so the confirmation goes out at
	// most once. Failure is logged, never retried here, and never rolls back
	// payment state.
	s.sendConfirmation(ctx, payment)

	return &dto.ReconcileResult{Applied: true}, nil
}

func (s *PaymentServiceImpl) sendConfirmation(ctx context.Context, payment *models.Payment) {
	player, err := s.playerRepo.FindByID(payment.PlayerID)
	if err != nil {
		logger.CtxWithError(ctx, "confirmation skipped: player lookup failed", err,
			"player_id", payment.PlayerID)
		return
	}

	parent, err := s.parentRepo.FindByID(player.ParentID)
	if err != nil {
		logger.CtxWithError(ctx, "confirmation skipped: parent lookup failed", err,
			"parent_id", player.ParentID)
		return
	}

	err = s.emailProvider.SendWithTemplate(email.TemplatePaymentConfirmation, email.TemplateData{
		"ParentFirstName": parent.FirstName,
		"PlayerName":      player.FirstName + " " + player.LastName,
		"PaymentType":     string(payment.PaymentType),
		"Amount":          payment.Amount,
	}, &email.Email{
		To:      []string{parent.Email},
		Subject: "Payment received - welcome to the club",
	})
	if err != nil {
		logger.CtxWithError(ctx, "failed to send payment confirmation", err,
			"session_id", payment.GatewaySessionID)
	}
}
