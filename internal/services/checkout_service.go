package services

import (
	"context"
	"fmt"

	"clubreg_backend/internal/gateway"
	"clubreg_backend/internal/logger"
	"clubreg_backend/internal/models"
	"clubreg_backend/internal/repositories"
	"clubreg_backend/internal/services/dto"
	"clubreg_backend/pkg/apperrors"
)

// Custom payments below this are rejected before any gateway call.
const minCustomAmount = 0.50

// CheckoutConfig carries the fixed price table and redirect URLs. The table
// is validated at startup; a bad price can never reach a live checkout.
type CheckoutConfig struct {
	Prices     map[models.PaymentType]float64
	SuccessURL string
	CancelURL  string
}

type CheckoutService interface {
	// CreateCheckout opens a gateway session for a player and records the
	// pending Payment row before the redirect URL is returned, so an early
	// reconciliation trigger always finds a row.
	CreateCheckout(ctx context.Context, req *dto.CreateCheckoutRequest) (*dto.CreateCheckoutResponse, error)
	// GetPaymentStatus is the dashboard read path.
	GetPaymentStatus(ctx context.Context, playerID string) (*dto.PaymentStatusResponse, error)
	// VerifySessionPlayer checks that a session belongs to a player, the
	// optional extra bound on the unauthenticated confirm poll.
	VerifySessionPlayer(ctx context.Context, sessionID, playerID string) error
}

type CheckoutServiceImpl struct {
	playerRepo   repositories.PlayerRepository
	parentRepo   repositories.ParentRepository
	paymentRepo  repositories.PaymentRepository
	tokenService TokenService
	gw           gateway.PaymentGateway
	cfg          CheckoutConfig
}

func NewCheckoutService(
	playerRepo repositories.PlayerRepository,
	parentRepo repositories.ParentRepository,
	paymentRepo repositories.PaymentRepository,
	tokenService TokenService,
	gw gateway.PaymentGateway,
	cfg CheckoutConfig,
) CheckoutService {
	return &CheckoutServiceImpl{
		playerRepo:   playerRepo,
		parentRepo:   parentRepo,
		paymentRepo:  paymentRepo,
		tokenService: tokenService,
		gw:           gw,
		cfg:          cfg,
	}
}

func (s *CheckoutServiceImpl) CreateCheckout(ctx context.Context, req *dto.CreateCheckoutRequest) (*dto.CreateCheckoutResponse, error) {
	paymentType := models.PaymentType(req.PaymentType)
	if !paymentType.Valid() {
		return nil, apperrors.ErrInvalidPaymentType
	}

	amount, err := s.resolveAmount(paymentType, req.Amount)
	if err != nil {
		return nil, err
	}

	// Parents arriving from the confirmation email present a single-use
	// checkout-access token bound to the player.
	if req.AccessToken != "" {
		token, err := s.tokenService.Consume(req.AccessToken, models.TokenPurposeCheckoutAccess)
		if err != nil {
			return nil, err
		}
		if token.SubjectID != req.PlayerID {
			return nil, apperrors.ErrTokenInvalid
		}
	}

	player, err := s.playerRepo.FindByID(req.PlayerID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, apperrors.ErrPlayerNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	parent, err := s.parentRepo.FindByID(player.ParentID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrParentNotFound) {
			return nil, apperrors.ErrParentNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if parent.Email == "" {
		return nil, apperrors.ErrEmailRequired
	}

	customerID, err := s.resolveCustomer(ctx, player, parent)
	if err != nil {
		return nil, err
	}

	session, err := s.gw.CreateCheckoutSession(ctx, gateway.CreateSessionParams{
		CustomerID:    customerID,
		PlayerID:      player.ID,
		Description:   s.lineItemDescription(paymentType, player),
		AmountDollars: amount,
		SuccessURL:    s.cfg.SuccessURL,
		CancelURL:     s.cfg.CancelURL,
	})
	if err != nil {
		return nil, apperrors.GatewayError(err)
	}

	// The pending row must exist before the caller redirects: a webhook or
	// poll can arrive for this session at any point after this line.
	payment := &models.Payment{
		PlayerID:         player.ID,
		GatewaySessionID: session.ID,
		Amount:           amount,
		PaymentType:      paymentType,
		Status:           models.PaymentStatusPending,
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "checkout session created",
		"player_id", player.ID, "session_id", session.ID,
		"payment_type", string(paymentType), "amount", amount)

	return &dto.CreateCheckoutResponse{
		RedirectURL: session.URL,
		SessionID:   session.ID,
	}, nil
}

func (s *CheckoutServiceImpl) resolveAmount(paymentType models.PaymentType, customAmount float64) (float64, error) {
	if paymentType == models.PaymentTypeCustom {
		if customAmount < minCustomAmount {
			return 0, apperrors.ErrAmountTooSmall
		}
		return customAmount, nil
	}

	price, ok := s.cfg.Prices[paymentType]
	if !ok || price <= 0 {
		// Startup validation makes this unreachable in a healthy deployment.
		return 0, apperrors.InternalError(fmt.Errorf("no price configured for payment type %q", paymentType))
	}
	return price, nil
}

// resolveCustomer reuses the stored gateway customer or creates one. The
// create-then-persist is best-effort idempotent: two concurrent first
// checkouts may each create a customer, only one reference is kept, and both
// sessions remain payable.
func (s *CheckoutServiceImpl) resolveCustomer(ctx context.Context, player *models.Player, parent *models.Parent) (string, error) {
	if player.GatewayCustomerID != "" {
		return player.GatewayCustomerID, nil
	}

	customerID, err := s.gw.CreateCustomer(ctx, parent.Email, parent.FirstName+" "+parent.LastName)
	if err != nil {
		return "", apperrors.GatewayError(err)
	}

	if err := s.playerRepo.SetGatewayCustomerID(player.ID, customerID); err != nil {
		logger.CtxWithError(ctx, "failed to persist gateway customer id", err,
			"player_id", player.ID)
	}

	return customerID, nil
}

func (s *CheckoutServiceImpl) lineItemDescription(paymentType models.PaymentType, player *models.Player) string {
	name := player.FirstName + " " + player.LastName
	switch paymentType {
	case models.PaymentTypeAnnual:
		return "Annual club fee - " + name
	case models.PaymentTypeMonthly:
		return "Monthly club fee - " + name
	case models.PaymentTypeQuarterly:
		return "Quarterly club fee - " + name
	default:
		return "Club payment - " + name
	}
}

func (s *CheckoutServiceImpl) VerifySessionPlayer(ctx context.Context, sessionID, playerID string) error {
	payment, err := s.paymentRepo.FindByGatewaySessionID(sessionID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPaymentNotFound) {
			return apperrors.ErrPaymentNotFound
		}
		return apperrors.InternalError(err)
	}
	if payment.PlayerID != playerID {
		return apperrors.ErrPaymentNotFound
	}
	return nil
}

func (s *CheckoutServiceImpl) GetPaymentStatus(ctx context.Context, playerID string) (*dto.PaymentStatusResponse, error) {
	player, err := s.playerRepo.FindByID(playerID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, apperrors.ErrPlayerNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.PaymentStatusResponse{
		PlayerID:     player.ID,
		PlayerStatus: string(player.Status),
	}

	payment, err := s.paymentRepo.FindLatestByPlayerID(playerID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPaymentNotFound) {
			return resp, nil
		}
		return nil, apperrors.InternalError(err)
	}

	resp.PaymentStatus = string(payment.Status)
	resp.PaymentType = string(payment.PaymentType)
	resp.Amount = payment.Amount
	resp.SessionID = payment.GatewaySessionID
	return resp, nil
}
