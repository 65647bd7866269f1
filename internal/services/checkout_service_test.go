package services

import (
	"context"
	"testing"
	"time"

	"clubreg_backend/internal/models"
	"clubreg_backend/internal/services/dto"
	"clubreg_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutFixture struct {
	svc         CheckoutService
	tokenSvc    TokenService
	playerRepo  *fakePlayerRepo
	parentRepo  *fakeParentRepo
	paymentRepo *fakePaymentRepo
	gw          *fakeGateway
	parent      *models.Parent
	player      *models.Player
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	f := &checkoutFixture{
		playerRepo:  newFakePlayerRepo(),
		parentRepo:  newFakeParentRepo(),
		paymentRepo: newFakePaymentRepo(),
		gw:          newFakeGateway(),
	}
	f.tokenSvc = NewTokenService(newFakeTokenRepo())
	f.svc = NewCheckoutService(f.playerRepo, f.parentRepo, f.paymentRepo, f.tokenSvc, f.gw, CheckoutConfig{
		Prices: map[models.PaymentType]float64{
			models.PaymentTypeAnnual:    360,
			models.PaymentTypeMonthly:   35,
			models.PaymentTypeQuarterly: 95,
		},
		SuccessURL: "https://club.test/checkout/success",
		CancelURL:  "https://club.test/checkout/cancel",
	})

	f.parent = &models.Parent{Email: "jordan.reyes@example.com", FirstName: "Jordan", LastName: "Reyes"}
	require.NoError(t, f.parentRepo.Create(f.parent))

	f.player = &models.Player{
		ParentID:    f.parent.ID,
		FirstName:   "Sam",
		LastName:    "Reyes",
		DateOfBirth: time.Date(2014, 3, 21, 0, 0, 0, 0, time.UTC),
		Status:      models.PlayerStatusPending,
	}
	require.NoError(t, f.playerRepo.Create(f.player))
	return f
}

func TestCheckoutService_CreateCheckoutAnnual(t *testing.T) {
	f := newCheckoutFixture(t)

	resp, err := f.svc.CreateCheckout(context.Background(), &dto.CreateCheckoutRequest{
		PlayerID:    f.player.ID,
		PaymentType: "annual",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.RedirectURL)
	assert.NotEmpty(t, resp.SessionID)

	// The pending row exists before the redirect is handed out.
	payment, err := f.paymentRepo.FindByGatewaySessionID(resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, f.player.ID, payment.PlayerID)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)
	assert.Equal(t, models.PaymentTypeAnnual, payment.PaymentType)
	assert.Equal(t, 360.0, payment.Amount)

	// First checkout creates and persists a gateway customer.
	player, err := f.playerRepo.FindByID(f.player.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, player.GatewayCustomerID)
}

func TestCheckoutService_CustomAmount(t *testing.T) {
	f := newCheckoutFixture(t)

	resp, err := f.svc.CreateCheckout(context.Background(), &dto.CreateCheckoutRequest{
		PlayerID:    f.player.ID,
		PaymentType: "custom",
		Amount:      52.25,
	})
	require.NoError(t, err)

	payment, err := f.paymentRepo.FindByGatewaySessionID(resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 52.25, payment.Amount)
}

func TestCheckoutService_CustomAmountBelowMinimum(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.svc.CreateCheckout(context.Background(), &dto.CreateCheckoutRequest{
		PlayerID:    f.player.ID,
		PaymentType: "custom",
		Amount:      0.40,
	})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeAmountTooSmall, appErr.Code)

	// Rejected before any gateway traffic.
	assert.Equal(t, 0, f.gw.sessions())
	assert.Equal(t, 0, f.paymentRepo.countByStatus(models.PaymentStatusPending))
}

func TestCheckoutService_InvalidPaymentType(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.svc.CreateCheckout(context.Background(), &dto.CreateCheckoutRequest{
		PlayerID:    f.player.ID,
		PaymentType: "weekly",
	})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInvalidPaymentType, appErr.Code)
	assert.Equal(t, 0, f.gw.sessions())
}

func TestCheckoutService_MissingParentEmail(t *testing.T) {
	f := newCheckoutFixture(t)
	f.parent.Email = ""
	require.NoError(t, f.parentRepo.Update(f.parent))

	_, err := f.svc.CreateCheckout(context.Background(), &dto.CreateCheckoutRequest{
		PlayerID:    f.player.ID,
		PaymentType: "monthly",
	})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeEmailRequired, appErr.Code)
	assert.Equal(t, 0, f.gw.sessions())
}

func TestCheckoutService_UnknownPlayer(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.svc.CreateCheckout(context.Background(), &dto.CreateCheckoutRequest{
		PlayerID:    "no-such-player",
		PaymentType: "annual",
	})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodePlayerNotFound, appErr.Code)
}

func TestCheckoutService_AccessTokenBoundToPlayer(t *testing.T) {
	f := newCheckoutFixture(t)

	token, err := f.tokenSvc.Issue(models.TokenPurposeCheckoutAccess, f.player.ID, time.Hour)
	require.NoError(t, err)

	resp, err := f.svc.CreateCheckout(context.Background(), &dto.CreateCheckoutRequest{
		PlayerID:    f.player.ID,
		PaymentType: "annual",
		AccessToken: token.Value,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.SessionID)

	// Single use: the same link cannot open a second checkout.
	_, err = f.svc.CreateCheckout(context.Background(), &dto.CreateCheckoutRequest{
		PlayerID:    f.player.ID,
		PaymentType: "annual",
		AccessToken: token.Value,
	})
	assert.Error(t, err)
}

func TestCheckoutService_AccessTokenForOtherPlayerRejected(t *testing.T) {
	f := newCheckoutFixture(t)

	token, err := f.tokenSvc.Issue(models.TokenPurposeCheckoutAccess, "some-other-player", time.Hour)
	require.NoError(t, err)

	_, err = f.svc.CreateCheckout(context.Background(), &dto.CreateCheckoutRequest{
		PlayerID:    f.player.ID,
		PaymentType: "annual",
		AccessToken: token.Value,
	})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeTokenInvalid, appErr.Code)
	assert.Equal(t, 0, f.gw.sessions())
}

func TestCheckoutService_ReusesStoredCustomer(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.svc.CreateCheckout(context.Background(), &dto.CreateCheckoutRequest{
		PlayerID:    f.player.ID,
		PaymentType: "monthly",
	})
	require.NoError(t, err)

	_, err = f.svc.CreateCheckout(context.Background(), &dto.CreateCheckoutRequest{
		PlayerID:    f.player.ID,
		PaymentType: "monthly",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, f.gw.customerCounter)
	assert.Equal(t, 2, f.gw.sessions())
}

func TestCheckoutService_VerifySessionPlayer(t *testing.T) {
	f := newCheckoutFixture(t)

	resp, err := f.svc.CreateCheckout(context.Background(), &dto.CreateCheckoutRequest{
		PlayerID:    f.player.ID,
		PaymentType: "annual",
	})
	require.NoError(t, err)

	assert.NoError(t, f.svc.VerifySessionPlayer(context.Background(), resp.SessionID, f.player.ID))
	assert.Error(t, f.svc.VerifySessionPlayer(context.Background(), resp.SessionID, "someone-else"))
	assert.Error(t, f.svc.VerifySessionPlayer(context.Background(), "cs_unknown", f.player.ID))
}

func TestCheckoutService_GetPaymentStatus(t *testing.T) {
	f := newCheckoutFixture(t)

	// No payment yet: player status only.
	status, err := f.svc.GetPaymentStatus(context.Background(), f.player.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.PlayerStatusPending), status.PlayerStatus)
	assert.Empty(t, status.PaymentStatus)

	resp, err := f.svc.CreateCheckout(context.Background(), &dto.CreateCheckoutRequest{
		PlayerID:    f.player.ID,
		PaymentType: "quarterly",
	})
	require.NoError(t, err)

	status, err = f.svc.GetPaymentStatus(context.Background(), f.player.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.PaymentStatusPending), status.PaymentStatus)
	assert.Equal(t, "quarterly", status.PaymentType)
	assert.Equal(t, 95.0, status.Amount)
	assert.Equal(t, resp.SessionID, status.SessionID)
}
