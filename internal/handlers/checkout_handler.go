package handlers

import (
	"net/http"

	"clubreg_backend/internal/services"
	"clubreg_backend/internal/services/dto"
	"clubreg_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	*BaseHandler
	checkoutService services.CheckoutService
	paymentService  services.PaymentService
}

func NewCheckoutHandler(base *BaseHandler, checkoutService services.CheckoutService, paymentService services.PaymentService) *CheckoutHandler {
	return &CheckoutHandler{
		BaseHandler:     base,
		checkoutService: checkoutService,
		paymentService:  paymentService,
	}
}

// CreateCheckout handles POST /checkout.
func (h *CheckoutHandler) CreateCheckout(c *gin.Context) {
	var req dto.CreateCheckoutRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.checkoutService.CreateCheckout(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Confirm handles GET /checkout/confirm: the client-side poll after the
// gateway redirects back. The session id is the trust boundary; when the
// caller also supplies player_id the pair must match.
func (h *CheckoutHandler) Confirm(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("session_id is required"))
		return
	}

	if playerID := c.Query("player_id"); playerID != "" {
		if err := h.checkoutService.VerifySessionPlayer(c.Request.Context(), sessionID, playerID); err != nil {
			h.HandleServiceError(c, err)
			return
		}
	}

	result, err := h.paymentService.Reconcile(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// PaymentStatus handles GET /players/:playerId/payment-status.
func (h *CheckoutHandler) PaymentStatus(c *gin.Context) {
	playerID := c.Param("playerId")

	resp, err := h.checkoutService.GetPaymentStatus(c.Request.Context(), playerID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
