package handlers

import (
	"io"
	"net/http"

	"clubreg_backend/internal/gateway"
	"clubreg_backend/internal/logger"
	"clubreg_backend/internal/services"
	"clubreg_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// Stripe rejects deliveries that don't get a 2xx quickly; we keep the body
// read small and answer 200 for everything we consciously ignore.
const maxWebhookBody = 64 * 1024

type WebhookHandler struct {
	*BaseHandler
	gw             gateway.PaymentGateway
	paymentService services.PaymentService
}

func NewWebhookHandler(base *BaseHandler, gw gateway.PaymentGateway, paymentService services.PaymentService) *WebhookHandler {
	return &WebhookHandler{
		BaseHandler:    base,
		gw:             gw,
		paymentService: paymentService,
	}
}

// HandlePaymentWebhook handles POST /webhooks/payment, the asynchronous
// reconciliation trigger.
func (h *WebhookHandler) HandlePaymentWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("unreadable webhook body"))
		return
	}

	event, err := h.gw.VerifyWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		logger.CtxWithError(ctx, "webhook signature verification failed", err)
		apperrors.HandleError(c, apperrors.NewBadRequestError("invalid webhook signature"))
		return
	}

	if !event.Relevant {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	result, err := h.paymentService.Reconcile(ctx, event.SessionID)
	if err != nil {
		var appErr *apperrors.AppError
		if apperrors.As(err, &appErr) && appErr.Code == apperrors.CodePaymentNotFound {
			// A session we never created, e.g. another product sharing the
			// account. Acknowledge so the gateway stops redelivering.
			logger.CtxInfo(ctx, "webhook for unknown session ignored", "session_id", event.SessionID)
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}
		// Non-2xx makes the gateway redeliver, which is the retry mechanism.
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"received": true,
		"already":  result.Already,
		"applied":  result.Applied,
	})
}
