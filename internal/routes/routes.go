package routes

import (
	"net/http"

	"clubreg_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes attaches all handlers to the router.
func RegisterRoutes(router *gin.Engine, h *handlers.AppHandlers) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		registrations := api.Group("/registrations")
		{
			registrations.POST("", h.RegistrationHandler.Register)
			registrations.POST("/redeem", h.RegistrationHandler.Redeem)
		}

		auth := api.Group("/auth")
		{
			auth.POST("/password-reset/request", h.RegistrationHandler.RequestPasswordReset)
			auth.POST("/password-reset/confirm", h.RegistrationHandler.ConfirmPasswordReset)
		}

		checkout := api.Group("/checkout")
		{
			checkout.POST("", h.CheckoutHandler.CreateCheckout)
			checkout.GET("/confirm", h.CheckoutHandler.Confirm)
		}

		api.GET("/players/:playerId/payment-status", h.CheckoutHandler.PaymentStatus)

		api.POST("/webhooks/payment", h.WebhookHandler.HandlePaymentWebhook)
	}
}
