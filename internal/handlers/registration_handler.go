package handlers

import (
	"net/http"

	"clubreg_backend/internal/services"
	"clubreg_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type RegistrationHandler struct {
	*BaseHandler
	registrationService services.RegistrationService
	accountService      services.AccountService
}

func NewRegistrationHandler(base *BaseHandler, registrationService services.RegistrationService, accountService services.AccountService) *RegistrationHandler {
	return &RegistrationHandler{
		BaseHandler:         base,
		registrationService: registrationService,
		accountService:      accountService,
	}
}

// Register handles POST /registrations.
func (h *RegistrationHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.registrationService.Register(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Redeem handles POST /registrations/redeem: the invite link click.
func (h *RegistrationHandler) Redeem(c *gin.Context) {
	var req dto.RedeemRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.accountService.Redeem(c.Request.Context(), req.Token)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RequestPasswordReset handles POST /auth/password-reset/request. Always
// returns 202 so the endpoint cannot enumerate accounts.
func (h *RegistrationHandler) RequestPasswordReset(c *gin.Context) {
	var req dto.PasswordResetRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.accountService.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "ok"})
}

// ConfirmPasswordReset handles POST /auth/password-reset/confirm.
func (h *RegistrationHandler) ConfirmPasswordReset(c *gin.Context) {
	var req dto.PasswordResetConfirm
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.accountService.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
