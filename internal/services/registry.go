package services

import "clubreg_backend/internal/email"

// ServiceContainer holds all application services.
type ServiceContainer struct {
	TokenService        TokenService
	RegistrationService RegistrationService
	AccountService      AccountService
	CheckoutService     CheckoutService
	PaymentService      PaymentService
	EmailService        email.Provider
}
