package apperrors

import "net/http"

// Predefined domain errors. Token failures all collapse into one message so
// the API never acts as a token-guessing oracle.
var (
	// Tokens
	ErrTokenInvalid = New(CodeTokenInvalid, "token", "This link is invalid or has expired", http.StatusGone)

	// Registration
	ErrRegistrationNotFound = New(CodeRegistrationNotFound, "registration", "Registration not found", http.StatusNotFound)

	// Parents / players
	ErrParentNotFound = New(CodeParentNotFound, "account", "Parent not found", http.StatusNotFound)
	ErrPlayerNotFound = New(CodePlayerNotFound, "account", "Player not found", http.StatusNotFound)
	ErrEmailRequired  = New(CodeEmailRequired, "checkout", "A contact email is required before checkout", http.StatusBadRequest)

	// Payments
	ErrPaymentNotFound    = New(CodePaymentNotFound, "payment", "Payment not found", http.StatusNotFound)
	ErrInvalidPaymentType = New(CodeInvalidPaymentType, "checkout", "Unsupported payment type", http.StatusBadRequest)
	ErrAmountTooSmall     = New(CodeAmountTooSmall, "checkout", "Custom payments must be at least $0.50", http.StatusBadRequest)
)

// AreaNotServed carries the geo collaborator's reason plus an override hint.
func AreaNotServed(reason string) *AppError {
	return New(CodeAreaNotServed, "registration", "We do not currently serve your area", http.StatusBadRequest).
		WithDetails(map[string]interface{}{
			"reason":   reason,
			"override": true,
		})
}

// GatewayError wraps a failed third-party payment call. External triggers
// (webhook redelivery, client re-poll) are the retry mechanism.
func GatewayError(err error) *AppError {
	return Wrap(err, CodeGatewayError, "gateway", "Payment provider is temporarily unavailable", http.StatusBadGateway)
}
