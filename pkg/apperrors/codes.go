package apperrors

// ErrorCode is a stable machine-readable identifier for an error class.
type ErrorCode string

const (
	// Generic
	CodeInternalError    ErrorCode = "INTERNAL_ERROR"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeConflict         ErrorCode = "CONFLICT"

	// Tokens
	CodeTokenInvalid ErrorCode = "TOKEN_INVALID"

	// Registration
	CodeRegistrationNotFound ErrorCode = "REGISTRATION_NOT_FOUND"
	CodeAreaNotServed        ErrorCode = "AREA_NOT_SERVED"

	// Players / parents
	CodeParentNotFound ErrorCode = "PARENT_NOT_FOUND"
	CodePlayerNotFound ErrorCode = "PLAYER_NOT_FOUND"
	CodeEmailRequired  ErrorCode = "EMAIL_REQUIRED"

	// Payments
	CodePaymentNotFound    ErrorCode = "PAYMENT_NOT_FOUND"
	CodeInvalidPaymentType ErrorCode = "INVALID_PAYMENT_TYPE"
	CodeAmountTooSmall     ErrorCode = "AMOUNT_TOO_SMALL"
	CodeGatewayError       ErrorCode = "GATEWAY_ERROR"
)
