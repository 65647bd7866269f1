package models

type PlayerStatus string
type PaymentStatus string
type PaymentType string
type TokenPurpose string

const (
	PlayerStatusPending  PlayerStatus = "pending"
	PlayerStatusActive   PlayerStatus = "active"
	PlayerStatusOnHold   PlayerStatus = "on_hold"
	PlayerStatusInactive PlayerStatus = "inactive"

	// Payment status transitions are pending->paid or pending->failed only;
	// both end states are terminal.
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"

	PaymentTypeAnnual    PaymentType = "annual"
	PaymentTypeMonthly   PaymentType = "monthly"
	PaymentTypeQuarterly PaymentType = "quarterly"
	PaymentTypeCustom    PaymentType = "custom"

	TokenPurposeRegistration   TokenPurpose = "registration"
	TokenPurposeCheckoutAccess TokenPurpose = "checkout_access"
	TokenPurposePasswordReset  TokenPurpose = "password_reset"
)

func (t PaymentType) Valid() bool {
	switch t {
	case PaymentTypeAnnual, PaymentTypeMonthly, PaymentTypeQuarterly, PaymentTypeCustom:
		return true
	}
	return false
}
