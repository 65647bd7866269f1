package dto

type CreateCheckoutRequest struct {
	PlayerID    string `json:"playerId" validate:"required"`
	PaymentType string `json:"paymentType" validate:"required,paymenttype"`
	// Amount is only read for the custom payment type (dollars).
	Amount float64 `json:"amount" validate:"omitempty,gte=0"`
	// AccessToken is the single-use checkout link credential for parents
	// arriving from the confirmation email.
	AccessToken string `json:"accessToken"`
}

type CreateCheckoutResponse struct {
	RedirectURL string `json:"redirectUrl"`
	SessionID   string `json:"sessionId"`
}

type PaymentStatusResponse struct {
	PlayerID      string  `json:"playerId"`
	PlayerStatus  string  `json:"playerStatus"`
	PaymentStatus string  `json:"paymentStatus,omitempty"`
	PaymentType   string  `json:"paymentType,omitempty"`
	Amount        float64 `json:"amount,omitempty"`
	SessionID     string  `json:"sessionId,omitempty"`
}

// ReconcileResult reports what a reconciliation pass did. Already means the
// payment had been applied before this call; Applied means this call won the
// pending->paid transition.
type ReconcileResult struct {
	Already bool `json:"already"`
	Applied bool `json:"applied"`
}
