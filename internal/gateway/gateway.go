package gateway

import "context"

// SessionStatus is the gateway's authoritative view of a checkout session.
type SessionStatus string

const (
	SessionStatusPaid   SessionStatus = "paid"
	SessionStatusUnpaid SessionStatus = "unpaid"
	SessionStatusFailed SessionStatus = "failed"
)

// CreateSessionParams describes one checkout attempt.
type CreateSessionParams struct {
	CustomerID  string
	PlayerID    string // carried as the client reference on the session
	Description string
	// AmountDollars is converted to integer cents at the wire boundary.
	AmountDollars float64
	SuccessURL    string
	CancelURL     string
}

// Session is the created gateway session. ID doubles as the local
// idempotency key; URL is where the payer is redirected.
type Session struct {
	ID  string
	URL string
}

// WebhookEvent is a verified inbound gateway notification. Relevant is false
// for event types reconciliation does not care about.
type WebhookEvent struct {
	SessionID string
	Relevant  bool
}

// PaymentGateway is the third-party payment collaborator. Implementations
// must be safe for concurrent use.
type PaymentGateway interface {
	CreateCustomer(ctx context.Context, email, name string) (string, error)
	CreateCheckoutSession(ctx context.Context, params CreateSessionParams) (*Session, error)
	GetSessionStatus(ctx context.Context, sessionID string) (SessionStatus, error)
	// VerifyWebhook authenticates a raw webhook delivery and extracts the
	// session reference.
	VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error)
}
