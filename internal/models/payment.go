package models

import "time"

// Payment is one checkout attempt. GatewaySessionID is the idempotency key:
// every reconciliation trigger resolves through it.
type Payment struct {
	BaseModel
	PlayerID         string        `gorm:"not null;index"`
	GatewaySessionID string        `gorm:"uniqueIndex;not null"`
	Amount           float64       `gorm:"not null"`
	PaymentType      PaymentType   `gorm:"type:varchar(20);not null"`
	Status           PaymentStatus `gorm:"type:varchar(20);default:'pending'"`
	PaidAt           *time.Time
}
