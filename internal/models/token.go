package models

import "time"

// Token is a single-use, expiring credential. Owned exclusively by the token
// store; validity check and consumption are one atomic step there.
type Token struct {
	BaseModel
	Value     string       `gorm:"uniqueIndex;not null"`
	Purpose   TokenPurpose `gorm:"type:varchar(30);not null;index"`
	SubjectID string       `gorm:"not null;index"`
	IssuedAt  time.Time    `gorm:"not null"`
	ExpiresAt time.Time    `gorm:"not null"`
	UsedAt    *time.Time
}

// Usable reports validity at a point in time. The authoritative check is the
// conditional update in the repository; this is for diagnostics and peeks.
func (t *Token) Usable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}
