package models

import "time"

// PendingRegistration is an unverified signup awaiting the email link click.
// Rows are never deleted; MergedAt marks the one-time conversion into a
// (Parent, Player) pair. At most one non-merged row exists per email --
// re-registering overwrites the row (and its token) in place.
type PendingRegistration struct {
	BaseModel
	Email           string `gorm:"not null;index"`
	ParentFirstName string `gorm:"not null"`
	ParentLastName  string `gorm:"not null"`
	ParentPhone     string

	PlayerFirstName string    `gorm:"not null"`
	PlayerLastName  string    `gorm:"not null"`
	PlayerGender    string
	PlayerBirthdate time.Time `gorm:"not null"`
	PlayerGrade     string
	PlayerExperience string
	Zip             string

	Token          string    `gorm:"index"`
	TokenExpiresAt time.Time

	MergedAt *time.Time
	ParentID *string
	PlayerID *string
}

func (r *PendingRegistration) Merged() bool {
	return r.MergedAt != nil
}
