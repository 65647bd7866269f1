package models

import "gorm.io/datatypes"

type Parent struct {
	BaseModel
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string
	FirstName    string `gorm:"not null"`
	LastName     string `gorm:"not null"`
	Phone        string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	Zip          string

	// Consents holds signed waiver/communication flags, e.g.
	// {"photo_release": true, "sms_updates": false}
	Consents datatypes.JSON `gorm:"type:jsonb"`

	// Relations
	Players []Player `gorm:"foreignKey:ParentID"`
}
