package models

import "time"

type Player struct {
	BaseModel
	ParentID    string    `gorm:"not null;index"`
	FirstName   string    `gorm:"not null"`
	LastName    string    `gorm:"not null"`
	DateOfBirth time.Time `gorm:"not null"`
	Gender      string
	Grade       string
	Experience  string
	TeamID      *string
	// Status is the lifecycle signal rosters and dashboards consume.
	Status            PlayerStatus `gorm:"type:varchar(20);default:'pending'"`
	GatewayCustomerID string
	IsDeleted         bool `gorm:"default:false"`

	// Relations
	Payments []Payment `gorm:"foreignKey:PlayerID"`
}
