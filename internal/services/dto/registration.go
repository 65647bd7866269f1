package dto

type ParentInfo struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Phone     string `json:"phone" validate:"omitempty,max=30"`
}

type PlayerInfo struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Gender    string `json:"gender" validate:"omitempty,oneof=male female other"`
	// Birthdate is a "2006-01-02" date string.
	Birthdate  string `json:"birthdate" validate:"required,pastdate"`
	Grade      string `json:"grade" validate:"omitempty,max=20"`
	Experience string `json:"experience" validate:"omitempty,max=200"`
}

type RegisterRequest struct {
	Parent ParentInfo `json:"parent"`
	Player PlayerInfo `json:"player"`
	Zip    string     `json:"zip" validate:"required,zipcode"`
	// AreaOverride lets a caller proceed past a service-area rejection,
	// e.g. a family moving into the area.
	AreaOverride bool `json:"areaOverride"`
}

type RegisterResponse struct {
	RegistrationID string `json:"registrationId"`
	TokenIssued    bool   `json:"tokenIssued"`
}
