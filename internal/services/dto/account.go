package dto

type RedeemRequest struct {
	Token string `json:"token" validate:"required"`
}

type RedeemResponse struct {
	ParentID string `json:"parentId"`
	PlayerID string `json:"playerId"`
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type PasswordResetConfirm struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=128"`
}
