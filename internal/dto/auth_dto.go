package dto

import "github.com/shulehub/shule-api/internal/models"

// RegisterRequest is the open registration payload. It creates the account,
// its teacher profile and the default profile in one step.
type RegisterRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=150"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	SchoolName  string `json:"school_name" validate:"omitempty,max=100"`
	MobilePhone string `json:"mobile_phone" validate:"omitempty,len=10,numeric"`
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse echoes the issued token, matching the legacy contract.
type LoginResponse struct {
	Token    string `json:"token"`
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

// AccountResponse is the compact account representation embedded in other
// resources.
type AccountResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// NewAccountResponse converts an account model into a DTO.
func NewAccountResponse(model models.Account) AccountResponse {
	return AccountResponse{
		ID:       model.ID,
		Username: model.Username,
		Email:    model.Email,
	}
}
