package auth

import "github.com/go-playground/validator/v10"

// RegisterRequest creates a login account tied to a role.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=100"`
	LegalName string `json:"legal_name" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone" validate:"omitempty,len=10,numeric"`
	Password  string `json:"password" validate:"required,min=8"`
	Role      string `json:"role" validate:"required,oneof=admin mentor student external"`
}

func (req *RegisterRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(req)
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (req *LoginRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(req)
}
