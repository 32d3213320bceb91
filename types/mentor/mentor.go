package mentor

import "github.com/go-playground/validator/v10"

type StoreMentorRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"omitempty,len=10,numeric"`
	Department      string `json:"department" validate:"omitempty,max=100"`
	AssignedClasses string `json:"assigned_classes" validate:"omitempty,max=255"`
}

func (req *StoreMentorRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(req)
}

type UpdateMentorRequest struct {
	Name            string `json:"name" validate:"omitempty"`
	Email           string `json:"email" validate:"omitempty,email"`
	Phone           string `json:"phone" validate:"omitempty,len=10,numeric"`
	Department      string `json:"department" validate:"omitempty,max=100"`
	AssignedClasses string `json:"assigned_classes" validate:"omitempty,max=255"`
}

func (req *UpdateMentorRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(req)
}
