package student

import "github.com/go-playground/validator/v10"

type StoreStudentRequest struct {
	EnrollmentNo string `json:"enrollment_no" validate:"required,max=50"`
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"omitempty,len=10,numeric"`
	Year         int    `json:"year" validate:"required,min=2000"`
	Class        string `json:"class" validate:"required,max=50"`
}

func (req *StoreStudentRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(req)
}

type UpdateStudentRequest struct {
	Name  string `json:"name" validate:"omitempty"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"omitempty,len=10,numeric"`
	Year  int    `json:"year" validate:"omitempty,min=2000"`
	Class string `json:"class" validate:"omitempty,max=50"`
}

func (req *UpdateStudentRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(req)
}
