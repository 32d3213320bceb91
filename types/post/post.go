package post

import "github.com/go-playground/validator/v10"

type StorePostRequest struct {
	GroupID string `json:"group_id" validate:"required,max=50"`
	Title   string `json:"title" validate:"required,max=255"`
	Body    string `json:"body"`
}

func (req *StorePostRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(req)
}

type StoreAnnouncementRequest struct {
	Title    string `json:"title" validate:"required,max=255"`
	Body     string `json:"body" validate:"required"`
	Audience string `json:"audience" validate:"omitempty,oneof=all students mentors externals"`
}

func (req *StoreAnnouncementRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(req)
}
