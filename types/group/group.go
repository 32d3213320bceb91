package group

import "github.com/go-playground/validator/v10"

type StoreGroupRequest struct {
	GroupID      string `json:"group_id" validate:"required,max=50"`
	ProjectTitle string `json:"project_title" validate:"required,max=500"`
	Year         int    `json:"year" validate:"required,min=2000"`
	Class        string `json:"class" validate:"required,max=50"`
	MentorID     *uint  `json:"mentor_id"`
}

func (req *StoreGroupRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(req)
}

type UpdateGroupRequest struct {
	ProjectTitle string `json:"project_title" validate:"omitempty,max=500"`
	MentorID     *uint  `json:"mentor_id"`
	Status       string `json:"status" validate:"omitempty,oneof=active completed"`
}

func (req *UpdateGroupRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(req)
}

// JoinGroupRequest is filed by a student asking to be assigned to a group.
type JoinGroupRequest struct {
	GroupID      string `json:"group_id" validate:"required,max=50"`
	EnrollmentNo string `json:"enrollment_no" validate:"required,max=50"`
}

func (req *JoinGroupRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(req)
}

// DecideJoinRequest approves or rejects a pending join request.
type DecideJoinRequest struct {
	RequestID uint   `json:"request_id" validate:"required"`
	Decision  string `json:"decision" validate:"required,oneof=approved rejected"`
}

func (req *DecideJoinRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(req)
}
