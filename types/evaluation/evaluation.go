package evaluation

import "github.com/go-playground/validator/v10"

// StudentMarks carries the component marks for one student. Only the
// fields matching the submitted stage are read; the rest stay nil.
type StudentMarks struct {
	EnrollmentNo string `json:"enrolment_no" validate:"required,max=50"`

	A *float64 `json:"A" validate:"omitempty,min=0"`
	B *float64 `json:"B" validate:"omitempty,min=0"`
	C *float64 `json:"C" validate:"omitempty,min=0"`
	D *float64 `json:"D" validate:"omitempty,min=0"`
	E *float64 `json:"E" validate:"omitempty,min=0"`

	M1 *float64 `json:"M1" validate:"omitempty,min=0"`
	M2 *float64 `json:"M2" validate:"omitempty,min=0"`
	M3 *float64 `json:"M3" validate:"omitempty,min=0"`
	M4 *float64 `json:"M4" validate:"omitempty,min=0"`
	M5 *float64 `json:"M5" validate:"omitempty,min=0"`
	M6 *float64 `json:"M6" validate:"omitempty,min=0"`
	M7 *float64 `json:"M7" validate:"omitempty,min=0"`
}

// SaveEvaluationRequest upserts marks for every listed student of a group.
type SaveEvaluationRequest struct {
	GroupID     string         `json:"group_id" validate:"required,max=50"`
	Stage       string         `json:"stage" validate:"required,oneof=review1 review2 review3"`
	Evaluations []StudentMarks `json:"evaluations" validate:"required,min=1,dive"`
	Feedback    string         `json:"feedback"`
	GuideName   string         `json:"guide_name"`
}

func (req *SaveEvaluationRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(req)
}
