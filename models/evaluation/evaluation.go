package evaluation

import (
	"time"
)

// Review stages. Review 1 grades components A..E, reviews 2 and 3 grade
// the milestone components M1..M7.
const (
	StageReview1 = "review1"
	StageReview2 = "review2"
	StageReview3 = "review3"
)

// ValidStage reports whether stage names a known review stage.
func ValidStage(stage string) bool {
	switch stage {
	case StageReview1, StageReview2, StageReview3:
		return true
	}
	return false
}

// Evaluation is one student's marks for one review stage of their group,
// unique on (group_id, enrollment_no, stage). Total is recomputed from the
// components on every write and never stored independently.
type Evaluation struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	GroupID      string `gorm:"type:varchar(50);not null;index:idx_eval_key,unique" json:"group_id"`
	EnrollmentNo string `gorm:"type:varchar(50);not null;index:idx_eval_key,unique" json:"enrollment_no"`
	Stage        string `gorm:"type:varchar(20);not null;index:idx_eval_key,unique" json:"stage"`

	// Review 1 components
	A *float64 `json:"A,omitempty"`
	B *float64 `json:"B,omitempty"`
	C *float64 `json:"C,omitempty"`
	D *float64 `json:"D,omitempty"`
	E *float64 `json:"E,omitempty"`

	// Review 2/3 components
	M1 *float64 `json:"M1,omitempty"`
	M2 *float64 `json:"M2,omitempty"`
	M3 *float64 `json:"M3,omitempty"`
	M4 *float64 `json:"M4,omitempty"`
	M5 *float64 `json:"M5,omitempty"`
	M6 *float64 `json:"M6,omitempty"`
	M7 *float64 `json:"M7,omitempty"`

	Total     float64 `gorm:"not null" json:"total"`
	Feedback  string  `gorm:"type:text" json:"feedback"`
	GuideName string  `gorm:"type:varchar(255)" json:"guide_name"`

	EvaluatedBy string    `gorm:"type:varchar(255)" json:"evaluated_by,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Components returns the component marks relevant to the row's stage,
// in declaration order, skipping unset fields.
func (e *Evaluation) Components() []float64 {
	var fields []*float64
	if e.Stage == StageReview1 {
		fields = []*float64{e.A, e.B, e.C, e.D, e.E}
	} else {
		fields = []*float64{e.M1, e.M2, e.M3, e.M4, e.M5, e.M6, e.M7}
	}

	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		if f != nil {
			out = append(out, *f)
		}
	}
	return out
}

// ComputeTotal recomputes Total as the sum of the set components.
func (e *Evaluation) ComputeTotal() {
	sum := 0.0
	for _, v := range e.Components() {
		sum += v
	}
	e.Total = sum
}
