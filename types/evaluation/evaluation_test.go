package evaluation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveEvaluationRequestValidate(t *testing.T) {
	req := SaveEvaluationRequest{
		GroupID: "G1",
		Stage:   "review1",
		Evaluations: []StudentMarks{
			{EnrollmentNo: "EN-001"},
		},
	}
	assert.NoError(t, req.Validate())
}

func TestSaveEvaluationRequestRejectsBadStage(t *testing.T) {
	req := SaveEvaluationRequest{
		GroupID: "G1",
		Stage:   "review4",
		Evaluations: []StudentMarks{
			{EnrollmentNo: "EN-001"},
		},
	}
	assert.Error(t, req.Validate())
}

func TestSaveEvaluationRequestRequiresStudents(t *testing.T) {
	req := SaveEvaluationRequest{
		GroupID:     "G1",
		Stage:       "review2",
		Evaluations: []StudentMarks{},
	}
	assert.Error(t, req.Validate())
}

func TestSaveEvaluationRequestRequiresEnrollment(t *testing.T) {
	req := SaveEvaluationRequest{
		GroupID: "G1",
		Stage:   "review1",
		Evaluations: []StudentMarks{
			{EnrollmentNo: ""},
		},
	}
	assert.Error(t, req.Validate())
}

func TestStudentMarksJSONKeys(t *testing.T) {
	payload := `{"enrolment_no":"EN-001","A":8,"M3":4.5}`

	var marks StudentMarks
	require.NoError(t, json.Unmarshal([]byte(payload), &marks))

	assert.Equal(t, "EN-001", marks.EnrollmentNo)
	require.NotNil(t, marks.A)
	assert.Equal(t, 8.0, *marks.A)
	require.NotNil(t, marks.M3)
	assert.Equal(t, 4.5, *marks.M3)
	assert.Nil(t, marks.B)
}
