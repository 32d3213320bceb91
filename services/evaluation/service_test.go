package evaluation

import (
	"testing"

	evalModel "pbl-review/models/evaluation"
	evalTypes "pbl-review/types/evaluation"

	"github.com/stretchr/testify/assert"
)

func f(v float64) *float64 { return &v }

func TestBuildRowReview1(t *testing.T) {
	marks := evalTypes.StudentMarks{
		EnrollmentNo: "EN-001",
		A:            f(8), B: f(9), C: f(7), D: f(8), E: f(9),
		M1: f(99), // milestone marks are ignored for review 1
	}

	row := BuildRow("G1", evalModel.StageReview1, marks, "good progress", "Dr. Rao", "mentor1")

	assert.Equal(t, "G1", row.GroupID)
	assert.Equal(t, "EN-001", row.EnrollmentNo)
	assert.Equal(t, evalModel.StageReview1, row.Stage)
	assert.Equal(t, 41.0, row.Total)
	assert.Nil(t, row.M1)
	assert.Equal(t, "good progress", row.Feedback)
	assert.Equal(t, "Dr. Rao", row.GuideName)
	assert.Equal(t, "mentor1", row.EvaluatedBy)
}

func TestBuildRowReview3(t *testing.T) {
	marks := evalTypes.StudentMarks{
		EnrollmentNo: "EN-002",
		A:            f(99), // review 1 marks are ignored for review 3
		M1:           f(3), M2: f(4), M3: f(5), M4: f(3), M5: f(4), M6: f(5), M7: f(6),
	}

	row := BuildRow("G2", evalModel.StageReview3, marks, "", "", "external1")

	assert.Equal(t, evalModel.StageReview3, row.Stage)
	assert.Equal(t, 30.0, row.Total)
	assert.Nil(t, row.A)
}

func TestBuildRowPartialMarks(t *testing.T) {
	marks := evalTypes.StudentMarks{
		EnrollmentNo: "EN-003",
		M2:           f(7), M5: f(8),
	}

	row := BuildRow("G3", evalModel.StageReview2, marks, "", "", "")

	assert.Equal(t, 15.0, row.Total)
	assert.Nil(t, row.M1)
	assert.NotNil(t, row.M2)
}
