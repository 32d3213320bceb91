package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func f(v float64) *float64 { return &v }

func TestValidStage(t *testing.T) {
	assert.True(t, ValidStage(StageReview1))
	assert.True(t, ValidStage(StageReview2))
	assert.True(t, ValidStage(StageReview3))
	assert.False(t, ValidStage("review4"))
	assert.False(t, ValidStage(""))
}

func TestComputeTotalReview1(t *testing.T) {
	e := Evaluation{
		Stage: StageReview1,
		A:     f(8), B: f(9), C: f(7), D: f(8), E: f(9),
	}
	e.ComputeTotal()
	assert.Equal(t, 41.0, e.Total)
}

func TestComputeTotalIgnoresMilestonesForReview1(t *testing.T) {
	e := Evaluation{
		Stage: StageReview1,
		A:     f(10), B: f(10),
		M1: f(99), M7: f(99),
	}
	e.ComputeTotal()
	assert.Equal(t, 20.0, e.Total)
}

func TestComputeTotalReview2SkipsUnsetComponents(t *testing.T) {
	e := Evaluation{
		Stage: StageReview2,
		M1:    f(5), M3: f(4), M7: f(6),
	}
	e.ComputeTotal()
	assert.Equal(t, 15.0, e.Total)
}

func TestComputeTotalEmpty(t *testing.T) {
	e := Evaluation{Stage: StageReview3}
	e.ComputeTotal()
	assert.Equal(t, 0.0, e.Total)
}

func TestComponentsOrder(t *testing.T) {
	e := Evaluation{
		Stage: StageReview1,
		A:     f(1), C: f(3), E: f(5),
	}
	assert.Equal(t, []float64{1, 3, 5}, e.Components())
}
