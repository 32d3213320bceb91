package dashboard

import (
	"testing"

	evalModel "pbl-review/models/evaluation"

	"github.com/stretchr/testify/assert"
)

func row(groupID, stage string, total float64) evalModel.Evaluation {
	return evalModel.Evaluation{GroupID: groupID, Stage: stage, Total: total}
}

func TestBucketStage(t *testing.T) {
	groupIDs := []string{"G1", "G2", "G3"}
	rows := []evalModel.Evaluation{
		// G1 averages 25: pass
		row("G1", evalModel.StageReview1, 30),
		row("G1", evalModel.StageReview1, 20),
		// G2 averages 10: fail
		row("G2", evalModel.StageReview1, 10),
		// G3 has no review1 rows: pending
		row("G3", evalModel.StageReview2, 40),
	}

	b := BucketStage(rows, groupIDs, evalModel.StageReview1, DefaultPassMark)

	assert.Equal(t, []string{"G1"}, b.Pass)
	assert.Equal(t, []string{"G2"}, b.Fail)
	assert.Equal(t, []string{"G3"}, b.Pending)
}

func TestBucketStageBoundary(t *testing.T) {
	rows := []evalModel.Evaluation{
		row("G1", evalModel.StageReview2, DefaultPassMark),
	}

	b := BucketStage(rows, []string{"G1"}, evalModel.StageReview2, DefaultPassMark)

	// Exactly on the pass mark counts as a pass.
	assert.Equal(t, []string{"G1"}, b.Pass)
	assert.Empty(t, b.Fail)
	assert.Empty(t, b.Pending)
}

func TestBucketStageNoGroups(t *testing.T) {
	b := BucketStage(nil, nil, evalModel.StageReview1, DefaultPassMark)

	assert.Empty(t, b.Pass)
	assert.Empty(t, b.Fail)
	assert.Empty(t, b.Pending)
}

func TestDistinctGroupCount(t *testing.T) {
	g1, g2, g3, empty := "G1", "G2", "G3", ""
	ids := []*string{&g1, &g1, &g2, nil, &g3, &empty}

	assert.Equal(t, 3, DistinctGroupCount(ids))
}

func TestDistinctGroupCountEmpty(t *testing.T) {
	assert.Equal(t, 0, DistinctGroupCount(nil))
	assert.Equal(t, 0, DistinctGroupCount([]*string{nil, nil}))
}
