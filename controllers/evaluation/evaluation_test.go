package evaluation

import (
	"encoding/csv"
	"strings"
	"testing"

	evalModel "pbl-review/models/evaluation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestRenderCSV(t *testing.T) {
	rows := []evalModel.Evaluation{
		{
			GroupID:      "G1",
			EnrollmentNo: "EN-001",
			Stage:        evalModel.StageReview1,
			A:            f(8), B: f(9), C: f(7), D: f(8), E: f(9),
			Total:     41,
			GuideName: "Dr. Rao",
		},
		{
			GroupID:      "G1",
			EnrollmentNo: "EN-001",
			Stage:        evalModel.StageReview2,
			M1:           f(5), M2: f(4.5),
			Total: 9.5,
		},
	}

	payload, err := RenderCSV(rows)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(payload))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "group_id", records[0][0])
	assert.Equal(t, "total", records[0][15])

	// Review 1 row has A..E filled and milestones empty.
	assert.Equal(t, "G1", records[1][0])
	assert.Equal(t, "review1", records[1][2])
	assert.Equal(t, "8", records[1][3])
	assert.Equal(t, "", records[1][8])
	assert.Equal(t, "41", records[1][15])
	assert.Equal(t, "Dr. Rao", records[1][16])

	// Review 2 row has milestones and empty A..E.
	assert.Equal(t, "review2", records[2][2])
	assert.Equal(t, "", records[2][3])
	assert.Equal(t, "5", records[2][8])
	assert.Equal(t, "4.5", records[2][9])
	assert.Equal(t, "9.5", records[2][15])
}

func TestRenderCSVEmpty(t *testing.T) {
	payload, err := RenderCSV(nil)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(payload))).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestExtractJSONFromMarkdown(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSONFromMarkdown("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, extractJSONFromMarkdown("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, extractJSONFromMarkdown(`{"a":1}`))
}

func TestIsValidImageType(t *testing.T) {
	assert.True(t, isValidImageType("image/png"))
	assert.True(t, isValidImageType("image/jpeg"))
	assert.False(t, isValidImageType("application/pdf"))
	assert.False(t, isValidImageType(""))
}
