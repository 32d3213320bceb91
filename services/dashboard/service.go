package dashboard

import (
	"fmt"
	"time"

	evalModel "pbl-review/models/evaluation"

	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

// DefaultPassMark is the total below which a review counts as failed.
const DefaultPassMark = 20.0

// Counts is the top block of the dashboard payload.
type Counts struct {
	Students        int64 `json:"students"`
	Groups          int64 `json:"groups"`
	GroupedStudents int64 `json:"grouped_students"`
	Mentors         int64 `json:"mentors"`
	Externals       int64 `json:"externals"`
	EvaluatedGroups int64 `json:"evaluated_groups"`
}

// Buckets is the chart-ready pass/fail/pending classification per stage.
type Buckets struct {
	Pass    []string `json:"pass"`
	Fail    []string `json:"fail"`
	Pending []string `json:"pending"`
}

// Summary is the full aggregator response.
type Summary struct {
	Counts  Counts             `json:"counts"`
	Reviews map[string]Buckets `json:"reviews"`
	Window  struct {
		From time.Time `json:"from"`
		To   time.Time `json:"to"`
	} `json:"window"`
}

// Service computes dashboard aggregates. Counting happens in the database
// (COUNT, COUNT(DISTINCT ...)); only the per-group bucketing is done in
// the handler process, from the already-filtered evaluation rows.
type Service struct {
	DB       *gorm.DB
	PassMark float64
}

func NewDashboardService(db *gorm.DB) *Service {
	return &Service{DB: db, PassMark: DefaultPassMark}
}

// Summarize builds the dashboard for the optional year/class filters.
func (s *Service) Summarize(year int, class string) (*Summary, error) {
	sum := &Summary{Reviews: make(map[string]Buckets)}

	// Counts pushed down to the database.
	type countQuery struct {
		dst   *int64
		query string
		args  []interface{}
	}

	studentFilter, studentArgs := filterSQL("", year, class)
	groupFilter, groupArgs := filterSQL("", year, class)

	queries := []countQuery{
		{&sum.Counts.Students, "SELECT COUNT(*) FROM students WHERE deleted_at IS NULL" + studentFilter, studentArgs},
		{&sum.Counts.Groups, "SELECT COUNT(*) FROM groups WHERE deleted_at IS NULL" + groupFilter, groupArgs},
		{&sum.Counts.GroupedStudents, "SELECT COUNT(*) FROM students WHERE group_id IS NOT NULL AND deleted_at IS NULL" + studentFilter, studentArgs},
		{&sum.Counts.Mentors, "SELECT COUNT(*) FROM mentors WHERE deleted_at IS NULL", nil},
		{&sum.Counts.Externals, "SELECT COUNT(*) FROM externals WHERE deleted_at IS NULL" + filterYearOnlySQL(year), yearArgs(year)},
		{&sum.Counts.EvaluatedGroups, "SELECT COUNT(DISTINCT e.group_id) FROM evaluations e JOIN groups g ON g.group_id = e.group_id WHERE g.deleted_at IS NULL" + filterSQLAliased("g", year, class), filterArgs(year, class)},
	}

	for _, q := range queries {
		if err := s.DB.Raw(q.query, q.args...).Scan(q.dst).Error; err != nil {
			return nil, fmt.Errorf("dashboard count query failed: %w", err)
		}
	}

	// Academic window: January 1st of the current year through now.
	from := now.BeginningOfYear()
	sum.Window.From = from
	sum.Window.To = time.Now()

	// Per-stage bucketing from raw rows.
	groupIDs, err := s.groupIDs(year, class)
	if err != nil {
		return nil, err
	}

	var rows []evalModel.Evaluation
	q := s.DB.Model(&evalModel.Evaluation{}).
		Joins("JOIN groups ON groups.group_id = evaluations.group_id")
	if year > 0 {
		q = q.Where("groups.year = ?", year)
	}
	if class != "" {
		q = q.Where("groups.class = ?", class)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("dashboard evaluation scan failed: %w", err)
	}

	for _, stage := range []string{evalModel.StageReview1, evalModel.StageReview2, evalModel.StageReview3} {
		sum.Reviews[stage] = BucketStage(rows, groupIDs, stage, s.PassMark)
	}

	return sum, nil
}

func (s *Service) groupIDs(year int, class string) ([]string, error) {
	q := s.DB.Table("groups").Where("deleted_at IS NULL")
	if year > 0 {
		q = q.Where("year = ?", year)
	}
	if class != "" {
		q = q.Where("class = ?", class)
	}

	var ids []string
	if err := q.Pluck("group_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("dashboard group list failed: %w", err)
	}
	return ids, nil
}

// BucketStage classifies every known group for one review stage: pass when
// the group's per-student average total reaches passMark, fail when it is
// evaluated but below, pending when no row for the stage exists.
func BucketStage(rows []evalModel.Evaluation, groupIDs []string, stage string, passMark float64) Buckets {
	totals := make(map[string]float64)
	counts := make(map[string]int)

	for _, row := range rows {
		if row.Stage != stage {
			continue
		}
		totals[row.GroupID] += row.Total
		counts[row.GroupID]++
	}

	b := Buckets{Pass: []string{}, Fail: []string{}, Pending: []string{}}
	for _, id := range groupIDs {
		n, evaluated := counts[id]
		if !evaluated {
			b.Pending = append(b.Pending, id)
			continue
		}
		if totals[id]/float64(n) >= passMark {
			b.Pass = append(b.Pass, id)
		} else {
			b.Fail = append(b.Fail, id)
		}
	}
	return b
}

// DistinctGroupCount returns the number of distinct non-nil group ids in
// rows. Kept as a pure helper mirroring the COUNT(DISTINCT ...) the
// summary runs in SQL.
func DistinctGroupCount(groupIDs []*string) int {
	seen := make(map[string]struct{})
	for _, id := range groupIDs {
		if id == nil || *id == "" {
			continue
		}
		seen[*id] = struct{}{}
	}
	return len(seen)
}

func filterSQL(alias string, year int, class string) (string, []interface{}) {
	prefix := ""
	if alias != "" {
		prefix = alias + "."
	}

	sql := ""
	var args []interface{}
	if year > 0 {
		sql += " AND " + prefix + "year = ?"
		args = append(args, year)
	}
	if class != "" {
		sql += " AND " + prefix + "class = ?"
		args = append(args, class)
	}
	return sql, args
}

func filterSQLAliased(alias string, year int, class string) string {
	sql, _ := filterSQL(alias, year, class)
	return sql
}

func filterArgs(year int, class string) []interface{} {
	_, args := filterSQL("", year, class)
	return args
}

func filterYearOnlySQL(year int) string {
	if year > 0 {
		return " AND year = ?"
	}
	return ""
}

func yearArgs(year int) []interface{} {
	if year > 0 {
		return []interface{}{year}
	}
	return nil
}
