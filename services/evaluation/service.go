package evaluation

import (
	"errors"
	"fmt"

	evalModel "pbl-review/models/evaluation"
	evalTypes "pbl-review/types/evaluation"

	"gorm.io/gorm"
)

var ErrGroupNotFound = errors.New("group not found")

// Service persists evaluation marks.
type Service struct {
	DB *gorm.DB
}

func NewEvaluationService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// BuildRow maps one student's submitted marks onto an Evaluation row for
// the given stage and recomputes the total from the set components.
func BuildRow(groupID, stage string, marks evalTypes.StudentMarks, feedback, guideName, evaluatedBy string) evalModel.Evaluation {
	row := evalModel.Evaluation{
		GroupID:      groupID,
		EnrollmentNo: marks.EnrollmentNo,
		Stage:        stage,
		Feedback:     feedback,
		GuideName:    guideName,
		EvaluatedBy:  evaluatedBy,
	}

	if stage == evalModel.StageReview1 {
		row.A, row.B, row.C, row.D, row.E = marks.A, marks.B, marks.C, marks.D, marks.E
	} else {
		row.M1, row.M2, row.M3 = marks.M1, marks.M2, marks.M3
		row.M4, row.M5, row.M6, row.M7 = marks.M4, marks.M5, marks.M6, marks.M7
	}

	row.ComputeTotal()
	return row
}

// SaveEvaluations upserts one row per student inside a single transaction:
// either every student's marks land or none do. The upsert key is
// (group_id, enrollment_no, stage).
func (s *Service) SaveEvaluations(req evalTypes.SaveEvaluationRequest, evaluatedBy string) ([]evalModel.Evaluation, error) {
	applied := make([]evalModel.Evaluation, 0, len(req.Evaluations))

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var groupCount int64
		if err := tx.Table("groups").Where("group_id = ?", req.GroupID).Count(&groupCount).Error; err != nil {
			return fmt.Errorf("failed to look up group %s: %w", req.GroupID, err)
		}
		if groupCount == 0 {
			return ErrGroupNotFound
		}

		for _, marks := range req.Evaluations {
			row := BuildRow(req.GroupID, req.Stage, marks, req.Feedback, req.GuideName, evaluatedBy)

			var existing evalModel.Evaluation
			err := tx.Where("group_id = ? AND enrollment_no = ? AND stage = ?",
				row.GroupID, row.EnrollmentNo, row.Stage).
				First(&existing).Error

			switch {
			case err == nil:
				row.ID = existing.ID
				row.CreatedAt = existing.CreatedAt
				if err := tx.Save(&row).Error; err != nil {
					return fmt.Errorf("failed to update marks for %s: %w", row.EnrollmentNo, err)
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := tx.Create(&row).Error; err != nil {
					return fmt.Errorf("failed to create marks for %s: %w", row.EnrollmentNo, err)
				}
			default:
				return fmt.Errorf("failed to look up marks for %s: %w", row.EnrollmentNo, err)
			}

			applied = append(applied, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return applied, nil
}

// ListByGroup returns all evaluation rows for a group, newest stage last.
func (s *Service) ListByGroup(groupID string) ([]evalModel.Evaluation, error) {
	var rows []evalModel.Evaluation
	err := s.DB.Where("group_id = ?", groupID).
		Order("stage ASC, enrollment_no ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations for group %s: %w", groupID, err)
	}
	return rows, nil
}

// ListAll returns evaluation rows with optional year/class filtering done
// through the groups table.
func (s *Service) ListAll(year int, class string) ([]evalModel.Evaluation, error) {
	q := s.DB.Model(&evalModel.Evaluation{}).
		Joins("JOIN groups ON groups.group_id = evaluations.group_id")
	if year > 0 {
		q = q.Where("groups.year = ?", year)
	}
	if class != "" {
		q = q.Where("groups.class = ?", class)
	}

	var rows []evalModel.Evaluation
	if err := q.Order("evaluations.group_id ASC, evaluations.enrollment_no ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	return rows, nil
}
