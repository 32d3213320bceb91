package group

import (
	"time"
)

// Group statuses
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// Join request statuses
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// Group is one project team, identified by its business key GroupID
// (e.g. "G-2026-07") rather than the surrogate row id.
type Group struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	GroupID      string `gorm:"type:varchar(50);not null;unique" json:"group_id"`
	ProjectTitle string `gorm:"type:varchar(500);not null" json:"project_title"`
	Year         int    `gorm:"not null;index" json:"year"`
	Class        string `gorm:"type:varchar(50);not null;index" json:"class"`
	MentorID     *uint  `gorm:"index" json:"mentor_id,omitempty"`
	Status       string `gorm:"type:varchar(20);not null;default:active" json:"status"`

	CreatedBy string     `gorm:"type:varchar(255)" json:"created_by,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// JoinRequest is a student's pending request to be assigned to a group.
// Approval sets the student's group_id; rejection leaves it untouched.
type JoinRequest struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	GroupID      string `gorm:"type:varchar(50);not null;index" json:"group_id"`
	EnrollmentNo string `gorm:"type:varchar(50);not null;index" json:"enrollment_no"`
	Status       string `gorm:"type:varchar(20);not null;default:pending" json:"status"`
	DecidedBy    string `gorm:"type:varchar(255)" json:"decided_by,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsDecided reports whether the request has already been approved or rejected.
func (r *JoinRequest) IsDecided() bool {
	return r.Status != RequestPending
}
