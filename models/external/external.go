package external

import (
	"time"
)

// External is an off-campus evaluator assigned to grade student groups.
// Verified flips to true only after the evaluator's email passed the OTP
// verification flow; unverified contact details are treated as unconfirmed.
type External struct {
	ID            uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ExternalID    string `gorm:"type:varchar(50);not null;unique" json:"external_id"`
	Name          string `gorm:"type:varchar(255);not null" json:"name"`
	Organization  string `gorm:"type:varchar(255)" json:"organization"`
	Contact       string `gorm:"type:varchar(20);not null" json:"contact"`
	Email         string `gorm:"type:varchar(255);not null;index" json:"email"`
	Year          int    `gorm:"not null;index" json:"year"`
	AssignedClass string `gorm:"type:varchar(50)" json:"assigned_class"`
	Verified      bool   `gorm:"default:false" json:"verified"`

	CreatedBy string     `gorm:"type:varchar(255)" json:"created_by,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// Assignment links a verified external evaluator to the groups they grade.
type Assignment struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ExternalID string `gorm:"type:varchar(50);not null;index" json:"external_id"`
	GroupID    string `gorm:"type:varchar(50);not null;index" json:"group_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
