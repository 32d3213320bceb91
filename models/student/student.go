package student

import (
	"time"
)

// Student is one enrolled student. GroupID stays nil until a join request
// is approved or an admin assigns the student directly.
type Student struct {
	ID           uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	EnrollmentNo string  `gorm:"type:varchar(50);not null;unique" json:"enrollment_no"`
	Name         string  `gorm:"type:varchar(255);not null" json:"name"`
	Email        string  `gorm:"type:varchar(255);not null" json:"email"`
	Phone        string  `gorm:"type:varchar(20)" json:"phone"`
	Year         int     `gorm:"not null;index" json:"year"`
	Class        string  `gorm:"type:varchar(50);not null;index" json:"class"`
	GroupID      *string `gorm:"type:varchar(50);index" json:"group_id,omitempty"`

	CreatedBy string     `gorm:"type:varchar(255)" json:"created_by,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}
