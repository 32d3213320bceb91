package mentor

import (
	"time"
)

// Mentor is a faculty member overseeing student groups.
type Mentor struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string `gorm:"type:varchar(255);not null" json:"name"`
	Email      string `gorm:"type:varchar(255);not null;unique" json:"email"`
	Phone      string `gorm:"type:varchar(20)" json:"phone"`
	Department string `gorm:"type:varchar(100)" json:"department"`
	// Comma-separated class codes the mentor is responsible for
	AssignedClasses string `gorm:"type:varchar(255)" json:"assigned_classes"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}
