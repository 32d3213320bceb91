package announcement

import (
	"time"
)

// Announcement is a broadcast notice shown on every dashboard.
type Announcement struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Title    string `gorm:"type:varchar(255);not null" json:"title"`
	Body     string `gorm:"type:text;not null" json:"body"`
	Audience string `gorm:"type:varchar(20);not null;default:all" json:"audience"` // all, students, mentors, externals
	PostedBy string `gorm:"type:varchar(255);not null" json:"posted_by"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}
