package post

import (
	"time"
)

// Post is a discussion entry on a group's project page.
type Post struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	GroupID  string `gorm:"type:varchar(50);not null;index" json:"group_id"`
	Title    string `gorm:"type:varchar(255);not null" json:"title"`
	Body     string `gorm:"type:text" json:"body"`
	FilePath string `gorm:"type:varchar(1024)" json:"file_path,omitempty"`
	Author   string `gorm:"type:varchar(255);not null" json:"author"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}
