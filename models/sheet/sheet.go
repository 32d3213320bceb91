package sheet

import (
	"time"
)

// ParseRequest tracks one uploaded marks-sheet image through the parsing
// pipeline: file saved to disk asynchronously, extraction result stored
// once the vision model responds.
type ParseRequest struct {
	ID               uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	RequestID        string  `gorm:"type:varchar(50);not null;unique" json:"request_id"`
	OriginalFileName string  `gorm:"type:varchar(255);not null" json:"original_file_name"`
	SavedFileName    *string `gorm:"type:varchar(255)" json:"saved_file_name,omitempty"`
	FilePath         *string `gorm:"type:varchar(1024)" json:"file_path,omitempty"`
	FileHash         *string `gorm:"type:varchar(64)" json:"file_hash,omitempty"`
	FileSize         int64   `gorm:"not null" json:"file_size"`
	MimeType         string  `gorm:"type:varchar(100);not null" json:"mime_type"`

	Status           string  `gorm:"type:varchar(20);not null;default:processing" json:"status"` // processing, success, failed
	ParsedPayload    *string `gorm:"type:text" json:"parsed_payload,omitempty"`
	ErrorMessage     *string `gorm:"type:text" json:"error_message,omitempty"`
	ProcessingTimeMs int64   `json:"processing_time_ms"`

	IPAddress string  `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent *string `gorm:"type:varchar(512)" json:"user_agent,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
