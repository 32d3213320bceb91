package otp

import (
	"crypto/subtle"
	"time"
)

// How long an issued code stays valid.
const ExpiryWindow = 10 * time.Minute

// ExpiresInMinutes is the window echoed back to clients.
const ExpiresInMinutes = 10

// Session is one OTP verification session for an external evaluator's
// email address, keyed by an opaque session token handed to the client.
// A session is single-use: ConsumedAt is set on the first successful
// verification and later attempts are rejected.
type Session struct {
	ID             uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionToken   string     `gorm:"type:varchar(64);not null;unique" json:"session_token"`
	RecipientEmail string     `gorm:"type:varchar(255);not null;index" json:"recipient_email"`
	RecipientPhone string     `gorm:"type:varchar(20)" json:"recipient_phone"`
	Code           string     `gorm:"type:varchar(6);not null" json:"-"`
	Verified       bool       `gorm:"default:false" json:"verified"`
	ConsumedAt     *time.Time `json:"consumed_at,omitempty"`
	RetryCount     int        `gorm:"default:0" json:"retry_count"`
	MaxRetries     int        `gorm:"default:3" json:"max_retries"`
	BlockedUntil   *time.Time `gorm:"index" json:"blocked_until,omitempty"`
	LastAttemptAt  *time.Time `json:"last_attempt_at,omitempty"`
	ExpiresAt      time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName keeps the table clearly namespaced next to the HTTP logs.
func (Session) TableName() string { return "otp_sessions" }

// IsExpired checks if the session's code has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsConsumed reports whether the session already passed verification once.
func (s *Session) IsConsumed() bool {
	return s.ConsumedAt != nil
}

// IsCurrentlyBlocked reports whether verification attempts are blocked
// due to too many failed codes.
func (s *Session) IsCurrentlyBlocked() bool {
	if s.BlockedUntil == nil {
		return false
	}
	return time.Now().Before(*s.BlockedUntil)
}

// Matches compares the submitted code against the stored one in constant
// time so response timing leaks nothing about matching prefixes.
func (s *Session) Matches(code string) bool {
	return subtle.ConstantTimeCompare([]byte(s.Code), []byte(code)) == 1
}

// IncrementRetry records a failed attempt and blocks the session for
// 15 minutes once MaxRetries is exhausted.
func (s *Session) IncrementRetry() {
	now := time.Now()
	s.RetryCount++
	s.LastAttemptAt = &now

	if s.RetryCount >= s.MaxRetries {
		blockUntil := now.Add(15 * time.Minute)
		s.BlockedUntil = &blockUntil
	}
}

// ResetForResend installs a fresh code and restarts the full expiry
// window. The previous code dies with the overwrite.
func (s *Session) ResetForResend(code string) {
	s.Code = code
	s.ExpiresAt = time.Now().Add(ExpiryWindow)
	s.RetryCount = 0
	s.BlockedUntil = nil
	s.LastAttemptAt = nil
}

// SessionEvent is an audit snapshot of a session written on every state
// transition (issued, verified, resent, blocked).
type SessionEvent struct {
	ID             uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionToken   string     `gorm:"type:varchar(64);not null;index" json:"session_token"`
	RecipientEmail string     `gorm:"type:varchar(255);not null" json:"recipient_email"`
	Verified       bool       `json:"verified"`
	RetryCount     int        `json:"retry_count"`
	ExpiresAt      time.Time  `json:"expires_at"`
	ConsumedAt     *time.Time `json:"consumed_at,omitempty"`
	EventType      string     `gorm:"type:varchar(30);not null" json:"event_type"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (SessionEvent) TableName() string { return "otp_session_events" }
