package otp_event

import (
	"pbl-review/models/otp"

	"gorm.io/gorm"
)

// Event types recorded against an OTP session.
const (
	EventIssued   = "issued"
	EventVerified = "verified"
	EventResent   = "resent"
	EventBlocked  = "blocked"
	EventMismatch = "mismatch"
)

// SnapshotSessionToEvent writes a full snapshot of a session row into
// otp_session_events with the given event type.
func SnapshotSessionToEvent(tx *gorm.DB, s *otp.Session, eventType string) error {
	ev := otp.SessionEvent{
		SessionToken:   s.SessionToken,
		RecipientEmail: s.RecipientEmail,
		Verified:       s.Verified,
		RetryCount:     s.RetryCount,
		ExpiresAt:      s.ExpiresAt,
		ConsumedAt:     s.ConsumedAt,
		EventType:      eventType,
	}

	return tx.Create(&ev).Error
}
