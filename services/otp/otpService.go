package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"pbl-review/logger"
	"pbl-review/models/otp"
	"pbl-review/services/mail"
	"pbl-review/services/otp_event"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sentinel errors mapped to stable response codes by the controllers.
var (
	ErrSessionNotFound = errors.New("otp session not found")
	ErrExpired         = errors.New("otp has expired")
	ErrConsumed        = errors.New("otp session already verified")
	ErrBlocked         = errors.New("otp verification blocked due to too many failed attempts")
	ErrMismatch        = errors.New("invalid otp code")
	ErrDelivery        = errors.New("otp mail delivery failed")
)

// Service handles OTP session operations
type Service struct {
	DB     *gorm.DB
	Mailer mail.Mailer
}

// NewOTPService creates a new OTP service
func NewOTPService(db *gorm.DB, mailer mail.Mailer) *Service {
	return &Service{
		DB:     db,
		Mailer: mailer,
	}
}

// GenerateCode generates a random 6-digit code
func (s *Service) GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// IssueSession creates a session for the recipient, persists it under a
// fresh opaque token and mails the code. A mail failure is reported as
// ErrDelivery but the session row stays usable for a resend.
func (s *Service) IssueSession(recipientEmail, recipientPhone, recipientName string) (*otp.Session, error) {
	code, err := s.GenerateCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate code: %w", err)
	}

	session := &otp.Session{
		SessionToken:   uuid.NewString(),
		RecipientEmail: recipientEmail,
		RecipientPhone: recipientPhone,
		Code:           code,
		MaxRetries:     3,
		ExpiresAt:      time.Now().Add(otp.ExpiryWindow),
	}

	if err := s.DB.Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create otp session: %w", err)
	}

	if err := otp_event.SnapshotSessionToEvent(s.DB, session, otp_event.EventIssued); err != nil {
		logger.Error("Failed to snapshot otp issue event", err)
	}

	if err := s.sendCodeMail(session, recipientName); err != nil {
		return session, fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	return session, nil
}

// VerifySession checks the submitted code against the session stored under
// token. A session verifies successfully at most once; consumption is
// guarded by a conditional update so two concurrent verifications cannot
// both succeed.
func (s *Service) VerifySession(token, code string) (*otp.Session, error) {
	var session otp.Session

	err := s.DB.Where("session_token = ?", token).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to find otp session: %w", err)
	}

	if session.IsCurrentlyBlocked() {
		return &session, ErrBlocked
	}

	if session.IsConsumed() {
		return &session, ErrConsumed
	}

	if session.IsExpired() {
		return &session, ErrExpired
	}

	if !session.Matches(code) {
		session.IncrementRetry()
		if err := s.DB.Save(&session).Error; err != nil {
			return &session, fmt.Errorf("failed to update retry count: %w", err)
		}

		eventType := otp_event.EventMismatch
		if session.IsCurrentlyBlocked() {
			eventType = otp_event.EventBlocked
		}
		if err := otp_event.SnapshotSessionToEvent(s.DB, &session, eventType); err != nil {
			logger.Error("Failed to snapshot otp mismatch event", err)
		}

		if session.IsCurrentlyBlocked() {
			return &session, ErrBlocked
		}
		return &session, ErrMismatch
	}

	now := time.Now()
	result := s.DB.Model(&otp.Session{}).
		Where("id = ? AND consumed_at IS NULL", session.ID).
		Updates(map[string]interface{}{
			"verified":    true,
			"consumed_at": now,
		})
	if result.Error != nil {
		return &session, fmt.Errorf("failed to consume otp session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Another request consumed the session between our read and write.
		return &session, ErrConsumed
	}

	session.Verified = true
	session.ConsumedAt = &now

	if err := otp_event.SnapshotSessionToEvent(s.DB, &session, otp_event.EventVerified); err != nil {
		logger.Error("Failed to snapshot otp verify event", err)
	}

	return &session, nil
}

// ResendSession regenerates the code for an existing session, restarts the
// full expiry window and mails the new code. The stored row is overwritten
// so the previous code stops working immediately.
func (s *Service) ResendSession(token string) (*otp.Session, error) {
	var session otp.Session

	err := s.DB.Where("session_token = ?", token).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to find otp session: %w", err)
	}

	if session.IsConsumed() {
		return &session, ErrConsumed
	}

	code, err := s.GenerateCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate code: %w", err)
	}

	session.ResetForResend(code)
	if err := s.DB.Save(&session).Error; err != nil {
		return nil, fmt.Errorf("failed to update otp session: %w", err)
	}

	if err := otp_event.SnapshotSessionToEvent(s.DB, &session, otp_event.EventResent); err != nil {
		logger.Error("Failed to snapshot otp resend event", err)
	}

	if err := s.sendCodeMail(&session, ""); err != nil {
		return &session, fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	return &session, nil
}

// CleanupExpiredSessions removes expired, never-consumed session rows.
func (s *Service) CleanupExpiredSessions() error {
	return s.DB.
		Where("expires_at < ? AND consumed_at IS NULL", time.Now()).
		Delete(&otp.Session{}).Error
}

// StartCleanup runs CleanupExpiredSessions on a fixed interval until the
// process exits.
func (s *Service) StartCleanup(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			if err := s.CleanupExpiredSessions(); err != nil {
				logger.Error("Failed to clean up expired otp sessions", err)
			}
		}
	}()
}

func (s *Service) sendCodeMail(session *otp.Session, recipientName string) error {
	greeting := "Dear evaluator"
	if recipientName != "" {
		greeting = "Dear " + recipientName
	}

	subject := "Your PBL review verification code"
	body := fmt.Sprintf(
		"%s,\n\nYour one-time verification code is %s.\nIt expires in %d minutes.\n\nIf you did not expect this email, please ignore it.",
		greeting, session.Code, otp.ExpiresInMinutes)

	return s.Mailer.Send(session.RecipientEmail, subject, body)
}
