package otp

import (
	"testing"
	"time"

	"pbl-review/models/otp"
	"pbl-review/services/mail"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&otp.Session{}, &otp.SessionEvent{}))

	return NewOTPService(db, mail.ConsoleMailer{})
}

func TestVerifySessionConsumesOnce(t *testing.T) {
	s := newTestService(t)

	session, err := s.IssueSession("jury@example.com", "9876543210", "Jury Member")
	require.NoError(t, err)
	require.NotEmpty(t, session.SessionToken)

	verified, err := s.VerifySession(session.SessionToken, session.Code)
	require.NoError(t, err)
	assert.True(t, verified.Verified)
	require.NotNil(t, verified.ConsumedAt)

	// The same session must not verify a second time.
	_, err = s.VerifySession(session.SessionToken, session.Code)
	assert.ErrorIs(t, err, ErrConsumed)
}

func TestVerifySessionConsumedRowRejectsWrite(t *testing.T) {
	s := newTestService(t)

	session, err := s.IssueSession("jury@example.com", "9876543210", "Jury Member")
	require.NoError(t, err)

	// Consume the row behind the service's back, the way a parallel
	// request would between its read and its conditional update.
	now := time.Now()
	res := s.DB.Model(&otp.Session{}).
		Where("id = ? AND consumed_at IS NULL", session.ID).
		Updates(map[string]interface{}{"verified": true, "consumed_at": now})
	require.NoError(t, res.Error)
	require.EqualValues(t, 1, res.RowsAffected)

	res = s.DB.Model(&otp.Session{}).
		Where("id = ? AND consumed_at IS NULL", session.ID).
		Updates(map[string]interface{}{"verified": true, "consumed_at": now})
	require.NoError(t, res.Error)
	assert.EqualValues(t, 0, res.RowsAffected)
}

func TestVerifySessionMismatchThenBlocked(t *testing.T) {
	s := newTestService(t)

	session, err := s.IssueSession("jury@example.com", "9876543210", "Jury Member")
	require.NoError(t, err)

	wrong := "000000"
	if session.Code == wrong {
		wrong = "000001"
	}

	_, err = s.VerifySession(session.SessionToken, wrong)
	assert.ErrorIs(t, err, ErrMismatch)
	_, err = s.VerifySession(session.SessionToken, wrong)
	assert.ErrorIs(t, err, ErrMismatch)
	_, err = s.VerifySession(session.SessionToken, wrong)
	assert.ErrorIs(t, err, ErrBlocked)

	// Even the right code is refused while the block is active.
	_, err = s.VerifySession(session.SessionToken, session.Code)
	assert.ErrorIs(t, err, ErrBlocked)
}

func TestVerifySessionExpired(t *testing.T) {
	s := newTestService(t)

	session, err := s.IssueSession("jury@example.com", "9876543210", "Jury Member")
	require.NoError(t, err)

	expired := time.Now().Add(-time.Minute)
	require.NoError(t, s.DB.Model(session).Update("expires_at", expired).Error)

	_, err = s.VerifySession(session.SessionToken, session.Code)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestResendSessionAfterConsume(t *testing.T) {
	s := newTestService(t)

	session, err := s.IssueSession("jury@example.com", "9876543210", "Jury Member")
	require.NoError(t, err)

	_, err = s.VerifySession(session.SessionToken, session.Code)
	require.NoError(t, err)

	_, err = s.ResendSession(session.SessionToken)
	assert.ErrorIs(t, err, ErrConsumed)
}

func TestVerifySessionUnknownToken(t *testing.T) {
	s := newTestService(t)

	_, err := s.VerifySession("no-such-token", "123456")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
