package otp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newSession(code string) *Session {
	return &Session{
		SessionToken:   "tok-1",
		RecipientEmail: "evaluator@example.com",
		Code:           code,
		MaxRetries:     3,
		ExpiresAt:      time.Now().Add(ExpiryWindow),
	}
}

func TestSessionExpiry(t *testing.T) {
	s := newSession("123456")
	assert.False(t, s.IsExpired())

	s.ExpiresAt = time.Now().Add(-time.Second)
	assert.True(t, s.IsExpired())
}

func TestSessionMatches(t *testing.T) {
	s := newSession("123456")

	assert.True(t, s.Matches("123456"))
	assert.False(t, s.Matches("123455"))
	assert.False(t, s.Matches("12345"))
	assert.False(t, s.Matches(""))
}

func TestSessionConsumedOnce(t *testing.T) {
	s := newSession("123456")
	assert.False(t, s.IsConsumed())

	now := time.Now()
	s.ConsumedAt = &now
	assert.True(t, s.IsConsumed())
}

func TestIncrementRetryBlocksAfterMaxRetries(t *testing.T) {
	s := newSession("123456")

	s.IncrementRetry()
	s.IncrementRetry()
	assert.Equal(t, 2, s.RetryCount)
	assert.False(t, s.IsCurrentlyBlocked())

	s.IncrementRetry()
	assert.Equal(t, 3, s.RetryCount)
	assert.True(t, s.IsCurrentlyBlocked())
	assert.NotNil(t, s.BlockedUntil)
}

func TestBlockExpires(t *testing.T) {
	s := newSession("123456")
	past := time.Now().Add(-time.Minute)
	s.BlockedUntil = &past

	assert.False(t, s.IsCurrentlyBlocked())
}

func TestResetForResend(t *testing.T) {
	s := newSession("123456")
	s.IncrementRetry()
	s.IncrementRetry()
	s.IncrementRetry()
	s.ExpiresAt = time.Now().Add(-time.Minute)

	s.ResetForResend("654321")

	assert.Equal(t, "654321", s.Code)
	assert.False(t, s.Matches("123456"))
	assert.True(t, s.Matches("654321"))
	assert.Equal(t, 0, s.RetryCount)
	assert.Nil(t, s.BlockedUntil)
	assert.Nil(t, s.LastAttemptAt)
	assert.False(t, s.IsExpired())
	assert.False(t, s.IsCurrentlyBlocked())
}
