package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"evaluator@example.com",
		"first.last@college.edu.in",
		"name+tag@domain.org",
	}
	for _, email := range valid {
		assert.True(t, ValidateEmail(email), email)
	}

	invalid := []string{
		"",
		"plain",
		"missing@tld",
		"@nodomain.com",
		"spaces in@mail.com",
	}
	for _, email := range invalid {
		assert.False(t, ValidateEmail(email), email)
	}
}

func TestValidateEmailTrimsWhitespace(t *testing.T) {
	assert.True(t, ValidateEmail("  evaluator@example.com  "))
}

func TestValidatePhoneNumber(t *testing.T) {
	assert.True(t, ValidatePhoneNumber("9876543210"))
	assert.True(t, ValidatePhoneNumber(" 9876543210 "))

	assert.False(t, ValidatePhoneNumber("987654321"))
	assert.False(t, ValidatePhoneNumber("98765432101"))
	assert.False(t, ValidatePhoneNumber("98765abc10"))
	assert.False(t, ValidatePhoneNumber(""))
}

func TestIsLikelyBase64(t *testing.T) {
	assert.True(t, isLikelyBase64(strings.Repeat("QUJDRA==", 20)))
	assert.False(t, isLikelyBase64("short"))
	assert.False(t, isLikelyBase64(strings.Repeat("hello world! ", 20)))
}
