package external

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"pbl-review/logger"
	externalModel "pbl-review/models/external"
	otpModel "pbl-review/models/otp"
	"pbl-review/services/mail"
	"pbl-review/services/otp"
	"pbl-review/types"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&externalModel.External{},
		&externalModel.Assignment{},
		&otpModel.Session{},
		&otpModel.SessionEvent{},
	))

	otpSvc := otp.NewOTPService(db, mail.ConsoleMailer{})
	ctrl := NewExternalController(db, otpSvc, logger.NewAsyncLogger(db))

	app := fiber.New()
	app.Post("/send-external-otp", ctrl.SendOTP)
	return app, db
}

func sendOTP(t *testing.T, app *fiber.App, body map[string]interface{}) (int, types.ApiResponse) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/send-external-otp", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed types.ApiResponse
	require.NoError(t, json.Unmarshal(raw, &parsed))
	return resp.StatusCode, parsed
}

func candidate(name, email, phone string) map[string]interface{} {
	return map[string]interface{}{
		"name":         name,
		"organization": "Acme Labs",
		"phone":        phone,
		"email":        email,
	}
}

func TestSendOTPRejectsMalformedContact(t *testing.T) {
	app, db := newTestApp(t)

	status, resp := sendOTP(t, app, map[string]interface{}{
		"externals": []map[string]interface{}{candidate("Jury One", "not-an-email@", "9876543210")},
		"group_ids": []string{"G1"},
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, types.CodeValidationError, resp.Code)

	// An address without a dotted domain slips past the struct tag but
	// not the contact pattern check.
	status, resp = sendOTP(t, app, map[string]interface{}{
		"externals": []map[string]interface{}{candidate("Jury One", "jury@localhost", "9876543210")},
		"group_ids": []string{"G1"},
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, types.CodeValidationError, resp.Code)

	status, resp = sendOTP(t, app, map[string]interface{}{
		"externals": []map[string]interface{}{candidate("Jury Two", "jury2@example.com", "98765abcde")},
		"group_ids": []string{"G1"},
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, types.CodeValidationError, resp.Code)

	var count int64
	require.NoError(t, db.Model(&externalModel.External{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSendOTPSamePhoneDifferentEmail(t *testing.T) {
	app, db := newTestApp(t)

	status, _ := sendOTP(t, app, map[string]interface{}{
		"externals": []map[string]interface{}{candidate("Jury One", "jury1@example.com", "9876543210")},
		"group_ids": []string{"G1"},
	})
	require.Equal(t, fiber.StatusOK, status)

	// A second candidate sharing the phone number must still register.
	status, _ = sendOTP(t, app, map[string]interface{}{
		"externals": []map[string]interface{}{candidate("Jury Two", "jury2@example.com", "9876543210")},
		"group_ids": []string{"G1"},
	})
	require.Equal(t, fiber.StatusOK, status)

	var rows []externalModel.External
	require.NoError(t, db.Order("id").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.NotEqual(t, rows[0].ExternalID, rows[1].ExternalID)
	assert.Equal(t, rows[0].Contact, rows[1].Contact)
}
