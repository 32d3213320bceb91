package user

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"pbl-review/database"
	userModel "pbl-review/models/user"
	"pbl-review/types"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&userModel.User{}))

	previous := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = previous })

	email := "mentor@example.com"
	require.NoError(t, db.Create(&userModel.User{
		Uuid:         "u-123",
		Username:     "mentor01",
		LegalName:    "Mentor One",
		Email:        &email,
		Phone:        "9876543210",
		PasswordHash: "x",
		Role:         "mentor",
	}).Error)

	app := fiber.New()
	app.Get("/user", func(c *fiber.Ctx) error {
		if uid := c.Get("X-Test-Uuid"); uid != "" {
			c.Locals("user", jwt.MapClaims{"uuid": uid})
		}
		return GetUserInfo(c)
	})
	return app
}

func getUser(t *testing.T, app *fiber.App, uid string) (int, types.ApiResponse) {
	t.Helper()

	req := httptest.NewRequest("GET", "/user", nil)
	if uid != "" {
		req.Header.Set("X-Test-Uuid", uid)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed types.ApiResponse
	require.NoError(t, json.Unmarshal(raw, &parsed))
	return resp.StatusCode, parsed
}

func TestGetUserInfo(t *testing.T) {
	app := newTestApp(t)

	status, resp := getUser(t, app, "u-123")
	require.Equal(t, fiber.StatusOK, status)

	info, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "mentor01", info["username"])
	assert.Equal(t, "mentor", info["role"])
	assert.Equal(t, "mentor@example.com", info["email"])
}

func TestGetUserInfoUnknownUuid(t *testing.T) {
	app := newTestApp(t)

	status, resp := getUser(t, app, "u-999")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, types.CodeNotFound, resp.Code)
}

func TestGetUserInfoMissingClaims(t *testing.T) {
	app := newTestApp(t)

	status, resp := getUser(t, app, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, types.CodeAuthError, resp.Code)
}
