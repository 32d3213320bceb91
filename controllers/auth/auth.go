package auth

import (
	"errors"
	"os"
	"time"

	"pbl-review/constants"
	"pbl-review/logger"
	"pbl-review/middleware"
	userModel "pbl-review/models/user"
	"pbl-review/types"
	authTypes "pbl-review/types/auth"
	"pbl-review/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const accessTokenTTL = 8 * time.Hour

type AuthController struct {
	db             *gorm.DB
	loggerInstance *logger.AsyncLogger
}

func NewAuthController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *AuthController {
	return &AuthController{db: db, loggerInstance: asyncLogger}
}

// Helper function to set secure cookies based on environment
func (h *AuthController) setSecureCookie(c *fiber.Ctx, name, value string, maxAge int) {
	isProduction := os.Getenv("APP_ENV") == "production"

	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		HTTPOnly: true,
		Secure:   isProduction,
		SameSite: "Strict",
		MaxAge:   maxAge,
		Path:     "/",
	})
}

// Register creates a login account. Staff and external accounts can only
// be created by an admin; self-registration is limited to students.
func (h *AuthController) Register(c *fiber.Ctx) error {
	var req authTypes.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{
			Message: "Invalid request body",
			Status:  fiber.StatusBadRequest,
			Code:    types.CodeValidationError,
		})
	}

	if err := req.Validate(); err != nil {
		logger.Error("Register request validation failed", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{
			Message: err.Error(),
			Status:  fiber.StatusBadRequest,
			Code:    types.CodeValidationError,
		})
	}

	if req.Role != constants.RoleStudent && !middleware.CheckPermissionInController(c, constants.PermAdminFull) {
		return c.Status(fiber.StatusForbidden).JSON(types.ErrorResponse{
			Message: "Only admins can create non-student accounts",
			Status:  fiber.StatusForbidden,
			Code:    types.CodeForbidden,
		})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{
			Message: "Internal server error",
			Status:  fiber.StatusInternalServerError,
			Code:    types.CodeUpstreamError,
		})
	}

	newUser := userModel.User{
		Uuid:         uuid.NewString(),
		Username:     req.Username,
		LegalName:    req.LegalName,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         req.Role,
		Permissions:  userModel.StringSlice(constants.PermissionsForRole(req.Role)),
	}
	if req.Email != "" {
		newUser.Email = &req.Email
	}

	if err := h.db.Create(&newUser).Error; err != nil {
		logger.Error("Failed to create user", err)
		return c.Status(fiber.StatusConflict).JSON(types.ErrorResponse{
			Message: "Username or email already taken",
			Status:  fiber.StatusConflict,
			Code:    types.CodeValidationError,
		})
	}

	logEntry := utils.CreateSanitizedLogEntry(c)
	h.loggerInstance.Log(logEntry)

	logger.Success("User registered successfully. UUID: " + newUser.Uuid)
	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Message: "User registered successfully",
		Status:  fiber.StatusCreated,
		Data: map[string]interface{}{
			"uuid":     newUser.Uuid,
			"username": newUser.Username,
			"role":     newUser.Role,
		},
	})
}

// Login checks the password and issues an HMAC JWT carrying role and
// permission claims. The token goes out both in the body and as an
// access cookie.
func (h *AuthController) Login(c *fiber.Ctx) error {
	var req authTypes.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{
			Message: "Invalid request body",
			Status:  fiber.StatusBadRequest,
			Code:    types.CodeValidationError,
		})
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{
			Message: err.Error(),
			Status:  fiber.StatusBadRequest,
			Code:    types.CodeValidationError,
		})
	}

	var account userModel.User
	err := h.db.Where("username = ?", req.Username).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ErrorResponse{
				Message: "Invalid username or password",
				Status:  fiber.StatusUnauthorized,
				Code:    types.CodeAuthError,
			})
		}
		logger.Error("Failed to look up user", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{
			Message: "Internal server error",
			Status:  fiber.StatusInternalServerError,
			Code:    types.CodeUpstreamError,
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ErrorResponse{
			Message: "Invalid username or password",
			Status:  fiber.StatusUnauthorized,
			Code:    types.CodeAuthError,
		})
	}

	token, err := middleware.IssueToken(account.Uuid, account.Username, account.Role, account.Permissions, accessTokenTTL)
	if err != nil {
		logger.Error("Failed to issue token", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{
			Message: "Internal server error",
			Status:  fiber.StatusInternalServerError,
			Code:    types.CodeUpstreamError,
		})
	}

	h.setSecureCookie(c, "access", token, int(accessTokenTTL.Seconds()))

	logEntry := utils.CreateSanitizedLogEntry(c)
	h.loggerInstance.Log(logEntry)

	logger.Success("User logged in successfully. uuid: " + account.Uuid)
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Login successful",
		Status:  fiber.StatusOK,
		Token:   token,
		Data: map[string]interface{}{
			"uuid":        account.Uuid,
			"username":    account.Username,
			"legal_name":  account.LegalName,
			"role":        account.Role,
			"permissions": account.Permissions,
		},
	})
}

// LogOut clears the access cookie. The JWT itself stays valid until its
// expiry; there is no server-side token store.
func (h *AuthController) LogOut(c *fiber.Ctx) error {
	h.setSecureCookie(c, "access", "", -1)

	logger.Success("Logout successful")
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Logout successful",
		Status:  fiber.StatusOK,
	})
}
