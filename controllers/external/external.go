package external

import (
	"errors"
	"fmt"
	"time"

	"pbl-review/logger"
	"pbl-review/middleware"
	externalModel "pbl-review/models/external"
	otpModel "pbl-review/models/otp"
	"pbl-review/services/otp"
	"pbl-review/types"
	externalTypes "pbl-review/types/external"
	"pbl-review/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExternalController handles evaluator CRUD plus the OTP onboarding flow.
type ExternalController struct {
	DB         *gorm.DB
	OTPService *otp.Service
	Logger     *logger.AsyncLogger
}

func NewExternalController(db *gorm.DB, otpService *otp.Service, asyncLogger *logger.AsyncLogger) *ExternalController {
	return &ExternalController{DB: db, OTPService: otpService, Logger: asyncLogger}
}

// Helper function to send response and log in one call
func (ec *ExternalController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	ec.Logger.Log(utils.CreateSanitizedLogEntry(c))
	return result
}

// SendOTP registers unverified candidate evaluators and issues them OTP
// sessions. Each candidate gets its own session token; a mail delivery
// failure for one candidate does not stop the rest of the batch.
func (ec *ExternalController) SendOTP(c *fiber.Ctx) error {
	var req externalTypes.SendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Code:    types.CodeValidationError,
		})
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Code:    types.CodeValidationError,
		})
	}

	createdBy := middleware.ClaimString(c, "username")
	year := time.Now().Year()

	type sessionInfo struct {
		Name         string `json:"name"`
		Email        string `json:"email"`
		SessionToken string `json:"sessionToken"`
		ExpiresAt    string `json:"expires_at"`
		Delivered    bool   `json:"delivered"`
	}

	sessions := make([]sessionInfo, 0, len(req.Externals))
	deliveryFailures := 0

	for _, candidate := range req.Externals {
		if !utils.ValidateEmail(candidate.Email) || !utils.ValidatePhoneNumber(candidate.Phone) {
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: fmt.Sprintf("Invalid email or phone for candidate %s", candidate.Name),
				Code:    types.CodeValidationError,
			})
		}

		var row externalModel.External
		err := ec.DB.Where("email = ?", candidate.Email).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			row = externalModel.External{
				ExternalID:   fmt.Sprintf("EXT-%d-%s", year, uuid.NewString()[:8]),
				Name:         candidate.Name,
				Organization: candidate.Organization,
				Contact:      candidate.Phone,
				Email:        candidate.Email,
				Year:         year,
				CreatedBy:    createdBy,
			}
			if err := ec.DB.Create(&row).Error; err != nil {
				logger.Error("Failed to create external candidate", err)
				return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
					Status:  fiber.StatusInternalServerError,
					Message: "Failed to register candidate",
					Code:    types.CodeUpstreamError,
				})
			}
		} else if err != nil {
			logger.Error("Failed to look up external candidate", err)
			return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
				Status:  fiber.StatusInternalServerError,
				Message: "Internal server error",
				Code:    types.CodeUpstreamError,
			})
		}

		session, err := ec.OTPService.IssueSession(candidate.Email, candidate.Phone, candidate.Name)
		if err != nil && !errors.Is(err, otp.ErrDelivery) {
			logger.Error("Failed to issue otp session", err)
			return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
				Status:  fiber.StatusInternalServerError,
				Message: "Failed to issue verification code",
				Code:    types.CodeUpstreamError,
			})
		}

		delivered := err == nil
		if !delivered {
			deliveryFailures++
			logger.Warning("OTP mail delivery failed for " + candidate.Email)
		}

		sessions = append(sessions, sessionInfo{
			Name:         candidate.Name,
			Email:        candidate.Email,
			SessionToken: session.SessionToken,
			ExpiresAt:    session.ExpiresAt.Format(time.RFC3339),
			Delivered:    delivered,
		})
	}

	if deliveryFailures == len(req.Externals) {
		return c.Status(fiber.StatusBadGateway).JSON(types.ApiResponse{
			Status:  fiber.StatusBadGateway,
			Message: "Verification codes could not be delivered",
			Code:    types.CodeDeliveryError,
			Data: map[string]interface{}{
				"sessions":         sessions,
				"group_ids":        req.GroupIDs,
				"expiresInMinutes": otpModel.ExpiresInMinutes,
			},
		})
	}

	logger.Success(fmt.Sprintf("Issued %d OTP sessions", len(sessions)))
	return ec.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Verification codes sent",
		Data: map[string]interface{}{
			"sessions":         sessions,
			"group_ids":        req.GroupIDs,
			"expiresInMinutes": otpModel.ExpiresInMinutes,
		},
	})
}

// VerifyOTP checks submitted codes. On success the candidate flips to
// verified and gets assigned to the requested groups. Each verification in
// the batch is reported individually so a partially wrong batch still
// verifies the correct entries.
func (ec *ExternalController) VerifyOTP(c *fiber.Ctx) error {
	var req externalTypes.VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Code:    types.CodeValidationError,
		})
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Code:    types.CodeValidationError,
		})
	}

	results := make([]externalTypes.VerificationResult, 0, len(req.Verifications))
	anyVerified := false

	for _, v := range req.Verifications {
		session, err := ec.OTPService.VerifySession(v.SessionToken, v.OTP)
		if err != nil {
			results = append(results, externalTypes.VerificationResult{
				SessionToken: v.SessionToken,
				Verified:     false,
				Code:         verifyErrorCode(err),
				Message:      err.Error(),
			})
			continue
		}

		if err := ec.promoteCandidate(session.RecipientEmail, req.GroupIDs); err != nil {
			logger.Error("Failed to promote verified candidate", err)
			results = append(results, externalTypes.VerificationResult{
				SessionToken: v.SessionToken,
				Verified:     true,
				Code:         types.CodeUpstreamError,
				Message:      "verified but assignment failed",
			})
			continue
		}

		anyVerified = true
		results = append(results, externalTypes.VerificationResult{
			SessionToken: v.SessionToken,
			Verified:     true,
		})
	}

	status := fiber.StatusOK
	message := "Verification complete"
	if !anyVerified {
		status = fiber.StatusUnprocessableEntity
		message = "No sessions could be verified"
	}

	return ec.sendResponseWithLog(c, status, types.ApiResponse{
		Status:  status,
		Message: message,
		Data:    results,
	})
}

// ResendOTP re-issues the code for an unconsumed session.
func (ec *ExternalController) ResendOTP(c *fiber.Ctx) error {
	var req externalTypes.ResendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Code:    types.CodeValidationError,
		})
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Code:    types.CodeValidationError,
		})
	}

	session, err := ec.OTPService.ResendSession(req.SessionToken)
	if err != nil {
		switch {
		case errors.Is(err, otp.ErrSessionNotFound):
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Session not found",
				Code:    types.CodeNotFound,
			})
		case errors.Is(err, otp.ErrConsumed):
			return c.Status(fiber.StatusConflict).JSON(types.ApiResponse{
				Status:  fiber.StatusConflict,
				Message: "Session already verified",
				Code:    types.CodeOTPConsumed,
			})
		case errors.Is(err, otp.ErrDelivery):
			return c.Status(fiber.StatusBadGateway).JSON(types.ApiResponse{
				Status:  fiber.StatusBadGateway,
				Message: "Verification code could not be delivered",
				Code:    types.CodeDeliveryError,
			})
		default:
			logger.Error("Failed to resend otp", err)
			return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
				Status:  fiber.StatusInternalServerError,
				Message: "Failed to resend verification code",
				Code:    types.CodeUpstreamError,
			})
		}
	}

	logger.Success("OTP resent for session " + session.SessionToken)
	return ec.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Verification code resent",
		Data: map[string]interface{}{
			"sessionToken": session.SessionToken,
			"expires_at":   session.ExpiresAt.Format(time.RFC3339),
		},
	})
}

// promoteCandidate marks the candidate verified and creates assignments
// for the requested groups inside one transaction.
func (ec *ExternalController) promoteCandidate(email string, groupIDs []string) error {
	return ec.DB.Transaction(func(tx *gorm.DB) error {
		var row externalModel.External
		if err := tx.Where("email = ?", email).First(&row).Error; err != nil {
			return err
		}

		if !row.Verified {
			row.Verified = true
			if err := tx.Save(&row).Error; err != nil {
				return err
			}
		}

		for _, groupID := range groupIDs {
			var existing int64
			tx.Model(&externalModel.Assignment{}).
				Where("external_id = ? AND group_id = ?", row.ExternalID, groupID).
				Count(&existing)
			if existing > 0 {
				continue
			}
			if err := tx.Create(&externalModel.Assignment{
				ExternalID: row.ExternalID,
				GroupID:    groupID,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func verifyErrorCode(err error) string {
	switch {
	case errors.Is(err, otp.ErrSessionNotFound):
		return types.CodeNotFound
	case errors.Is(err, otp.ErrExpired):
		return types.CodeOTPExpired
	case errors.Is(err, otp.ErrConsumed):
		return types.CodeOTPConsumed
	case errors.Is(err, otp.ErrBlocked):
		return types.CodeOTPBlocked
	case errors.Is(err, otp.ErrMismatch):
		return types.CodeOTPMismatch
	default:
		return types.CodeUpstreamError
	}
}

// Store creates an evaluator directly, without the OTP flow (admin path).
func (ec *ExternalController) Store(c *fiber.Ctx) error {
	var req externalTypes.StoreExternalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Code:    types.CodeValidationError,
		})
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Code:    types.CodeValidationError,
		})
	}

	row := externalModel.External{
		ExternalID:    req.ExternalID,
		Name:          req.Name,
		Organization:  req.Organization,
		Contact:       req.Contact,
		Email:         req.Email,
		Year:          req.Year,
		AssignedClass: req.AssignedClass,
		Verified:      true,
		CreatedBy:     middleware.ClaimString(c, "username"),
	}

	if err := ec.DB.Create(&row).Error; err != nil {
		logger.Error("Failed to create external evaluator", err)
		return c.Status(fiber.StatusConflict).JSON(types.ApiResponse{
			Status:  fiber.StatusConflict,
			Message: "External ID already exists",
			Code:    types.CodeValidationError,
		})
	}

	logger.Success("External evaluator created: " + row.ExternalID)
	return ec.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "External evaluator created successfully",
		Data:    row,
	})
}

// Index lists evaluators with optional filters
func (ec *ExternalController) Index(c *fiber.Ctx) error {
	q := ec.DB.Model(&externalModel.External{})

	if year := c.QueryInt("year"); year > 0 {
		q = q.Where("year = ?", year)
	}
	if class := c.Query("class"); class != "" {
		q = q.Where("assigned_class = ?", class)
	}
	if verified := c.Query("verified"); verified != "" {
		q = q.Where("verified = ?", verified == "true")
	}

	var rows []externalModel.External
	if err := q.Order("name ASC").Find(&rows).Error; err != nil {
		logger.Error("Failed to list external evaluators", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to list external evaluators",
			Code:    types.CodeUpstreamError,
		})
	}

	return c.JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "External evaluators fetched successfully",
		Data:    rows,
	})
}

// Show returns one evaluator with their group assignments
func (ec *ExternalController) Show(c *fiber.Ctx) error {
	externalID := c.Params("externalID")

	var row externalModel.External
	if err := ec.DB.Where("external_id = ?", externalID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "External evaluator not found",
				Code:    types.CodeNotFound,
			})
		}
		logger.Error("Failed to fetch external evaluator", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Code:    types.CodeUpstreamError,
		})
	}

	var assignments []externalModel.Assignment
	if err := ec.DB.Where("external_id = ?", externalID).Find(&assignments).Error; err != nil {
		logger.Error("Failed to fetch evaluator assignments", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Code:    types.CodeUpstreamError,
		})
	}

	return c.JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "External evaluator fetched successfully",
		Data: map[string]interface{}{
			"external":    row,
			"assignments": assignments,
		},
	})
}

// Destroy removes an evaluator and their assignments
func (ec *ExternalController) Destroy(c *fiber.Ctx) error {
	externalID := c.Params("externalID")

	txErr := ec.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("external_id = ?", externalID).
			Delete(&externalModel.Assignment{}).Error; err != nil {
			return err
		}

		result := tx.Where("external_id = ?", externalID).Delete(&externalModel.External{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if txErr != nil {
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "External evaluator not found",
				Code:    types.CodeNotFound,
			})
		}
		logger.Error("Failed to delete external evaluator", txErr)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to delete external evaluator",
			Code:    types.CodeUpstreamError,
		})
	}

	logger.Success("External evaluator deleted: " + externalID)
	return ec.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "External evaluator deleted successfully",
	})
}
