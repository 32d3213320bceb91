package user

import (
	"pbl-review/logger"
	"pbl-review/middleware"
	"pbl-review/types"
	"pbl-review/utils"

	"github.com/gofiber/fiber/v2"
)

// GetUserInfo returns the profile of the authenticated account.
func GetUserInfo(c *fiber.Ctx) error {
	uid := middleware.ClaimString(c, "uuid")
	if uid == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Message: "Invalid token data",
			Status:  fiber.StatusUnauthorized,
			Code:    types.CodeAuthError,
		})
	}

	account, err := utils.GetUserByUUID(uid)
	if err != nil {
		if err.Error() == "user not found" {
			logger.Error("User not found", err)
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Message: "User not found",
				Status:  fiber.StatusNotFound,
				Code:    types.CodeNotFound,
			})
		}
		logger.Error("Error fetching user", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Error fetching user",
			Status:  fiber.StatusInternalServerError,
			Code:    types.CodeUpstreamError,
		})
	}

	userInfo := map[string]interface{}{
		"uuid":           account.Uuid,
		"username":       account.Username,
		"legal_name":     account.LegalName,
		"email":          account.Email,
		"email_verified": account.EmailVerified,
		"phone":          account.Phone,
		"role":           account.Role,
		"avatar":         account.Avatar,
		"permissions":    account.Permissions,
		"created_at":     account.CreatedAt.Format("2006-01-02 15:04:05"),
		"updated_at":     account.UpdatedAt.Format("2006-01-02 15:04:05"),
	}

	logger.Success("User fetched successfully")
	return c.JSON(types.ApiResponse{
		Message: "User fetched successfully",
		Status:  fiber.StatusOK,
		Data:    userInfo,
	})
}
