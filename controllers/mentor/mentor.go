package mentor

import (
	"errors"

	"pbl-review/logger"
	groupModel "pbl-review/models/group"
	mentorModel "pbl-review/models/mentor"
	"pbl-review/types"
	mentorTypes "pbl-review/types/mentor"
	"pbl-review/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type MentorController struct {
	DB     *gorm.DB
	Logger *logger.AsyncLogger
}

func NewMentorController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *MentorController {
	return &MentorController{DB: db, Logger: asyncLogger}
}

// Helper function to send response and log in one call
func (mc *MentorController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	mc.Logger.Log(utils.CreateSanitizedLogEntry(c))
	return result
}

// Store creates a mentor
func (mc *MentorController) Store(c *fiber.Ctx) error {
	var req mentorTypes.StoreMentorRequest
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

	row := mentorModel.Mentor{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Department:      req.Department,
		AssignedClasses: req.AssignedClasses,
	}

	if err := mc.DB.Create(&row).Error; err != nil {
		logger.Error("Failed to create mentor", err)
		return c.Status(fiber.StatusConflict).JSON(types.ApiResponse{
			Status:  fiber.StatusConflict,
			Message: "Mentor with this email already exists",
			Code:    types.CodeValidationError,
		})
	}

	logger.Success("Mentor created: " + row.Email)
	return mc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Mentor created successfully",
		Data:    row,
	})
}

// Index lists mentors
func (mc *MentorController) Index(c *fiber.Ctx) error {
	q := mc.DB.Model(&mentorModel.Mentor{})
	if dept := c.Query("department"); dept != "" {
		q = q.Where("department = ?", dept)
	}

	var rows []mentorModel.Mentor
	if err := q.Order("name ASC").Find(&rows).Error; err != nil {
		logger.Error("Failed to list mentors", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to list mentors",
			Code:    types.CodeUpstreamError,
		})
	}

	return c.JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Mentors fetched successfully",
		Data:    rows,
	})
}

// Show returns one mentor with the groups assigned to them
func (mc *MentorController) Show(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid mentor id",
			Code:    types.CodeValidationError,
		})
	}

	var row mentorModel.Mentor
	if err := mc.DB.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Mentor not found",
				Code:    types.CodeNotFound,
			})
		}
		logger.Error("Failed to fetch mentor", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Code:    types.CodeUpstreamError,
		})
	}

	var groups []groupModel.Group
	if err := mc.DB.Where("mentor_id = ?", row.ID).Order("group_id ASC").Find(&groups).Error; err != nil {
		logger.Error("Failed to fetch mentor groups", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Code:    types.CodeUpstreamError,
		})
	}

	return c.JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Mentor fetched successfully",
		Data: map[string]interface{}{
			"mentor": row,
			"groups": groups,
		},
	})
}

// Update modifies a mentor
func (mc *MentorController) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid mentor id",
			Code:    types.CodeValidationError,
		})
	}

	var req mentorTypes.UpdateMentorRequest
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

	var row mentorModel.Mentor
	if err := mc.DB.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Mentor not found",
				Code:    types.CodeNotFound,
			})
		}
		logger.Error("Failed to fetch mentor", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Code:    types.CodeUpstreamError,
		})
	}

	if req.Name != "" {
		row.Name = req.Name
	}
	if req.Phone != "" {
		row.Phone = req.Phone
	}
	if req.Department != "" {
		row.Department = req.Department
	}
	if req.AssignedClasses != "" {
		row.AssignedClasses = req.AssignedClasses
	}

	if err := mc.DB.Save(&row).Error; err != nil {
		logger.Error("Failed to update mentor", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to update mentor",
			Code:    types.CodeUpstreamError,
		})
	}

	logger.Success("Mentor updated: " + row.Email)
	return mc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Mentor updated successfully",
		Data:    row,
	})
}

// Destroy deletes a mentor and detaches their groups
func (mc *MentorController) Destroy(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid mentor id",
			Code:    types.CodeValidationError,
		})
	}

	txErr := mc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&groupModel.Group{}).
			Where("mentor_id = ?", id).
			Update("mentor_id", nil).Error; err != nil {
			return err
		}

		result := tx.Delete(&mentorModel.Mentor{}, id)
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
				Message: "Mentor not found",
				Code:    types.CodeNotFound,
			})
		}
		logger.Error("Failed to delete mentor", txErr)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to delete mentor",
			Code:    types.CodeUpstreamError,
		})
	}

	logger.Success("Mentor deleted")
	return mc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Mentor deleted successfully",
	})
}
