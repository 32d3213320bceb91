package group

import (
	"errors"

	"pbl-review/logger"
	"pbl-review/middleware"
	groupModel "pbl-review/models/group"
	studentModel "pbl-review/models/student"
	"pbl-review/types"
	groupTypes "pbl-review/types/group"
	"pbl-review/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GroupController handles group CRUD and the join-request workflow
type GroupController struct {
	DB     *gorm.DB
	Logger *logger.AsyncLogger
}

func NewGroupController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *GroupController {
	return &GroupController{DB: db, Logger: asyncLogger}
}

// Helper function to send response and log in one call
func (gc *GroupController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	gc.Logger.Log(utils.CreateSanitizedLogEntry(c))
	return result
}

// Store creates a new group
func (gc *GroupController) Store(c *fiber.Ctx) error {
	var req groupTypes.StoreGroupRequest
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

	row := groupModel.Group{
		GroupID:      req.GroupID,
		ProjectTitle: req.ProjectTitle,
		Year:         req.Year,
		Class:        req.Class,
		MentorID:     req.MentorID,
		Status:       groupModel.StatusActive,
		CreatedBy:    middleware.ClaimString(c, "username"),
	}

	if err := gc.DB.Create(&row).Error; err != nil {
		logger.Error("Failed to create group", err)
		return c.Status(fiber.StatusConflict).JSON(types.ApiResponse{
			Status:  fiber.StatusConflict,
			Message: "Group ID already exists",
			Code:    types.CodeValidationError,
		})
	}

	logger.Success("Group created: " + row.GroupID)
	return gc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Group created successfully",
		Data:    row,
	})
}

// Index lists groups with optional filters
func (gc *GroupController) Index(c *fiber.Ctx) error {
	q := gc.DB.Model(&groupModel.Group{})

	if year := c.QueryInt("year"); year > 0 {
		q = q.Where("year = ?", year)
	}
	if class := c.Query("class"); class != "" {
		q = q.Where("class = ?", class)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var rows []groupModel.Group
	if err := q.Order("group_id ASC").Find(&rows).Error; err != nil {
		logger.Error("Failed to list groups", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to list groups",
			Code:    types.CodeUpstreamError,
		})
	}

	return c.JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Groups fetched successfully",
		Data:    rows,
	})
}

// Show returns one group plus its members
func (gc *GroupController) Show(c *fiber.Ctx) error {
	groupID := c.Params("groupID")

	var row groupModel.Group
	if err := gc.DB.Where("group_id = ?", groupID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Group not found",
				Code:    types.CodeNotFound,
			})
		}
		logger.Error("Failed to fetch group", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Code:    types.CodeUpstreamError,
		})
	}

	var members []studentModel.Student
	if err := gc.DB.Where("group_id = ?", groupID).Order("enrollment_no ASC").Find(&members).Error; err != nil {
		logger.Error("Failed to fetch group members", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Code:    types.CodeUpstreamError,
		})
	}

	return c.JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Group fetched successfully",
		Data: map[string]interface{}{
			"group":   row,
			"members": members,
		},
	})
}

// Update modifies a group
func (gc *GroupController) Update(c *fiber.Ctx) error {
	groupID := c.Params("groupID")

	var req groupTypes.UpdateGroupRequest
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

	var row groupModel.Group
	if err := gc.DB.Where("group_id = ?", groupID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Group not found",
				Code:    types.CodeNotFound,
			})
		}
		logger.Error("Failed to fetch group", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Code:    types.CodeUpstreamError,
		})
	}

	if req.ProjectTitle != "" {
		row.ProjectTitle = req.ProjectTitle
	}
	if req.MentorID != nil {
		row.MentorID = req.MentorID
	}
	if req.Status != "" {
		row.Status = req.Status
	}

	if err := gc.DB.Save(&row).Error; err != nil {
		logger.Error("Failed to update group", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to update group",
			Code:    types.CodeUpstreamError,
		})
	}

	logger.Success("Group updated: " + row.GroupID)
	return gc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Group updated successfully",
		Data:    row,
	})
}

// Destroy deletes a group
func (gc *GroupController) Destroy(c *fiber.Ctx) error {
	groupID := c.Params("groupID")

	result := gc.DB.Where("group_id = ?", groupID).Delete(&groupModel.Group{})
	if result.Error != nil {
		logger.Error("Failed to delete group", result.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to delete group",
			Code:    types.CodeUpstreamError,
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Group not found",
			Code:    types.CodeNotFound,
		})
	}

	logger.Success("Group deleted: " + groupID)
	return gc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Group deleted successfully",
	})
}

// RequestJoin files a student's request to be assigned to a group
func (gc *GroupController) RequestJoin(c *fiber.Ctx) error {
	var req groupTypes.JoinGroupRequest
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

	var target groupModel.Group
	if err := gc.DB.Where("group_id = ?", req.GroupID).First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Group not found",
				Code:    types.CodeNotFound,
			})
		}
		logger.Error("Failed to fetch group", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Code:    types.CodeUpstreamError,
		})
	}

	var pending int64
	gc.DB.Model(&groupModel.JoinRequest{}).
		Where("enrollment_no = ? AND status = ?", req.EnrollmentNo, groupModel.RequestPending).
		Count(&pending)
	if pending > 0 {
		return c.Status(fiber.StatusConflict).JSON(types.ApiResponse{
			Status:  fiber.StatusConflict,
			Message: "A pending join request already exists for this student",
			Code:    types.CodeValidationError,
		})
	}

	joinReq := groupModel.JoinRequest{
		GroupID:      req.GroupID,
		EnrollmentNo: req.EnrollmentNo,
		Status:       groupModel.RequestPending,
	}
	if err := gc.DB.Create(&joinReq).Error; err != nil {
		logger.Error("Failed to create join request", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to create join request",
			Code:    types.CodeUpstreamError,
		})
	}

	logger.Success("Join request filed: " + req.EnrollmentNo + " -> " + req.GroupID)
	return gc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Join request submitted",
		Data:    joinReq,
	})
}

// ListJoinRequests returns join requests, optionally filtered by status
func (gc *GroupController) ListJoinRequests(c *fiber.Ctx) error {
	q := gc.DB.Model(&groupModel.JoinRequest{})
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if groupID := c.Query("group_id"); groupID != "" {
		q = q.Where("group_id = ?", groupID)
	}

	var rows []groupModel.JoinRequest
	if err := q.Order("created_at DESC").Find(&rows).Error; err != nil {
		logger.Error("Failed to list join requests", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to list join requests",
			Code:    types.CodeUpstreamError,
		})
	}

	return c.JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Join requests fetched successfully",
		Data:    rows,
	})
}

// DecideJoinRequest approves or rejects a pending join request. Approval
// assigns the student to the group inside the same transaction.
func (gc *GroupController) DecideJoinRequest(c *fiber.Ctx) error {
	var req groupTypes.DecideJoinRequest
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

	var joinReq groupModel.JoinRequest
	if err := gc.DB.First(&joinReq, req.RequestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Join request not found",
				Code:    types.CodeNotFound,
			})
		}
		logger.Error("Failed to fetch join request", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Code:    types.CodeUpstreamError,
		})
	}

	if joinReq.IsDecided() {
		return c.Status(fiber.StatusConflict).JSON(types.ApiResponse{
			Status:  fiber.StatusConflict,
			Message: "Join request already decided",
			Code:    types.CodeValidationError,
		})
	}

	decidedBy := middleware.ClaimString(c, "username")

	err := gc.DB.Transaction(func(tx *gorm.DB) error {
		joinReq.Status = req.Decision
		joinReq.DecidedBy = decidedBy
		if err := tx.Save(&joinReq).Error; err != nil {
			return err
		}

		if req.Decision == groupModel.RequestApproved {
			return tx.Model(&studentModel.Student{}).
				Where("enrollment_no = ?", joinReq.EnrollmentNo).
				Update("group_id", joinReq.GroupID).Error
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to decide join request", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to decide join request",
			Code:    types.CodeUpstreamError,
		})
	}

	logger.Success("Join request " + req.Decision + ": " + joinReq.EnrollmentNo)
	return gc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Join request " + req.Decision,
		Data:    joinReq,
	})
}
