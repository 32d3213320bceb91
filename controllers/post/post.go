package post

import (
	"errors"

	"pbl-review/logger"
	"pbl-review/middleware"
	announcementModel "pbl-review/models/announcement"
	postModel "pbl-review/models/post"
	"pbl-review/services"
	"pbl-review/types"
	postTypes "pbl-review/types/post"
	"pbl-review/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PostController handles group posts and staff announcements.
type PostController struct {
	DB          *gorm.DB
	Logger      *logger.AsyncLogger
	Permissions *services.PermissionService
}

func NewPostController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *PostController {
	return &PostController{
		DB:          db,
		Logger:      asyncLogger,
		Permissions: services.NewPermissionService(),
	}
}

// Helper function to send response and log in one call
func (pc *PostController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	pc.Logger.Log(utils.CreateSanitizedLogEntry(c))
	return result
}

// Store creates a post on a group's project page
func (pc *PostController) Store(c *fiber.Ctx) error {
	var req postTypes.StorePostRequest
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

	row := postModel.Post{
		GroupID: req.GroupID,
		Title:   req.Title,
		Body:    req.Body,
		Author:  middleware.ClaimString(c, "username"),
	}

	if err := pc.DB.Create(&row).Error; err != nil {
		logger.Error("Failed to create post", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to create post",
			Code:    types.CodeUpstreamError,
		})
	}

	logger.Success("Post created for group " + row.GroupID)
	return pc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Post created successfully",
		Data:    row,
	})
}

// Index lists posts, optionally for one group
func (pc *PostController) Index(c *fiber.Ctx) error {
	q := pc.DB.Model(&postModel.Post{})
	if groupID := c.Query("group_id"); groupID != "" {
		q = q.Where("group_id = ?", groupID)
	}

	var rows []postModel.Post
	if err := q.Order("created_at DESC").Find(&rows).Error; err != nil {
		logger.Error("Failed to list posts", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to list posts",
			Code:    types.CodeUpstreamError,
		})
	}

	return c.JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Posts fetched successfully",
		Data:    rows,
	})
}

// Show returns a single post
func (pc *PostController) Show(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid post id",
			Code:    types.CodeValidationError,
		})
	}

	var row postModel.Post
	if err := pc.DB.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Post not found",
				Code:    types.CodeNotFound,
			})
		}
		logger.Error("Failed to fetch post", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Code:    types.CodeUpstreamError,
		})
	}

	return c.JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Post fetched successfully",
		Data:    row,
	})
}

// Destroy deletes a post. Only the author or an admin may delete.
func (pc *PostController) Destroy(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid post id",
			Code:    types.CodeValidationError,
		})
	}

	var row postModel.Post
	if err := pc.DB.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Post not found",
				Code:    types.CodeNotFound,
			})
		}
		logger.Error("Failed to fetch post", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Code:    types.CodeUpstreamError,
		})
	}

	username, _ := pc.Permissions.GetUsername(c)
	if row.Author != username && !pc.Permissions.IsAdmin(c) {
		return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
			Status:  fiber.StatusForbidden,
			Message: "Only the author or an admin can delete this post",
			Code:    types.CodeForbidden,
		})
	}

	if err := pc.DB.Delete(&row).Error; err != nil {
		logger.Error("Failed to delete post", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to delete post",
			Code:    types.CodeUpstreamError,
		})
	}

	logger.Success("Post deleted")
	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Post deleted successfully",
	})
}

// StoreAnnouncement creates a broadcast notice
func (pc *PostController) StoreAnnouncement(c *fiber.Ctx) error {
	var req postTypes.StoreAnnouncementRequest
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

	audience := req.Audience
	if audience == "" {
		audience = "all"
	}

	row := announcementModel.Announcement{
		Title:    req.Title,
		Body:     req.Body,
		Audience: audience,
		PostedBy: middleware.ClaimString(c, "username"),
	}

	if err := pc.DB.Create(&row).Error; err != nil {
		logger.Error("Failed to create announcement", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to create announcement",
			Code:    types.CodeUpstreamError,
		})
	}

	logger.Success("Announcement created: " + row.Title)
	return pc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Announcement created successfully",
		Data:    row,
	})
}

// IndexAnnouncements lists announcements visible to the caller's role
func (pc *PostController) IndexAnnouncements(c *fiber.Ctx) error {
	role := middleware.ClaimString(c, "role")

	q := pc.DB.Model(&announcementModel.Announcement{})
	switch role {
	case "admin", "":
		// staff sees everything
	case "mentor":
		q = q.Where("audience IN ?", []string{"all", "mentors"})
	case "student":
		q = q.Where("audience IN ?", []string{"all", "students"})
	case "external":
		q = q.Where("audience IN ?", []string{"all", "externals"})
	default:
		q = q.Where("audience = ?", "all")
	}

	var rows []announcementModel.Announcement
	if err := q.Order("created_at DESC").Find(&rows).Error; err != nil {
		logger.Error("Failed to list announcements", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to list announcements",
			Code:    types.CodeUpstreamError,
		})
	}

	return c.JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Announcements fetched successfully",
		Data:    rows,
	})
}

// DestroyAnnouncement deletes an announcement
func (pc *PostController) DestroyAnnouncement(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid announcement id",
			Code:    types.CodeValidationError,
		})
	}

	result := pc.DB.Delete(&announcementModel.Announcement{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete announcement", result.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to delete announcement",
			Code:    types.CodeUpstreamError,
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Announcement not found",
			Code:    types.CodeNotFound,
		})
	}

	logger.Success("Announcement deleted")
	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Announcement deleted successfully",
	})
}
