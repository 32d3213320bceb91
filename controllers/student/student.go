package student

import (
	"errors"

	"pbl-review/logger"
	"pbl-review/middleware"
	studentModel "pbl-review/models/student"
	"pbl-review/types"
	studentTypes "pbl-review/types/student"
	"pbl-review/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// StudentController handles student CRUD requests
type StudentController struct {
	DB     *gorm.DB
	Logger *logger.AsyncLogger
}

func NewStudentController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *StudentController {
	return &StudentController{DB: db, Logger: asyncLogger}
}

// Helper function to send response and log in one call
func (sc *StudentController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	sc.Logger.Log(utils.CreateSanitizedLogEntry(c))
	return result
}

// Store creates a new student
func (sc *StudentController) Store(c *fiber.Ctx) error {
	var req studentTypes.StoreStudentRequest
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

	row := studentModel.Student{
		EnrollmentNo: req.EnrollmentNo,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Year:         req.Year,
		Class:        req.Class,
		CreatedBy:    middleware.ClaimString(c, "username"),
	}

	if err := sc.DB.Create(&row).Error; err != nil {
		logger.Error("Failed to create student", err)
		return c.Status(fiber.StatusConflict).JSON(types.ApiResponse{
			Status:  fiber.StatusConflict,
			Message: "Enrollment number already exists",
			Code:    types.CodeValidationError,
		})
	}

	logger.Success("Student created: " + row.EnrollmentNo)
	return sc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Student created successfully",
		Data:    row,
	})
}

// Index lists students with optional year/class/group filters
func (sc *StudentController) Index(c *fiber.Ctx) error {
	q := sc.DB.Model(&studentModel.Student{})

	if year := c.QueryInt("year"); year > 0 {
		q = q.Where("year = ?", year)
	}
	if class := c.Query("class"); class != "" {
		q = q.Where("class = ?", class)
	}
	if groupID := c.Query("group_id"); groupID != "" {
		q = q.Where("group_id = ?", groupID)
	}

	var rows []studentModel.Student
	if err := q.Order("enrollment_no ASC").Find(&rows).Error; err != nil {
		logger.Error("Failed to list students", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to list students",
			Code:    types.CodeUpstreamError,
		})
	}

	return c.JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Students fetched successfully",
		Data:    rows,
	})
}

// Show returns one student by enrollment number
func (sc *StudentController) Show(c *fiber.Ctx) error {
	enrollmentNo := c.Params("enrollmentNo")

	var row studentModel.Student
	if err := sc.DB.Where("enrollment_no = ?", enrollmentNo).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Student not found",
				Code:    types.CodeNotFound,
			})
		}
		logger.Error("Failed to fetch student", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Code:    types.CodeUpstreamError,
		})
	}

	return c.JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Student fetched successfully",
		Data:    row,
	})
}

// Update modifies an existing student
func (sc *StudentController) Update(c *fiber.Ctx) error {
	enrollmentNo := c.Params("enrollmentNo")

	var req studentTypes.UpdateStudentRequest
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

	var row studentModel.Student
	if err := sc.DB.Where("enrollment_no = ?", enrollmentNo).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Student not found",
				Code:    types.CodeNotFound,
			})
		}
		logger.Error("Failed to fetch student", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Code:    types.CodeUpstreamError,
		})
	}

	if req.Name != "" {
		row.Name = req.Name
	}
	if req.Email != "" {
		row.Email = req.Email
	}
	if req.Phone != "" {
		row.Phone = req.Phone
	}
	if req.Year > 0 {
		row.Year = req.Year
	}
	if req.Class != "" {
		row.Class = req.Class
	}

	if err := sc.DB.Save(&row).Error; err != nil {
		logger.Error("Failed to update student", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to update student",
			Code:    types.CodeUpstreamError,
		})
	}

	logger.Success("Student updated: " + row.EnrollmentNo)
	return sc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Student updated successfully",
		Data:    row,
	})
}

// Destroy soft-deletes a student
func (sc *StudentController) Destroy(c *fiber.Ctx) error {
	enrollmentNo := c.Params("enrollmentNo")

	result := sc.DB.Where("enrollment_no = ?", enrollmentNo).Delete(&studentModel.Student{})
	if result.Error != nil {
		logger.Error("Failed to delete student", result.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to delete student",
			Code:    types.CodeUpstreamError,
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Student not found",
			Code:    types.CodeNotFound,
		})
	}

	logger.Success("Student deleted: " + enrollmentNo)
	return sc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Student deleted successfully",
	})
}
