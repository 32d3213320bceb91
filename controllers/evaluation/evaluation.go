package evaluation

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"

	"pbl-review/logger"
	"pbl-review/middleware"
	evalModel "pbl-review/models/evaluation"
	evalService "pbl-review/services/evaluation"
	"pbl-review/types"
	evalTypes "pbl-review/types/evaluation"
	"pbl-review/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// EvaluationController handles marks entry, listing and export.
type EvaluationController struct {
	DB      *gorm.DB
	Service *evalService.Service
	Logger  *logger.AsyncLogger
}

func NewEvaluationController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *EvaluationController {
	return &EvaluationController{
		DB:      db,
		Service: evalService.NewEvaluationService(db),
		Logger:  asyncLogger,
	}
}

// Helper function to send response and log in one call
func (ec *EvaluationController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	ec.Logger.Log(utils.CreateSanitizedLogEntry(c))
	return result
}

// Save upserts marks for every listed student of a group in one transaction.
func (ec *EvaluationController) Save(c *fiber.Ctx) error {
	var req evalTypes.SaveEvaluationRequest
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

	evaluatedBy := middleware.ClaimString(c, "username")

	applied, err := ec.Service.SaveEvaluations(req, evaluatedBy)
	if err != nil {
		if errors.Is(err, evalService.ErrGroupNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Group not found",
				Code:    types.CodeNotFound,
			})
		}
		logger.Error("Failed to save evaluations", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to save evaluations",
			Code:    types.CodeUpstreamError,
		})
	}

	logger.Success(fmt.Sprintf("Saved %d evaluation rows for group %s (%s)", len(applied), req.GroupID, req.Stage))
	return ec.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Evaluations saved successfully",
		Data:    applied,
	})
}

// ShowByGroup returns every stored evaluation row for one group.
func (ec *EvaluationController) ShowByGroup(c *fiber.Ctx) error {
	groupID := c.Params("groupID")

	rows, err := ec.Service.ListByGroup(groupID)
	if err != nil {
		logger.Error("Failed to list evaluations", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to list evaluations",
			Code:    types.CodeUpstreamError,
		})
	}

	return c.JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Evaluations fetched successfully",
		Data:    rows,
	})
}

// Index returns evaluation rows, optionally filtered by year and class.
func (ec *EvaluationController) Index(c *fiber.Ctx) error {
	rows, err := ec.Service.ListAll(c.QueryInt("year"), c.Query("class"))
	if err != nil {
		logger.Error("Failed to list evaluations", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to list evaluations",
			Code:    types.CodeUpstreamError,
		})
	}

	return c.JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Evaluations fetched successfully",
		Data:    rows,
	})
}

// Export streams evaluation rows as a CSV attachment.
func (ec *EvaluationController) Export(c *fiber.Ctx) error {
	rows, err := ec.Service.ListAll(c.QueryInt("year"), c.Query("class"))
	if err != nil {
		logger.Error("Failed to export evaluations", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to export evaluations",
			Code:    types.CodeUpstreamError,
		})
	}

	payload, err := RenderCSV(rows)
	if err != nil {
		logger.Error("Failed to render evaluation csv", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to render export",
			Code:    types.CodeUpstreamError,
		})
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="evaluations.csv"`)
	return c.Send(payload)
}

// RenderCSV serializes evaluation rows into the export layout: one line
// per (student, stage), stage-irrelevant component columns left empty.
func RenderCSV(rows []evalModel.Evaluation) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"group_id", "enrollment_no", "stage",
		"A", "B", "C", "D", "E",
		"M1", "M2", "M3", "M4", "M5", "M6", "M7",
		"total", "guide_name", "evaluated_by",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, row := range rows {
		record := []string{
			row.GroupID, row.EnrollmentNo, row.Stage,
			markCell(row.A), markCell(row.B), markCell(row.C), markCell(row.D), markCell(row.E),
			markCell(row.M1), markCell(row.M2), markCell(row.M3), markCell(row.M4),
			markCell(row.M5), markCell(row.M6), markCell(row.M7),
			strconv.FormatFloat(row.Total, 'f', -1, 64),
			row.GuideName, row.EvaluatedBy,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func markCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
