package dashboard

import (
	"pbl-review/logger"
	dashService "pbl-review/services/dashboard"
	"pbl-review/types"
	"pbl-review/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type DashboardController struct {
	Service *dashService.Service
	Logger  *logger.AsyncLogger
}

func NewDashboardController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *DashboardController {
	return &DashboardController{
		Service: dashService.NewDashboardService(db),
		Logger:  asyncLogger,
	}
}

// Helper function to send response and log in one call
func (dc *DashboardController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	dc.Logger.Log(utils.CreateSanitizedLogEntry(c))
	return result
}

// Summary returns the aggregated dashboard payload: entity counts plus the
// per-stage pass/fail/pending group buckets. Year and class are optional
// query filters.
func (dc *DashboardController) Summary(c *fiber.Ctx) error {
	summary, err := dc.Service.Summarize(c.QueryInt("year"), c.Query("class"))
	if err != nil {
		logger.Error("Failed to build dashboard summary", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to build dashboard summary",
			Code:    types.CodeUpstreamError,
		})
	}

	return dc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Dashboard summary fetched successfully",
		Data:    summary,
	})
}
