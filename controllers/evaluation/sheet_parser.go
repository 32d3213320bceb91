package evaluation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"pbl-review/logger"
	sheetService "pbl-review/services/sheetparser"
	"pbl-review/types"
	evalTypes "pbl-review/types/evaluation"

	"github.com/gofiber/fiber/v2"
	"google.golang.org/genai"
)

// ParsedSheet is the structured result extracted from a marks-sheet image.
type ParsedSheet struct {
	GroupID     string                   `json:"group_id"`
	Stage       string                   `json:"stage"`
	Evaluations []evalTypes.StudentMarks `json:"evaluations"`
	GuideName   string                   `json:"guide_name"`
	RequestID   string                   `json:"request_id,omitempty"`
}

// ParseMarksSheet handles a marks-sheet image upload and extracts the marks
// table using Gemini Vision. The result is returned for review; nothing is
// persisted to the evaluations table until the client submits it via Save.
func (ec *EvaluationController) ParseMarksSheet(c *fiber.Ctx) error {
	startTime := time.Now()

	service := sheetService.NewSheetParserService(ec.DB)
	requestID := service.GenerateRequestID()

	file, err := c.FormFile("image")
	if err != nil {
		logger.Error(fmt.Sprintf("No image file provided for request %s", requestID), err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "No image file provided",
			Code:    types.CodeValidationError,
			Data:    map[string]interface{}{"request_id": requestID},
		})
	}

	mimeType := file.Header.Get("Content-Type")
	if !isValidImageType(mimeType) {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid file type. Only JPEG, JPG, PNG, and WebP files are allowed",
			Code:    types.CodeValidationError,
			Data:    map[string]interface{}{"request_id": requestID},
		})
	}

	maxSize := int64(10 * 1024 * 1024)
	if file.Size > maxSize {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "File size too large. Maximum size is 10MB",
			Code:    types.CodeValidationError,
			Data:    map[string]interface{}{"request_id": requestID},
		})
	}

	if _, err := service.CreateInitialRequest(c, requestID, file.Filename, file.Size, mimeType); err != nil {
		logger.Error(fmt.Sprintf("Failed to create initial request %s", requestID), err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to initialize request",
			Code:    types.CodeUpstreamError,
			Data:    map[string]interface{}{"request_id": requestID},
		})
	}

	src, err := file.Open()
	if err != nil {
		service.SaveFailureResult(requestID, "Failed to open uploaded file", time.Since(startTime).Milliseconds())
		logger.Error(fmt.Sprintf("Failed to open uploaded file for request %s", requestID), err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to process uploaded file",
			Code:    types.CodeUpstreamError,
			Data:    map[string]interface{}{"request_id": requestID},
		})
	}
	defer src.Close()

	fileBytes, err := io.ReadAll(src)
	if err != nil {
		service.SaveFailureResult(requestID, "Failed to read file content", time.Since(startTime).Milliseconds())
		logger.Error(fmt.Sprintf("Failed to read file content for request %s", requestID), err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to read file content",
			Code:    types.CodeUpstreamError,
			Data:    map[string]interface{}{"request_id": requestID},
		})
	}

	service.SaveFileAsync(requestID, fileBytes, file.Filename)

	result, err := parseSheetWithGemini(fileBytes, mimeType)
	if err != nil {
		processingTime := time.Since(startTime).Milliseconds()
		service.SaveFailureResult(requestID, fmt.Sprintf("Gemini parsing failed: %s", err.Error()), processingTime)
		logger.Error(fmt.Sprintf("Failed to parse marks sheet for request %s", requestID), err)
		return c.Status(fiber.StatusBadGateway).JSON(types.ApiResponse{
			Status:  fiber.StatusBadGateway,
			Message: "Failed to parse marks sheet",
			Code:    types.CodeUpstreamError,
			Data: map[string]interface{}{
				"error":      err.Error(),
				"request_id": requestID,
			},
		})
	}

	processingTime := time.Since(startTime).Milliseconds()
	result.RequestID = requestID

	if payload, err := json.Marshal(result); err == nil {
		service.SaveSuccessResult(requestID, string(payload), processingTime)
	}

	logger.Success(fmt.Sprintf("Marks sheet parsed in %dms for group %s, Request ID: %s",
		processingTime, result.GroupID, requestID))

	return c.JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Marks sheet parsed successfully",
		Data:    result,
	})
}

// parseSheetWithGemini extracts the structured marks table from a scanned
// evaluation sheet using the Gemini Vision API.
func parseSheetWithGemini(imageBytes []byte, mimeType string) (*ParsedSheet, error) {
	ctx := context.Background()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not found in environment variables")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	prompt := `Analyze this handwritten project-review marks sheet and extract the marks table. Return ONLY valid JSON.

			The sheet has a group id, a review stage, a guide name and one row per student.
			Review 1 sheets have columns A, B, C, D, E. Review 2 and 3 sheets have columns M1..M7.
			If a cell is missing or unclear, omit that key. Marks are numbers.

			Required JSON format:
			{
			"group_id": string,                  // Group ID printed on the sheet
			"stage": string,                     // "review1", "review2" or "review3"
			"guide_name": string,                // Guide/mentor name if present
			"evaluations": [
				{
				"enrolment_no": string,          // Student enrollment number
				"A": number, "B": number, "C": number, "D": number, "E": number,
				"M1": number, "M2": number, "M3": number, "M4": number,
				"M5": number, "M6": number, "M7": number
				}
			]
			}`

	content := &genai.Content{
		Parts: []*genai.Part{
			&genai.Part{Text: prompt},
			&genai.Part{InlineData: &genai.Blob{
				MIMEType: mimeType,
				Data:     imageBytes,
			}},
		},
	}

	result, err := client.Models.GenerateContent(
		ctx,
		"gemini-2.5-flash-lite",
		[]*genai.Content{content},
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(float32(0.1)),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with OCR: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content generated by OCR")
	}

	responseText := result.Candidates[0].Content.Parts[0].Text
	if responseText == "" {
		return nil, fmt.Errorf("empty response from OCR")
	}

	jsonText := extractJSONFromMarkdown(responseText)

	var parsed ParsedSheet
	if err := json.Unmarshal([]byte(jsonText), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w, response: %s", err, jsonText)
	}

	return &parsed, nil
}

// extractJSONFromMarkdown extracts JSON content from markdown code blocks
func extractJSONFromMarkdown(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") && strings.HasSuffix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
		return strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "```") && strings.HasSuffix(text, "```") {
		lines := strings.Split(text, "\n")
		if len(lines) > 1 {
			return strings.Join(lines[1:len(lines)-1], "\n")
		}
	}

	return text
}

// isValidImageType checks if the provided content type is a valid image type
func isValidImageType(contentType string) bool {
	validTypes := map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/webp": true,
	}
	return validTypes[contentType]
}
