package sheetparser

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pbl-review/logger"
	"pbl-review/models/sheet"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Service tracks uploaded marks-sheet images through parsing.
type Service struct {
	DB        *gorm.DB
	UploadDir string
}

func NewSheetParserService(db *gorm.DB) *Service {
	return &Service{
		DB:        db,
		UploadDir: "uploaded_sheets",
	}
}

// GenerateRequestID generates a 24 character unique request ID
func (s *Service) GenerateRequestID() string {
	bytes := make([]byte, 12)
	rand.Read(bytes)
	requestID := hex.EncodeToString(bytes)

	// Timestamp prefix keeps ids unique across restarts
	timestamp := time.Now().Unix()
	return fmt.Sprintf("%06x%s", timestamp&0xffffff, requestID[:18])
}

// CreateInitialRequest creates an initial request record in the database
func (s *Service) CreateInitialRequest(c *fiber.Ctx, requestID, originalFileName string, fileSize int64, mimeType string) (*sheet.ParseRequest, error) {
	ipAddress := c.IP()
	if ipAddress == "" {
		ipAddress = "unknown"
	}
	userAgent := c.Get("User-Agent")

	request := &sheet.ParseRequest{
		RequestID:        requestID,
		OriginalFileName: originalFileName,
		FileSize:         fileSize,
		MimeType:         mimeType,
		Status:           "processing",
		IPAddress:        ipAddress,
		UserAgent:        &userAgent,
	}

	if err := s.DB.Create(request).Error; err != nil {
		return nil, fmt.Errorf("failed to create initial request: %w", err)
	}

	return request, nil
}

// SaveFileAsync saves the uploaded file without blocking the response.
func (s *Service) SaveFileAsync(requestID string, fileBytes []byte, originalFileName string) {
	go func() {
		if err := s.saveFile(requestID, fileBytes, originalFileName); err != nil {
			logger.Error(fmt.Sprintf("Failed to save file for request %s", requestID), err)
		}
	}()
}

func (s *Service) saveFile(requestID string, fileBytes []byte, originalFileName string) error {
	if err := os.MkdirAll(s.UploadDir, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	hash := sha256.Sum256(fileBytes)
	fileHash := hex.EncodeToString(hash[:])

	ext := filepath.Ext(originalFileName)
	savedFileName := fmt.Sprintf("%s_%d%s", requestID, time.Now().Unix(), ext)
	filePath := filepath.Join(s.UploadDir, savedFileName)

	if err := os.WriteFile(filePath, fileBytes, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	updates := map[string]interface{}{
		"saved_file_name": savedFileName,
		"file_hash":       fileHash,
		"file_path":       filePath,
	}

	if err := s.DB.Model(&sheet.ParseRequest{}).Where("request_id = ?", requestID).Updates(updates).Error; err != nil {
		os.Remove(filePath)
		return fmt.Errorf("failed to update request with file info: %w", err)
	}

	return nil
}

// SaveSuccessResult stores the extracted payload for a finished request.
func (s *Service) SaveSuccessResult(requestID, payload string, processingTimeMs int64) {
	updates := map[string]interface{}{
		"status":             "success",
		"parsed_payload":     payload,
		"processing_time_ms": processingTimeMs,
	}
	if err := s.DB.Model(&sheet.ParseRequest{}).Where("request_id = ?", requestID).Updates(updates).Error; err != nil {
		logger.Error(fmt.Sprintf("Failed to save parse result for request %s", requestID), err)
	}
}

// SaveFailureResult stores the error for a failed request.
func (s *Service) SaveFailureResult(requestID, errorMessage string, processingTimeMs int64) {
	updates := map[string]interface{}{
		"status":             "failed",
		"error_message":      errorMessage,
		"processing_time_ms": processingTimeMs,
	}
	if err := s.DB.Model(&sheet.ParseRequest{}).Where("request_id = ?", requestID).Updates(updates).Error; err != nil {
		logger.Error(fmt.Sprintf("Failed to save parse failure for request %s", requestID), err)
	}
}
