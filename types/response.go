package types

import "time"

type ApiResponse struct {
	Message string      `json:"message"`
	Status  int         `json:"status"`
	Code    string      `json:"code,omitempty"`
	Token   string      `json:"token,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
	Code    string `json:"code,omitempty"`
}

// Stable machine-readable error codes returned in the Code field.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeAuthError       = "AUTH_ERROR"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeOTPExpired      = "OTP_EXPIRED"
	CodeOTPMismatch     = "OTP_MISMATCH"
	CodeOTPConsumed     = "OTP_CONSUMED"
	CodeOTPBlocked      = "OTP_BLOCKED"
	CodeUpstreamError   = "UPSTREAM_ERROR"
	CodeDeliveryError   = "DELIVERY_ERROR"
)

// LogEntry is the in-flight representation of an HTTP request/response log
// before it is persisted by the async logger.
type LogEntry struct {
	Method          string
	URL             string
	RequestBody     string
	RequestHeaders  string
	ResponseBody    string
	ResponseHeaders string
	StatusCode      int
	CreatedAt       time.Time
}
