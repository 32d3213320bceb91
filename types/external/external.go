package external

import "github.com/go-playground/validator/v10"

// Candidate is one external evaluator submitted for OTP verification.
type Candidate struct {
	Name         string `json:"name" validate:"required"`
	Organization string `json:"organization" validate:"omitempty,max=255"`
	Phone        string `json:"phone" validate:"required,len=10,numeric"`
	Email        string `json:"email" validate:"required,email"`
}

// SendOTPRequest starts verification sessions for a batch of candidates.
type SendOTPRequest struct {
	Externals []Candidate `json:"externals" validate:"required,min=1,dive"`
	GroupIDs  []string    `json:"group_ids" validate:"required,min=1"`
}

func (req *SendOTPRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(req)
}

// Verification is one sessionToken/code pair submitted for checking.
type Verification struct {
	SessionToken string `json:"sessionToken" validate:"required"`
	OTP          string `json:"otp" validate:"required,len=6,numeric"`
}

type VerifyOTPRequest struct {
	Verifications []Verification `json:"verifications" validate:"required,min=1,dive"`
	GroupIDs      []string       `json:"group_ids"`
}

func (req *VerifyOTPRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(req)
}

type ResendOTPRequest struct {
	SessionToken string `json:"sessionToken" validate:"required"`
}

func (req *ResendOTPRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(req)
}

// VerificationResult echoes the outcome for one submitted session.
type VerificationResult struct {
	SessionToken string `json:"sessionToken"`
	Verified     bool   `json:"verified"`
	Code         string `json:"code,omitempty"`
	Message      string `json:"message,omitempty"`
}

// StoreExternalRequest creates an evaluator row directly (admin path,
// bypassing the OTP onboarding).
type StoreExternalRequest struct {
	ExternalID    string `json:"external_id" validate:"required,max=50"`
	Name          string `json:"name" validate:"required"`
	Organization  string `json:"organization" validate:"omitempty,max=255"`
	Contact       string `json:"contact" validate:"required,len=10,numeric"`
	Email         string `json:"email" validate:"required,email"`
	Year          int    `json:"year" validate:"required,min=2000"`
	AssignedClass string `json:"assigned_class" validate:"omitempty,max=50"`
}

func (req *StoreExternalRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(req)
}
