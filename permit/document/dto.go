package document

import (
	"github.com/kabalen/permitdocs/pkg/kernel"
)

// ============================================================================
// Request DTOs
// ============================================================================

// VerifyDocumentRequest - Request to verify an uploaded supporting document.
// For synchronous verification FileData carries the upload inline; for queued
// verification the file has been stored first and FilePath points at it.
type VerifyDocumentRequest struct {
	ApplicationID kernel.ApplicationID `json:"application_id" validate:"required"`
	Category      Category             `json:"category" validate:"required"`
	FileName      string               `json:"file_name" validate:"required"`
	FileType      string               `json:"file_type" validate:"required,oneof=pdf jpg jpeg png"`
	FilePath      string               `json:"file_path,omitempty"`
	FileData      []byte               `json:"-"`

	Expected ExpectedFields `json:"expected"`
}

// ============================================================================
// Response DTOs
// ============================================================================

// VerifyDocumentResponse - The verdict surface returned to the caller
type VerifyDocumentResponse struct {
	RecordID       kernel.VerificationID `json:"record_id"`
	ApplicationID  kernel.ApplicationID  `json:"application_id"`
	Category       Category              `json:"category"`
	DocumentType   string                `json:"document_type"`
	FileName       string                `json:"file_name"`
	IsVerified     bool                  `json:"is_verified"`
	Results        VerificationResults   `json:"results"`
	InvalidReasons []string              `json:"invalid_reasons,omitempty"`
}

// CategoryInfo describes one document slot for API consumers
type CategoryInfo struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	IsID  bool   `json:"is_id"`
}
