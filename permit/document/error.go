package document

import (
	"net/http"

	"github.com/kabalen/permitdocs/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("DOCVERIFY")

// Error codes - Verification
var (
	CodeNoFile                 = ErrRegistry.Register("NO_FILE", errx.TypeValidation, http.StatusBadRequest, "Please upload the document first")
	CodeUnknownCategory        = ErrRegistry.Register("UNKNOWN_CATEGORY", errx.TypeValidation, http.StatusBadRequest, "Unknown document category")
	CodeUnreadableDocument     = ErrRegistry.Register("UNREADABLE", errx.TypeBusiness, http.StatusUnprocessableEntity, "The document may be unreadable or unclear")
	CodeRecognitionFailed      = ErrRegistry.Register("RECOGNITION_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to verify document")
	CodeVerificationInFlight   = ErrRegistry.Register("IN_FLIGHT", errx.TypeConflict, http.StatusConflict, "A verification for this document is already running")
	CodeRecordNotFound         = ErrRegistry.Register("RECORD_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Verification record not found")
	CodeRecordCreationFailed   = ErrRegistry.Register("RECORD_CREATE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to store verification record")
	CodeFileReadFailed         = ErrRegistry.Register("FILE_READ_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to read file")
	CodeInvalidFileFormat      = ErrRegistry.Register("INVALID_FILE_FORMAT", errx.TypeValidation, http.StatusBadRequest, "Invalid file format")
	CodeExportFailed           = ErrRegistry.Register("EXPORT_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to export verification records")
)

// Error codes - Job/Queue
var (
	CodeJobNotFound        = ErrRegistry.Register("JOB_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Verification job not found")
	CodeJobCreationFailed  = ErrRegistry.Register("JOB_CREATION_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to create job record")
	CodeJobUpdateFailed    = ErrRegistry.Register("JOB_UPDATE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to update job status")
	CodeQueueEnqueueFailed = ErrRegistry.Register("QUEUE_ENQUEUE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to enqueue job")
	CodeQueueDequeueFailed = ErrRegistry.Register("QUEUE_DEQUEUE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to dequeue job")
)

// Helper functions - Verification
func ErrNoFile() *errx.Error {
	return ErrRegistry.New(CodeNoFile)
}

func ErrUnknownCategory() *errx.Error {
	return ErrRegistry.New(CodeUnknownCategory)
}

func ErrUnreadableDocument() *errx.Error {
	return ErrRegistry.New(CodeUnreadableDocument)
}

func ErrRecognitionFailed() *errx.Error {
	return ErrRegistry.New(CodeRecognitionFailed)
}

func ErrVerificationInFlight() *errx.Error {
	return ErrRegistry.New(CodeVerificationInFlight)
}

func ErrRecordNotFound() *errx.Error {
	return ErrRegistry.New(CodeRecordNotFound)
}

func ErrRecordCreationFailed() *errx.Error {
	return ErrRegistry.New(CodeRecordCreationFailed)
}

func ErrFileReadFailed() *errx.Error {
	return ErrRegistry.New(CodeFileReadFailed)
}

func ErrInvalidFileFormat() *errx.Error {
	return ErrRegistry.New(CodeInvalidFileFormat)
}

func ErrExportFailed() *errx.Error {
	return ErrRegistry.New(CodeExportFailed)
}

// Helper functions - Job/Queue
func ErrJobNotFound() *errx.Error {
	return ErrRegistry.New(CodeJobNotFound)
}

func ErrJobCreationFailed() *errx.Error {
	return ErrRegistry.New(CodeJobCreationFailed)
}

func ErrJobUpdateFailed() *errx.Error {
	return ErrRegistry.New(CodeJobUpdateFailed)
}

func ErrQueueEnqueueFailed() *errx.Error {
	return ErrRegistry.New(CodeQueueEnqueueFailed)
}

func ErrQueueDequeueFailed() *errx.Error {
	return ErrRegistry.New(CodeQueueDequeueFailed)
}
