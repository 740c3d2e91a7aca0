package documentapi

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/kabalen/permitdocs/pkg/fsx"
	"github.com/kabalen/permitdocs/pkg/iam/apikey"
	"github.com/kabalen/permitdocs/pkg/kernel"
	"github.com/kabalen/permitdocs/permit/document"
	"github.com/kabalen/permitdocs/permit/document/documentsrv"
)

// maxUploadSize caps uploads at 10MB; scanned permits rarely exceed 2-3MB
const maxUploadSize = int64(10 * 1024 * 1024)

type DocumentHandlers struct {
	service    *documentsrv.Service
	fileSystem fsx.FileSystem
}

func NewDocumentHandlers(service *documentsrv.Service, fileSystem fsx.FileSystem) *DocumentHandlers {
	return &DocumentHandlers{
		service:    service,
		fileSystem: fileSystem,
	}
}

func (h *DocumentHandlers) RegisterRoutes(app *fiber.App, keys *apikey.Service) {
	docs := app.Group("/api/v1/documents", keys.Middleware())

	docs.Get("/categories", h.ListCategories) // Supported document categories

	docs.Post("/verify", h.VerifyDocument)            // Verify inline (SYNC)
	docs.Post("/verify-async", h.VerifyDocumentAsync) // Upload and queue (ASYNC)

	docs.Get("/jobs/:job_id", h.GetJobStatus) // Job status polling

	docs.Get("/applications/:application_id/records", h.ListRecords)         // All records of an application
	docs.Get("/applications/:application_id/records/latest", h.LatestRecord) // Latest record of one slot
	docs.Get("/applications/:application_id/jobs", h.ListJobs)               // All jobs of an application
	docs.Get("/applications/:application_id/state", h.GetState)              // Live slot state
	docs.Get("/applications/:application_id/export", h.ExportRecords)        // Excel export

	docs.Get("/records/:id", h.GetRecord) // One record by ID
}

// ListCategories lists the supported document categories
// GET /api/v1/documents/categories
func (h *DocumentHandlers) ListCategories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"categories": h.service.Categories(),
	})
}

// VerifyDocument verifies an uploaded document synchronously
// POST /api/v1/documents/verify (multipart)
func (h *DocumentHandlers) VerifyDocument(c *fiber.Ctx) error {
	req, fileData, err := h.parseUpload(c)
	if err != nil {
		return err
	}
	req.FileData = fileData

	response, err := h.service.VerifyDocument(c.Context(), *req)
	if err != nil {
		return err
	}

	return c.JSON(response)
}

// VerifyDocumentAsync stores the upload and queues it for verification
// POST /api/v1/documents/verify-async (multipart)
func (h *DocumentHandlers) VerifyDocumentAsync(c *fiber.Ctx) error {
	req, fileData, err := h.parseUpload(c)
	if err != nil {
		return err
	}

	// Store under documents/{application_id}/{year}/{month}/{uuid}.{ext}
	now := time.Now()
	extension := filepath.Ext(req.FileName)
	if extension == "" {
		extension = "." + req.FileType
	}
	filePath := h.fileSystem.Join(
		"documents",
		req.ApplicationID.String(),
		fmt.Sprintf("%d", now.Year()),
		fmt.Sprintf("%02d", now.Month()),
		uuid.New().String()+extension,
	)

	if err := h.fileSystem.WriteFile(c.Context(), filePath, fileData); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "failed to upload file to storage",
			"details": err.Error(),
		})
	}
	req.FilePath = filePath

	jobResponse, err := h.service.VerifyDocumentAsync(c.Context(), *req)
	if err != nil {
		// If queueing fails, clean up the uploaded file
		_ = h.fileSystem.DeleteFile(c.Context(), filePath)
		return err
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message":    "Document uploaded, verification started",
		"job":        jobResponse,
		"status_url": fmt.Sprintf("/api/v1/documents/jobs/%s", jobResponse.JobID),
	})
}

// GetJobStatus retrieves the status of a verification job
// GET /api/v1/documents/jobs/:job_id
func (h *DocumentHandlers) GetJobStatus(c *fiber.Ctx) error {
	jobID := kernel.JobID(c.Params("job_id"))
	if jobID.IsEmpty() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid job ID",
		})
	}

	jobStatus, err := h.service.GetJobStatus(c.Context(), jobID)
	if err != nil {
		return err
	}

	return c.JSON(jobStatus)
}

// ListRecords lists all verification records of an application
// GET /api/v1/documents/applications/:application_id/records
func (h *DocumentHandlers) ListRecords(c *fiber.Ctx) error {
	appID, err := applicationIDParam(c)
	if err != nil {
		return err
	}

	records, err := h.service.ListRecords(c.Context(), appID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"application_id": appID,
		"records":        records,
	})
}

// LatestRecord retrieves the latest record for one upload slot
// GET /api/v1/documents/applications/:application_id/records/latest?category=barangay_clearance
func (h *DocumentHandlers) LatestRecord(c *fiber.Ctx) error {
	appID, err := applicationIDParam(c)
	if err != nil {
		return err
	}

	category := document.Category(c.Query("category"))
	if !category.IsKnown() {
		return document.ErrUnknownCategory().WithDetail("category", category.String())
	}

	record, err := h.service.LatestRecord(c.Context(), appID, category)
	if err != nil {
		return err
	}

	return c.JSON(record)
}

// ListJobs lists the verification jobs of an application
// GET /api/v1/documents/applications/:application_id/jobs?page=1&page_size=20
func (h *DocumentHandlers) ListJobs(c *fiber.Ctx) error {
	appID, err := applicationIDParam(c)
	if err != nil {
		return err
	}

	pagination := kernel.PaginationOptions{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 20),
	}

	jobs, err := h.service.ListJobs(c.Context(), appID, pagination)
	if err != nil {
		return err
	}

	return c.JSON(jobs)
}

// GetState returns the live verification state of one upload slot
// GET /api/v1/documents/applications/:application_id/state?category=barangay_clearance
func (h *DocumentHandlers) GetState(c *fiber.Ctx) error {
	appID, err := applicationIDParam(c)
	if err != nil {
		return err
	}

	category := document.Category(c.Query("category"))
	if !category.IsKnown() {
		return document.ErrUnknownCategory().WithDetail("category", category.String())
	}

	return c.JSON(h.service.State(appID, category))
}

// ExportRecords downloads an Excel workbook of an application's records
// GET /api/v1/documents/applications/:application_id/export
func (h *DocumentHandlers) ExportRecords(c *fiber.Ctx) error {
	appID, err := applicationIDParam(c)
	if err != nil {
		return err
	}

	data, err := h.service.ExportRecords(c.Context(), appID)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", documentsrv.ExportFileName(appID)))
	return c.Send(data)
}

// GetRecord retrieves one verification record by ID
// GET /api/v1/documents/records/:id
func (h *DocumentHandlers) GetRecord(c *fiber.Ctx) error {
	recordID := kernel.VerificationID(c.Params("id"))
	if recordID.IsEmpty() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid record ID",
		})
	}

	record, err := h.service.GetRecord(c.Context(), recordID)
	if err != nil {
		return err
	}

	return c.JSON(record)
}

func applicationIDParam(c *fiber.Ctx) (kernel.ApplicationID, error) {
	appID := kernel.ApplicationID(c.Params("application_id"))
	if appID.IsEmpty() {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid application ID")
	}
	return appID, nil
}

// parseUpload reads the shared multipart fields of both verify endpoints
func (h *DocumentHandlers) parseUpload(c *fiber.Ctx) (*document.VerifyDocumentRequest, []byte, error) {
	appID := kernel.ApplicationID(c.FormValue("application_id"))
	if appID.IsEmpty() {
		return nil, nil, fiber.NewError(fiber.StatusBadRequest, "application_id is required")
	}

	category := document.Category(c.FormValue("category"))
	if !category.IsKnown() {
		return nil, nil, document.ErrUnknownCategory().WithDetail("category", category.String())
	}

	file, err := c.FormFile("file")
	if err != nil {
		return nil, nil, document.ErrNoFile().
			WithDetail("application_id", appID).
			WithDetail("category", category.String())
	}

	if file.Size > maxUploadSize {
		return nil, nil, fiber.NewError(fiber.StatusRequestEntityTooLarge, "file too large, maximum is 10MB")
	}

	fileType := determineFileType(file.Filename, file.Header.Get("Content-Type"))
	if fileType == "" {
		return nil, nil, document.ErrInvalidFileFormat().
			WithDetail("detected_type", file.Header.Get("Content-Type")).
			WithDetail("file_extension", filepath.Ext(file.Filename))
	}

	uploaded, err := file.Open()
	if err != nil {
		return nil, nil, document.ErrFileReadFailed().WithDetail("file_name", file.Filename)
	}
	defer uploaded.Close()

	fileData, err := io.ReadAll(uploaded)
	if err != nil {
		return nil, nil, document.ErrFileReadFailed().WithDetail("file_name", file.Filename)
	}

	expected := document.ExpectedFields{
		OwnerFirstName:  c.FormValue("owner_first_name"),
		OwnerMiddleName: c.FormValue("owner_middle_name"),
		OwnerLastName:   c.FormValue("owner_last_name"),
		BusinessName:    c.FormValue("business_name"),
		IDNumber:        c.FormValue("id_number"),
		IDType:          c.FormValue("id_type"),
	}

	return &document.VerifyDocumentRequest{
		ApplicationID: appID,
		Category:      category,
		FileName:      file.Filename,
		FileType:      fileType,
		Expected:      expected,
	}, fileData, nil
}

// determineFileType resolves the upload type from content type, falling back
// to the file extension
func determineFileType(filename, contentType string) string {
	switch contentType {
	case "application/pdf":
		return "pdf"
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "image/png":
		return "png"
	}

	switch filepath.Ext(filename) {
	case ".pdf":
		return "pdf"
	case ".jpg", ".jpeg":
		return "jpg"
	case ".png":
		return "png"
	default:
		return ""
	}
}
