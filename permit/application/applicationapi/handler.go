package applicationapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kabalen/permitdocs/pkg/iam/apikey"
	"github.com/kabalen/permitdocs/pkg/kernel"
	"github.com/kabalen/permitdocs/permit/application"
	"github.com/kabalen/permitdocs/permit/application/applicationsrv"
)

type ApplicationHandlers struct {
	service *applicationsrv.Service
}

func NewApplicationHandlers(service *applicationsrv.Service) *ApplicationHandlers {
	return &ApplicationHandlers{service: service}
}

func (h *ApplicationHandlers) RegisterRoutes(app *fiber.App, keys *apikey.Service) {
	apps := app.Group("/api/v1/applications", keys.Middleware())

	apps.Post("/", h.CreateApplication)
	apps.Get("/", h.ListApplications)
	apps.Get("/by-reference/:reference_no", h.GetByReference)
	apps.Get("/:id", h.GetApplication)
	apps.Put("/:id", h.UpdateApplication)
	apps.Get("/:id/checklist", h.GetChecklist)
	apps.Post("/:id/submit", h.SubmitApplication)
}

// CreateApplication opens a new draft application
// POST /api/v1/applications
func (h *ApplicationHandlers) CreateApplication(c *fiber.Ctx) error {
	var req application.CreateApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	app, err := h.service.CreateApplication(c.Context(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(app)
}

// GetApplication retrieves an application by ID
// GET /api/v1/applications/:id
func (h *ApplicationHandlers) GetApplication(c *fiber.Ctx) error {
	appID := kernel.ApplicationID(c.Params("id"))
	if appID.IsEmpty() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid application ID",
		})
	}

	app, err := h.service.GetApplication(c.Context(), appID)
	if err != nil {
		return err
	}

	return c.JSON(app)
}

// GetByReference retrieves an application by reference number
// GET /api/v1/applications/by-reference/:reference_no
func (h *ApplicationHandlers) GetByReference(c *fiber.Ctx) error {
	ref := kernel.ReferenceNo(c.Params("reference_no"))
	if ref.IsEmpty() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid reference number",
		})
	}

	app, err := h.service.GetByReference(c.Context(), ref)
	if err != nil {
		return err
	}

	return c.JSON(app)
}

// ListApplications lists applications with optional filters
// GET /api/v1/applications?status=draft&type=new&page=1&page_size=20
func (h *ApplicationHandlers) ListApplications(c *fiber.Ctx) error {
	req := application.ListApplicationsRequest{
		Status: application.Status(c.Query("status")),
		Type:   application.Type(c.Query("type")),
		Pagination: kernel.PaginationOptions{
			Page:     c.QueryInt("page", 1),
			PageSize: c.QueryInt("page_size", 20),
		},
	}

	result, err := h.service.ListApplications(c.Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(result)
}

// UpdateApplication amends a draft application
// PUT /api/v1/applications/:id
func (h *ApplicationHandlers) UpdateApplication(c *fiber.Ctx) error {
	appID := kernel.ApplicationID(c.Params("id"))
	if appID.IsEmpty() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid application ID",
		})
	}

	var req application.UpdateApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	app, err := h.service.UpdateApplication(c.Context(), appID, req)
	if err != nil {
		return err
	}

	return c.JSON(app)
}

// GetChecklist reports the document verification standing of an application
// GET /api/v1/applications/:id/checklist
func (h *ApplicationHandlers) GetChecklist(c *fiber.Ctx) error {
	appID := kernel.ApplicationID(c.Params("id"))
	if appID.IsEmpty() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid application ID",
		})
	}

	checklist, err := h.service.GetChecklist(c.Context(), appID)
	if err != nil {
		return err
	}

	return c.JSON(checklist)
}

// SubmitApplication submits a draft whose checklist is complete
// POST /api/v1/applications/:id/submit
func (h *ApplicationHandlers) SubmitApplication(c *fiber.Ctx) error {
	appID := kernel.ApplicationID(c.Params("id"))
	if appID.IsEmpty() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid application ID",
		})
	}

	app, err := h.service.SubmitApplication(c.Context(), appID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":     "application submitted",
		"application": app,
	})
}
