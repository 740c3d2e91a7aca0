package applicationsrv

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kabalen/permitdocs/pkg/kernel"
	"github.com/kabalen/permitdocs/pkg/logx"
	"github.com/kabalen/permitdocs/permit/application"
	"github.com/kabalen/permitdocs/permit/document"
)

// Service manages permit applications and their document checklist
type Service struct {
	repo    application.Repository
	records document.Repository
}

func NewService(repo application.Repository, records document.Repository) *Service {
	return &Service{repo: repo, records: records}
}

// CreateApplication opens a new draft application
func (s *Service) CreateApplication(ctx context.Context, req application.CreateApplicationRequest) (*application.PermitApplication, error) {
	if !req.Type.IsValid() {
		return nil, application.ErrInvalidType().WithDetail("type", string(req.Type))
	}

	tin := kernel.TIN(req.TIN)
	if req.TIN != "" && !tin.IsValid() {
		return nil, application.ErrInvalidTIN().WithDetail("tin", req.TIN)
	}

	now := time.Now()
	app := &application.PermitApplication{
		ID:               kernel.NewApplicationID(uuid.NewString()),
		ReferenceNo:      newReferenceNo(now),
		Type:             req.Type,
		Status:           application.StatusDraft,
		OwnerFirstName:   req.OwnerFirstName,
		OwnerMiddleName:  req.OwnerMiddleName,
		OwnerLastName:    req.OwnerLastName,
		BusinessName:     req.BusinessName,
		BusinessAddress:  req.BusinessAddress,
		TIN:              tin,
		DeclaredIDType:   req.DeclaredIDType,
		DeclaredIDNumber: req.DeclaredIDNumber,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(ctx, app); err != nil {
		return nil, application.ErrRegistry.NewWithCause(application.CodeCreationFailed, err).
			WithDetail("business_name", req.BusinessName)
	}

	logx.Infof("Created application %s (%s) for %s", app.ID, app.ReferenceNo, app.BusinessName)
	return app, nil
}

// GetApplication retrieves an application by ID
func (s *Service) GetApplication(ctx context.Context, id kernel.ApplicationID) (*application.PermitApplication, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, application.ErrNotFound().WithDetail("application_id", id)
	}
	return app, nil
}

// GetByReference retrieves an application by its human-facing reference number
func (s *Service) GetByReference(ctx context.Context, ref kernel.ReferenceNo) (*application.PermitApplication, error) {
	app, err := s.repo.GetByReferenceNo(ctx, ref)
	if err != nil {
		return nil, application.ErrNotFound().WithDetail("reference_no", ref)
	}
	return app, nil
}

// ListApplications lists applications with optional status and type filters
func (s *Service) ListApplications(ctx context.Context, req application.ListApplicationsRequest) (*kernel.Paginated[application.PermitApplication], error) {
	req.Pagination = req.Pagination.Normalize()
	return s.repo.List(ctx, req)
}

// UpdateApplication amends a draft application
func (s *Service) UpdateApplication(ctx context.Context, id kernel.ApplicationID, req application.UpdateApplicationRequest) (*application.PermitApplication, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, application.ErrNotFound().WithDetail("application_id", id)
	}

	if app.Status != application.StatusDraft {
		return nil, application.ErrNotEditable().
			WithDetail("application_id", id).
			WithDetail("status", string(app.Status))
	}

	applyIfSet := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	applyIfSet(&app.OwnerFirstName, req.OwnerFirstName)
	applyIfSet(&app.OwnerMiddleName, req.OwnerMiddleName)
	applyIfSet(&app.OwnerLastName, req.OwnerLastName)
	applyIfSet(&app.BusinessName, req.BusinessName)
	applyIfSet(&app.BusinessAddress, req.BusinessAddress)
	applyIfSet(&app.DeclaredIDType, req.DeclaredIDType)
	applyIfSet(&app.DeclaredIDNumber, req.DeclaredIDNumber)
	app.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, app); err != nil {
		return nil, application.ErrRegistry.NewWithCause(application.CodeUpdateFailed, err).
			WithDetail("application_id", id)
	}

	return app, nil
}

// GetChecklist reports the verification standing of every required document
// slot of an application
func (s *Service) GetChecklist(ctx context.Context, id kernel.ApplicationID) (*application.Checklist, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, application.ErrNotFound().WithDetail("application_id", id)
	}

	checklist := &application.Checklist{
		ApplicationID: app.ID,
		Complete:      true,
	}

	for _, category := range app.RequiredCategories() {
		item := application.ChecklistItem{
			Category: category,
			Label:    category.Label(),
			Status:   document.StatusIdle,
		}

		record, err := s.records.GetLatest(ctx, app.ID, category)
		if err == nil {
			item.Status = record.Status
			item.Verified = record.Status == document.StatusVerified
		}
		if !item.Verified {
			checklist.Complete = false
		}

		checklist.Items = append(checklist.Items, item)
	}

	return checklist, nil
}

// SubmitApplication moves a draft to submitted once every required document
// slot has a verified record
func (s *Service) SubmitApplication(ctx context.Context, id kernel.ApplicationID) (*application.PermitApplication, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, application.ErrNotFound().WithDetail("application_id", id)
	}

	if app.Status != application.StatusDraft {
		return nil, application.ErrAlreadySubmitted().
			WithDetail("application_id", id).
			WithDetail("status", string(app.Status))
	}

	checklist, err := s.GetChecklist(ctx, id)
	if err != nil {
		return nil, err
	}
	if !checklist.Complete {
		var missing []string
		for _, item := range checklist.Items {
			if !item.Verified {
				missing = append(missing, item.Label)
			}
		}
		return nil, application.ErrChecklistIncomplete().
			WithDetail("application_id", id).
			WithDetail("missing", missing)
	}

	app.Status = application.StatusSubmitted
	app.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, app); err != nil {
		return nil, application.ErrRegistry.NewWithCause(application.CodeUpdateFailed, err).
			WithDetail("application_id", id)
	}

	logx.Infof("Application %s submitted", app.ReferenceNo)
	return app, nil
}

// newReferenceNo builds a reference like "BP-2025-7F3A2C".
// Uniqueness rides on the UUID fragment; the year is for the front desk.
func newReferenceNo(now time.Time) kernel.ReferenceNo {
	fragment := strings.ToUpper(uuid.NewString()[:6])
	return kernel.NewReferenceNo(fmt.Sprintf("BP-%d-%s", now.Year(), fragment))
}
