package documentsrv

import (
	"context"

	"github.com/kabalen/permitdocs/internal/docclass"
	"github.com/kabalen/permitdocs/pkg/kernel"
	"github.com/kabalen/permitdocs/permit/document"
)

// GetRecord retrieves one verification record
func (s *Service) GetRecord(ctx context.Context, id kernel.VerificationID) (*document.Record, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, document.ErrRecordNotFound().
			WithDetail("record_id", id)
	}
	return record, nil
}

// ListRecords retrieves all verification records of an application, newest first
func (s *Service) ListRecords(ctx context.Context, appID kernel.ApplicationID) ([]*document.Record, error) {
	records, err := s.repo.ListByApplicationID(ctx, appID)
	if err != nil {
		return nil, document.ErrRegistry.NewWithCause(document.CodeRecordNotFound, err).
			WithDetail("application_id", appID)
	}
	return records, nil
}

// LatestRecord retrieves the most recent record for one upload slot
func (s *Service) LatestRecord(ctx context.Context, appID kernel.ApplicationID, category document.Category) (*document.Record, error) {
	record, err := s.repo.GetLatest(ctx, appID, category)
	if err != nil {
		return nil, document.ErrRecordNotFound().
			WithDetail("application_id", appID).
			WithDetail("category", category.String())
	}
	return record, nil
}

// Categories lists every supported document category
func (s *Service) Categories() []document.CategoryInfo {
	names := docclass.Categories()
	infos := make([]document.CategoryInfo, 0, len(names))
	for _, name := range names {
		cat := document.Category(name)
		infos = append(infos, document.CategoryInfo{
			Name:  cat.String(),
			Label: cat.Label(),
			IsID:  cat.IsID(),
		})
	}
	return infos
}
