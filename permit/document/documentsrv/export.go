package documentsrv

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kabalen/permitdocs/pkg/kernel"
	"github.com/kabalen/permitdocs/permit/document"
)

const exportSheet = "Verifications"

// ExportRecords renders every verification record of an application into an
// Excel workbook, one row per record, for the permits office to review.
func (s *Service) ExportRecords(ctx context.Context, appID kernel.ApplicationID) ([]byte, error) {
	records, err := s.repo.ListByApplicationID(ctx, appID)
	if err != nil {
		return nil, document.ErrRegistry.NewWithCause(document.CodeExportFailed, err).
			WithDetail("application_id", appID)
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", exportSheet)

	headers := []string{"Record ID", "Category", "Document", "File Name", "Status", "Verified", "Invalid Reasons", "Completed At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return nil, document.ErrRegistry.NewWithCause(document.CodeExportFailed, err)
		}
	}

	for row, record := range records {
		completed := ""
		if record.CompletedAt != nil {
			completed = record.CompletedAt.Format("2006-01-02 15:04:05")
		}
		verified := "no"
		if record.Verdict != nil && record.Verdict.IsVerified {
			verified = "yes"
		}
		values := []any{
			record.ID.String(),
			record.Category.String(),
			record.Category.Label(),
			record.FileName,
			string(record.Status),
			verified,
			strings.Join(record.InvalidReasons, "; "),
			completed,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(exportSheet, cell, v); err != nil {
				return nil, document.ErrRegistry.NewWithCause(document.CodeExportFailed, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, document.ErrRegistry.NewWithCause(document.CodeExportFailed, err).
			WithDetail("application_id", appID)
	}
	return buf.Bytes(), nil
}

// ExportFileName suggests a download name for an application's export
func ExportFileName(appID kernel.ApplicationID) string {
	return fmt.Sprintf("verifications-%s.xlsx", appID)
}
