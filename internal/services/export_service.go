package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/agendadigital/forms-service/internal/models"
	"github.com/agendadigital/forms-service/internal/repositories"
)

const exportSheetName = "Submissions"

const (
	// exportMaxRows bounds a single export so one request cannot drag the
	// whole audit table into memory.
	exportMaxRows = 5000

	// exportBatchSize matches the listing page ceiling; the export walks
	// the audit log page by page through the same role-scoped listing.
	exportBatchSize = 100
)

type exportService struct {
	repo        repositories.Repository
	submissions SubmissionService
	logger      *slog.Logger
}

func NewExportService(repo repositories.Repository, submissions SubmissionService, logger *slog.Logger) ExportService {
	return &exportService{
		repo:        repo,
		submissions: submissions,
		logger:      logger,
	}
}

// ExportSubmissions renders the filtered audit log as an xlsx workbook and
// returns the file bytes plus a suggested filename. Role scoping follows the
// submission listing rules.
func (s *exportService) ExportSubmissions(ctx context.Context, filters repositories.SubmissionFilters, userID string) ([]byte, string, error) {
	rows, err := s.collectRows(ctx, filters, userID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", exportSheetName)

	headers := []string{"ID", "Form Type", "Status", "Professor", "Attempts", "Error", "Submitted At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(exportSheetName, cell, h); err != nil {
			return nil, "", fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, sub := range rows {
		errMsg := ""
		if sub.Error != nil {
			errMsg = *sub.Error
		}

		values := []interface{}{
			sub.ID,
			string(sub.FormType),
			string(sub.Status),
			sub.Professor,
			sub.Attempts,
			errMsg,
			sub.CreatedAt.Format(time.RFC3339),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(exportSheetName, cell, v); err != nil {
				return nil, "", fmt.Errorf("failed to write row %d: %w", row+2, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to render workbook: %w", err)
	}

	filename := fmt.Sprintf("submissions_%s.xlsx", time.Now().UTC().Format("20060102_150405"))

	s.logger.Info("submissions exported", "rows", len(rows), "filename", filename)
	return buf.Bytes(), filename, nil
}

// collectRows walks the role-scoped listing page by page up to the export
// bound. Going through the listing keeps a teacher's export limited to their
// own submissions.
func (s *exportService) collectRows(ctx context.Context, filters repositories.SubmissionFilters, userID string) ([]models.Submission, error) {
	rows := make([]models.Submission, 0, exportBatchSize)
	filters.Limit = exportBatchSize

	for offset := 0; len(rows) < exportMaxRows; offset += exportBatchSize {
		filters.Offset = offset

		listing, err := s.submissions.List(ctx, filters, userID)
		if err != nil {
			return nil, err
		}

		rows = append(rows, listing.Submissions...)
		if len(listing.Submissions) < exportBatchSize {
			break
		}
	}

	if len(rows) > exportMaxRows {
		rows = rows[:exportMaxRows]
	}
	return rows, nil
}
