package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/agendadigital/forms-service/internal/models"
	"github.com/agendadigital/forms-service/internal/repositories"
)

// pagedSubmissionRepository honors Limit and Offset so the export's page walk
// is observable, and records the limit each page was asked for.
type pagedSubmissionRepository struct {
	rows   []models.Submission
	limits []int
}

func (p *pagedSubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return nil
}

func (p *pagedSubmissionRepository) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	return nil, nil
}

func (p *pagedSubmissionRepository) List(ctx context.Context, filters repositories.SubmissionFilters) ([]models.Submission, int64, error) {
	p.limits = append(p.limits, filters.Limit)

	matched := make([]models.Submission, 0, len(p.rows))
	for _, r := range p.rows {
		if filters.Professor != nil && r.Professor != *filters.Professor {
			continue
		}
		matched = append(matched, r)
	}

	start := filters.Offset
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if filters.Limit > 0 && start+filters.Limit < end {
		end = start + filters.Limit
	}

	out := make([]models.Submission, end-start)
	copy(out, matched[start:end])
	return out, int64(len(matched)), nil
}

func (p *pagedSubmissionRepository) CountByTypeAndStatus(ctx context.Context, professor string, from, to *time.Time) ([]repositories.SubmissionCount, error) {
	return nil, nil
}

type pagedRepository struct {
	submission *pagedSubmissionRepository
	user       *mockUserRepository
}

func (p *pagedRepository) Student() repositories.StudentRepository       { return nil }
func (p *pagedRepository) Lookup() repositories.LookupRepository         { return nil }
func (p *pagedRepository) Submission() repositories.SubmissionRepository { return p.submission }
func (p *pagedRepository) User() repositories.UserRepository             { return p.user }
func (p *pagedRepository) Ping(ctx context.Context) error                { return nil }
func (p *pagedRepository) Close() error                                  { return nil }

func seedAuditRows(count int, professor string) []models.Submission {
	rows := make([]models.Submission, count)
	for i := range rows {
		rows[i] = models.Submission{
			ID:        fmt.Sprintf("s-%04d", i),
			FormType:  models.FormContent,
			Status:    models.SubmissionDelivered,
			Professor: professor,
			Attempts:  1,
			CreatedAt: time.Now().UTC(),
		}
	}
	return rows
}

func exportedRowCount(t *testing.T, data []byte) int {
	t.Helper()

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to open exported workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(exportSheetName)
	if err != nil {
		t.Fatalf("failed to read sheet %s: %v", exportSheetName, err)
	}
	return len(rows)
}

func TestExportService_ExportsBeyondOneListingPage(t *testing.T) {
	const total = 250

	subRepo := &pagedSubmissionRepository{rows: seedAuditRows(total, "Maria Santos")}
	repo := &pagedRepository{
		submission: subRepo,
		user: &mockUserRepository{users: map[string]*models.User{
			"c-1": {ID: "c-1", FullName: "Carla Nunes", Email: "carla@escola.com", Role: models.RoleCoordinator},
		}},
	}

	logger := testLogger()
	submissions := NewSubmissionService(repo, logger)
	export := NewExportService(repo, submissions, logger)

	data, filename, err := export.ExportSubmissions(context.Background(), repositories.SubmissionFilters{}, "c-1")
	if err != nil {
		t.Fatalf("ExportSubmissions failed: %v", err)
	}
	if !strings.HasPrefix(filename, "submissions_") || !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("unexpected filename %q", filename)
	}

	// header row plus every audit row, not just one clamped page
	if got := exportedRowCount(t, data); got != total+1 {
		t.Errorf("exported %d sheet rows, want %d", got, total+1)
	}

	// each page request stayed within the listing ceiling
	for i, limit := range subRepo.limits {
		if limit > 100 {
			t.Errorf("page %d requested limit %d, above the listing ceiling", i, limit)
		}
	}
	if len(subRepo.limits) < 3 {
		t.Errorf("expected the export to walk multiple pages, saw %d", len(subRepo.limits))
	}
}

func TestExportService_TeacherOnlySeesOwnRows(t *testing.T) {
	rows := append(seedAuditRows(7, "Maria Santos"), seedAuditRows(5, "Outro Professor")...)

	subRepo := &pagedSubmissionRepository{rows: rows}
	repo := &pagedRepository{
		submission: subRepo,
		user: &mockUserRepository{users: map[string]*models.User{
			"t-1": {ID: "t-1", FullName: "Maria Santos", Email: "maria@escola.com", Role: models.RoleTeacher},
		}},
	}

	logger := testLogger()
	submissions := NewSubmissionService(repo, logger)
	export := NewExportService(repo, submissions, logger)

	data, _, err := export.ExportSubmissions(context.Background(), repositories.SubmissionFilters{}, "t-1")
	if err != nil {
		t.Fatalf("ExportSubmissions failed: %v", err)
	}

	if got := exportedRowCount(t, data); got != 8 {
		t.Errorf("exported %d sheet rows, want 8 (header + 7 own submissions)", got)
	}
}
