package services

import (
	"context"
	"time"

	"github.com/agendadigital/forms-service/internal/models"
	"github.com/agendadigital/forms-service/internal/repositories"
	"github.com/agendadigital/forms-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// SubmitResponse reports the outcome of one form submission.
type SubmitResponse struct {
	SubmissionID string                  `json:"submission_id"`
	Status       models.SubmissionStatus `json:"status"`
	Attempts     int                     `json:"attempts"`
	SubmittedAt  time.Time               `json:"submitted_at"`
}

type StudentSearchResponse struct {
	Query    string           `json:"query"`
	Students []models.Student `json:"students"`
}

type SubmissionListResponse struct {
	Submissions []models.Submission `json:"submissions"`
	Total       int64               `json:"total"`
	Page        int                 `json:"page"`
	Size        int                 `json:"size"`
}

// DashboardStats aggregates submission outcomes for the dashboard.
type DashboardStats struct {
	Total     int64                        `json:"total"`
	Delivered int64                        `json:"delivered"`
	Failed    int64                        `json:"failed"`
	ByForm    map[models.FormType]FormStat `json:"by_form"`
}

type FormStat struct {
	Total     int64 `json:"total"`
	Delivered int64 `json:"delivered"`
	Failed    int64 `json:"failed"`
}

// ===== SERVICE INTERFACES =====

// FormService delivers the three staff forms to their automation webhooks and
// keeps the audit log. Each Submit validates, builds the wire payload, sends
// it, records the outcome, and publishes an outcome event.
type FormService interface {
	SubmitContent(ctx context.Context, req *validator.ContentSubmitRequest, userID string) (*SubmitResponse, error)
	SubmitOccurrence(ctx context.Context, req *validator.OccurrenceSubmitRequest, userID string) (*SubmitResponse, error)
	SubmitAnnouncement(ctx context.Context, req *validator.AnnouncementSubmitRequest, userID string) (*SubmitResponse, error)
}

// StudentService exposes the student directory for the search pipeline.
type StudentService interface {
	Search(ctx context.Context, query string) (*StudentSearchResponse, error)
	GetByCode(ctx context.Context, code string) (*models.Student, error)
}

// LookupService exposes the discipline and class reference lists.
type LookupService interface {
	Disciplines(ctx context.Context) ([]models.Discipline, error)
	Classes(ctx context.Context) ([]models.Class, error)
	OccurrenceTypes(ctx context.Context) []string
	Refresh(ctx context.Context)
}

// SubmissionService reads the delivery audit log.
type SubmissionService interface {
	GetByID(ctx context.Context, id string, userID string) (*models.Submission, error)
	List(ctx context.Context, filters repositories.SubmissionFilters, userID string) (*SubmissionListResponse, error)
}

// DashboardService aggregates submission statistics per staff member.
type DashboardService interface {
	Stats(ctx context.Context, userID string, from, to *time.Time) (*DashboardStats, error)
}

// ExportService renders submission history as a spreadsheet.
type ExportService interface {
	ExportSubmissions(ctx context.Context, filters repositories.SubmissionFilters, userID string) ([]byte, string, error)
}

// ServiceManager wires and owns all service instances.
type ServiceManager interface {
	Initialize(ctx context.Context) error

	Form() FormService
	Student() StudentService
	Lookup() LookupService
	Submission() SubmissionService
	Dashboard() DashboardService
	Export() ExportService

	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
