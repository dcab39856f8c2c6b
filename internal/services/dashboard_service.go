package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/agendadigital/forms-service/internal/models"
	"github.com/agendadigital/forms-service/internal/repositories"
)

type dashboardService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewDashboardService(repo repositories.Repository, logger *slog.Logger) DashboardService {
	return &dashboardService{
		repo:   repo,
		logger: logger,
	}
}

// Stats aggregates submission outcomes. Teachers see their own numbers;
// coordinators and admins see school-wide totals.
func (s *dashboardService) Stats(ctx context.Context, userID string, from, to *time.Time) (*DashboardStats, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	professor := ""
	if user.Role == models.RoleTeacher {
		professor = user.DisplayName()
	}

	counts, err := s.repo.Submission().CountByTypeAndStatus(ctx, professor, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate submissions: %w", err)
	}

	stats := &DashboardStats{
		ByForm: make(map[models.FormType]FormStat),
	}

	for _, c := range counts {
		stat := stats.ByForm[c.FormType]
		stat.Total += c.Count
		stats.Total += c.Count

		switch c.Status {
		case models.SubmissionDelivered:
			stat.Delivered += c.Count
			stats.Delivered += c.Count
		case models.SubmissionFailed:
			stat.Failed += c.Count
			stats.Failed += c.Count
		}

		stats.ByForm[c.FormType] = stat
	}

	return stats, nil
}
