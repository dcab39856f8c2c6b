package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/agendadigital/forms-service/internal/models"
	"github.com/agendadigital/forms-service/internal/repositories"
)

type submissionService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewSubmissionService(repo repositories.Repository, logger *slog.Logger) SubmissionService {
	return &submissionService{
		repo:   repo,
		logger: logger,
	}
}

// GetByID returns one audit record. Teachers only see their own submissions;
// coordinators and admins see everything.
func (s *submissionService) GetByID(ctx context.Context, id string, userID string) (*models.Submission, error) {
	submission, err := s.repo.Submission().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	if submission == nil {
		return nil, ErrNotFound
	}

	allowed, err := s.canViewAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		professor, err := s.professorIdentity(ctx, userID)
		if err != nil {
			return nil, err
		}
		if submission.Professor != professor {
			return nil, ErrForbidden
		}
	}

	return submission, nil
}

// List returns a page of audit records matching the filters. Teachers are
// scoped to their own submissions regardless of the professor filter.
func (s *submissionService) List(ctx context.Context, filters repositories.SubmissionFilters, userID string) (*SubmissionListResponse, error) {
	allowed, err := s.canViewAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		professor, err := s.professorIdentity(ctx, userID)
		if err != nil {
			return nil, err
		}
		filters.Professor = &professor
	}

	if filters.Limit <= 0 || filters.Limit > 100 {
		filters.Limit = 20
	}

	submissions, total, err := s.repo.Submission().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	page := 1
	if filters.Limit > 0 {
		page = filters.Offset/filters.Limit + 1
	}

	return &SubmissionListResponse{
		Submissions: submissions,
		Total:       total,
		Page:        page,
		Size:        filters.Limit,
	}, nil
}

func (s *submissionService) canViewAll(ctx context.Context, userID string) (bool, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return user.Role == models.RoleCoordinator || user.Role == models.RoleAdmin, nil
}

// professorIdentity returns the identity string stamped on this user's
// submissions, which is what the audit log is keyed by.
func (s *submissionService) professorIdentity(ctx context.Context, userID string) (string, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return user.DisplayName(), nil
}
