package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/agendadigital/forms-service/internal/models"
	"github.com/agendadigital/forms-service/internal/repositories"
	"github.com/agendadigital/forms-service/internal/search"
)

type studentService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewStudentService(repo repositories.Repository, logger *slog.Logger) StudentService {
	return &studentService{
		repo:   repo,
		logger: logger,
	}
}

// Search returns the ranked matches for a name query. Queries below the
// minimum length return an empty result without touching the directory. The
// roster is fetched fresh on every search so newly enrolled students show up
// immediately.
func (s *studentService) Search(ctx context.Context, query string) (*StudentSearchResponse, error) {
	query = strings.TrimSpace(query)

	resp := &StudentSearchResponse{
		Query:    query,
		Students: []models.Student{},
	}

	if len([]rune(query)) < search.MinQueryLength {
		return resp, nil
	}

	roster, err := s.repo.Student().ListAll(ctx)
	if err != nil {
		return nil, NewDirectoryFetchError("students", err)
	}

	resp.Students = search.Match(roster, query)
	return resp, nil
}

// GetByCode resolves a single student by directory code.
func (s *studentService) GetByCode(ctx context.Context, code string) (*models.Student, error) {
	student, err := s.repo.Student().GetByCode(ctx, code)
	if err != nil {
		return nil, NewDirectoryFetchError("student", err)
	}
	if student == nil {
		return nil, ErrNotFound
	}
	return student, nil
}
