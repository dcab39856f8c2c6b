package services

import (
	"context"
	"log/slog"

	"github.com/agendadigital/forms-service/internal/models"
	"github.com/agendadigital/forms-service/internal/repositories"
)

type lookupService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewLookupService(repo repositories.Repository, logger *slog.Logger) LookupService {
	return &lookupService{
		repo:   repo,
		logger: logger,
	}
}

func (s *lookupService) Disciplines(ctx context.Context) ([]models.Discipline, error) {
	disciplines, err := s.repo.Lookup().Disciplines(ctx)
	if err != nil {
		return nil, NewDirectoryFetchError("disciplines", err)
	}
	return disciplines, nil
}

func (s *lookupService) Classes(ctx context.Context) ([]models.Class, error) {
	classes, err := s.repo.Lookup().Classes(ctx)
	if err != nil {
		return nil, NewDirectoryFetchError("classes", err)
	}
	return classes, nil
}

// OccurrenceTypes returns the fixed category list. It never touches the
// database; the list is part of the form contract.
func (s *lookupService) OccurrenceTypes(ctx context.Context) []string {
	out := make([]string, len(models.OccurrenceTypes))
	copy(out, models.OccurrenceTypes)
	return out
}

// Refresh drops the cached reference lists. Used after the school updates the
// discipline or class tables so staff see the new values immediately.
func (s *lookupService) Refresh(ctx context.Context) {
	s.repo.Lookup().Invalidate(ctx)
	s.logger.InfoContext(ctx, "lookup caches invalidated")
}
