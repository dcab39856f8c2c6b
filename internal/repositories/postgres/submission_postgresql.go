package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/agendadigital/forms-service/internal/models"
	"github.com/agendadigital/forms-service/internal/repositories"
)

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionPostgreSQL(db *gorm.DB) repositories.SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	if err := r.db.WithContext(ctx).Create(submission).Error; err != nil {
		return fmt.Errorf("failed to create submission record: %w", err)
	}
	return nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	var submission models.Submission

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&submission).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	return &submission, nil
}

func (r *submissionRepository) List(ctx context.Context, filters repositories.SubmissionFilters) ([]models.Submission, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Submission{})
	query = r.applyFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count submissions: %w", err)
	}

	query = r.applyPaginationAndSort(query, filters)

	var submissions []models.Submission
	if err := query.Find(&submissions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list submissions: %w", err)
	}

	return submissions, total, nil
}

func (r *submissionRepository) CountByTypeAndStatus(ctx context.Context, professor string, from, to *time.Time) ([]repositories.SubmissionCount, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Select("form_type, status, COUNT(*) as count").
		Group("form_type, status")

	if professor != "" {
		query = query.Where("professor = ?", professor)
	}
	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("created_at <= ?", *to)
	}

	var counts []repositories.SubmissionCount
	if err := query.Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate submissions: %w", err)
	}

	return counts, nil
}

func (r *submissionRepository) applyFilters(query *gorm.DB, filters repositories.SubmissionFilters) *gorm.DB {
	if filters.FormType != nil {
		query = query.Where("form_type = ?", *filters.FormType)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Professor != nil {
		query = query.Where("professor = ?", *filters.Professor)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	return query
}

// applyPaginationAndSort applies pagination and sorting with a whitelist of
// sort columns.
func (r *submissionRepository) applyPaginationAndSort(query *gorm.DB, filters repositories.SubmissionFilters) *gorm.DB {
	allowedSortColumns := map[string]bool{
		"created_at": true,
		"form_type":  true,
		"status":     true,
		"professor":  true,
	}

	sortBy := filters.SortBy
	if sortBy == "" || !allowedSortColumns[sortBy] {
		sortBy = "created_at"
	}

	sortOrder := "DESC"
	if filters.SortOrder == "asc" || filters.SortOrder == "ASC" {
		sortOrder = "ASC"
	}

	query = query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	return query
}
