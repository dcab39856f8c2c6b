package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/agendadigital/forms-service/internal/models"
	"github.com/agendadigital/forms-service/internal/repositories"
)

type studentRepository struct {
	db *gorm.DB
}

func NewStudentPostgreSQL(db *gorm.DB) repositories.StudentRepository {
	return &studentRepository{db: db}
}

// ListAll returns the full roster. Deliberately uncached and unfiltered:
// every search cycle sees the directory as it is right now, and relevance
// ranking happens on the caller side.
func (r *studentRepository) ListAll(ctx context.Context) ([]models.Student, error) {
	var students []models.Student

	if err := r.db.WithContext(ctx).
		Find(&students).Error; err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	return students, nil
}

func (r *studentRepository) GetByCode(ctx context.Context, code string) (*models.Student, error) {
	var student models.Student

	err := r.db.WithContext(ctx).
		Where("codigo = ?", code).
		First(&student).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get student by code: %w", err)
	}

	return &student, nil
}
