package repositories

import (
	"context"
	"time"

	"github.com/agendadigital/forms-service/internal/models"
)

// StudentRepository reads the student directory. The directory is owned by
// the school's external database; this service only ever reads it. ListAll
// returns the entire roster with no server-side filtering — relevance
// filtering is a client concern (see the search package).
type StudentRepository interface {
	ListAll(ctx context.Context) ([]models.Student, error)
	GetByCode(ctx context.Context, code string) (*models.Student, error)
}

// LookupRepository reads the discipline and class reference tables.
type LookupRepository interface {
	Disciplines(ctx context.Context) ([]models.Discipline, error)
	Classes(ctx context.Context) ([]models.Class, error)
	Invalidate(ctx context.Context)
}

// SubmissionRepository persists the delivery audit log.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	GetByID(ctx context.Context, id string) (*models.Submission, error)
	List(ctx context.Context, filters SubmissionFilters) ([]models.Submission, int64, error)
	CountByTypeAndStatus(ctx context.Context, professor string, from, to *time.Time) ([]SubmissionCount, error)
}

// UserRepository reads staff identity from the external provider (read-only;
// this service is not the owner of user data).
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
}

// Repository aggregates all repository interfaces.
type Repository interface {
	Student() StudentRepository
	Lookup() LookupRepository
	Submission() SubmissionRepository
	User() UserRepository

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
}
