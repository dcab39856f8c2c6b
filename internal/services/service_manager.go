package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/agendadigital/forms-service/internal/config"
	"github.com/agendadigital/forms-service/internal/events"
	"github.com/agendadigital/forms-service/internal/repositories"
	"github.com/agendadigital/forms-service/internal/validator"
	"github.com/agendadigital/forms-service/internal/webhook"
)

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	repo           repositories.Repository
	sender         *webhook.Client
	webhooks       config.WebhookConfig
	validator      *validator.Validator
	eventPublisher events.EventPublisher
	logger         *slog.Logger

	// Service instances
	formService       FormService
	studentService    StudentService
	lookupService     LookupService
	submissionService SubmissionService
	dashboardService  DashboardService
	exportService     ExportService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(
	repo repositories.Repository,
	sender *webhook.Client,
	webhooks config.WebhookConfig,
	v *validator.Validator,
	eventPublisher events.EventPublisher,
	logger *slog.Logger,
) ServiceManager {
	return &serviceManager{
		repo:           repo,
		sender:         sender,
		webhooks:       webhooks,
		validator:      v,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	sm.formService = NewFormService(sm.repo, sm.sender, sm.webhooks, sm.validator, sm.eventPublisher, sm.logger)
	sm.studentService = NewStudentService(sm.repo, sm.logger)
	sm.lookupService = NewLookupService(sm.repo, sm.logger)
	sm.submissionService = NewSubmissionService(sm.repo, sm.logger)
	sm.dashboardService = NewDashboardService(sm.repo, sm.logger)
	sm.exportService = NewExportService(sm.repo, sm.submissionService, sm.logger)

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

// Service getters

func (sm *serviceManager) Form() FormService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.formService
}

func (sm *serviceManager) Student() StudentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.studentService
}

func (sm *serviceManager) Lookup() LookupService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.lookupService
}

func (sm *serviceManager) Submission() SubmissionService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.submissionService
}

func (sm *serviceManager) Dashboard() DashboardService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.dashboardService
}

func (sm *serviceManager) Export() ExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.exportService
}

// Health and lifecycle

func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}

	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if sm.eventPublisher != nil {
		if err := sm.eventPublisher.Close(); err != nil {
			sm.logger.Error("Failed to close event publisher", "error", err)
		}
	}

	if err := sm.repo.Close(); err != nil {
		sm.logger.Error("Failed to close repository connections", "error", err)
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}
