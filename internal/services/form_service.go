package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agendadigital/forms-service/internal/config"
	"github.com/agendadigital/forms-service/internal/events"
	"github.com/agendadigital/forms-service/internal/models"
	"github.com/agendadigital/forms-service/internal/repositories"
	"github.com/agendadigital/forms-service/internal/validator"
	"github.com/agendadigital/forms-service/internal/webhook"
)

type formService struct {
	repo           repositories.Repository
	sender         *webhook.Client
	webhooks       config.WebhookConfig
	validator      *validator.Validator
	eventPublisher events.EventPublisher
	logger         *slog.Logger
}

func NewFormService(
	repo repositories.Repository,
	sender *webhook.Client,
	webhooks config.WebhookConfig,
	v *validator.Validator,
	eventPublisher events.EventPublisher,
	logger *slog.Logger,
) FormService {
	return &formService{
		repo:           repo,
		sender:         sender,
		webhooks:       webhooks,
		validator:      v,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// SubmitContent delivers a content/homework registration.
func (s *formService) SubmitContent(ctx context.Context, req *validator.ContentSubmitRequest, userID string) (*SubmitResponse, error) {
	if verrs := s.validator.Validate(req); verrs != nil {
		return nil, verrs
	}

	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"disciplina": req.Discipline,
		"turma":      req.Class,
		"tarefa":     req.Task,
		"descricao":  req.Description,
		"professor":  user.DisplayName(),
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	}

	return s.deliver(ctx, models.FormContent, s.webhooks.ContentURL, payload, user.DisplayName())
}

// SubmitOccurrence delivers an individual student occurrence. The submission
// is rejected before delivery unless the named student was confirmed from
// search results: the code must resolve in the directory and its canonical
// name must match what the form carries. Free-typed text never qualifies.
func (s *formService) SubmitOccurrence(ctx context.Context, req *validator.OccurrenceSubmitRequest, userID string) (*SubmitResponse, error) {
	if verrs := s.validator.Validate(req); verrs != nil {
		return nil, verrs
	}

	if strings.TrimSpace(req.StudentCode) == "" {
		return nil, ErrNoStudentSelected
	}

	student, err := s.repo.Student().GetByCode(ctx, req.StudentCode)
	if err != nil {
		return nil, NewDirectoryFetchError("student", err)
	}
	if student == nil || student.Name != req.StudentName {
		return nil, ErrNoStudentSelected
	}

	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"disciplina":      req.Discipline,
		"nome_aluno":      student.Name,
		"tipo_ocorrencia": req.OccurrenceType,
		"descricao":       req.Description,
		"professor":       user.DisplayName(),
		"aluno":           student.Name,
		"curso":           student.Course,
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	}

	return s.deliver(ctx, models.FormOccurrence, s.webhooks.OccurrenceURL, payload, user.DisplayName())
}

// SubmitAnnouncement delivers a class or school-wide announcement. The
// announcement webhook identifies the sender by email.
func (s *formService) SubmitAnnouncement(ctx context.Context, req *validator.AnnouncementSubmitRequest, userID string) (*SubmitResponse, error) {
	if verrs := s.validator.Validate(req); verrs != nil {
		return nil, verrs
	}

	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// the announcement automation keys on the sender's email
	payload := map[string]interface{}{
		"destinatario": req.Recipient,
		"turma":        req.Class,
		"titulo":       req.Title,
		"descricao":    req.Description,
		"professor":    user.Email,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	}

	return s.deliver(ctx, models.FormAnnouncement, s.webhooks.AnnouncementURL, payload, user.DisplayName())
}

// resolveUser looks up the submitting staff member's identity. Audit rows are
// always stamped with the display name; payloads pick the field their
// automation expects.
func (s *formService) resolveUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return user, nil
}

// deliver sends the payload, records the audit row, and publishes the outcome
// event. A failed delivery still returns the response alongside
// ErrDeliveryFailed so the caller can reference the recorded submission.
func (s *formService) deliver(ctx context.Context, formType models.FormType, url string, payload map[string]interface{}, professor string) (*SubmitResponse, error) {
	snapshot, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	attempts, sendErr := s.sender.Send(ctx, url, payload)

	submission := &models.Submission{
		ID:        uuid.New().String(),
		FormType:  formType,
		Status:    models.SubmissionDelivered,
		Payload:   snapshot,
		Professor: professor,
		Attempts:  attempts,
	}
	if sendErr != nil {
		submission.Status = models.SubmissionFailed
		msg := sendErr.Error()
		if len(msg) > 500 {
			msg = msg[:500]
		}
		submission.Error = &msg
	}

	if err := s.repo.Submission().Create(ctx, submission); err != nil {
		// the delivery outcome stands even if the audit write fails
		s.logger.Error("failed to record submission", "form_type", formType, "error", err)
	}

	s.publishOutcome(ctx, submission)

	resp := &SubmitResponse{
		SubmissionID: submission.ID,
		Status:       submission.Status,
		Attempts:     attempts,
		SubmittedAt:  time.Now().UTC(),
	}

	if sendErr != nil {
		s.logger.Warn("form delivery failed",
			"form_type", formType,
			"submission_id", submission.ID,
			"attempts", attempts,
			"error", sendErr)
		// double-wrap so callers can match both the sentinel and the
		// transport error type
		return resp, fmt.Errorf("%w: %w", ErrDeliveryFailed, sendErr)
	}

	s.logger.Info("form delivered",
		"form_type", formType,
		"submission_id", submission.ID,
		"attempts", attempts)
	return resp, nil
}

func (s *formService) publishOutcome(ctx context.Context, submission *models.Submission) {
	if s.eventPublisher == nil {
		return
	}

	eventType := events.EventSubmissionDelivered
	errMsg := ""
	if submission.Status == models.SubmissionFailed {
		eventType = events.EventSubmissionFailed
		if submission.Error != nil {
			errMsg = *submission.Error
		}
	}

	event := events.NewEvent(eventType, events.SubmissionEvent{
		SubmissionID: submission.ID,
		FormType:     string(submission.FormType),
		Professor:    submission.Professor,
		Attempts:     submission.Attempts,
		Error:        errMsg,
	})

	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish submission event", "event_type", eventType, "error", err)
	}
}
