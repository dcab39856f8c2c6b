package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agendadigital/forms-service/internal/models"
	"github.com/agendadigital/forms-service/internal/services"
	"github.com/agendadigital/forms-service/internal/utils"
	"github.com/agendadigital/forms-service/internal/validator"
	"github.com/agendadigital/forms-service/internal/webhook"
)

type mockFormService struct {
	resp *services.SubmitResponse
	err  error

	lastOccurrence *validator.OccurrenceSubmitRequest
}

func (m *mockFormService) SubmitContent(ctx context.Context, req *validator.ContentSubmitRequest, userID string) (*services.SubmitResponse, error) {
	return m.resp, m.err
}

func (m *mockFormService) SubmitOccurrence(ctx context.Context, req *validator.OccurrenceSubmitRequest, userID string) (*services.SubmitResponse, error) {
	m.lastOccurrence = req
	return m.resp, m.err
}

func (m *mockFormService) SubmitAnnouncement(ctx context.Context, req *validator.AnnouncementSubmitRequest, userID string) (*services.SubmitResponse, error) {
	return m.resp, m.err
}

func newFormTestRouter(svc services.FormService, authenticated bool) *gin.Engine {
	gin.SetMode(gin.TestMode)

	logger := utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	handler := NewFormHandler(svc, logger)

	router := gin.New()
	if authenticated {
		router.Use(func(c *gin.Context) {
			c.Set("user_id", "t-1")
			c.Next()
		})
	}
	router.POST("/forms/content", handler.SubmitContent)
	router.POST("/forms/occurrence", handler.SubmitOccurrence)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSubmitContent_Success(t *testing.T) {
	svc := &mockFormService{
		resp: &services.SubmitResponse{
			SubmissionID: "sub-1",
			Status:       models.SubmissionDelivered,
			Attempts:     1,
			SubmittedAt:  time.Now().UTC(),
		},
	}
	router := newFormTestRouter(svc, true)

	w := postJSON(t, router, "/forms/content", map[string]string{
		"disciplina": "Matemática",
		"turma":      "6A",
		"tarefa":     "Capítulo 3",
		"descricao":  "Exercícios 1 a 10 do capítulo 3",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp services.SubmitResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.SubmissionID != "sub-1" {
		t.Errorf("expected submission ID sub-1, got %q", resp.SubmissionID)
	}
}

func TestSubmitContent_ValidationFailureReturns400(t *testing.T) {
	svc := &mockFormService{
		err: validator.ValidationErrors{
			{Field: "tarefa", Message: "must be at least 3 characters", Rule: "min"},
		},
	}
	router := newFormTestRouter(svc, true)

	w := postJSON(t, router, "/forms/content", map[string]string{
		"disciplina": "Matemática",
		"turma":      "6A",
		"tarefa":     "ab",
		"descricao":  "Exercícios 1 a 10 do capítulo 3",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Message != "Validation failed" {
		t.Errorf("expected validation message, got %q", resp.Message)
	}
	if resp.Details == nil {
		t.Error("expected field details in the response")
	}
}

func TestSubmitOccurrence_NoStudentSelectedReturns422(t *testing.T) {
	svc := &mockFormService{err: services.ErrNoStudentSelected}
	router := newFormTestRouter(svc, true)

	w := postJSON(t, router, "/forms/occurrence", map[string]string{
		"disciplina":      "História",
		"nome_aluno":      "Ana",
		"tipo_ocorrencia": "Indisciplina",
		"descricao":       "Conversa durante a prova",
	})

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
	if svc.lastOccurrence == nil {
		t.Fatal("expected the request to reach the service")
	}
	if svc.lastOccurrence.StudentCode != "" {
		t.Errorf("expected empty student code, got %q", svc.lastOccurrence.StudentCode)
	}
}

func TestSubmitOccurrence_DeliveryFailureReturns502WithSubmission(t *testing.T) {
	svc := &mockFormService{
		resp: &services.SubmitResponse{
			SubmissionID: "sub-9",
			Status:       models.SubmissionFailed,
			Attempts:     3,
			SubmittedAt:  time.Now().UTC(),
		},
		err: fmt.Errorf("%w: %w", services.ErrDeliveryFailed,
			&webhook.TimeoutError{Err: errors.New("context deadline exceeded")}),
	}
	router := newFormTestRouter(svc, true)

	w := postJSON(t, router, "/forms/occurrence", map[string]string{
		"disciplina":      "História",
		"nome_aluno":      "Ana Silva",
		"codigo_aluno":    "1001",
		"tipo_ocorrencia": "Indisciplina",
		"descricao":       "Conversa durante a prova",
	})

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Message    string                   `json:"message"`
		Retryable  bool                     `json:"retryable"`
		Submission *services.SubmitResponse `json:"submission"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Submission == nil || resp.Submission.SubmissionID != "sub-9" {
		t.Errorf("expected the recorded submission in the body, got %+v", resp.Submission)
	}
	if !resp.Retryable {
		t.Error("a timed-out delivery should be offered for retry")
	}
	if !strings.Contains(resp.Message, "timed out") {
		t.Errorf("expected a timeout-specific message, got %q", resp.Message)
	}
}

func TestSubmitOccurrence_RejectedDeliveryReturns502NotRetryable(t *testing.T) {
	svc := &mockFormService{
		resp: &services.SubmitResponse{
			SubmissionID: "sub-10",
			Status:       models.SubmissionFailed,
			Attempts:     1,
			SubmittedAt:  time.Now().UTC(),
		},
		err: fmt.Errorf("%w: %w", services.ErrDeliveryFailed,
			&webhook.ServerError{Status: http.StatusServiceUnavailable}),
	}
	router := newFormTestRouter(svc, true)

	w := postJSON(t, router, "/forms/occurrence", map[string]string{
		"disciplina":      "História",
		"nome_aluno":      "Ana Silva",
		"codigo_aluno":    "1001",
		"tipo_ocorrencia": "Indisciplina",
		"descricao":       "Conversa durante a prova",
	})

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Message    string                   `json:"message"`
		Retryable  bool                     `json:"retryable"`
		Submission *services.SubmitResponse `json:"submission"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Retryable {
		t.Error("a rejected (non-2xx) delivery must not be offered for retry")
	}
	if !strings.Contains(resp.Message, "503") {
		t.Errorf("expected the rejection status in the message, got %q", resp.Message)
	}
	if resp.Submission == nil || resp.Submission.SubmissionID != "sub-10" {
		t.Errorf("expected the recorded submission in the body, got %+v", resp.Submission)
	}
}

func TestSubmitContent_UnauthenticatedReturns401(t *testing.T) {
	svc := &mockFormService{}
	router := newFormTestRouter(svc, false)

	w := postJSON(t, router, "/forms/content", map[string]string{
		"disciplina": "Matemática",
		"turma":      "6A",
		"tarefa":     "Capítulo 3",
		"descricao":  "Exercícios 1 a 10 do capítulo 3",
	})

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSubmitContent_MalformedBodyReturns400(t *testing.T) {
	svc := &mockFormService{}
	router := newFormTestRouter(svc, true)

	req := httptest.NewRequest(http.MethodPost, "/forms/content", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}
