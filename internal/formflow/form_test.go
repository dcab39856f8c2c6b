package formflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/agendadigital/forms-service/internal/models"
	"github.com/agendadigital/forms-service/internal/search"
	"github.com/agendadigital/forms-service/internal/services"
	"github.com/agendadigital/forms-service/internal/validator"
	"github.com/agendadigital/forms-service/internal/webhook"
)

type fakeRoster struct {
	students []models.Student
}

func (f *fakeRoster) ListStudents(ctx context.Context) ([]models.Student, error) {
	return f.students, nil
}

// fakeSubmitter mimics the delivery service: rejects unconfirmed students,
// fails failures-many deliveries as unreachable before succeeding, or keeps
// rejecting with rejectStatus when set.
type fakeSubmitter struct {
	mu           sync.Mutex
	requests     []validator.OccurrenceSubmitRequest
	failures     int
	rejectStatus int
}

func (f *fakeSubmitter) SubmitOccurrence(ctx context.Context, req *validator.OccurrenceSubmitRequest, userID string) (*services.SubmitResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, *req)

	if req.StudentCode == "" {
		return nil, services.ErrNoStudentSelected
	}
	if f.rejectStatus != 0 {
		return &services.SubmitResponse{Status: models.SubmissionFailed, Attempts: 1},
			fmt.Errorf("%w: %w", services.ErrDeliveryFailed, &webhook.ServerError{Status: f.rejectStatus})
	}
	if f.failures > 0 {
		f.failures--
		return &services.SubmitResponse{Status: models.SubmissionFailed, Attempts: 3},
			fmt.Errorf("%w: %w", services.ErrDeliveryFailed,
				&webhook.NetworkError{Err: errors.New("connection refused")})
	}
	return &services.SubmitResponse{Status: models.SubmissionDelivered, Attempts: 1}, nil
}

func (f *fakeSubmitter) recorded() []validator.OccurrenceSubmitRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]validator.OccurrenceSubmitRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func newTestForm(submitter OccurrenceSubmitter) *OccurrenceForm {
	roster := &fakeRoster{students: []models.Student{
		{Code: "1001", Name: "Ana Silva", ClassID: "6A", Course: "Fund II"},
		{Code: "1002", Name: "Bruno Costa", ClassID: "6A", Course: "Fund II"},
	}}
	return NewOccurrenceForm(roster, submitter, "t-1", search.WithDebounce(5*time.Millisecond))
}

func fillForm(f *OccurrenceForm) {
	f.SetDiscipline("Matemática")
	f.SetOccurrenceType("Atrasado")
	f.SetDescription("Chegou 20 minutos atrasado na primeira aula.")
}

func TestOccurrenceForm_SelectSnapsToCanonicalName(t *testing.T) {
	form := newTestForm(&fakeSubmitter{})
	defer form.Close()

	form.SetStudentQuery("ana")
	waitFor(t, func() bool { return len(form.Suggestions()) > 0 }, "suggestions")

	form.Select(form.Suggestions()[0])

	if got := form.StudentText(); got != "Ana Silva" {
		t.Errorf("name field = %q, want canonical %q", got, "Ana Silva")
	}
	if form.Selected() == nil {
		t.Fatal("selection should be confirmed")
	}
	if len(form.Suggestions()) != 0 {
		t.Error("suggestion list should close on select")
	}
}

func TestOccurrenceForm_EditingNameDropsConfirmation(t *testing.T) {
	form := newTestForm(&fakeSubmitter{})
	defer form.Close()

	form.Select(models.Student{Code: "1001", Name: "Ana Silva", Course: "Fund II"})

	// retyping the identical name keeps the confirmation
	form.SetStudentQuery("Ana Silva")
	if form.Selected() == nil {
		t.Fatal("identical text should keep the confirmation")
	}

	form.SetStudentQuery("Ana Silv")
	if form.Selected() != nil {
		t.Error("diverging text should drop the confirmation")
	}
	if got := form.StudentText(); got != "Ana Silv" {
		t.Errorf("typed text should be kept, got %q", got)
	}
}

func TestOccurrenceForm_SubmitWithoutConfirmedStudent(t *testing.T) {
	submitter := &fakeSubmitter{}
	form := newTestForm(submitter)
	defer form.Close()

	fillForm(form)
	form.SetStudentQuery("Ana Silva") // typed, never selected

	_, err := form.Submit(context.Background())
	if !errors.Is(err, services.ErrNoStudentSelected) {
		t.Fatalf("expected ErrNoStudentSelected, got %v", err)
	}

	if got := submitter.recorded()[0].StudentCode; got != "" {
		t.Errorf("free-typed text must not produce a student code, got %q", got)
	}

	// entered values survive the rejection
	if form.FieldValues().Discipline != "Matemática" {
		t.Error("fields should be preserved after a rejected submit")
	}
	if form.StudentText() != "Ana Silva" {
		t.Error("typed name should be preserved after a rejected submit")
	}
	if form.CanRetry() {
		t.Error("a rejected submit is not retryable")
	}
}

func TestOccurrenceForm_SuccessResetsEverything(t *testing.T) {
	form := newTestForm(&fakeSubmitter{})
	defer form.Close()

	fillForm(form)
	form.Select(models.Student{Code: "1001", Name: "Ana Silva", Course: "Fund II"})

	resp, err := form.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if resp.Status != models.SubmissionDelivered {
		t.Errorf("status = %s, want delivered", resp.Status)
	}

	if form.FieldValues() != (Fields{}) {
		t.Error("fields should reset on success")
	}
	if form.StudentText() != "" {
		t.Error("name field should reset on success")
	}
	if form.Selected() != nil {
		t.Error("selection should reset on success")
	}
	if form.CanRetry() || form.LastError() != nil {
		t.Error("no retry state should remain after success")
	}
}

func TestOccurrenceForm_RejectedDeliveryIsNotRetryable(t *testing.T) {
	submitter := &fakeSubmitter{rejectStatus: 503}
	form := newTestForm(submitter)
	defer form.Close()

	fillForm(form)
	form.Select(models.Student{Code: "1001", Name: "Ana Silva", Course: "Fund II"})

	_, err := form.Submit(context.Background())
	if !errors.Is(err, services.ErrDeliveryFailed) {
		t.Fatalf("expected ErrDeliveryFailed, got %v", err)
	}

	var serverErr *webhook.ServerError
	if !errors.As(err, &serverErr) || serverErr.Status != 503 {
		t.Fatalf("the rejection status must survive to the caller, got %v", err)
	}

	// a rejection would repeat on resend, so no retry is offered
	if form.CanRetry() {
		t.Error("a rejected (non-2xx) delivery must not arm manual retry")
	}
	if _, err := form.Retry(context.Background()); !errors.Is(err, ErrNothingToRetry) {
		t.Errorf("retry after a rejection = %v, want ErrNothingToRetry", err)
	}

	// the entered values still survive for the user to adjust
	if form.FieldValues().Discipline != "Matemática" || form.Selected() == nil {
		t.Error("fields and selection should be preserved after a rejection")
	}
	if len(submitter.recorded()) != 1 {
		t.Errorf("expected exactly 1 delivery attempt, got %d", len(submitter.recorded()))
	}
}

func TestOccurrenceForm_FailurePreservesStateAndRetriesExactPayload(t *testing.T) {
	submitter := &fakeSubmitter{failures: 1}
	form := newTestForm(submitter)
	defer form.Close()

	fillForm(form)
	form.Select(models.Student{Code: "1001", Name: "Ana Silva", Course: "Fund II"})

	_, err := form.Submit(context.Background())
	if !errors.Is(err, services.ErrDeliveryFailed) {
		t.Fatalf("expected ErrDeliveryFailed, got %v", err)
	}

	if form.FieldValues().Description == "" {
		t.Error("fields should be preserved after a delivery failure")
	}
	if form.Selected() == nil {
		t.Error("selection should be preserved after a delivery failure")
	}
	if !form.CanRetry() {
		t.Fatal("delivery failure should arm manual retry")
	}

	resp, err := form.Retry(context.Background())
	if err != nil {
		t.Fatalf("Retry failed: %v", err)
	}
	if resp.Status != models.SubmissionDelivered {
		t.Errorf("retry status = %s, want delivered", resp.Status)
	}

	reqs := submitter.recorded()
	if len(reqs) != 2 {
		t.Fatalf("expected 2 delivery attempts, got %d", len(reqs))
	}
	if reqs[0] != reqs[1] {
		t.Errorf("retry must resend the exact request:\nfirst:  %+v\nsecond: %+v", reqs[0], reqs[1])
	}

	if form.CanRetry() || form.Selected() != nil || form.StudentText() != "" {
		t.Error("successful retry should reset the session")
	}

	if _, err := form.Retry(context.Background()); !errors.Is(err, ErrNothingToRetry) {
		t.Errorf("retry with nothing pending = %v, want ErrNothingToRetry", err)
	}
}
