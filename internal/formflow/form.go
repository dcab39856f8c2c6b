// Package formflow holds the stateful session shell behind the occurrence
// form: the debounced student search, the selection handshake between the
// typed name and the directory record, and the submit/retry cycle. It is
// embeddable: callers wire it to any roster source and submitter.
package formflow

import (
	"context"
	"errors"
	"sync"

	"github.com/agendadigital/forms-service/internal/models"
	"github.com/agendadigital/forms-service/internal/search"
	"github.com/agendadigital/forms-service/internal/services"
	"github.com/agendadigital/forms-service/internal/validator"
	"github.com/agendadigital/forms-service/internal/webhook"
)

// ErrNothingToRetry means Retry was called with no failed submission pending.
var ErrNothingToRetry = errors.New("nothing to retry")

// OccurrenceSubmitter delivers a completed occurrence form.
type OccurrenceSubmitter interface {
	SubmitOccurrence(ctx context.Context, req *validator.OccurrenceSubmitRequest, userID string) (*services.SubmitResponse, error)
}

// Fields are the free-form inputs of the occurrence form, excluding the
// student, whose state the session tracks separately.
type Fields struct {
	Discipline     string
	OccurrenceType string
	Description    string
}

// OccurrenceForm is one staff member's live occurrence form session.
//
// The student input is two-layered: the visible text the user types, and a
// confirmed selection made from search suggestions. Editing the text so it no
// longer matches the confirmed student silently drops the confirmation; a
// submit without a confirmed student fails before anything is sent.
type OccurrenceForm struct {
	engine    *search.Engine
	submitter OccurrenceSubmitter
	userID    string

	mu          sync.Mutex
	fields      Fields
	nameText    string
	selected    *models.Student
	lastRequest *validator.OccurrenceSubmitRequest
	lastErr     error
}

// NewOccurrenceForm creates a session for one staff member. Engine options
// (debounce, result callback) pass through to the embedded search engine.
func NewOccurrenceForm(provider search.RosterProvider, submitter OccurrenceSubmitter, userID string, opts ...search.Option) *OccurrenceForm {
	return &OccurrenceForm{
		engine:    search.NewEngine(provider, opts...),
		submitter: submitter,
		userID:    userID,
	}
}

// SetDiscipline updates the discipline field.
func (f *OccurrenceForm) SetDiscipline(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields.Discipline = v
}

// SetOccurrenceType updates the occurrence category field.
func (f *OccurrenceForm) SetOccurrenceType(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields.OccurrenceType = v
}

// SetDescription updates the description field.
func (f *OccurrenceForm) SetDescription(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields.Description = v
}

// SetStudentQuery feeds a keystroke in the student name field. If the new
// text no longer matches a previously confirmed student's canonical name, the
// confirmation is dropped; the text itself is kept either way.
func (f *OccurrenceForm) SetStudentQuery(text string) {
	f.mu.Lock()
	f.nameText = text
	if f.selected != nil && f.selected.Name != text {
		f.selected = nil
	}
	f.mu.Unlock()

	f.engine.SetQuery(text)
}

// Select confirms a student picked from the suggestion list. The name field
// snaps to the canonical directory name and the suggestion list closes.
func (f *OccurrenceForm) Select(student models.Student) {
	f.mu.Lock()
	f.selected = &student
	f.nameText = student.Name
	f.mu.Unlock()

	f.engine.Reset()
}

// Suggestions returns the currently visible search results.
func (f *OccurrenceForm) Suggestions() []models.Student {
	return f.engine.Results()
}

// Searching reports whether a roster fetch is in flight.
func (f *OccurrenceForm) Searching() bool {
	return f.engine.Searching()
}

// Selected returns the confirmed student, or nil when none is confirmed.
func (f *OccurrenceForm) Selected() *models.Student {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.selected == nil {
		return nil
	}
	s := *f.selected
	return &s
}

// StudentText returns the live text of the student name field.
func (f *OccurrenceForm) StudentText() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nameText
}

// FieldValues returns the current free-form field values.
func (f *OccurrenceForm) FieldValues() Fields {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

// Submit sends the form. On success every field, the selection, and any
// pending retry state are cleared. On failure the entered values stay
// untouched; if the delivery failed because the webhook was unreachable or
// timed out, the exact request is kept for Retry. A rejected delivery
// (non-2xx) is terminal and never armed for retry.
func (f *OccurrenceForm) Submit(ctx context.Context) (*services.SubmitResponse, error) {
	f.mu.Lock()
	req := f.buildRequest()
	f.mu.Unlock()

	return f.send(ctx, req)
}

// Retry resends the exact request of the last retryable failed delivery.
func (f *OccurrenceForm) Retry(ctx context.Context) (*services.SubmitResponse, error) {
	f.mu.Lock()
	req := f.lastRequest
	f.mu.Unlock()

	if req == nil {
		return nil, ErrNothingToRetry
	}

	return f.send(ctx, req)
}

// CanRetry reports whether a failed delivery is pending retry.
func (f *OccurrenceForm) CanRetry() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastRequest != nil
}

// LastError returns the error of the most recent submit attempt, or nil
// after a success.
func (f *OccurrenceForm) LastError() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// Close releases the session's search engine.
func (f *OccurrenceForm) Close() {
	f.engine.Close()
}

func (f *OccurrenceForm) buildRequest() *validator.OccurrenceSubmitRequest {
	req := &validator.OccurrenceSubmitRequest{
		Discipline:     f.fields.Discipline,
		StudentName:    f.nameText,
		OccurrenceType: f.fields.OccurrenceType,
		Description:    f.fields.Description,
	}
	if f.selected != nil {
		req.StudentCode = f.selected.Code
		req.StudentName = f.selected.Name
	}
	return req
}

func (f *OccurrenceForm) send(ctx context.Context, req *validator.OccurrenceSubmitRequest) (*services.SubmitResponse, error) {
	resp, err := f.submitter.SubmitOccurrence(ctx, req, f.userID)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err == nil {
		f.fields = Fields{}
		f.nameText = ""
		f.selected = nil
		f.lastRequest = nil
		f.lastErr = nil
		f.engine.Reset()
		return resp, nil
	}

	f.lastErr = err
	f.lastRequest = nil
	if retryableDelivery(err) {
		f.lastRequest = req
	}
	return resp, err
}

// retryableDelivery reports whether a failed submit may legitimately be
// resent. Only unreachable-endpoint and timed-out deliveries qualify: a
// rejected request (non-2xx) would be rejected again, and validation or
// selection failures need the form corrected, not resent.
func retryableDelivery(err error) bool {
	var netErr *webhook.NetworkError
	var timeoutErr *webhook.TimeoutError
	return errors.As(err, &netErr) || errors.As(err, &timeoutErr)
}
