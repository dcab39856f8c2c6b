package search

import (
	"context"
	"sync"
	"time"

	"github.com/agendadigital/forms-service/internal/models"
)

// DefaultDebounce is the trailing quiescence window applied to keystrokes.
const DefaultDebounce = 300 * time.Millisecond

// RosterProvider fetches the full student roster. The engine refetches on
// every executed search; the roster is never cached between cycles.
type RosterProvider interface {
	ListStudents(ctx context.Context) ([]models.Student, error)
}

// Result is one delivered search outcome. Err is set when the roster fetch
// failed; Students is empty in that case.
type Result struct {
	Query    string
	Seq      uint64
	Students []models.Student
	Err      error
}

// Engine is the incremental search component behind the student field: it
// debounces keystrokes, fetches the roster, ranks matches, and guarantees
// that only the most recently issued search can update the visible results.
//
// All exported methods are safe for concurrent use.
type Engine struct {
	provider RosterProvider
	debounce time.Duration
	onResult func(Result)

	mu        sync.Mutex
	seq       uint64
	query     string
	results   []models.Student
	searching bool
	timer     *time.Timer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures an Engine.
type Option func(*Engine)

// WithDebounce overrides the debounce window. Tests use a short one.
func WithDebounce(d time.Duration) Option {
	return func(e *Engine) { e.debounce = d }
}

// WithResultFunc registers a callback invoked for every applied result,
// including the immediate empty result for sub-threshold queries. The
// callback runs with engine state already updated and must not call back
// into the engine.
func WithResultFunc(fn func(Result)) Option {
	return func(e *Engine) { e.onResult = fn }
}

func NewEngine(provider RosterProvider, opts ...Option) *Engine {
	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		provider: provider,
		debounce: DefaultDebounce,
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetQuery feeds the current text of the search field. Sub-threshold queries
// clear the results immediately without any fetch; longer queries schedule a
// fetch after the debounce window, cancelling any previously scheduled one.
func (e *Engine) SetQuery(query string) {
	e.mu.Lock()

	e.query = query
	e.seq++
	seq := e.seq

	// one pending timer at a time
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}

	if len([]rune(query)) < MinQueryLength {
		e.results = nil
		e.searching = false
		fn := e.onResult
		e.mu.Unlock()
		if fn != nil {
			fn(Result{Query: query, Seq: seq})
		}
		return
	}

	e.timer = time.AfterFunc(e.debounce, func() {
		e.execute(seq, query)
	})
	e.mu.Unlock()
}

// execute runs the fetch for one issued search. The result is applied only
// if no newer query has been issued by the time it completes.
func (e *Engine) execute(seq uint64, query string) {
	e.mu.Lock()
	if seq != e.seq {
		e.mu.Unlock()
		return
	}
	e.searching = true
	e.mu.Unlock()

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		roster, err := e.provider.ListStudents(e.ctx)

		e.mu.Lock()
		if seq != e.seq {
			// superseded while in flight; a newer search owns the state now
			e.mu.Unlock()
			return
		}
		e.searching = false

		res := Result{Query: query, Seq: seq}
		if err != nil {
			e.results = nil
			res.Err = err
		} else {
			e.results = Match(roster, query)
			res.Students = e.results
		}
		fn := e.onResult
		e.mu.Unlock()

		if fn != nil {
			fn(res)
		}
	}()
}

// Results returns the currently applied result list.
func (e *Engine) Results() []models.Student {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.results
}

// Query returns the live query text.
func (e *Engine) Query() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.query
}

// Searching reports whether a fetch is in flight for the latest query.
func (e *Engine) Searching() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.searching
}

// Reset clears the query, results and any pending search. Used when a
// student is selected or the form submits successfully.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seq++
	e.query = ""
	e.results = nil
	e.searching = false
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// Close stops the engine and waits for any in-flight fetch to finish.
func (e *Engine) Close() {
	e.Reset()
	e.cancel()
	e.wg.Wait()
}
