package form

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// State is the modal lifecycle position.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateValidating
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// Modal drives one settings form from open to a successful submit.
type Modal struct {
	env    Env
	logger *slog.Logger

	// OnSaved runs after a successful submit; callers refetch here
	OnSaved func()

	mu     sync.Mutex
	state  State
	title  string
	op     Operation
	schema *Schema
	alert  string
}

func NewModal(env Env, logger *slog.Logger) *Modal {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Modal{env: env, logger: logger}
}

// Open starts editing a copy of schema for op.
func (m *Modal) Open(title string, op Operation, schema *Schema) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if title == "" {
		title = "Settings"
	}

	m.title = title
	m.op = op
	m.schema = schema.Clone()
	m.alert = ""
	m.state = StateOpen
}

// Close discards the edit.
func (m *Modal) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = StateClosed
	m.op = nil
	m.schema = nil
	m.alert = ""
}

// Update sets one field of the open form.
func (m *Modal) Update(name, raw string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateOpen {
		return ErrNotOpen
	}

	return m.schema.Set(name, raw)
}

// Submit validates and dispatches the form. On success the modal closes
// and OnSaved runs. On failure it returns to open with Alert set.
func (m *Modal) Submit(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StateOpen {
		m.mu.Unlock()

		return ErrNotOpen
	}

	op, schema := m.op, m.schema
	m.state = StateValidating
	m.mu.Unlock()

	if err := op.Validate(schema); err != nil {
		return m.fail(err)
	}

	m.setState(StateSubmitting)

	if err := op.Submit(ctx, m.env, schema); err != nil {
		var missing *MissingFieldError
		if !errors.As(err, &missing) {
			m.logger.Error("saving settings failed", "model_type", op.ModelType(), "error", err)
		}

		return m.fail(err)
	}

	m.Close()

	if m.OnSaved != nil {
		m.OnSaved()
	}

	return nil
}

func (m *Modal) fail(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = StateOpen
	m.alert = Alert(err)

	return err
}

func (m *Modal) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

func (m *Modal) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

// Alert is the message from the last failed submit.
func (m *Modal) Alert() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.alert
}

func (m *Modal) Title() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.title
}

// Operation returns the operation being edited, or nil when closed.
func (m *Modal) Operation() Operation {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.op
}

// Schema returns the editable copy, or nil when closed.
func (m *Modal) Schema() *Schema {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.schema
}
