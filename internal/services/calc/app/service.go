// Package app coordinates calculator sessions between the engine and storage.
package app

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/tenkey.space/internal/calc"
	"github.com/louisbranch/tenkey.space/internal/platform/errors/i18n"
	"github.com/louisbranch/tenkey.space/internal/services/calc/domain"
	"github.com/louisbranch/tenkey.space/internal/services/calc/storage"
)

const tracerName = "github.com/louisbranch/tenkey.space/internal/services/calc/app"

// Service executes calculator operations against persisted sessions.
// Every keypress loads the session state, folds the action through the
// engine, and writes the resulting state back.
type Service struct {
	store  storage.SessionStore
	tracer trace.Tracer
	locale string
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLocale sets the locale used for user-facing error messages.
func WithLocale(locale string) Option {
	return func(s *Service) { s.locale = locale }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a calculator service backed by the given store.
func NewService(store storage.SessionStore, opts ...Option) *Service {
	s := &Service{
		store:  store,
		tracer: otel.Tracer(tracerName),
		locale: i18n.BaseLocale,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession creates and persists a fresh calculator session.
func (s *Service) CreateSession(ctx context.Context, name string) (domain.Session, error) {
	ctx, span := s.tracer.Start(ctx, "calc.session.create")
	defer span.End()

	session, err := domain.NewSession(name, s.now())
	if err != nil {
		return domain.Session{}, err
	}
	if err := s.store.PutSession(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("persist session: %w", err)
	}
	span.SetAttributes(attribute.String("session.id", session.ID))
	return session, nil
}

// GetSession returns one session by ID.
func (s *Service) GetSession(ctx context.Context, id string) (domain.Session, error) {
	ctx, span := s.tracer.Start(ctx, "calc.session.get",
		trace.WithAttributes(attribute.String("session.id", id)))
	defer span.End()

	return s.store.GetSession(ctx, id)
}

// ListSessions returns all sessions ordered by creation time.
func (s *Service) ListSessions(ctx context.Context) ([]domain.Session, error) {
	ctx, span := s.tracer.Start(ctx, "calc.session.list")
	defer span.End()

	return s.store.ListSessions(ctx)
}

// DeleteSession removes one session by ID.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "calc.session.delete",
		trace.WithAttributes(attribute.String("session.id", id)))
	defer span.End()

	return s.store.DeleteSession(ctx, id)
}

// Press applies a sequence of input tokens to a session and returns the
// resulting display. Unknown tokens are dropped without effect, matching
// hardware calculators that ignore keys they do not have.
func (s *Service) Press(ctx context.Context, id string, tokens ...string) (calc.Display, error) {
	ctx, span := s.tracer.Start(ctx, "calc.press",
		trace.WithAttributes(
			attribute.String("session.id", id),
			attribute.Int("tokens.count", len(tokens)),
		))
	defer span.End()

	session, err := s.store.GetSession(ctx, id)
	if err != nil {
		return calc.Display{}, err
	}

	state := session.State
	for _, token := range tokens {
		action, ok := calc.Classify(token)
		if !ok {
			continue
		}
		state = calc.Apply(state, action)
	}

	if state != session.State {
		session.State = state
		session.UpdatedAt = s.now().UTC()
		if err := s.store.PutSession(ctx, session); err != nil {
			return calc.Display{}, fmt.Errorf("persist session: %w", err)
		}
	}

	return s.localizedDisplay(state), nil
}

// ClearEntry clears the current operand while keeping any pending operation.
func (s *Service) ClearEntry(ctx context.Context, id string) (calc.Display, error) {
	return s.Press(ctx, id, "C")
}

// Reset returns a session to the initial all-clear state.
func (s *Service) Reset(ctx context.Context, id string) (calc.Display, error) {
	return s.Press(ctx, id, "AC")
}

// Display returns the current display of a session without mutating it.
func (s *Service) Display(ctx context.Context, id string) (calc.Display, error) {
	ctx, span := s.tracer.Start(ctx, "calc.display",
		trace.WithAttributes(attribute.String("session.id", id)))
	defer span.End()

	session, err := s.store.GetSession(ctx, id)
	if err != nil {
		return calc.Display{}, err
	}
	return s.localizedDisplay(session.State), nil
}

// localizedDisplay translates engine error messages into the service locale.
func (s *Service) localizedDisplay(state calc.State) calc.Display {
	display := state.Display()
	if !display.HasError {
		return display
	}

	catalog := i18n.GetCatalog(s.locale)
	switch state.Err {
	case calc.ErrorDivisionByZero:
		display.ErrorMessage = catalog.Format(i18n.CodeDivisionByZero, nil)
	case calc.ErrorOverflow:
		display.ErrorMessage = catalog.Format(i18n.CodeOverflow, nil)
	}
	return display
}
