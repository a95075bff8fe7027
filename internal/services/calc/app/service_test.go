package app

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/louisbranch/tenkey.space/internal/platform/errors"
	"github.com/louisbranch/tenkey.space/internal/platform/errors/i18n"
	"github.com/louisbranch/tenkey.space/internal/services/calc/storage"
	"github.com/louisbranch/tenkey.space/internal/services/calc/storage/memory"
)

func newTestService(opts ...Option) *Service {
	return NewService(memory.New(), opts...)
}

func TestCreateSessionStartsAtZero(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "desk")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	display, err := svc.Display(ctx, session.ID)
	if err != nil {
		t.Fatalf("display: %v", err)
	}
	if display.Text != "0" {
		t.Fatalf("display = %q, want %q", display.Text, "0")
	}
}

func TestPressComputesAndPersists(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "math")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	display, err := svc.Press(ctx, session.ID, "1", "2", "+", "3", "=")
	if err != nil {
		t.Fatalf("press: %v", err)
	}
	if display.Text != "15" {
		t.Fatalf("display = %q, want %q", display.Text, "15")
	}

	// A later read must see the persisted state, not a transient copy.
	display, err = svc.Display(ctx, session.ID)
	if err != nil {
		t.Fatalf("display: %v", err)
	}
	if display.Text != "15" {
		t.Fatalf("persisted display = %q, want %q", display.Text, "15")
	}
}

func TestPressDropsUnknownTokens(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "tolerant")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	display, err := svc.Press(ctx, session.ID, "4", "sqrt", "2", "√", "+", "1", "=")
	if err != nil {
		t.Fatalf("press: %v", err)
	}
	if display.Text != "43" {
		t.Fatalf("display = %q, want %q", display.Text, "43")
	}
}

func TestPressUnknownSessionFails(t *testing.T) {
	svc := newTestService()
	if _, err := svc.Press(context.Background(), "missing", "1"); !stderrors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDivisionByZeroDisplaysLocalizedError(t *testing.T) {
	i18n.RegisterCatalog("xx-TEST", i18n.NewCatalog("xx-TEST", map[i18n.Code]string{
		i18n.CodeDivisionByZero: "nope",
	}))

	svc := newTestService(WithLocale("xx-TEST"))
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "faulty")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	display, err := svc.Press(ctx, session.ID, "8", "/", "0", "=")
	if err != nil {
		t.Fatalf("press: %v", err)
	}
	if !display.HasError || display.Text != "Error" {
		t.Fatalf("display = %+v, want error display", display)
	}
	if display.ErrorMessage != "nope" {
		t.Fatalf("error message = %q, want localized %q", display.ErrorMessage, "nope")
	}

	// The error is sticky until an explicit reset.
	display, err = svc.Press(ctx, session.ID, "5")
	if err != nil {
		t.Fatalf("press after error: %v", err)
	}
	if !display.HasError {
		t.Fatal("digit press cleared a sticky error")
	}

	display, err = svc.Reset(ctx, session.ID)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if display.HasError || display.Text != "0" {
		t.Fatalf("display after reset = %+v, want fresh zero", display)
	}
}

func TestClearEntryKeepsPendingOperation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "partial")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Press(ctx, session.ID, "6", "+", "9"); err != nil {
		t.Fatalf("press: %v", err)
	}
	if _, err := svc.ClearEntry(ctx, session.ID); err != nil {
		t.Fatalf("clear entry: %v", err)
	}
	display, err := svc.Press(ctx, session.ID, "4", "=")
	if err != nil {
		t.Fatalf("press: %v", err)
	}
	if display.Text != "10" {
		t.Fatalf("display = %q, want %q", display.Text, "10")
	}
}

func TestCreateSessionValidation(t *testing.T) {
	svc := newTestService()
	if _, err := svc.CreateSession(context.Background(), ""); !stderrors.Is(err, errors.New(errors.CodeSessionNameEmpty, "")) {
		t.Fatalf("err = %v, want SESSION_NAME_EMPTY", err)
	}
}

func TestListAndDeleteSessions(t *testing.T) {
	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	svc := newTestService(WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}))
	ctx := context.Background()

	first, err := svc.CreateSession(ctx, "first")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreateSession(ctx, "second"); err != nil {
		t.Fatalf("create: %v", err)
	}

	sessions, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 2 || sessions[0].Name != "first" {
		t.Fatalf("sessions = %+v", sessions)
	}

	if err := svc.DeleteSession(ctx, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	sessions, err = svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Name != "second" {
		t.Fatalf("sessions after delete = %+v", sessions)
	}
}
