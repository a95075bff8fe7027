package scenario

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/louisbranch/tenkey.space/internal/platform/errors"
	"github.com/louisbranch/tenkey.space/internal/services/calc/app"
	"github.com/louisbranch/tenkey.space/internal/services/calc/storage/memory"
)

// AssertionMode controls how expectation failures are handled.
type AssertionMode string

const (
	// AssertStrict stops the scenario on the first failed expectation.
	AssertStrict AssertionMode = "strict"
	// AssertReport logs failed expectations and keeps going.
	AssertReport AssertionMode = "report"
)

// Config controls scenario execution.
type Config struct {
	// Timeout bounds each individual step.
	Timeout time.Duration
	// Assertions selects strict or report-only expectation handling.
	Assertions AssertionMode
	// Verbose logs every step as it runs.
	Verbose bool
	// Logger receives progress output. Defaults to stderr.
	Logger *log.Logger
}

// DefaultConfig returns the config used by the scenario command.
func DefaultConfig() Config {
	return Config{
		Timeout:    5 * time.Second,
		Assertions: AssertStrict,
		Logger:     log.New(os.Stderr, "", log.LstdFlags),
	}
}

// Runner replays scenarios against an in-process calculator service.
type Runner struct {
	cfg      Config
	svc      *app.Service
	failures int
}

// NewRunner creates a runner backed by an in-memory session store.
func NewRunner(cfg Config) *Runner {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.Assertions == "" {
		cfg.Assertions = AssertStrict
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	return &Runner{
		cfg: cfg,
		svc: app.NewService(memory.New()),
	}
}

// Failures reports how many expectations failed in report mode.
func (r *Runner) Failures() int {
	return r.failures
}

// RunFile loads a Lua scenario from disk and runs it.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}
	return r.RunScenario(ctx, scenario)
}

// RunScenario runs every step in order against a fresh calculator session.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) error {
	if scenario == nil {
		return fmt.Errorf("scenario is nil")
	}

	r.logf("scenario %q: %d steps", scenario.Name, len(scenario.Steps))

	session, err := r.svc.CreateSession(ctx, scenario.Name)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	for index, step := range scenario.Steps {
		stepCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
		err := r.runStep(stepCtx, session.ID, step)
		cancel()
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", index+1, step.Kind, err)
		}
	}

	r.logf("scenario %q: done, %d expectation failure(s)", scenario.Name, r.failures)
	return nil
}

func (r *Runner) runStep(ctx context.Context, sessionID string, step Step) error {
	switch step.Kind {
	case "press":
		tokens, err := stringsArg(step.Args, "keys")
		if err != nil {
			return err
		}
		r.logStep("press %v", tokens)
		display, err := r.svc.Press(ctx, sessionID, tokens...)
		if err != nil {
			return err
		}
		r.logStep("display %q", display.Text)
		return nil

	case "keys":
		text, err := stringArg(step.Args, "text")
		if err != nil {
			return err
		}
		tokens := make([]string, 0, len(text))
		for _, ch := range text {
			tokens = append(tokens, string(ch))
		}
		r.logStep("keys %q", text)
		display, err := r.svc.Press(ctx, sessionID, tokens...)
		if err != nil {
			return err
		}
		r.logStep("display %q", display.Text)
		return nil

	case "clear_entry":
		r.logStep("clear entry")
		_, err := r.svc.ClearEntry(ctx, sessionID)
		return err

	case "all_clear":
		r.logStep("all clear")
		_, err := r.svc.Reset(ctx, sessionID)
		return err

	case "expect_display":
		want, err := stringArg(step.Args, "want")
		if err != nil {
			return err
		}
		display, err := r.svc.Display(ctx, sessionID)
		if err != nil {
			return err
		}
		if display.Text != want {
			return r.fail("display is %q, want %q", display.Text, want)
		}
		r.logStep("display %q ok", want)
		return nil

	case "expect_error":
		display, err := r.svc.Display(ctx, sessionID)
		if err != nil {
			return err
		}
		if !display.HasError {
			return r.fail("display is %q, want an error state", display.Text)
		}
		if want, ok := step.Args["message"].(string); ok && want != "" && display.ErrorMessage != want {
			return r.fail("error message is %q, want %q", display.ErrorMessage, want)
		}
		r.logStep("error state ok")
		return nil

	default:
		return errors.WithMetadata(errors.CodeScenarioInvalidStep,
			fmt.Sprintf("unknown step kind %q", step.Kind),
			map[string]string{"Kind": step.Kind})
	}
}

// fail records an expectation failure. Strict mode turns it into an error,
// report mode logs it and lets the scenario continue.
func (r *Runner) fail(format string, args ...any) error {
	r.failures++
	message := fmt.Sprintf(format, args...)
	if r.cfg.Assertions == AssertReport {
		r.logf("FAIL: %s", message)
		return nil
	}
	return errors.New(errors.CodeScenarioAssertionFailed, message)
}

func (r *Runner) logf(format string, args ...any) {
	if r.cfg.Logger != nil {
		r.cfg.Logger.Printf(format, args...)
	}
}

func (r *Runner) logStep(format string, args ...any) {
	if r.cfg.Verbose {
		r.logf("  "+format, args...)
	}
}

func stringArg(args map[string]any, key string) (string, error) {
	value, ok := args[key].(string)
	if !ok || value == "" {
		return "", errors.WithMetadata(errors.CodeScenarioInvalidStep,
			fmt.Sprintf("missing %q argument", key),
			map[string]string{"Argument": key})
	}
	return value, nil
}

func stringsArg(args map[string]any, key string) ([]string, error) {
	raw, ok := args[key].([]any)
	if !ok || len(raw) == 0 {
		return nil, errors.WithMetadata(errors.CodeScenarioInvalidStep,
			fmt.Sprintf("missing %q argument", key),
			map[string]string{"Argument": key})
	}
	values := make([]string, 0, len(raw))
	for _, entry := range raw {
		value, ok := entry.(string)
		if !ok {
			return nil, errors.New(errors.CodeScenarioInvalidStep,
				fmt.Sprintf("argument %q must contain strings", key))
		}
		values = append(values, value)
	}
	return values, nil
}
