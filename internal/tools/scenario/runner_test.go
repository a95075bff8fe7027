package scenario

import (
	"context"
	stderrors "errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/tenkey.space/internal/platform/errors"
)

func newTestRunner(mode AssertionMode) *Runner {
	return NewRunner(Config{
		Timeout:    time.Second,
		Assertions: mode,
		Logger:     log.New(io.Discard, "", 0),
	})
}

func pressStep(keys ...string) Step {
	tokens := make([]any, len(keys))
	for i, key := range keys {
		tokens[i] = key
	}
	return Step{Kind: "press", Args: map[string]any{"keys": tokens}}
}

func TestRunScenarioPassesExpectations(t *testing.T) {
	runner := newTestRunner(AssertStrict)

	scenario := &Scenario{
		Name: "chained arithmetic",
		Steps: []Step{
			pressStep("1", "2", "+", "3", "="),
			{Kind: "expect_display", Args: map[string]any{"want": "15"}},
			pressStep("*", "2", "="),
			{Kind: "expect_display", Args: map[string]any{"want": "30"}},
		},
	}

	if err := runner.RunScenario(context.Background(), scenario); err != nil {
		t.Fatalf("run scenario: %v", err)
	}
	if runner.Failures() != 0 {
		t.Errorf("failures = %d, want 0", runner.Failures())
	}
}

func TestRunScenarioKeysStep(t *testing.T) {
	runner := newTestRunner(AssertStrict)

	scenario := &Scenario{
		Name: "typed keys",
		Steps: []Step{
			{Kind: "keys", Args: map[string]any{"text": "50%+1="}},
			{Kind: "expect_display", Args: map[string]any{"want": "1.5"}},
		},
	}

	if err := runner.RunScenario(context.Background(), scenario); err != nil {
		t.Fatalf("run scenario: %v", err)
	}
}

func TestRunScenarioStrictStopsOnFailure(t *testing.T) {
	runner := newTestRunner(AssertStrict)

	scenario := &Scenario{
		Name: "wrong expectation",
		Steps: []Step{
			pressStep("2", "+", "2", "="),
			{Kind: "expect_display", Args: map[string]any{"want": "5"}},
			pressStep("1"),
		},
	}

	err := runner.RunScenario(context.Background(), scenario)
	if err == nil {
		t.Fatal("expected assertion failure")
	}
	if !strings.Contains(err.Error(), "step 2") {
		t.Errorf("error = %v, want step 2 context", err)
	}
	var domainErr *errors.Error
	if !stderrors.As(err, &domainErr) || domainErr.Code != errors.CodeScenarioAssertionFailed {
		t.Errorf("error = %v, want code %s", err, errors.CodeScenarioAssertionFailed)
	}
}

func TestRunScenarioReportModeContinues(t *testing.T) {
	runner := newTestRunner(AssertReport)

	scenario := &Scenario{
		Name: "tolerated failures",
		Steps: []Step{
			pressStep("2", "+", "2", "="),
			{Kind: "expect_display", Args: map[string]any{"want": "5"}},
			{Kind: "expect_display", Args: map[string]any{"want": "4"}},
		},
	}

	if err := runner.RunScenario(context.Background(), scenario); err != nil {
		t.Fatalf("run scenario: %v", err)
	}
	if runner.Failures() != 1 {
		t.Errorf("failures = %d, want 1", runner.Failures())
	}
}

func TestRunScenarioErrorExpectations(t *testing.T) {
	runner := newTestRunner(AssertStrict)

	scenario := &Scenario{
		Name: "division by zero stays sticky",
		Steps: []Step{
			pressStep("1", "/", "0", "="),
			{Kind: "expect_error", Args: map[string]any{"message": "Division by zero"}},
			pressStep("5"),
			{Kind: "expect_error", Args: map[string]any{}},
			{Kind: "all_clear", Args: map[string]any{}},
			{Kind: "expect_display", Args: map[string]any{"want": "0"}},
		},
	}

	if err := runner.RunScenario(context.Background(), scenario); err != nil {
		t.Fatalf("run scenario: %v", err)
	}
}

func TestRunScenarioClearEntryKeepsPendingOp(t *testing.T) {
	runner := newTestRunner(AssertStrict)

	scenario := &Scenario{
		Name: "clear entry",
		Steps: []Step{
			pressStep("6", "+", "9"),
			{Kind: "clear_entry", Args: map[string]any{}},
			pressStep("4", "="),
			{Kind: "expect_display", Args: map[string]any{"want": "10"}},
		},
	}

	if err := runner.RunScenario(context.Background(), scenario); err != nil {
		t.Fatalf("run scenario: %v", err)
	}
}

func TestRunScenarioRejectsUnknownStep(t *testing.T) {
	runner := newTestRunner(AssertStrict)

	scenario := &Scenario{
		Name:  "bad step",
		Steps: []Step{{Kind: "teleport", Args: map[string]any{}}},
	}

	err := runner.RunScenario(context.Background(), scenario)
	if err == nil {
		t.Fatal("expected error for unknown step kind")
	}
	var domainErr *errors.Error
	if !stderrors.As(err, &domainErr) || domainErr.Code != errors.CodeScenarioInvalidStep {
		t.Errorf("error = %v, want code %s", err, errors.CodeScenarioInvalidStep)
	}
}

func TestRunFileEndToEnd(t *testing.T) {
	path := writeScenarioFile(t, "repeat_equals.lua", `
local s = Scenario.new("repeat equals")
s:keys("10+5=")
s:expect_display("15")
s:press("=")
s:expect_display("20")
s:press("=")
s:expect_display("25")
return s
`)

	runner := newTestRunner(AssertStrict)
	if err := runner.RunFile(context.Background(), path); err != nil {
		t.Fatalf("run file: %v", err)
	}
}
