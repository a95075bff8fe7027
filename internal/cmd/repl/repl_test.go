package repl

import (
	"bytes"
	"context"
	"flag"
	"strings"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Session != "repl" {
		t.Fatalf("expected default session name, got %q", cfg.Session)
	}
	if cfg.Locale != "en-US" {
		t.Fatalf("expected default locale en-US, got %q", cfg.Locale)
	}
}

func runLines(t *testing.T, lines ...string) []string {
	t.Helper()

	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	var out bytes.Buffer
	if err := Run(context.Background(), Config{Session: "test"}, in, &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	var displays []string
	for _, line := range strings.Split(out.String(), "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(line, "> "))
		if line != "" {
			displays = append(displays, line)
		}
	}
	return displays
}

func TestRunComputesLines(t *testing.T) {
	displays := runLines(t, "12+3=", "*2=", "quit")

	// Initial display, then one display per input line.
	want := []string{"0", "15", "30"}
	if len(displays) != len(want) {
		t.Fatalf("displays = %v, want %v", displays, want)
	}
	for i := range want {
		if displays[i] != want[i] {
			t.Errorf("display %d = %q, want %q", i, displays[i], want[i])
		}
	}
}

func TestRunDropsUnknownKeys(t *testing.T) {
	displays := runLines(t, "4x2=", "exit")

	if displays[len(displays)-1] != "42" {
		t.Fatalf("displays = %v, want final 42", displays)
	}
}

func TestRunAllClearCommand(t *testing.T) {
	displays := runLines(t, "1/0=", "ac", "7+2=", "quit")

	if len(displays) != 4 {
		t.Fatalf("displays = %v, want 4 entries", displays)
	}
	if !strings.HasPrefix(displays[1], "Error") {
		t.Errorf("display after division = %q, want error", displays[1])
	}
	if displays[2] != "0" {
		t.Errorf("display after ac = %q, want 0", displays[2])
	}
	if displays[3] != "9" {
		t.Errorf("final display = %q, want 9", displays[3])
	}
}

func TestRunClearEntryKey(t *testing.T) {
	displays := runLines(t, "6+9", "c", "4=", "quit")

	if displays[len(displays)-1] != "10" {
		t.Fatalf("displays = %v, want final 10", displays)
	}
}

func TestRunEndsAtEOF(t *testing.T) {
	in := strings.NewReader("5+5=\n")
	var out bytes.Buffer
	if err := Run(context.Background(), Config{Session: "eof"}, in, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "10") {
		t.Fatalf("output = %q, want 10", out.String())
	}
}
