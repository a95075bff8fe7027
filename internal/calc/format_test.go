package calc

import "testing"

func TestFormatTrimsTrailingZeros(t *testing.T) {
	cases := []struct {
		value float64
		want  string
	}{
		{0, "0"},
		{5, "5"},
		{0.5, "0.5"},
		{-2, "-2"},
		{1.25, "1.25"},
		{100, "100"},
		{0.1 + 0.2, "0.3"},
	}
	for _, tc := range cases {
		if got := Format(tc.value); got != tc.want {
			t.Fatalf("Format(%v) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestFormatSwitchesToExponentialAboveThreshold(t *testing.T) {
	if got := Format(1e15); got != "1e+15" {
		t.Fatalf("Format(1e15) = %q, want %q", got, "1e+15")
	}
	if got := Format(2.5e20); got != "2.5e+20" {
		t.Fatalf("Format(2.5e20) = %q, want %q", got, "2.5e+20")
	}
	// Just below the threshold stays in plain decimal form.
	if got := Format(999999999999999); got != "999999999999999" {
		t.Fatalf("Format(999999999999999) = %q, want %q", got, "999999999999999")
	}
}

func TestFormatCapsSignificantDigits(t *testing.T) {
	if got := Format(1.0 / 3.0); got != "0.333333333333333" {
		t.Fatalf("Format(1/3) = %q, want 15 significant digits, got %q", got, got)
	}
}

func TestParseAcceptsOperandLiterals(t *testing.T) {
	for input, want := range map[string]float64{
		"0":      0,
		"0.":     0,
		"42":     42,
		"0.5":    0.5,
		"1e+20":  1e20,
		"2.5e20": 2.5e20,
	} {
		got, err := Parse(input)
		if err != nil {
			t.Fatalf("Parse(%q): %v", input, err)
		}
		if got != want {
			t.Fatalf("Parse(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse("banana"); err == nil {
		t.Fatal("Parse accepted a non-numeric string")
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	for _, value := range []float64{5, 0.5, 123.456, 1e20, 2.5e20, 1.0 / 3.0, 999999999999999} {
		formatted := Format(value)
		parsed, err := Parse(formatted)
		if err != nil {
			t.Fatalf("Parse(Format(%v)): %v", value, err)
		}
		if again := Format(parsed); again != formatted {
			t.Fatalf("Format not idempotent for %v: %q then %q", value, formatted, again)
		}
	}
}
