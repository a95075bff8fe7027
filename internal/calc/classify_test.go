package calc

import "testing"

func TestClassifyDigits(t *testing.T) {
	for c := byte('0'); c <= '9'; c++ {
		action, ok := Classify(string(c))
		if !ok {
			t.Fatalf("digit %q did not classify", c)
		}
		if action.Kind != ActionDigit || action.Digit != c {
			t.Fatalf("Classify(%q) = %+v, want digit action", c, action)
		}
	}
}

func TestClassifyOperators(t *testing.T) {
	cases := map[string]OperatorKind{
		"+": OperatorAdd,
		"-": OperatorSub,
		"*": OperatorMul,
		"/": OperatorDiv,
	}
	for token, want := range cases {
		action, ok := Classify(token)
		if !ok {
			t.Fatalf("operator %q did not classify", token)
		}
		if action.Kind != ActionOperator || action.Operator != want {
			t.Fatalf("Classify(%q) = %+v, want operator %s", token, action, want)
		}
	}
}

func TestClassifyKeyNameAliases(t *testing.T) {
	cases := map[string]ActionKind{
		"=":         ActionEquals,
		"Enter":     ActionEquals,
		"C":         ActionClearEntry,
		"Backspace": ActionClearEntry,
		"AC":        ActionAllClear,
		"Escape":    ActionAllClear,
		"±":         ActionToggleSign,
		"+/-":       ActionToggleSign,
		"%":         ActionPercent,
		".":         ActionDecimal,
	}
	for token, want := range cases {
		action, ok := Classify(token)
		if !ok {
			t.Fatalf("token %q did not classify", token)
		}
		if action.Kind != want {
			t.Fatalf("Classify(%q) kind = %s, want %s", token, action.Kind, want)
		}
	}
}

func TestClassifyDropsUnknownTokens(t *testing.T) {
	for _, token := range []string{"", "x", "10", "**", "enter", "√"} {
		if _, ok := Classify(token); ok {
			t.Fatalf("token %q unexpectedly classified", token)
		}
	}
}

func TestKeyTokenControlKeys(t *testing.T) {
	cases := map[rune]string{
		'\r':   "Enter",
		'\n':   "Enter",
		'\x1b': "Escape",
		'\x7f': "Backspace",
		'c':    "C",
		'5':    "5",
		'+':    "+",
		'%':    "%",
	}
	for key, want := range cases {
		got, ok := KeyToken(key)
		if !ok {
			t.Fatalf("key %q produced no token", key)
		}
		if got != want {
			t.Fatalf("KeyToken(%q) = %q, want %q", key, got, want)
		}
	}

	if _, ok := KeyToken('\x00'); ok {
		t.Fatal("NUL key produced a token")
	}
}
