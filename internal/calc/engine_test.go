package calc

import "testing"

// press classifies and applies a sequence of raw tokens.
func press(t *testing.T, state State, tokens ...string) State {
	t.Helper()
	for _, token := range tokens {
		action, ok := Classify(token)
		if !ok {
			t.Fatalf("token %q did not classify", token)
		}
		state = Apply(state, action)
	}
	return state
}

func TestApplyAdditionSequence(t *testing.T) {
	state := press(t, Initial(), "2", "+", "3", "=")
	if got := state.Display().Text; got != "5" {
		t.Fatalf("display = %q, want %q", got, "5")
	}
	if state.PendingOp != OperatorNone {
		t.Fatalf("pending op = %s, want none", state.PendingOp)
	}
	if state.HasAccumulator {
		t.Fatal("accumulator still set after equals")
	}
}

func TestApplyChainsLeftToRight(t *testing.T) {
	// 2 + 3 * 4 = 20 without precedence.
	state := press(t, Initial(), "2", "+", "3", "*", "4", "=")
	if got := state.Display().Text; got != "20" {
		t.Fatalf("display = %q, want %q", got, "20")
	}
}

func TestDivisionByZeroIsSticky(t *testing.T) {
	state := press(t, Initial(), "1", "0", "/", "0", "=")
	if state.Err != ErrorDivisionByZero {
		t.Fatalf("error = %s, want %s", state.Err, ErrorDivisionByZero)
	}
	if state.HasAccumulator || state.PendingOp != OperatorNone {
		t.Fatal("accumulator/pending op not cleared on division by zero")
	}

	display := state.Display()
	if !display.HasError {
		t.Fatal("display does not flag the error")
	}

	// Further input is ignored until AllClear.
	next := Apply(state, Digit('5'))
	if next != state {
		t.Fatalf("digit after error changed state: %+v", next)
	}

	cleared := Apply(state, AllClear)
	if cleared != Initial() {
		t.Fatalf("all-clear from error = %+v, want initial state", cleared)
	}
}

func TestRepeatEquals(t *testing.T) {
	state := press(t, Initial(), "6", "+", "2", "=")
	if got := state.Display().Text; got != "8" {
		t.Fatalf("first equals display = %q, want %q", got, "8")
	}
	state = press(t, state, "=")
	if got := state.Display().Text; got != "10" {
		t.Fatalf("second equals display = %q, want %q", got, "10")
	}
	state = press(t, state, "=")
	if got := state.Display().Text; got != "12" {
		t.Fatalf("third equals display = %q, want %q", got, "12")
	}
}

func TestEqualsWithNothingPendingIsNoop(t *testing.T) {
	state := press(t, Initial(), "7", "=")
	if got := state.Display().Text; got != "7" {
		t.Fatalf("display = %q, want %q", got, "7")
	}
}

func TestChainedOperatorOverride(t *testing.T) {
	// Operator pressed twice with no digit between: the second replaces the
	// first without computing.
	state := press(t, Initial(), "5", "+", "-", "3", "=")
	if got := state.Display().Text; got != "2" {
		t.Fatalf("display = %q, want %q", got, "2")
	}
}

func TestOperatorAfterEqualsUsesResult(t *testing.T) {
	state := press(t, Initial(), "2", "+", "3", "=", "+", "1", "=")
	if got := state.Display().Text; got != "6" {
		t.Fatalf("display = %q, want %q", got, "6")
	}
}

func TestPercent(t *testing.T) {
	state := press(t, Initial(), "0", "%")
	if got := state.Display().Text; got != "0" {
		t.Fatalf("0%% display = %q, want %q", got, "0")
	}

	state = press(t, Initial(), "5", "0", "%")
	if got := state.Display().Text; got != "0.5" {
		t.Fatalf("50%% display = %q, want %q", got, "0.5")
	}
}

func TestPercentIgnoresAccumulator(t *testing.T) {
	// Percent applies to the current operand alone; the pending operation is
	// untouched.
	state := press(t, Initial(), "2", "0", "0", "+", "1", "0", "%")
	if got := state.Display().Text; got != "0.1" {
		t.Fatalf("display = %q, want %q", got, "0.1")
	}
	state = press(t, state, "=")
	if got := state.Display().Text; got != "200.1" {
		t.Fatalf("display after equals = %q, want %q", got, "200.1")
	}
}

func TestToggleSign(t *testing.T) {
	state := Apply(Initial(), ToggleSign)
	if state != Initial() {
		t.Fatalf("toggle sign on zero changed state: %+v", state)
	}

	state = press(t, Initial(), "7", "±")
	if got := state.Display().Text; got != "-7" {
		t.Fatalf("display = %q, want %q", got, "-7")
	}
	state = press(t, state, "±")
	if got := state.Display().Text; got != "7" {
		t.Fatalf("display = %q, want %q", got, "7")
	}
}

func TestNegativeOperandArithmetic(t *testing.T) {
	state := press(t, Initial(), "7", "±", "+", "3", "=")
	if got := state.Display().Text; got != "-4" {
		t.Fatalf("display = %q, want %q", got, "-4")
	}
}

func TestDigitEntryCapSilentlyDrops(t *testing.T) {
	state := Initial()
	for i := 0; i < 20; i++ {
		state = Apply(state, Digit('9'))
	}
	if got := state.Operand; got != "999999999999999" {
		t.Fatalf("operand = %q (len %d), want 15 nines", got, len(got))
	}
}

func TestDecimalEntry(t *testing.T) {
	state := press(t, Initial(), "1", ".", "5")
	if got := state.Operand; got != "1.5" {
		t.Fatalf("operand = %q, want %q", got, "1.5")
	}

	// A second decimal point is ignored.
	state = press(t, state, ".", "5")
	if got := state.Operand; got != "1.55" {
		t.Fatalf("operand = %q, want %q", got, "1.55")
	}
}

func TestDecimalStartsFreshOperand(t *testing.T) {
	state := press(t, Initial(), "5", "+", ".", "5")
	if got := state.Operand; got != "0.5" {
		t.Fatalf("operand = %q, want %q", got, "0.5")
	}
	if state.AwaitingOperand {
		t.Fatal("awaiting flag still set after decimal entry")
	}
}

func TestLeadingZeroReplaced(t *testing.T) {
	state := press(t, Initial(), "0", "0", "7")
	if got := state.Operand; got != "7" {
		t.Fatalf("operand = %q, want %q", got, "7")
	}
}

func TestClearEntryKeepsPendingOperation(t *testing.T) {
	state := press(t, Initial(), "5", "+", "3", "C", "4", "=")
	if got := state.Display().Text; got != "9" {
		t.Fatalf("display = %q, want %q", got, "9")
	}
}

func TestClearEntryResetsSign(t *testing.T) {
	state := press(t, Initial(), "7", "±", "C")
	if state.Negative {
		t.Fatal("sign survived clear entry")
	}
	if got := state.Operand; got != "0" {
		t.Fatalf("operand = %q, want %q", got, "0")
	}
}

func TestOverflowSetsStickyError(t *testing.T) {
	// Square the 15-digit maximum until the result magnitude passes the
	// overflow limit.
	state := Initial()
	for i := 0; i < 15; i++ {
		state = Apply(state, Digit('9'))
	}
	for i := 0; i < 3 && state.Err == ErrorNone; i++ {
		state = press(t, state, "*", "=")
	}
	if state.Err != ErrorOverflow {
		t.Fatalf("error = %s, want %s", state.Err, ErrorOverflow)
	}

	next := press(t, state, "1")
	if next != state {
		t.Fatal("digit after overflow changed state")
	}
}

func TestFractionalResultRendering(t *testing.T) {
	state := press(t, Initial(), "1", "/", "3", "=")
	if got := state.Display().Text; got != "0.333333333333333" {
		t.Fatalf("display = %q, want %q", got, "0.333333333333333")
	}
}

func TestFloatNoiseIsRoundedAway(t *testing.T) {
	state := press(t, Initial(), "0", ".", "1", "+", "0", ".", "2", "=")
	if got := state.Display().Text; got != "0.3" {
		t.Fatalf("display = %q, want %q", got, "0.3")
	}
}
