package calc

// ActionKind identifies the semantic category of one input event.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionDigit
	ActionDecimal
	ActionOperator
	ActionEquals
	ActionClearEntry
	ActionAllClear
	ActionToggleSign
	ActionPercent
)

func (k ActionKind) String() string {
	switch k {
	case ActionNone:
		return "none"
	case ActionDigit:
		return "digit"
	case ActionDecimal:
		return "decimal"
	case ActionOperator:
		return "operator"
	case ActionEquals:
		return "equals"
	case ActionClearEntry:
		return "clear-entry"
	case ActionAllClear:
		return "all-clear"
	case ActionToggleSign:
		return "toggle-sign"
	case ActionPercent:
		return "percent"
	default:
		return "unknown"
	}
}

// OperatorKind identifies a binary arithmetic operator.
type OperatorKind int

const (
	OperatorNone OperatorKind = iota
	OperatorAdd
	OperatorSub
	OperatorMul
	OperatorDiv
)

func (o OperatorKind) String() string {
	switch o {
	case OperatorNone:
		return "none"
	case OperatorAdd:
		return "+"
	case OperatorSub:
		return "-"
	case OperatorMul:
		return "*"
	case OperatorDiv:
		return "/"
	default:
		return "unknown"
	}
}

// apply evaluates the operator. Division by zero is rejected by the engine
// before apply runs.
func (o OperatorKind) apply(a, b float64) float64 {
	switch o {
	case OperatorAdd:
		return a + b
	case OperatorSub:
		return a - b
	case OperatorMul:
		return a * b
	case OperatorDiv:
		return a / b
	default:
		return b
	}
}

// Action is one discrete semantic input event consumed by the engine.
type Action struct {
	Kind     ActionKind
	Digit    byte         // '0'..'9' when Kind is ActionDigit
	Operator OperatorKind // set when Kind is ActionOperator
}

// Digit builds a digit-entry action for an ASCII digit.
func Digit(digit byte) Action {
	return Action{Kind: ActionDigit, Digit: digit}
}

// Operator builds an operator-selection action.
func Operator(op OperatorKind) Action {
	return Action{Kind: ActionOperator, Operator: op}
}

var (
	Decimal    = Action{Kind: ActionDecimal}
	Equals     = Action{Kind: ActionEquals}
	ClearEntry = Action{Kind: ActionClearEntry}
	AllClear   = Action{Kind: ActionAllClear}
	ToggleSign = Action{Kind: ActionToggleSign}
	Percent    = Action{Kind: ActionPercent}
)
