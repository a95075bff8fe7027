package calc

// ErrorKind identifies a sticky engine error. Once set, every action except
// AllClear is ignored.
type ErrorKind int

const (
	ErrorNone ErrorKind = iota
	ErrorDivisionByZero
	ErrorOverflow
)

func (e ErrorKind) String() string {
	switch e {
	case ErrorNone:
		return "none"
	case ErrorDivisionByZero:
		return "division-by-zero"
	case ErrorOverflow:
		return "overflow"
	default:
		return "unknown"
	}
}

// Message returns the default (en-US) user-facing message for the error.
func (e ErrorKind) Message() string {
	switch e {
	case ErrorDivisionByZero:
		return "Division by zero"
	case ErrorOverflow:
		return "Result too large"
	default:
		return ""
	}
}

// State is the complete calculator state between actions.
//
// Operand always holds a syntactically valid non-negative decimal literal
// with at most one decimal point and no leading zero except the literal "0";
// the sign lives in Negative. PendingOp is set only together with
// HasAccumulator. AwaitingOperand distinguishes "editing the operand" from
// "holding a just-computed result".
type State struct {
	Operand         string       `json:"operand"`
	Negative        bool         `json:"negative,omitempty"`
	Accumulator     float64      `json:"accumulator,omitempty"`
	HasAccumulator  bool         `json:"has_accumulator,omitempty"`
	PendingOp       OperatorKind `json:"pending_op,omitempty"`
	AwaitingOperand bool         `json:"awaiting_operand,omitempty"`
	LastOp          OperatorKind `json:"last_op,omitempty"`
	LastOperand     float64      `json:"last_operand,omitempty"`
	HasLastOp       bool         `json:"has_last_op,omitempty"`
	Err             ErrorKind    `json:"error,omitempty"`
}

// Initial returns the power-on state: operand "0", nothing pending.
func Initial() State {
	return State{Operand: "0"}
}

// Value returns the signed numeric value of the operand being edited.
func (s State) Value() float64 {
	value, err := Parse(s.Operand)
	if err != nil {
		return 0
	}
	if s.Negative {
		return -value
	}
	return value
}

// Display is what a rendering layer shows for a state.
type Display struct {
	Text         string
	HasError     bool
	ErrorMessage string
}

// Display derives the display contract from the state. The error message is
// the en-US default; localized rendering happens in the service layer.
func (s State) Display() Display {
	if s.Err != ErrorNone {
		return Display{Text: "Error", HasError: true, ErrorMessage: s.Err.Message()}
	}
	text := s.Operand
	if s.Negative {
		text = "-" + text
	}
	return Display{Text: text}
}
