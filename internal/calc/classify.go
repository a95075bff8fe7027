package calc

// tokenActions is the fixed lookup table behind Classify. Key names (Enter,
// Backspace, Escape) alias the keypad buttons so a keyboard adapter can feed
// raw key names straight through.
var tokenActions = map[string]Action{
	".":         Decimal,
	"+":         Operator(OperatorAdd),
	"-":         Operator(OperatorSub),
	"*":         Operator(OperatorMul),
	"/":         Operator(OperatorDiv),
	"=":         Equals,
	"Enter":     Equals,
	"C":         ClearEntry,
	"Backspace": ClearEntry,
	"AC":        AllClear,
	"Escape":    AllClear,
	"±":         ToggleSign,
	"+/-":       ToggleSign,
	"%":         Percent,
}

// Classify maps one raw token (button id or key name) to its Action. The
// second return is false for unrecognized tokens, which callers drop without
// surfacing an error.
func Classify(token string) (Action, bool) {
	if len(token) == 1 && token[0] >= '0' && token[0] <= '9' {
		return Digit(token[0]), true
	}
	action, ok := tokenActions[token]
	return action, ok
}
