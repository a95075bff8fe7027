package calc

import (
	"math"
	"strings"
)

// Apply advances the calculator by one action and returns the new state.
//
// Apply is a pure total function: it never fails, has no side effects, and
// every returned state satisfies the State invariants. When the state carries
// a sticky error, every action except AllClear returns the state unchanged.
func Apply(state State, action Action) State {
	if state.Err != ErrorNone && action.Kind != ActionAllClear {
		return state
	}

	switch action.Kind {
	case ActionDigit:
		return applyDigit(state, action.Digit)
	case ActionDecimal:
		return applyDecimal(state)
	case ActionOperator:
		return applyOperator(state, action.Operator)
	case ActionEquals:
		return applyEquals(state)
	case ActionClearEntry:
		// Clears only the in-progress entry; accumulator, pending operator,
		// and repeat-equals context survive.
		state.Operand = "0"
		state.Negative = false
		state.AwaitingOperand = true
		return state
	case ActionAllClear:
		return Initial()
	case ActionToggleSign:
		if state.Operand != "0" {
			state.Negative = !state.Negative
		}
		return state
	case ActionPercent:
		// Percent is relative to the current operand alone, never to the
		// accumulator. Cannot overflow: the magnitude only shrinks.
		state = setOperandValue(state, state.Value()/100)
		state.AwaitingOperand = true
		return state
	default:
		return state
	}
}

func applyDigit(state State, digit byte) State {
	if digit < '0' || digit > '9' {
		return state
	}
	if state.AwaitingOperand {
		state.Operand = string(digit)
		state.Negative = false
		state.AwaitingOperand = false
		return state
	}
	if digitCount(state.Operand) >= maxSignificantDigits {
		// Display precision limit reached; the digit is silently dropped.
		return state
	}
	if state.Operand == "0" {
		state.Operand = string(digit)
		return state
	}
	state.Operand += string(digit)
	return state
}

func applyDecimal(state State) State {
	if state.AwaitingOperand {
		state.Operand = "0."
		state.Negative = false
		state.AwaitingOperand = false
		return state
	}
	if !strings.Contains(state.Operand, ".") {
		state.Operand += "."
	}
	return state
}

func applyOperator(state State, op OperatorKind) State {
	if state.PendingOp != OperatorNone && !state.AwaitingOperand {
		result, fault := evaluate(state.PendingOp, state.Accumulator, state.Value())
		if fault != ErrorNone {
			return faultState(state, fault)
		}
		state = setOperandValue(state, result)
		state.Accumulator = result
		state.HasAccumulator = true
	} else if !state.HasAccumulator {
		state.Accumulator = state.Value()
		state.HasAccumulator = true
	}
	// An operator pressed with no digit typed in between only replaces the
	// pending operator: chained-operator override.
	state.PendingOp = op
	state.AwaitingOperand = true
	return state
}

func applyEquals(state State) State {
	switch {
	case state.PendingOp != OperatorNone:
		operand := state.Value()
		result, fault := evaluate(state.PendingOp, state.Accumulator, operand)
		if fault != ErrorNone {
			return faultState(state, fault)
		}
		state.LastOp = state.PendingOp
		state.LastOperand = operand
		state.HasLastOp = true
		state = setOperandValue(state, result)
		state.Accumulator = 0
		state.HasAccumulator = false
		state.PendingOp = OperatorNone
		state.AwaitingOperand = true
		return state
	case state.HasLastOp:
		// Repeat-equals: re-apply the last completed operation to the
		// current value.
		result, fault := evaluate(state.LastOp, state.Value(), state.LastOperand)
		if fault != ErrorNone {
			return faultState(state, fault)
		}
		state = setOperandValue(state, result)
		state.AwaitingOperand = true
		return state
	default:
		return state
	}
}

// evaluate applies a binary operator and classifies division by zero and
// overflow results.
func evaluate(op OperatorKind, a, b float64) (float64, ErrorKind) {
	if op == OperatorDiv && b == 0 {
		return 0, ErrorDivisionByZero
	}
	result := op.apply(a, b)
	if math.IsNaN(result) || math.IsInf(result, 0) || math.Abs(result) > overflowLimit {
		return 0, ErrorOverflow
	}
	return result, ErrorNone
}

func faultState(state State, kind ErrorKind) State {
	state.Err = kind
	state.Accumulator = 0
	state.HasAccumulator = false
	state.PendingOp = OperatorNone
	return state
}

// setOperandValue renders a computed value back into the editable operand,
// splitting the sign off so the operand literal stays non-negative.
func setOperandValue(state State, value float64) State {
	if math.Signbit(value) && value != 0 {
		state.Negative = true
		state.Operand = Format(-value)
	} else {
		state.Negative = false
		state.Operand = Format(value)
	}
	return state
}

func digitCount(operand string) int {
	count := 0
	for i := 0; i < len(operand); i++ {
		if operand[i] >= '0' && operand[i] <= '9' {
			count++
		}
	}
	return count
}
