// Package errors provides structured error handling with i18n support.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Session errors
	CodeSessionNameEmpty   Code = "SESSION_NAME_EMPTY"
	CodeSessionNameTooLong Code = "SESSION_NAME_TOO_LONG"
	CodeSessionIDEmpty     Code = "SESSION_ID_EMPTY"

	// Engine errors
	CodeDivisionByZero Code = "DIVISION_BY_ZERO"
	CodeOverflow       Code = "OVERFLOW"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"

	// Scenario errors
	CodeScenarioAssertionFailed Code = "SCENARIO_ASSERTION_FAILED"
	CodeScenarioInvalidStep     Code = "SCENARIO_INVALID_STEP"
)

// Class groups codes by the kind of failure they report, letting callers
// decide how to surface an error without inspecting individual codes.
type Class int

const (
	ClassInternal Class = iota
	ClassInvalidArgument
	ClassFailedPrecondition
	ClassNotFound
)

// Class maps domain codes to failure classes.
func (c Code) Class() Class {
	switch c {
	case CodeSessionNameEmpty,
		CodeSessionNameTooLong,
		CodeSessionIDEmpty,
		CodeScenarioInvalidStep:
		return ClassInvalidArgument

	case CodeDivisionByZero,
		CodeOverflow,
		CodeScenarioAssertionFailed:
		return ClassFailedPrecondition

	case CodeNotFound:
		return ClassNotFound

	default:
		return ClassInternal
	}
}
