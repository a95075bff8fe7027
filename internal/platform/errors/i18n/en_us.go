package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeSessionNameEmpty        = "SESSION_NAME_EMPTY"
	CodeSessionNameTooLong      = "SESSION_NAME_TOO_LONG"
	CodeSessionIDEmpty          = "SESSION_ID_EMPTY"
	CodeDivisionByZero          = "DIVISION_BY_ZERO"
	CodeOverflow                = "OVERFLOW"
	CodeNotFound                = "NOT_FOUND"
	CodeScenarioAssertionFailed = "SCENARIO_ASSERTION_FAILED"
	CodeScenarioInvalidStep     = "SCENARIO_INVALID_STEP"
)

var enUS = map[Code]string{
	CodeSessionNameEmpty:        "Session name cannot be empty",
	CodeSessionNameTooLong:      "Session name cannot exceed {{.Max}} characters",
	CodeSessionIDEmpty:          "Session ID cannot be empty",
	CodeDivisionByZero:          "Division by zero",
	CodeOverflow:                "Result too large",
	CodeNotFound:                "Not found",
	CodeScenarioAssertionFailed: "Expected {{.Want}} but got {{.Got}}",
	CodeScenarioInvalidStep:     "Invalid scenario step: {{.Step}}",
}
