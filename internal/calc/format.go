package calc

import (
	"fmt"
	"math"
	"strconv"
)

const (
	// maxSignificantDigits caps both typed entry length and formatted output.
	maxSignificantDigits = 15
	// exponentThreshold is the magnitude at which Format switches to
	// exponential notation. Below it Format never emits an exponent.
	exponentThreshold = 1e15
	// overflowLimit is the largest result magnitude the engine represents;
	// anything beyond it becomes ErrorOverflow.
	overflowLimit = 1e100
)

// Format renders a value as a bounded-length display string: at most
// maxSignificantDigits significant digits, trailing zeros trimmed, compact
// exponential form at or above exponentThreshold.
func Format(value float64) string {
	rounded := roundSignificant(value)
	if rounded == 0 {
		return "0"
	}
	if math.Abs(rounded) >= exponentThreshold {
		return strconv.FormatFloat(rounded, 'e', -1, 64)
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

// Parse reads a display string back into a number. It accepts every string
// Format produces plus bare operand literals; it is not a general-purpose
// numeric parser.
func Parse(input string) (float64, error) {
	value, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return 0, fmt.Errorf("parse number %q: %w", input, err)
	}
	return value, nil
}

// roundSignificant rounds to the display precision so that arithmetic and
// formatting agree on the digits a user can see. Values already within the
// precision pass through unchanged, which is what makes Parse(Format(x))
// exact for displayable values.
func roundSignificant(value float64) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(value, 'g', maxSignificantDigits, 64), 64)
	if err != nil {
		return value
	}
	return rounded
}
