package calc

import "unicode"

// KeyToken translates one terminal key into a classifier token. Control keys
// map to their key names; printable keys pass through unchanged. The second
// return is false for keys the keypad has no use for.
func KeyToken(key rune) (string, bool) {
	switch key {
	case '\r', '\n':
		return "Enter", true
	case '\x1b':
		return "Escape", true
	case '\x7f', '\b':
		return "Backspace", true
	case 'c', 'C':
		return "C", true
	}
	if unicode.IsPrint(key) {
		return string(key), true
	}
	return "", false
}
