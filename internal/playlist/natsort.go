package playlist

import "strings"

// naturalLess orders strings case-insensitively with numeric runs compared
// by value, so "shot2.png" sorts before "shot10.png".
func naturalLess(a, b string) bool {
	a, b = strings.ToLower(a), strings.ToLower(b)
	for a != "" && b != "" {
		if isDigit(a[0]) && isDigit(b[0]) {
			na, resta := takeNumber(a)
			nb, restb := takeNumber(b)
			if na != nb {
				return numberLess(na, nb)
			}
			a, b = resta, restb
			continue
		}
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		a, b = a[1:], b[1:]
	}
	return len(a) < len(b)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// takeNumber splits off the leading digit run, stripped of leading zeros.
func takeNumber(s string) (string, string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	num := strings.TrimLeft(s[:i], "0")
	return num, s[i:]
}

// numberLess compares two digit strings by value. Digit strings of equal
// length compare lexicographically; a shorter string is a smaller number.
func numberLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
