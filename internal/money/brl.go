// Package money parses and formats Brazilian-real amounts as whole reais.
package money

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

var digitRun = regexp.MustCompile(`\d+`)

// maxDigits guards against absurd inputs overflowing int; anything longer
// is treated as unparseable, never as a panic.
const maxDigits = 15

// Parse accepts the value shapes ad sources and catalog payloads hand us:
// integers, floats (JSON numbers) and locale-formatted strings. It never
// fails hard; ok=false is the only failure signal.
func Parse(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		return roundHalfUp(x), true
	case string:
		return ParseBRL(x)
	default:
		return 0, false
	}
}

// ParseBRL converts a Brazilian-formatted amount to whole reais:
// "." thousands separator, "," decimal separator, optional "R$" prefix,
// optional non-breaking space. Cents are rounded half up, so
// "R$ 32.000,50" -> 32001. Returns ok=false when no digits are found.
func ParseBRL(s string) (int, bool) {
	s = strings.ReplaceAll(s, " ", " ")

	intPart, fracPart := s, ""
	if i := strings.LastIndexByte(s, ','); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}

	runs := digitRun.FindAllString(intPart, -1)
	if len(runs) == 0 {
		// no integer digits before the comma; "",50" is not an amount
		return 0, false
	}

	total := 0
	n := 0
	for _, run := range runs {
		total += len(run)
		if total > maxDigits {
			return 0, false
		}
		for i := 0; i < len(run); i++ {
			n = n*10 + int(run[i]-'0')
		}
	}

	if frac := digitRun.FindString(fracPart); frac != "" && frac[0] >= '5' {
		n++
	}
	return n, true
}

// FormatBRL renders whole reais in the locale style parsed by ParseBRL,
// e.g. 32000 -> "R$ 32.000,00".
func FormatBRL(n int) string {
	neg := n < 0
	if neg {
		n = -n
	}
	digits := fmt.Sprintf("%d", n)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}
	return "R$ " + b.String() + ",00"
}

func roundHalfUp(f float64) int {
	return int(math.Floor(f + 0.5))
}
