// Package price turns display price strings ("~2 200 000 ₸/год",
// "Грант (полное покрытие)", "$10,000") into typed amounts and buckets.
package price

import (
	"strconv"
	"strings"
)

// Status tags the outcome of Parse
type Status int

const (
	StatusUnparseable Status = iota
	StatusAmount
	StatusFree
)

func (s Status) String() string {
	switch s {
	case StatusAmount:
		return "amount"
	case StatusFree:
		return "free"
	default:
		return "unparseable"
	}
}

// Amount is the parsed form of a price string. Value is meaningful only
// when Status is StatusAmount; Reason is set when Status is StatusUnparseable.
type Amount struct {
	Status   Status
	Value    float64
	Currency Currency
	Raw      string
	Reason   string
}

// Parse classifies a price string. A free marker (case-insensitive substring)
// wins over any number in the text. Otherwise the first numeric run is read:
// spaces, non-breaking spaces and apostrophes between digits group thousands,
// and "," or "." followed by exactly three digits groups thousands too; any
// other "," or "." is the decimal point.
func Parse(text string, freeMarkers []string) Amount {
	a := Amount{Raw: text, Currency: DetectCurrency(text)}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		a.Reason = "empty value"
		return a
	}

	lower := strings.ToLower(trimmed)
	for _, marker := range freeMarkers {
		marker = strings.ToLower(strings.TrimSpace(marker))
		if marker != "" && strings.Contains(lower, marker) {
			a.Status = StatusFree
			return a
		}
	}

	value, reason := firstNumber(trimmed)
	if reason != "" {
		a.Reason = reason
		return a
	}

	a.Status = StatusAmount
	a.Value = value
	return a
}

func firstNumber(text string) (float64, string) {
	rs := []rune(text)

	start := -1
	for i, r := range rs {
		if isDigit(r) {
			start = i
			break
		}
	}
	if start == -1 {
		return 0, "no numeric value"
	}

	var b strings.Builder
	decimal := false

loop:
	for i := start; i < len(rs); i++ {
		r := rs[i]
		switch {
		case isDigit(r):
			b.WriteRune(r)
		case isGroupSeparator(r):
			if decimal || i+1 >= len(rs) || !isDigit(rs[i+1]) {
				break loop
			}
		case r == ',' || r == '.':
			n := digitsAfter(rs, i+1)
			switch {
			case n == 0:
				break loop
			case n == 3 && !decimal:
				// thousands group
			case !decimal:
				b.WriteByte('.')
				decimal = true
			default:
				break loop
			}
		default:
			break loop
		}
	}

	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, "invalid number"
	}
	return f, ""
}

func digitsAfter(rs []rune, from int) int {
	n := 0
	for i := from; i < len(rs) && isDigit(rs[i]); i++ {
		n++
	}
	return n
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isGroupSeparator(r rune) bool {
	switch r {
	case ' ', '\u00a0', '\u202f', '\u2009', '\'':
		return true
	}
	return false
}
