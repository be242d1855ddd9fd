package price

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Currency is the closed set of currencies recognised in price strings
type Currency string

const (
	CurrencyUnknown Currency = ""
	KZT             Currency = "KZT"
	USD             Currency = "USD"
	EUR             Currency = "EUR"
	GBP             Currency = "GBP"
	CHF             Currency = "CHF"
	SGD             Currency = "SGD"
)

// currencyMarkers is checked in order: "S$" must be seen before "$".
var currencyMarkers = []struct {
	currency Currency
	symbols  []string
	codes    []string
}{
	{SGD, []string{"s$"}, []string{"sgd"}},
	{CHF, nil, []string{"chf"}},
	{GBP, []string{"£"}, []string{"gbp"}},
	{EUR, []string{"€"}, []string{"eur"}},
	{USD, []string{"$"}, []string{"usd"}},
	{KZT, []string{"₸"}, []string{"kzt", "тг", "тенге"}},
}

// Currencies lists every known currency
func Currencies() []Currency {
	out := make([]Currency, 0, len(currencyMarkers))
	for _, m := range currencyMarkers {
		out = append(out, m.currency)
	}
	return out
}

// ParseCurrency parses an ISO code such as "kzt" or "USD"
func ParseCurrency(s string) (Currency, error) {
	code := Currency(strings.ToUpper(strings.TrimSpace(s)))
	for _, m := range currencyMarkers {
		if m.currency == code {
			return code, nil
		}
	}
	return CurrencyUnknown, fmt.Errorf("unknown currency %q", s)
}

// DetectCurrency finds the currency named by a symbol or code in text
func DetectCurrency(text string) Currency {
	lower := strings.ToLower(text)
	for _, m := range currencyMarkers {
		for _, sym := range m.symbols {
			if strings.Contains(lower, sym) {
				return m.currency
			}
		}
		for _, code := range m.codes {
			if containsCode(lower, code) {
				return m.currency
			}
		}
	}
	return CurrencyUnknown
}

// containsCode reports whether code occurs in text not surrounded by letters,
// so "eur" matches "1000 EUR" but not "europe".
func containsCode(text, code string) bool {
	for offset := 0; offset < len(text); {
		idx := strings.Index(text[offset:], code)
		if idx == -1 {
			return false
		}
		start := offset + idx
		end := start + len(code)

		before := lastRune(text[:start])
		after := firstRune(text[end:])
		if !unicode.IsLetter(before) && !unicode.IsLetter(after) {
			return true
		}
		offset = end
	}
	return false
}

func lastRune(s string) rune {
	if s == "" {
		return ' '
	}
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}

func firstRune(s string) rune {
	if s == "" {
		return ' '
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r
}
