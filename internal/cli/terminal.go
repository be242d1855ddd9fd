package cli

import (
	"os"

	"golang.org/x/term"

	"github.com/vijay-prabhu/studyhub/internal/scoring"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
	ColorGray   = "\033[90m"
)

// Terminal provides terminal-aware output utilities
type Terminal struct {
	IsTerminal bool
	UseColor   bool
}

// NewTerminal creates a Terminal for f. Color is off when f is not a
// terminal or NO_COLOR is set.
func NewTerminal(f *os.File) *Terminal {
	isTerminal := term.IsTerminal(int(f.Fd()))
	_, noColor := os.LookupEnv("NO_COLOR")
	return &Terminal{
		IsTerminal: isTerminal,
		UseColor:   isTerminal && !noColor,
	}
}

// Color wraps text in ANSI color codes (terminal only)
func (t *Terminal) Color(color, text string) string {
	if !t.UseColor {
		return text
	}
	return color + text + ColorReset
}

// MatchColor returns the color for a scored record's match band
func MatchColor(sr scoring.ScoredRecord) string {
	switch {
	case sr.Breakdown.FallbackApplied:
		return ColorCyan
	case sr.Score == 0:
		return ColorGray
	case sr.MatchPercentage >= 70:
		return ColorGreen
	case sr.MatchPercentage >= 30:
		return ColorYellow
	default:
		return ColorRed
	}
}
