// Package emotion maps response text to a delivery tone for speech synthesis.
package emotion

import "strings"

// Tone labels the emotional register a spoken reply should carry.
type Tone string

const (
	Calm        Tone = "calm"
	Empathetic  Tone = "empathetic"
	Encouraging Tone = "encouraging"
	Supportive  Tone = "supportive"
)

// rules are checked in order; the first rule with a keyword hit wins.
var rules = []struct {
	tone     Tone
	keywords []string
}{
	{Empathetic, []string{"sorry", "understand", "difficult", "hard", "struggle"}},
	{Encouraging, []string{"great", "wonderful", "proud", "amazing", "excellent"}},
	{Supportive, []string{"support", "help", "here for you", "together"}},
}

// Detect classifies text into a tone by keyword lookup. Matching is
// case-insensitive substring search, so "harder" still reads as "hard".
// Text with no keyword hits is calm.
func Detect(text string) Tone {
	lower := strings.ToLower(text)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.tone
			}
		}
	}
	return Calm
}

// Known reports whether s names one of the defined tones.
func Known(s string) bool {
	switch Tone(s) {
	case Calm, Empathetic, Encouraging, Supportive:
		return true
	}
	return false
}
