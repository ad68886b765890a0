package quiz

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// OptionCount is the number of options every item carries.
const OptionCount = 3

// Item is a single multiple-choice question ready for display.
type Item struct {
	// Question is the prompt shown to the child. Always ends with "?".
	Question string `json:"question"`

	// Options holds exactly three pairwise-distinct answers.
	Options []string `json:"options"`

	// AnswerIndex is the index of the correct option (0, 1 or 2).
	AnswerIndex int `json:"answer_index"`
}

// Correct returns the correct option text, or "" if the index is out of range.
func (it Item) Correct() string {
	if it.AnswerIndex < 0 || it.AnswerIndex >= len(it.Options) {
		return ""
	}
	return it.Options[it.AnswerIndex]
}

// Batch is the result of one generate call.
type Batch struct {
	// Questions holds exactly the requested number of items.
	Questions []Item `json:"questions"`

	// Source names the tier that produced the items before back-fill,
	// e.g. "hosted:openai", "local:ollama" or "synthesizer".
	Source string `json:"source,omitempty"`

	// RequestID identifies the generate call in logs and events.
	RequestID string `json:"request_id,omitempty"`
}

var spaceRe = regexp.MustCompile(`\s+`)

// NormalizeQuestion folds question text for duplicate detection: collapses
// whitespace, strips trailing punctuation and lower-cases.
func NormalizeQuestion(q string) string {
	q = spaceRe.ReplaceAllString(strings.TrimSpace(q), " ")
	q = strings.TrimRight(q, " ?!.")
	return strings.ToLower(q)
}

// OptionKey folds option text for distinctness checks.
func OptionKey(o string) string {
	return strings.ToLower(strings.TrimSpace(o))
}

// CleanOption strips surrounding spaces and trailing periods.
func CleanOption(o string) string {
	o = strings.TrimRight(strings.TrimSpace(o), " .")
	if o == "" {
		return "Option"
	}
	return o
}

// CleanQuestion trims q and makes sure it ends with exactly one "?".
func CleanQuestion(q string) string {
	q = strings.TrimRight(strings.TrimSpace(q), "?")
	q = strings.TrimSpace(q)
	if q == "" {
		return "What is happening in the caption?"
	}
	return q + "?"
}

// Capitalize upper-cases the first character of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
