package quiz

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	questionRe = regexp.MustCompile(`^(\d+)[)\.:\-]\s*(.+)$`)
	optionRe   = regexp.MustCompile(`^([A-Ca-c])[)\.:\-]\s*(.+)$`)
	answerRe   = regexp.MustCompile(`(?i)^(?:answer|correct)\s*[:\-]\s*([A-C])\b`)
)

// pending is the item under construction while scanning.
type pending struct {
	question string
	options  []string
	answer   int // -1 while unresolved
}

func (p *pending) complete() bool {
	return p != nil && len(p.options) == OptionCount && p.answer >= 0
}

// Parse extracts up to expected items from free text in the backend format.
// Each group is a numbered question line such as "1) What is the dog
// doing?", three option lines "A) ..." through "C) ..." and an answer line
// such as "Answer: B".
//
// Groups missing an option or a resolvable answer line are dropped. Any
// other line is ignored. Parse never fails; malformed text yields fewer
// items.
func Parse(text string, expected int) []Item {
	var (
		groups  []*pending
		current *pending
	)

	flush := func() {
		if current.complete() {
			groups = append(groups, current)
		}
		current = nil
	}

	for line := range strings.Lines(text) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := questionRe.FindStringSubmatch(line); m != nil {
			flush()
			current = &pending{question: strings.TrimSpace(m[2]), answer: -1}
			continue
		}
		if current == nil {
			continue
		}

		if m := optionRe.FindStringSubmatch(line); m != nil {
			if len(current.options) < OptionCount {
				current.options = append(current.options, strings.TrimSpace(m[2]))
			}
			continue
		}

		if m := answerRe.FindStringSubmatch(line); m != nil {
			current.answer = letterIndex(m[1])
		}
	}
	flush()

	var items []Item
	for _, g := range groups {
		if expected > 0 && len(items) == expected {
			break
		}
		opts := make([]string, len(g.options))
		for i, o := range g.options {
			opts[i] = CleanOption(o)
		}
		items = append(items, Item{
			Question:    CleanQuestion(g.question),
			Options:     opts,
			AnswerIndex: g.answer,
		})
	}
	return items
}

// letterIndex maps A/B/C (any case) to 0/1/2, or -1.
func letterIndex(letter string) int {
	switch strings.ToUpper(letter) {
	case "A":
		return 0
	case "B":
		return 1
	case "C":
		return 2
	}
	return -1
}

// Letter maps an option index to its label.
func Letter(i int) string {
	if i < 0 || i >= OptionCount {
		return "?"
	}
	return string(rune('A' + i))
}

// Format renders items in the same textual format Parse accepts.
func Format(items []Item) string {
	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(strconv.Itoa(i+1) + ") " + it.Question + "\n")
		for j, o := range it.Options {
			b.WriteString(Letter(j) + ") " + o + "\n")
		}
		b.WriteString("Answer: " + Letter(it.AnswerIndex) + "\n")
	}
	return b.String()
}
