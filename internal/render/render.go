// Package render formats quiz batches and usage reports for the terminal.
package render

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/showtell/quizgen/internal/quiz"
)

// Options controls Pretty output.
type Options struct {
	// Caption is shown above the questions when set.
	Caption string

	// ShowAnswers marks the correct option of every item.
	ShowAnswers bool
}

// Pretty renders b as styled cards, one per item.
func Pretty(b *quiz.Batch, opts Options) string {
	var sections []string

	title := titleStyle.Render("Picture quiz")
	if b.Source != "" {
		title += " " + sourceStyle.Render("("+b.Source+")")
	}
	sections = append(sections, title)
	if opts.Caption != "" {
		sections = append(sections, captionStyle.Render(fmt.Sprintf("%q", opts.Caption)))
	}

	for i, it := range b.Questions {
		sections = append(sections, cardStyle.Render(item(i+1, it, opts.ShowAnswers)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func item(n int, it quiz.Item, showAnswers bool) string {
	lines := []string{questionStyle.Render(fmt.Sprintf("%d) %s", n, it.Question))}
	for i, opt := range it.Options {
		line := fmt.Sprintf("  %s) %s", quiz.Letter(i), opt)
		if showAnswers && i == it.AnswerIndex {
			lines = append(lines, correctStyle.Render(line+"  ✓"))
			continue
		}
		lines = append(lines, optionStyle.Render(line))
	}
	return strings.Join(lines, "\n")
}

// Plain renders b in the numbered text protocol backends are asked to use.
func Plain(b *quiz.Batch) string {
	return quiz.Format(b.Questions)
}
