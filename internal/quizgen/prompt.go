package quizgen

import (
	"fmt"
	"strings"
)

// maxPromptCaption caps the caption text sent to a backend, in runes.
const maxPromptCaption = 240

// LocalStyle selects the prompt flavour for the local-model tier.
type LocalStyle string

const (
	// StyleInstruct suits instruction-tuned models: rules plus an example block.
	StyleInstruct LocalStyle = "instruct"

	// StyleCompletion suits plain completion models that continue the text
	// after "Now the quiz:".
	StyleCompletion LocalStyle = "completion"
)

func hostedSystemPrompt(expected int) string {
	return fmt.Sprintf("You turn a short image caption into EXACTLY %d kid-friendly MCQs. Each item has:\n"+
		"1) <question>\nA) <choice>\nB) <choice>\nC) <choice>\nAnswer: <A/B/C>\n"+
		"Rules: one clear sentence per question; 3 options only; one correct answer; no explanations.",
		expected)
}

func hostedUserMessage(req Request) string {
	return fmt.Sprintf("Caption: %q.\n%s\nWrite the quiz now in the exact format.", promptCaption(req.Caption), req.Hint)
}

func structuredSystemPrompt(expected int) string {
	return fmt.Sprintf("You turn a short image caption into EXACTLY %d kid-friendly multiple-choice questions.\n"+
		"Rules: one clear sentence per question ending with a question mark; exactly 3 short, different options; "+
		"answer_index is the 0-based index of the single correct option; no explanations.",
		expected)
}

func structuredUserMessage(req Request) string {
	return fmt.Sprintf("Caption: %q.\n%s", promptCaption(req.Caption), req.Hint)
}

func localPrompt(style LocalStyle, req Request) string {
	var b strings.Builder
	caption := promptCaption(req.Caption)

	switch style {
	case StyleCompletion:
		b.WriteString("Create multiple-choice questions from the caption.\n")
		fmt.Fprintf(&b, "Caption: %q\n", caption)
		b.WriteString(req.Hint + "\n")
		fmt.Fprintf(&b, "Write exactly %d questions. For each question use this exact format:\n", req.Expected)
		b.WriteString("1) <question>\nA) <choice>\nB) <choice>\nC) <choice>\nAnswer: <A/B/C>\n\n")
	default:
		fmt.Fprintf(&b, "Caption: %q.\n", caption)
		b.WriteString(req.Hint + "\n")
		fmt.Fprintf(&b, "Write exactly %d SHORT, kid-friendly multiple-choice questions about this caption.\n", req.Expected)
		b.WriteString("Rules:\n")
		b.WriteString("- Each question is one sentence, clear and simple.\n")
		b.WriteString("- Provide exactly three answer choices labeled A), B), C).\n")
		b.WriteString("- Put the correct letter on a separate line like: Answer: B\n")
		b.WriteString("- Do not add explanations or extra text.\n\n")
		b.WriteString("Example format:\n")
		b.WriteString("1) What is happening?\nA) Option one\nB) Option two\nC) Option three\nAnswer: B\n\n")
	}
	b.WriteString("Now the quiz:\n")
	return b.String()
}

// promptCaption truncates caption to maxPromptCaption runes.
func promptCaption(caption string) string {
	r := []rune(caption)
	if len(r) <= maxPromptCaption {
		return caption
	}
	return string(r[:maxPromptCaption])
}
