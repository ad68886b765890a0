package synth

import (
	"math/rand/v2"

	"github.com/showtell/quizgen/internal/quiz"
)

// accumulator collects accepted items, keyed by normalized question text.
type accumulator struct {
	items []quiz.Item
	seen  map[string]bool
	want  int
	rng   *rand.Rand
}

func newAccumulator(have []quiz.Item, want int, rng *rand.Rand) *accumulator {
	acc := &accumulator{
		items: make([]quiz.Item, 0, max(want, len(have))),
		seen:  make(map[string]bool, want),
		want:  want,
		rng:   rng,
	}
	for _, it := range have {
		acc.items = append(acc.items, it)
		acc.seen[quiz.NormalizeQuestion(it.Question)] = true
	}
	return acc
}

func (a *accumulator) full() bool {
	return len(a.items) >= a.want
}

// add builds an item from a question, its correct answer and distractors,
// shuffles it and accepts it unless the question is already present.
func (a *accumulator) add(question, correct string, wrongs []string) bool {
	key := quiz.NormalizeQuestion(question)
	if key == "" || a.seen[key] || a.full() {
		return false
	}

	opts := uniqueOptions(correct, wrongs)
	shuffled, idx, err := quiz.Shuffle(opts, correct, a.rng)
	if err != nil {
		// Unreachable while uniqueOptions keeps correct first; drop the
		// candidate rather than emit a wrong answer key.
		return false
	}

	a.items = append(a.items, quiz.Item{
		Question:    quiz.CleanQuestion(question),
		Options:     shuffled,
		AnswerIndex: idx,
	})
	a.seen[key] = true
	return true
}

// uniqueOptions returns correct followed by distinct distractors, padded
// with fixed fillers up to three options.
func uniqueOptions(correct string, wrongs []string) []string {
	seen := make(map[string]bool, quiz.OptionCount)
	opts := make([]string, 0, quiz.OptionCount)

	push := func(o string) {
		k := quiz.OptionKey(o)
		if k == "" || seen[k] || len(opts) == quiz.OptionCount {
			return
		}
		seen[k] = true
		opts = append(opts, o)
	}

	push(correct)
	for _, w := range wrongs {
		push(w)
	}
	for _, f := range optionFillers {
		push(f)
	}
	return opts
}
