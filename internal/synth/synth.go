// Package synth builds quiz items directly from extracted caption facts.
//
// The synthesizer is the last tier of the generation cascade and cannot
// fail: it always returns exactly the requested number of valid items,
// degrading to generic filler questions when the caption carries few facts.
// It performs no I/O, so a call runs to completion once started.
package synth

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"

	"github.com/samber/lo"

	"github.com/showtell/quizgen/internal/facts"
	"github.com/showtell/quizgen/internal/quiz"
	"github.com/showtell/quizgen/internal/taxonomy"
)

// Fixed option texts used when the vocabulary cannot supply enough
// distinct distractors.
var (
	optionFillers      = []string{"Something else", "Not sure", "I forget"}
	distractorFallback = []string{"Robot", "Spaceship"}
	placeFallback      = []string{"Under the ocean", "On the Moon"}
	actionFallback     = []string{"Sleeping", "Running"}
)

// fillerPhrasings rotate when the filler loop asks about a random object.
var fillerPhrasings = []string{
	"Which item do you see?",
	"Which thing can you spot?",
	"Which is present in the picture?",
	"Can you find one of these in the picture?",
	"Which one belongs in this scene?",
}

type moodQuestion struct {
	question string
	correct  string
	wrongs   []string
}

// moodQuestions are used when a caption yields no objects at all.
var moodQuestions = []moodQuestion{
	{"How does the scene feel?", "Calm and friendly", []string{"Very scary", "As loud as a concert"}},
	{"What can you do with this picture?", "Talk about what you see", []string{"Eat it for lunch", "Drive it to school"}},
	{"Who could enjoy looking at this picture?", "Children and families", []string{"Only robots", "Nobody at all"}},
	{"What is a good way to look at this picture?", "Slowly and carefully", []string{"With eyes closed", "Upside down in the dark"}},
}

// Synthesizer generates fact-grounded quiz items. It is safe for
// concurrent use; all randomness comes from the caller's rng.
type Synthesizer struct {
	tax *taxonomy.Taxonomy
}

// New creates a Synthesizer over the given vocabulary.
func New(tax *taxonomy.Taxonomy) *Synthesizer {
	return &Synthesizer{tax: tax}
}

// Synthesize returns exactly expected items built from f.
// Results are deterministic for a given f, expected and rng state.
func (s *Synthesizer) Synthesize(f facts.FactSet, expected int, rng *rand.Rand) []quiz.Item {
	return s.TopUp(f, nil, expected, rng)
}

// TopUp returns have extended with synthesized items until it holds
// expected items. New questions never repeat a question already in have.
// If have already holds expected or more items it is returned truncated.
func (s *Synthesizer) TopUp(f facts.FactSet, have []quiz.Item, expected int, rng *rand.Rand) []quiz.Item {
	acc := newAccumulator(have, expected, rng)
	if acc.full() {
		return acc.items[:expected]
	}

	s.presence(acc, f)
	s.location(acc, f)
	s.action(acc, f)
	s.summary(acc, f)
	s.absence(acc, f)
	s.majority(acc, f)
	s.filler(acc, f)

	return acc.items
}

// presence: "Which of these is in the picture?"
func (s *Synthesizer) presence(acc *accumulator, f facts.FactSet) {
	if acc.full() || len(f.Objects) == 0 {
		return
	}
	correct := quiz.Capitalize(f.Objects[acc.rng.IntN(len(f.Objects))])
	acc.add("Which of these is in the picture?", correct, s.absentWords(acc.rng, f.Objects, 2))
}

// location: "Where is this happening?"
func (s *Synthesizer) location(acc *accumulator, f facts.FactSet) {
	if acc.full() || f.Where == "" {
		return
	}
	place := normalizeWhere(f.Where)
	lp := strings.ToLower(place)
	wrongs := lo.Filter(s.tax.Places, func(p string, _ int) bool {
		return !strings.Contains(strings.ToLower(p), lp)
	})
	if len(wrongs) < 2 {
		wrongs = placeFallback
	}
	acc.add("Where is this happening?", place, wrongs[:2])
}

// action: "What is the <subject> doing?"
func (s *Synthesizer) action(acc *accumulator, f facts.FactSet) {
	if acc.full() || f.Action == "" {
		return
	}
	correct := quiz.Capitalize(f.Action)
	pool := lo.Filter(s.tax.Actions, func(a string, _ int) bool {
		return !strings.EqualFold(a, f.Action)
	})
	pool = shuffled(acc.rng, pool)
	wrongs := actionFallback
	if len(pool) >= 2 {
		wrongs = pool[:2]
	}
	acc.add(fmt.Sprintf("What is the %s doing?", strings.ToLower(f.Subject())), correct, wrongs)
}

// summary describes the whole picture, from objects when known or from
// the caption itself.
func (s *Synthesizer) summary(acc *accumulator, f facts.FactSet) {
	if acc.full() {
		return
	}
	if len(f.Objects) > 0 {
		first := f.Objects[:min(3, len(f.Objects))]
		correct := strings.Join(lo.Map(first, func(o string, _ int) string { return quiz.Capitalize(o) }), ", ")
		acc.add("What things does the picture show?", correct, []string{"Only stars in space", "Nothing at all"})
		return
	}
	correct := "A simple scene."
	if f.Caption != "" {
		correct = quiz.Capitalize(f.Caption) + "."
	}
	acc.add("What is shown in the picture?", correct, []string{"A rocket in space.", "Nothing at all."})
}

// absence: "Which of these is NOT in the picture?"
func (s *Synthesizer) absence(acc *accumulator, f facts.FactSet) {
	if acc.full() || len(f.Objects) < 2 {
		return
	}
	notThere := s.absentWords(acc.rng, f.Objects, 1)[0]
	wrongs := []string{quiz.Capitalize(f.Objects[0]), quiz.Capitalize(f.Objects[1])}
	acc.add("Which of these is NOT in the picture?", notThere, wrongs)
}

// majority: "These things are mostly what?" when two or more objects share
// a category.
func (s *Synthesizer) majority(acc *accumulator, f facts.FactSet) {
	if acc.full() || len(s.tax.Categories) == 0 {
		return
	}
	best, bestCount := -1, 0
	for i, c := range s.tax.Categories {
		n := lo.CountBy(f.Objects, c.Words.Has)
		if n > bestCount {
			best, bestCount = i, n
		}
	}
	if bestCount < 2 {
		return
	}
	others := make([]string, 0, len(s.tax.Categories)-1)
	for i, c := range s.tax.Categories {
		if i != best {
			others = append(others, c.Name)
		}
	}
	others = shuffled(acc.rng, others)
	acc.add("These things are mostly what?", s.tax.Categories[best].Name, others[:min(2, len(others))])
}

// filler keeps producing questions until the accumulator is full. Each
// pass uses a fresh phrasing; once the rotation is exhausted the phrasings
// are numbered, so every pass yields a new question text.
func (s *Synthesizer) filler(acc *accumulator, f facts.FactSet) {
	for round := 0; !acc.full(); round++ {
		if len(f.Objects) > 0 {
			phr := fillerPhrasings[round%len(fillerPhrasings)]
			correct := f.Objects[acc.rng.IntN(len(f.Objects))]
			acc.add(numbered(phr, round, len(fillerPhrasings)), quiz.Capitalize(correct), s.absentWords(acc.rng, f.Objects, 2))
			continue
		}
		m := moodQuestions[round%len(moodQuestions)]
		acc.add(numbered(m.question, round, len(moodQuestions)), m.correct, m.wrongs)
	}
}

// absentWords draws n capitalized vocabulary words not in objects.
func (s *Synthesizer) absentWords(rng *rand.Rand, objects []string, n int) []string {
	pool := shuffled(rng, lo.Without(s.tax.CrossCategory(), objects...))
	if len(pool) < n {
		return distractorFallback
	}
	return lo.Map(pool[:n], func(w string, _ int) string { return quiz.Capitalize(w) })
}

func numbered(q string, round, rotation int) string {
	if round < rotation {
		return q
	}
	return fmt.Sprintf("Bonus question %d: %s", round-rotation+1, q)
}

// shuffled returns a shuffled copy of in.
func shuffled(rng *rand.Rand, in []string) []string {
	out := append([]string(nil), in...)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

var multiSpaceRe = regexp.MustCompile(`\s{2,}`)

func normalizeWhere(w string) string {
	w = multiSpaceRe.ReplaceAllString(strings.TrimSpace(w), " ")
	if w == "" {
		return "A familiar place"
	}
	return quiz.Capitalize(w)
}
