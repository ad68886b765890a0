package synth

import (
	"math/rand/v2"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/showtell/quizgen/internal/facts"
	"github.com/showtell/quizgen/internal/quiz"
	"github.com/showtell/quizgen/internal/taxonomy"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func extract(caption string) facts.FactSet {
	return facts.New(taxonomy.Default()).Extract(caption)
}

func assertBatch(t *testing.T, items []quiz.Item, want int) {
	t.Helper()
	require.Len(t, items, want)
	seen := map[string]bool{}
	for _, it := range items {
		assert.Nil(t, quiz.ValidateItem(it), "invalid item %+v", it)
		key := quiz.NormalizeQuestion(it.Question)
		assert.False(t, seen[key], "duplicate question %q", it.Question)
		seen[key] = true
	}
}

func TestSynthesize_GroundedInFacts(t *testing.T) {
	s := New(taxonomy.Default())
	f := extract("A dog is running in the park. Objects: dog, ball")

	items := s.Synthesize(f, 3, seeded(1))
	assertBatch(t, items, 3)

	assert.Equal(t, "Which of these is in the picture?", items[0].Question)
	assert.Contains(t, []string{"Dog", "Ball"}, items[0].Correct())
	for _, o := range items[0].Options {
		if o != items[0].Correct() {
			assert.NotContains(t, []string{"Dog", "Ball"}, o, "distractor must not be in the picture")
		}
	}

	assert.Equal(t, "Where is this happening?", items[1].Question)
	assert.Equal(t, "In the park", items[1].Correct())

	assert.Equal(t, "What is the dog doing?", items[2].Question)
	assert.Equal(t, "Running", items[2].Correct())
}

func TestSynthesize_Deterministic(t *testing.T) {
	s := New(taxonomy.Default())
	f := extract("Two girls eating apples and bananas at the farm. Objects: apple, banana, cow, goat")

	a := s.Synthesize(f, 8, seeded(42))
	b := s.Synthesize(f, 8, seeded(42))
	assert.Equal(t, a, b)
}

func TestSynthesize_ExactCountAcrossCaptions(t *testing.T) {
	captions := []string{
		"Hmm.",
		"A dog is running in the park. Objects: dog, ball",
		"A girl reading a book under a tree",
		"Labels: apple, banana, mango",
		"Cars and buses on a busy street. Objects: car, bus, truck",
		"A cat",
		"x",
	}
	s := New(taxonomy.Default())
	for _, c := range captions {
		for n := 1; n <= 12; n++ {
			for seed := range uint64(5) {
				assertBatch(t, s.Synthesize(extract(c), n, seeded(seed)), n)
			}
		}
	}
}

func TestSynthesize_NonASCIIStaysValidUTF8(t *testing.T) {
	s := New(taxonomy.Default())
	for _, c := range []string{
		"éclairs sur la table",
		"Ölçek. Objects: éclair, ürün",
		"Ein Hund läuft über die Wiese",
	} {
		for seed := range uint64(4) {
			items := s.Synthesize(extract(c), 5, seeded(seed))
			assertBatch(t, items, 5)
			for _, it := range items {
				assert.True(t, utf8.ValidString(it.Question), "question %q", it.Question)
				for _, o := range it.Options {
					assert.True(t, utf8.ValidString(o), "option %q for caption %q", o, c)
				}
			}
		}
	}

	items := s.Synthesize(extract("éclairs sur la table"), 1, seeded(1))
	assert.Equal(t, "Éclairs sur la table.", items[0].Correct())
}

func TestSynthesize_NoFactsUsesCaptionAndMood(t *testing.T) {
	s := New(taxonomy.Default())
	items := s.Synthesize(extract("Hmm."), 3, seeded(3))
	assertBatch(t, items, 3)

	assert.Equal(t, "What is shown in the picture?", items[0].Question)
	assert.Equal(t, "Hmm.", items[0].Correct())
	assert.Equal(t, "How does the scene feel?", items[1].Question)
	assert.Equal(t, "Calm and friendly", items[1].Correct())
	assert.Equal(t, "What can you do with this picture?", items[2].Question)
}

func TestSynthesize_MajorityCategory(t *testing.T) {
	s := New(taxonomy.Default())
	// No location or action, so the summary, absence and majority
	// templates are all reached.
	f := extract("Fruit bowl. Objects: apple, banana, car")
	items := s.Synthesize(f, 4, seeded(9))
	assertBatch(t, items, 4)

	assert.Equal(t, "What things does the picture show?", items[1].Question)
	assert.Equal(t, "Apple, Banana, Car", items[1].Correct())

	assert.Equal(t, "Which of these is NOT in the picture?", items[2].Question)
	assert.NotContains(t, []string{"Apple", "Banana", "Car"}, items[2].Correct())
	assert.ElementsMatch(t, []string{"Apple", "Banana", items[2].Correct()}, items[2].Options)

	assert.Equal(t, "These things are mostly what?", items[3].Question)
	assert.Equal(t, "Fruits", items[3].Correct())
	assert.ElementsMatch(t, []string{"Fruits", "Animals", "Vehicles"}, items[3].Options)
}

func TestSynthesize_FillerNumbersPastRotation(t *testing.T) {
	s := New(taxonomy.Default())
	items := s.Synthesize(extract("Hmm."), len(moodQuestions)+3, seeded(1))
	assertBatch(t, items, len(moodQuestions)+3)

	last := items[len(items)-1].Question
	assert.True(t, strings.HasPrefix(last, "Bonus question "), "got %q", last)
}

func TestTopUp_AvoidsExistingQuestions(t *testing.T) {
	s := New(taxonomy.Default())
	f := extract("A dog is running in the park. Objects: dog, ball")
	have := []quiz.Item{{
		Question:    "Where is this happening?",
		Options:     []string{"In the park", "On the Moon", "In space"},
		AnswerIndex: 0,
	}}

	items := s.TopUp(f, have, 3, seeded(5))
	assertBatch(t, items, 3)
	assert.Equal(t, have[0], items[0])
}

func TestTopUp_AlreadyFull(t *testing.T) {
	s := New(taxonomy.Default())
	have := s.Synthesize(extract("A cat"), 3, seeded(1))
	assert.Equal(t, have[:2], s.TopUp(extract("A cat"), have, 2, seeded(1)))
}

func TestSynthesize_TinyVocabularyFallsBack(t *testing.T) {
	tax, err := taxonomy.Parse([]byte(`
animals: [dog]
fruits: [apple]
vehicles: [car]
furniture: [chair]
birds: [dog]
fish: [dog]
actions: [Running]
places: ["In the park"]
`))
	require.NoError(t, err)

	s := New(tax)
	f := facts.New(tax).Extract("A dog is running in the park. Objects: dog, apple, car, chair")
	items := s.Synthesize(f, 6, seeded(2))
	assertBatch(t, items, 6)

	// Only "dog", "apple", "car", "chair" exist and all are in the
	// picture, so the presence question falls back to fixed distractors.
	assert.ElementsMatch(t, []string{items[0].Correct(), "Robot", "Spaceship"}, items[0].Options)
}
