package taxonomy

import (
	"sort"
	"strings"
)

// Set is an immutable lower-cased word set.
type Set map[string]struct{}

// NewSet builds a Set from words, lower-casing and trimming each one.
// Empty words are skipped.
func NewSet(words ...string) Set {
	s := make(Set, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		s[w] = struct{}{}
	}
	return s
}

// Has reports whether w (case-insensitive) is in the set.
func (s Set) Has(w string) bool {
	_, ok := s[strings.ToLower(w)]
	return ok
}

// Sorted returns the words in lexical order. Sorting keeps every consumer
// deterministic for a fixed random seed.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for w := range s {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of words.
func (s Set) Len() int { return len(s) }

// Category is a named word class used for "mostly what?" questions.
type Category struct {
	Name  string
	Words Set
}

// Taxonomy holds the vocabulary tables used by fact extraction and question
// synthesis. A Taxonomy must not be modified after construction; it is
// shared by concurrent generate calls.
type Taxonomy struct {
	PersonWords   Set
	Animals       Set
	Fruits        Set
	Vehicles      Set
	Furniture     Set
	Birds         Set
	Fish          Set
	FunctionWords Set

	// Prepositions are scanned in order when looking for a location phrase.
	Prepositions []string

	// Actions is the distractor pool for "What is X doing?" questions.
	Actions []string

	// Places are implausible locations used as location distractors.
	Places []string

	// Categories is the ordered list of majority categories.
	Categories []Category

	crossCategory []string
}

// CrossCategory returns the sorted union of fruits, animals, vehicles,
// furniture, birds and fish. The slice is shared; callers must copy it
// before mutating.
func (t *Taxonomy) CrossCategory() []string {
	return t.crossCategory
}

// IsPerson reports whether w is a person word.
func (t *Taxonomy) IsPerson(w string) bool { return t.PersonWords.Has(w) }

// IsAnimal reports whether w is an animal word.
func (t *Taxonomy) IsAnimal(w string) bool { return t.Animals.Has(w) }

// Warnings lists tables that are too small to supply two distinct
// distractors. Synthesis still works with such tables but falls back to
// fixed filler options more often.
func (t *Taxonomy) Warnings() []string {
	var out []string
	if len(t.crossCategory) < 3 {
		out = append(out, "cross-category vocabulary has fewer than 3 words")
	}
	if len(t.Actions) < 3 {
		out = append(out, "action vocabulary has fewer than 3 words")
	}
	if len(t.Places) < 2 {
		out = append(out, "place vocabulary has fewer than 2 entries")
	}
	if len(t.Categories) < 3 {
		out = append(out, "fewer than 3 majority categories")
	}
	for _, c := range t.Categories {
		if c.Words.Len() < 2 {
			out = append(out, "category "+c.Name+" has fewer than 2 words")
		}
	}
	return out
}

// finalize computes derived tables. It is called once by every constructor.
func (t *Taxonomy) finalize() *Taxonomy {
	union := NewSet()
	for _, s := range []Set{t.Fruits, t.Animals, t.Vehicles, t.Furniture, t.Birds, t.Fish} {
		for w := range s {
			union[w] = struct{}{}
		}
	}
	t.crossCategory = union.Sorted()
	return t
}
