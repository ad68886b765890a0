package facts

import (
	"regexp"
	"strings"

	"github.com/samber/lo"

	"github.com/showtell/quizgen/internal/taxonomy"
)

// maxWhereWords caps the location phrase used in questions.
const maxWhereWords = 6

// FactSet holds the lightweight cues pulled out of one caption.
// Empty string fields mean the cue was not found.
type FactSet struct {
	// Caption is the trimmed caption without its trailing period.
	Caption string

	Who    string
	Animal string

	// Action is the first present-participle token, e.g. "running".
	Action string

	// Where is WhereRaw truncated to at most six words.
	Where    string
	WhereRaw string

	// Object is the first content word outside the stoplists.
	Object string

	// Objects are distinct lower-cased nouns from an "Objects:" or
	// "Labels:" hint or supplied by the caller, in first-seen order.
	Objects []string
}

// Subject returns the thing an action question is asked about.
func (f FactSet) Subject() string {
	switch {
	case f.Who != "":
		return f.Who
	case f.Animal != "":
		return f.Animal
	case len(f.Objects) > 0:
		return f.Objects[0]
	case f.Object != "":
		return f.Object
	}
	return "character"
}

var (
	hintRe  = regexp.MustCompile(`(?i)\b(?:objects?|labels?)\s*[:\-]\s*(.+)$`)
	splitRe = regexp.MustCompile(`,|\band\b|/|\|`)
)

// Extractor derives FactSets from captions using a fixed vocabulary.
// It is safe for concurrent use.
type Extractor struct {
	tax    *taxonomy.Taxonomy
	stop   taxonomy.Set
	preps  []string
	prepRe []*regexp.Regexp
}

// New creates an Extractor over the given vocabulary.
func New(tax *taxonomy.Taxonomy) *Extractor {
	stop := taxonomy.NewSet()
	for _, s := range []taxonomy.Set{tax.PersonWords, tax.Animals, tax.FunctionWords} {
		for w := range s {
			stop[w] = struct{}{}
		}
	}

	e := &Extractor{tax: tax, stop: stop}
	for _, p := range tax.Prepositions {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		e.preps = append(e.preps, p)
		e.prepRe = append(e.prepRe, regexp.MustCompile(`\b`+regexp.QuoteMeta(p)+`\s+([\w' \-]+)`))
	}
	return e
}

// Extract pulls cues out of caption. Extra objects (for example labels from
// an object detector) are merged after the caption's own hint list.
// Extract never fails; missing cues are left empty.
func (e *Extractor) Extract(caption string, objects ...string) FactSet {
	trimmed := strings.TrimSpace(caption)
	lower := strings.ToLower(trimmed)
	tokens := tokenize(lower)

	f := FactSet{Caption: strings.TrimRight(trimmed, ".")}

	f.Who, _ = lo.Find(tokens, e.tax.IsPerson)
	for _, w := range tokens {
		if a, ok := e.animal(w); ok {
			f.Animal = a
			break
		}
	}
	f.Action, _ = lo.Find(tokens, isParticiple)

	for i, re := range e.prepRe {
		if m := re.FindStringSubmatch(lower); m != nil {
			f.WhereRaw = e.preps[i] + " " + strings.TrimSpace(m[1])
			break
		}
	}
	f.Where = f.WhereRaw
	if words := strings.Fields(f.Where); len(words) > maxWhereWords {
		f.Where = strings.Join(words[:maxWhereWords], " ")
	}

	f.Object, _ = lo.Find(tokens, func(w string) bool {
		return !e.stop.Has(w) && !isParticiple(w)
	})

	f.Objects = mergeObjects(hintObjects(lower), objects)
	return f
}

// animal matches w against the animal vocabulary, also accepting a plural
// whose singular is known.
func (e *Extractor) animal(w string) (string, bool) {
	if e.tax.IsAnimal(w) {
		return w, true
	}
	if s, ok := strings.CutSuffix(w, "s"); ok && e.tax.IsAnimal(s) {
		return s, true
	}
	return "", false
}

func tokenize(lower string) []string {
	fields := strings.Fields(lower)
	out := make([]string, 0, len(fields))
	for _, w := range fields {
		w = strings.Trim(w, ".,!?:;")
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

func isParticiple(w string) bool {
	return strings.HasSuffix(w, "ing")
}

// hintObjects parses a trailing "Objects: a, b and c" segment.
func hintObjects(lower string) []string {
	m := hintRe.FindStringSubmatch(lower)
	if m == nil {
		return nil
	}
	var out []string
	for _, p := range splitRe.Split(m[1], -1) {
		p = strings.Trim(strings.TrimSpace(p), " .!")
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func mergeObjects(lists ...[]string) []string {
	var all []string
	for _, l := range lists {
		for _, o := range l {
			o = strings.ToLower(strings.TrimSpace(o))
			if o != "" {
				all = append(all, o)
			}
		}
	}
	if len(all) == 0 {
		return nil
	}
	return lo.Uniq(all)
}
