package quiz

import "strings"

// Validator checks a single item before it is returned to a caller.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for this validator, e.g. "structural".
	Name() string

	// Validate returns nil if the item passes.
	Validate(it Item) *ValidationError
}

// DefaultValidators is the chain every returned item goes through.
func DefaultValidators() []Validator {
	return []Validator{
		&StructuralValidator{},
		&DistinctOptionsValidator{},
	}
}

// StructuralValidator checks question text, option count and answer range.
type StructuralValidator struct{}

// Name identifies the validator in a ValidationError.
func (v *StructuralValidator) Name() string { return "structural" }

// Validate checks the question text, option count and answer index.
func (v *StructuralValidator) Validate(it Item) *ValidationError {
	q := strings.TrimSpace(it.Question)
	if q == "" || q == "?" {
		return &ValidationError{Validator: v.Name(), Message: "question is empty"}
	}
	if !strings.HasSuffix(q, "?") {
		return &ValidationError{Validator: v.Name(), Message: "question must end with \"?\""}
	}
	if len(it.Options) != OptionCount {
		return &ValidationError{Validator: v.Name(), Message: "exactly 3 options are required"}
	}
	if it.AnswerIndex < 0 || it.AnswerIndex >= OptionCount {
		return &ValidationError{Validator: v.Name(), Message: "answer_index must be 0, 1 or 2"}
	}
	return nil
}

// DistinctOptionsValidator rejects items with blank or repeated options,
// compared case-insensitively after trimming.
type DistinctOptionsValidator struct{}

// Name identifies the validator in a ValidationError.
func (v *DistinctOptionsValidator) Name() string { return "distinct-options" }

// Validate rejects items whose options collide after normalization.
func (v *DistinctOptionsValidator) Validate(it Item) *ValidationError {
	seen := make(map[string]bool, len(it.Options))
	for _, o := range it.Options {
		k := OptionKey(o)
		if k == "" {
			return &ValidationError{Validator: v.Name(), Message: "option is empty"}
		}
		if seen[k] {
			return &ValidationError{Validator: v.Name(), Message: "duplicate option " + o}
		}
		seen[k] = true
	}
	return nil
}

// ValidateItem runs the default validator chain; the first failure wins.
func ValidateItem(it Item) *ValidationError {
	for _, v := range DefaultValidators() {
		if err := v.Validate(it); err != nil {
			return err
		}
	}
	return nil
}

// FilterBatch keeps, in order, the items that pass the default validators
// and whose normalized question has not been seen earlier in the batch.
// At most limit items are kept (limit <= 0 means no limit). It returns the
// kept items and the number of items rejected.
func FilterBatch(items []Item, limit int) ([]Item, int) {
	kept := make([]Item, 0, len(items))
	seen := make(map[string]bool, len(items))
	dropped := 0
	for _, it := range items {
		if limit > 0 && len(kept) == limit {
			break
		}
		if ValidateItem(it) != nil {
			dropped++
			continue
		}
		key := NormalizeQuestion(it.Question)
		if seen[key] {
			dropped++
			continue
		}
		seen[key] = true
		kept = append(kept, it)
	}
	return kept, dropped
}
