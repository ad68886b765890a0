package quiz

import "math/rand/v2"

// Shuffle returns a random permutation of options and the index of correct
// in it. Matching is case-insensitive after trimming. The input slice is
// not modified. It returns ErrShuffleMismatch if correct is not among the
// options.
func Shuffle(options []string, correct string, rng *rand.Rand) ([]string, int, error) {
	out := make([]string, len(options))
	copy(out, options)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })

	want := OptionKey(correct)
	for i, o := range out {
		if OptionKey(o) == want {
			return out, i, nil
		}
	}
	return nil, 0, ErrShuffleMismatch
}

// ShuffleItem permutes the options of it while keeping its answer correct.
func ShuffleItem(it Item, rng *rand.Rand) (Item, error) {
	opts, idx, err := Shuffle(it.Options, it.Correct(), rng)
	if err != nil {
		return it, err
	}
	return Item{Question: it.Question, Options: opts, AnswerIndex: idx}, nil
}
