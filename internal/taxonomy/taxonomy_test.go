package taxonomy

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_CrossCategorySortedAndUnique(t *testing.T) {
	tax := Default()
	cc := tax.CrossCategory()

	require.NotEmpty(t, cc)
	assert.True(t, sort.StringsAreSorted(cc), "cross-category vocabulary must be sorted")

	seen := map[string]bool{}
	for _, w := range cc {
		assert.False(t, seen[w], "duplicate word %q", w)
		seen[w] = true
	}
	// "duck" is both an animal and a bird; it must appear once.
	assert.True(t, seen["duck"])
	assert.True(t, seen["sofa"])
	assert.True(t, seen["shark"])
}

func TestDefault_NoWarnings(t *testing.T) {
	assert.Empty(t, Default().Warnings())
}

func TestSet_HasIsCaseInsensitive(t *testing.T) {
	s := NewSet(" Dog ", "CAT", "")
	assert.True(t, s.Has("dog"))
	assert.True(t, s.Has("Cat"))
	assert.False(t, s.Has(""))
	assert.Equal(t, 2, s.Len())
}

func TestParse_OverlaysTables(t *testing.T) {
	tax, err := Parse([]byte(`
animals: [lion, tiger]
places: ["On a cloud", "In a teacup"]
`))
	require.NoError(t, err)

	assert.True(t, tax.IsAnimal("lion"))
	assert.False(t, tax.IsAnimal("dog"))
	assert.Equal(t, []string{"On a cloud", "In a teacup"}, tax.Places)
	// Untouched tables keep defaults.
	assert.True(t, tax.IsPerson("girl"))
	// Default categories follow the overridden animal set.
	require.Len(t, tax.Categories, 3)
	assert.True(t, tax.Categories[1].Words.Has("tiger"))
	assert.Contains(t, tax.CrossCategory(), "lion")
}

func TestParse_CustomCategories(t *testing.T) {
	tax, err := Parse([]byte(`
categories:
  - name: Toys
    words: [ball, doll]
`))
	require.NoError(t, err)
	require.Len(t, tax.Categories, 1)
	assert.Equal(t, "Toys", tax.Categories[0].Name)
	assert.Contains(t, tax.Warnings(), "fewer than 3 majority categories")
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte(`planets: [mars]`))
	assert.Error(t, err)
}

func TestParse_RejectsUnnamedCategory(t *testing.T) {
	_, err := Parse([]byte("categories:\n  - words: [a, b]\n"))
	assert.Error(t, err)
}

func TestWarnings_TinyVocabulary(t *testing.T) {
	tax, err := Parse([]byte(`
animals: [dog]
fruits: [apple]
vehicles: [car]
furniture: [chair]
birds: [owl]
fish: [shark]
actions: [Running]
`))
	require.NoError(t, err)
	w := tax.Warnings()
	assert.Contains(t, w, "action vocabulary has fewer than 3 words")
	assert.Contains(t, w, "category Animals has fewer than 2 words")
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fish: [eel]\n"), 0o644))

	tax, err := Load(path)
	require.NoError(t, err)
	assert.True(t, tax.Fish.Has("eel"))

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
