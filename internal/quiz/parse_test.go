package quiz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wellFormed = `Here is your quiz!

1) What animal is in the picture
A) Dog.
B) Cat
C) Fish
Answer: A

2. Where is the dog?
A. In the park
B. On the Moon
C. Under the ocean
Correct - a

3: What is the dog doing?
a) Sleeping
b) Running
c) Reading
Answer: B
Have fun!`

func TestParse_WellFormed(t *testing.T) {
	items := Parse(wellFormed, 3)
	require.Len(t, items, 3)

	assert.Equal(t, Item{
		Question:    "What animal is in the picture?",
		Options:     []string{"Dog", "Cat", "Fish"},
		AnswerIndex: 0,
	}, items[0])
	assert.Equal(t, "Where is the dog?", items[1].Question)
	assert.Equal(t, 0, items[1].AnswerIndex)
	assert.Equal(t, "Running", items[2].Correct())
}

func TestParse_MissingAnswerDropsExactlyOneGroup(t *testing.T) {
	text := strings.Replace(wellFormed, "Correct - a\n", "", 1)
	items := Parse(text, 3)
	require.Len(t, items, 2)
	assert.Equal(t, "What animal is in the picture?", items[0].Question)
	assert.Equal(t, "What is the dog doing?", items[1].Question)
}

func TestParse_TruncatesToExpected(t *testing.T) {
	items := Parse(wellFormed, 2)
	require.Len(t, items, 2)
	assert.Equal(t, "Where is the dog?", items[1].Question)
}

func TestParse_ExtraOptionsIgnored(t *testing.T) {
	items := Parse("1) Pick one\nA) x\nB) y\nC) z\nC) w\nAnswer: C", 1)
	require.Len(t, items, 1)
	assert.Equal(t, []string{"x", "y", "z"}, items[0].Options)
	assert.Equal(t, 2, items[0].AnswerIndex)
}

func TestParse_TooFewOptionsDropped(t *testing.T) {
	items := Parse("1) Pick one\nA) x\nB) y\nAnswer: A\n2) Next\nA) p\nB) q\nC) r\nAnswer: B", 3)
	require.Len(t, items, 1)
	assert.Equal(t, "Next?", items[0].Question)
}

func TestParse_IgnoresLinesBeforeFirstQuestion(t *testing.T) {
	items := Parse("A) stray\nAnswer: A\n1) Real?\nA) a\nB) b\nC) c\nAnswer: C", 3)
	require.Len(t, items, 1)
	assert.Equal(t, []string{"a", "b", "c"}, items[0].Options)
}

func TestParse_UnparsableAnswerLeavesGroupUnresolved(t *testing.T) {
	items := Parse("1) Q\nA) a\nB) b\nC) c\nAnswer: D", 1)
	assert.Empty(t, items)

	items = Parse("1) Q\nA) a\nB) b\nC) c\nAnswer: Banana", 1)
	assert.Empty(t, items)
}

func TestParse_Garbage(t *testing.T) {
	assert.Empty(t, Parse("", 3))
	assert.Empty(t, Parse("no quiz here\njust prose", 3))
	assert.Empty(t, Parse("1)\nA)\n", 3))
}

func TestParse_CleansOptionsAndQuestion(t *testing.T) {
	items := Parse("1) ???\nA) ...\nB)  Blue . \nC) Red\nAnswer: b", 1)
	require.Len(t, items, 1)
	assert.Equal(t, "What is happening in the caption?", items[0].Question)
	assert.Equal(t, []string{"Option", "Blue", "Red"}, items[0].Options)
	assert.Equal(t, 1, items[0].AnswerIndex)
}

func TestFormat_RoundTrip(t *testing.T) {
	items := []Item{
		{Question: "Which of these is in the picture?", Options: []string{"Ball", "Truck", "Owl"}, AnswerIndex: 0},
		{Question: "Where is this happening?", Options: []string{"On the Moon", "In the park", "In space"}, AnswerIndex: 1},
	}
	assert.Equal(t, items, Parse(Format(items), 2))
}
