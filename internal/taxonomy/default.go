package taxonomy

// Default returns the built-in vocabulary for picture-book scenes.
func Default() *Taxonomy {
	fruits := NewSet(
		"apple", "banana", "orange", "mango", "grape", "strawberry", "pineapple",
		"watermelon", "lemon", "lime", "pear", "peach", "cherry", "tomato", "coconut",
		"papaya", "guava", "kiwi", "plum", "pomegranate", "avocado",
	)
	animals := NewSet("dog", "cat", "bird", "rabbit", "horse", "cow", "sheep", "goat", "duck", "fish")
	vehicles := NewSet("car", "bus", "bicycle", "train", "boat", "airplane", "truck", "motorcycle", "van", "ship")

	t := &Taxonomy{
		PersonWords: NewSet("man", "woman", "boy", "girl", "child", "person", "people"),
		Animals:     animals,
		Fruits:      fruits,
		Vehicles:    vehicles,
		Furniture:   NewSet("chair", "table", "bed", "sofa", "lamp"),
		Birds: NewSet(
			"bird", "eagle", "owl", "penguin", "parrot", "peacock", "duck", "chicken",
			"seagull", "sparrow", "pigeon", "crow", "flamingo",
		),
		Fish: NewSet("fish", "whale", "dolphin", "goldfish", "salmon", "shark", "ray"),
		FunctionWords: NewSet(
			"a", "an", "the", "and", "of", "to", "with", "without", "while",
			"on", "in", "at", "near", "by", "around", "beside", "under", "inside",
			"is", "are", "was", "were", "be", "its", "it", "this", "that", "there",
			"some", "two", "three", "his", "her", "their", "from", "for",
			"object", "objects", "label", "labels",
		),
		Prepositions: []string{"around", "near", "beside", "by", "on", "in", "at", "under", "inside"},
		Actions:      []string{"Sleeping", "Running", "Drawing", "Reading", "Dancing", "Singing", "Jumping", "Playing"},
		Places:       []string{"Under the ocean", "On the Moon", "Inside a volcano", "In space"},
		Categories: []Category{
			{Name: "Fruits", Words: fruits},
			{Name: "Animals", Words: animals},
			{Name: "Vehicles", Words: vehicles},
		},
	}
	return t.finalize()
}
