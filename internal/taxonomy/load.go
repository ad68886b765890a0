package taxonomy

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileFormat is the YAML layout of a vocabulary file. Every key is optional;
// omitted tables keep their built-in defaults.
type fileFormat struct {
	PersonWords   []string       `yaml:"person_words"`
	Animals       []string       `yaml:"animals"`
	Fruits        []string       `yaml:"fruits"`
	Vehicles      []string       `yaml:"vehicles"`
	Furniture     []string       `yaml:"furniture"`
	Birds         []string       `yaml:"birds"`
	Fish          []string       `yaml:"fish"`
	FunctionWords []string       `yaml:"function_words"`
	Prepositions  []string       `yaml:"prepositions"`
	Actions       []string       `yaml:"actions"`
	Places        []string       `yaml:"places"`
	Categories    []categoryFile `yaml:"categories"`
}

type categoryFile struct {
	Name  string   `yaml:"name"`
	Words []string `yaml:"words"`
}

// Load reads a YAML vocabulary file and overlays it on Default.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse taxonomy %s: %w", path, err)
	}
	return t, nil
}

// Parse decodes YAML vocabulary data and overlays it on Default.
func Parse(data []byte) (*Taxonomy, error) {
	var f fileFormat
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, err
	}

	t := Default()
	overlaySet(&t.PersonWords, f.PersonWords)
	overlaySet(&t.Animals, f.Animals)
	overlaySet(&t.Fruits, f.Fruits)
	overlaySet(&t.Vehicles, f.Vehicles)
	overlaySet(&t.Furniture, f.Furniture)
	overlaySet(&t.Birds, f.Birds)
	overlaySet(&t.Fish, f.Fish)
	overlaySet(&t.FunctionWords, f.FunctionWords)
	if len(f.Prepositions) > 0 {
		t.Prepositions = f.Prepositions
	}
	if len(f.Actions) > 0 {
		t.Actions = f.Actions
	}
	if len(f.Places) > 0 {
		t.Places = f.Places
	}

	if len(f.Categories) > 0 {
		t.Categories = t.Categories[:0:0]
		for _, c := range f.Categories {
			if c.Name == "" {
				return nil, fmt.Errorf("category without a name")
			}
			t.Categories = append(t.Categories, Category{Name: c.Name, Words: NewSet(c.Words...)})
		}
	} else {
		// Default categories point at the default sets; follow overrides.
		t.Categories = []Category{
			{Name: "Fruits", Words: t.Fruits},
			{Name: "Animals", Words: t.Animals},
			{Name: "Vehicles", Words: t.Vehicles},
		}
	}

	return t.finalize(), nil
}

func overlaySet(dst *Set, words []string) {
	if len(words) > 0 {
		*dst = NewSet(words...)
	}
}
