package facts

import "strings"

// maxHintObjects limits how many objects are listed in a hint line.
const maxHintObjects = 5

// HintLine renders f as a single grounding line for backend prompts:
//
//	Hints: Person: girl, Animal: dog, Action: running, Place: in the park, Objects: dog, ball
func HintLine(f FactSet) string {
	var hints []string
	if f.Who != "" {
		hints = append(hints, "Person: "+f.Who)
	}
	if f.Animal != "" {
		hints = append(hints, "Animal: "+f.Animal)
	}
	if f.Action != "" {
		hints = append(hints, "Action: "+f.Action)
	}
	if f.WhereRaw != "" {
		hints = append(hints, "Place: "+f.WhereRaw)
	}
	if len(f.Objects) > 0 {
		objs := f.Objects
		if len(objs) > maxHintObjects {
			objs = objs[:maxHintObjects]
		}
		hints = append(hints, "Objects: "+strings.Join(objs, ", "))
	}
	if len(hints) == 0 {
		return "Hints: Keep questions simple (who/what, where, how it feels)."
	}
	return "Hints: " + strings.Join(hints, ", ")
}
