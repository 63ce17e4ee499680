package assessment

import "strings"

// wp10Scale is the fixed total order over quality classes, from stub to
// featured article.
var wp10Scale = map[string]int{
	"stub":  0,
	"start": 1,
	"c":     2,
	"b":     3,
	"ga":    4,
	"a":     5,
	"fa":    6,
}

// ClassIndex maps a class label to its ordinal on the assessment scale.
// ok is false for labels outside the scale.
func ClassIndex(class string) (int, bool) {
	idx, ok := wp10Scale[strings.ToLower(strings.TrimSpace(class))]
	return idx, ok
}

// HighestClass returns the highest ordinal among the given assessments.
// Ratings outside the scale are ignored; ok is false when none map.
// When several projects disagree on a revision, the highest class wins.
func HighestClass(assessments []Assessment) (int, bool) {
	best := 0
	found := false
	for _, a := range assessments {
		idx, ok := ClassIndex(a.Rating)
		if !ok {
			continue
		}
		if !found || idx > best {
			best = idx
		}
		found = true
	}
	return best, found
}
