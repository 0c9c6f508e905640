package testharness

import (
	"regexp"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

const (
	ComponentDelay         = "delay"
	ComponentRepeat        = "repeat"
	ComponentTimeCondition = "time_condition"
)

const (
	ModeSimple   = "simple"
	ModeSequence = "sequence"
)

// fuzzyThreshold is the minimum token-sort ratio for a phrase to count as
// a component match.
const fuzzyThreshold = 0.6

// Component is one timing construct detected in a suggestion description.
// Nested components live inside another construct and have to be restored
// at the right depth.
type Component struct {
	Type   string `json:"type"`
	Match  string `json:"match"`
	Nested bool   `json:"nested"`
}

var exactPatterns = map[string][]*regexp.Regexp{
	ComponentDelay: {
		regexp.MustCompile(`(?i)\b(wait|delay|pause)s?\b`),
		regexp.MustCompile(`(?i)\bfor\s+\d+\s*(seconds?|minutes?|hours?)\b`),
		regexp.MustCompile(`(?i)\bafter\s+\d+\s*(seconds?|minutes?)\b`),
	},
	ComponentRepeat: {
		regexp.MustCompile(`(?i)\brepeat(s|ing|edly)?\b`),
		regexp.MustCompile(`(?i)\bevery\s+\d+\s*(seconds?|minutes?|hours?)\b`),
		regexp.MustCompile(`(?i)\b\d+\s+times\b`),
		regexp.MustCompile(`(?i)\b(flash|blink)(es|ing)?\b`),
	},
	ComponentTimeCondition: {
		regexp.MustCompile(`(?i)\b(before|after)\s+\d{1,2}(:\d{2})?\s*(am|pm)\b`),
		regexp.MustCompile(`(?i)\b(before|after|at|until)\s+(sunset|sunrise|midnight|noon|dusk|dawn)\b`),
		regexp.MustCompile(`(?i)\bat\s+\d{1,2}:\d{2}\b`),
		regexp.MustCompile(`(?i)\bbetween\s+\d{1,2}(:\d{2})?\s*(am|pm)?\s+and\b`),
	},
}

// fuzzyPhrasings are common wordings that the exact patterns miss. Matched
// with a sliding token window and the token-sort ratio.
var fuzzyPhrasings = map[string][]string{
	ComponentDelay: {
		"wait a little while",
		"after a short pause",
		"a moment later",
	},
	ComponentRepeat: {
		"over and over again",
		"keep doing this",
		"several times in a row",
	},
	ComponentTimeCondition: {
		"only in the evening",
		"late at night",
		"during the day",
	},
}

// containedBy maps a component type to the type that wraps it when both
// appear. A delay inside a repeat loop is restored inside the loop body.
var containedBy = map[string]string{
	ComponentDelay: ComponentRepeat,
}

// DetectComponents scans a suggestion description for timing constructs and
// returns them with the harness mode. Any delay or repeat forces sequence
// mode so the stripped automation keeps its step structure.
func DetectComponents(description string) ([]Component, string) {
	components := make([]Component, 0, 3)
	matched := map[string]bool{}

	for _, componentType := range []string{ComponentDelay, ComponentRepeat, ComponentTimeCondition} {
		match, ok := detectOne(description, componentType)
		if !ok {
			continue
		}

		matched[componentType] = true
		components = append(components, Component{Type: componentType, Match: match})
	}

	for i := range components {
		if container, ok := containedBy[components[i].Type]; ok && matched[container] {
			components[i].Nested = true
		}
	}

	mode := ModeSimple
	if matched[ComponentDelay] || matched[ComponentRepeat] {
		mode = ModeSequence
	}

	return components, mode
}

func detectOne(description, componentType string) (string, bool) {
	for _, re := range exactPatterns[componentType] {
		if m := re.FindString(description); m != "" {
			return m, true
		}
	}

	words := strings.Fields(strings.ToLower(description))

	for _, phrase := range fuzzyPhrasings[componentType] {
		width := len(strings.Fields(phrase))

		for i := 0; i+width <= len(words); i++ {
			window := strings.Join(words[i:i+width], " ")
			if tokenSortRatio(window, phrase) >= fuzzyThreshold {
				return window, true
			}
		}
	}

	return "", false
}

// tokenSortRatio is a word-order insensitive similarity in [0,1]: both
// sides are tokenized, sorted and rejoined before the edit distance is
// taken.
func tokenSortRatio(a, b string) float64 {
	sa := sortTokens(a)
	sb := sortTokens(b)

	longest := max(len(sa), len(sb))
	if longest == 0 {
		return 1
	}

	return 1 - float64(levenshtein.ComputeDistance(sa, sb))/float64(longest)
}

func sortTokens(s string) string {
	tokens := strings.Fields(strings.ToLower(s))
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
