package testharness

import (
	"testing"

	"github.com/matryer/is"
)

func componentTypes(components []Component) map[string]Component {
	m := map[string]Component{}
	for _, c := range components {
		m[c.Type] = c
	}
	return m
}

func TestFlashingDescriptionDetectsAllComponents(t *testing.T) {
	is := is.New(t)

	components, mode := DetectComponents("Flash office lights every 30 seconds after 5pm for 10 minutes")

	is.Equal(len(components), 3)
	is.Equal(mode, ModeSequence)

	byType := componentTypes(components)

	delay, ok := byType[ComponentDelay]
	is.True(ok)
	is.True(delay.Nested) // the delay lives inside the repeat loop

	repeat, ok := byType[ComponentRepeat]
	is.True(ok)
	is.True(!repeat.Nested)

	timeCond, ok := byType[ComponentTimeCondition]
	is.True(ok)
	is.True(!timeCond.Nested)
}

func TestSunsetIsATimeCondition(t *testing.T) {
	is := is.New(t)

	components, mode := DetectComponents("Turn on the porch light at sunset")

	is.Equal(len(components), 1)
	is.Equal(components[0].Type, ComponentTimeCondition)
	is.Equal(mode, ModeSimple) // no delay or repeat, no sequence needed
}

func TestPlainActionHasNoComponents(t *testing.T) {
	is := is.New(t)

	components, mode := DetectComponents("Turn off the fan")

	is.Equal(len(components), 0)
	is.Equal(mode, ModeSimple)
}

func TestFuzzyMatchCatchesParaphrases(t *testing.T) {
	is := is.New(t)

	// "keeps doing that" is not an exact pattern but token-sorts close
	// enough to "keep doing this"
	components, mode := DetectComponents("Dim the lights and keeps doing that")

	is.Equal(len(components), 1)
	is.Equal(components[0].Type, ComponentRepeat)
	is.Equal(mode, ModeSequence)
}

func TestTokenSortRatioIgnoresWordOrder(t *testing.T) {
	is := is.New(t)

	is.Equal(tokenSortRatio("lights the flash", "flash the lights"), 1.0)
	is.True(tokenSortRatio("keeps doing that", "keep doing this") >= fuzzyThreshold)
	is.True(tokenSortRatio("open the window", "keep doing this") < fuzzyThreshold)
}
