package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAbstractedString(t *testing.T) {
	text := "Fagus sylvatica in Paris"
	annotations := []*Annotation{
		{Word: Word{Begin: 0, End: 15, Text: "Fagus sylvatica"}, Type: TypePlant},
		{Word: Word{Begin: 19, End: 24, Text: "Paris"}, Type: TypeLocation},
	}
	literals := []*LiteralString{
		{Word: Word{Begin: 16, End: 18, Text: "in"}},
	}

	abstracted := AbstractedString(text, annotations, literals)

	assert.Equal(t, "{plant<0/15>} in<16/18> {location<19/24>}", abstracted)
}

func TestAbstractedStringWithoutTypeUsesText(t *testing.T) {
	text := "Fagus"
	annotations := []*Annotation{
		{Word: Word{Begin: 0, End: 5, Text: "Fagus"}},
	}

	abstracted := AbstractedString(text, annotations, nil)

	assert.Equal(t, "{Fagus<0/5>}", abstracted)
}

func TestAbstractedStringWithoutElementsReturnsOriginal(t *testing.T) {
	assert.Equal(t, "Fagus sylvatica", AbstractedString("Fagus sylvatica", nil, nil))
}

func TestReplaceSubstringBetween(t *testing.T) {
	result := ReplaceSubstringBetween("Fagus in Paris", "dort", 9, 14)
	assert.Equal(t, "Fagus in dort", result)
}

func TestReplaceSubstringBetweenCountsCharacters(t *testing.T) {
	// Offsets refer to characters, so umlauts before the span must not
	// shift the replacement.
	result := ReplaceSubstringBetween("Blüten rot", "gelb", 7, 10)
	assert.Equal(t, "Blüten gelb", result)
}

func TestReplaceSubstringBetweenClampsOutOfRange(t *testing.T) {
	assert.Equal(t, "xyz", ReplaceSubstringBetween("abc", "xyz", 0, 99))
}
