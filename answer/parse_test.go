package answer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAnswer_Letters(t *testing.T) {
	for raw, want := range map[string]string{
		"A":              "A",
		"b":              "B",
		"  c  ":          "C",
		"D) vì điều này": "D",
	} {
		letter, ok := ParseAnswer(raw, DigitOffset)
		assert.True(t, ok, "raw %q", raw)
		assert.Equal(t, want, letter, "raw %q", raw)
	}
}

func TestParseAnswer_DigitOffset(t *testing.T) {
	letter, ok := ParseAnswer("1", DigitOffset)
	assert.True(t, ok)
	assert.Equal(t, "B", letter)

	letter, ok = ParseAnswer("4", DigitOffset)
	assert.True(t, ok)
	assert.Equal(t, "E", letter)
}

func TestParseAnswer_DigitOrdinal(t *testing.T) {
	letter, ok := ParseAnswer("1", DigitOrdinal)
	assert.True(t, ok)
	assert.Equal(t, "A", letter)

	letter, ok = ParseAnswer("4", DigitOrdinal)
	assert.True(t, ok)
	assert.Equal(t, "D", letter)
}

func TestParseAnswer_Unusable(t *testing.T) {
	for _, raw := range []string{"", "   ", "0", "?", "-", "(A)"} {
		_, ok := ParseAnswer(raw, DigitOffset)
		assert.False(t, ok, "raw %q", raw)
	}
}
