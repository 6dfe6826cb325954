package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil slice", input: nil, expected: nil},
		{name: "empty slice", input: []string{}, expected: []string{}},
		{name: "keeps first occurrence", input: []string{" saksbehandler", "attestant", "saksbehandler "}, expected: []string{"saksbehandler", "attestant"}},
		{name: "drops blanks", input: []string{"", "  ", "drift"}, expected: []string{"drift"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "", Truncate("abc", 0))
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "ab", Truncate("abc", 2))
	// "ø" is two bytes; cutting inside it must drop the partial rune.
	assert.Equal(t, "s", Truncate("sø", 2))
}
