package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trim spaces", input: "  Garlic  ", want: "garlic"},
		{name: "lowercase", input: "Olive Oil", want: "olive oil"},
		{name: "inner spacing kept", input: "olive  oil", want: "olive  oil"},
		{name: "fullwidth letters", input: "Ｓａｌｍｏｎ", want: "salmon"},
		{name: "diacritics preserved", input: "Crème Fraîche", want: "crème fraîche"},
		{name: "sharp s kept", input: "Straße", want: "straße"},
		{name: "uppercase umlaut", input: "ÄPFEL", want: "äpfel"},
		{name: "empty", input: "", want: ""},
		{name: "only spaces", input: "   ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Key(tt.input))
		})
	}
}

func TestContainsAndEqual(t *testing.T) {
	assert.True(t, Contains("Extra Virgin Olive Oil", "olive"))
	assert.True(t, Contains("anything", ""))
	assert.False(t, Contains("Butter", "oil"))

	assert.True(t, Equal("Olive", "oLIVE"))
	assert.False(t, Equal("Olive", "Olive Oil"))

	// Lower-casing does not expand letters.
	assert.False(t, Equal("Strasse", "Straße"))
	assert.False(t, Contains("Strasse", "ß"))
	assert.True(t, Equal("STRASSE", "strasse"))
}
