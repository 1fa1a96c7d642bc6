package icon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		category string
		want     Token
	}{
		{name: "specific fish beats generic", input: "Smoked Salmon", want: Icon("salmon")},
		{name: "generic fish", input: "white fish fillet", want: Icon("fish")},
		{name: "olive oil beats oil", input: "Extra Virgin Olive Oil", want: Icon("olive-oil")},
		{name: "generic oil", input: "vegetable oil", want: Icon("oil")},
		{name: "peanut butter beats butter", input: "crunchy peanut butter", want: Icon("peanut-butter")},
		{name: "eggplant beats egg", input: "eggplant", want: Icon("eggplant")},
		{name: "sweet potato beats potato", input: "sweet potatoes", want: Icon("sweet-potato")},
		{name: "pineapple beats apple", input: "pineapple chunks", want: Icon("pineapple")},
		{name: "case insensitive", input: "GARLIC", want: Icon("garlic")},
		{name: "surrounding whitespace", input: "  lemon  ", want: Icon("lemon")},
		{name: "fullwidth letters fold", input: "ｔｏｍａｔｏ", want: Icon("tomato")},
		{name: "icon rule ignores category", input: "salmon", category: "dairy", want: Icon("salmon")},
		{name: "emoji rule without category", input: "sparkling water", want: Emoji("💧")},
		{name: "emoji rule yields to category", input: "hot sauce", category: "Condiments", want: Emoji("🫙")},
		{name: "emoji rule with unknown category", input: "hot sauce", category: "misc", want: Emoji("🥫")},
		{name: "no rule uses category", input: "quinoa", category: "grains", want: Emoji("🌾")},
		{name: "category folds case", input: "quinoa", category: "  DAIRY ", want: Icon("dairy")},
		{name: "unknown everything", input: "quinoa", want: DefaultToken},
		{name: "unknown category", input: "quinoa", category: "mystery", want: DefaultToken},
		{name: "empty name", input: "", want: DefaultToken},
		{name: "empty name with category", input: "", category: "fruit", want: Emoji("🍎")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Resolve(tt.input, tt.category))
		})
	}
}

func TestResolveIsTotal(t *testing.T) {
	inputs := []string{"", " ", "\x00", "🍕", "a", "fish fish fish", "ÅÄÖ", "1/2 cup"}
	for _, in := range inputs {
		tok := Resolve(in, "")
		assert.Contains(t, []Kind{KindIcon, KindEmoji}, tok.Kind, "input %q", in)
		assert.NotEmpty(t, tok.Value, "input %q", in)
	}
}

// TestRuleOrderRegression pins the precedence pairs of the embedded table.
// A failure here means a reorder changed what users see.
func TestRuleOrderRegression(t *testing.T) {
	pairs := [][2]string{
		{"salmon", "fish"},
		{"tuna", "fish"},
		{"shellfish", "fish"},
		{"fish sauce", "fish"},
		{"olive oil", "oil"},
		{"sesame oil", "oil"},
		{"peanut butter", "butter"},
		{"buttermilk", "butter"},
		{"coconut milk", "milk"},
		{"cream cheese", "cheese"},
		{"eggplant", "egg"},
		{"sweet potato", "potato"},
		{"green onion", "onion"},
		{"bell pepper", "pepper"},
		{"peppercorn", "pepper"},
		{"green bean", "bean"},
		{"pineapple", "apple"},
		{"grapefruit", "grape"},
		{"brown sugar", "sugar"},
		{"soy sauce", "sauce"},
	}

	index := make(map[string]int)
	for i, r := range EmbeddedTable().Rules() {
		index[r.Keyword] = i
	}
	for _, p := range pairs {
		specific, ok := index[p[0]]
		if !assert.True(t, ok, "missing rule %q", p[0]) {
			continue
		}
		generic, ok := index[p[1]]
		if !assert.True(t, ok, "missing rule %q", p[1]) {
			continue
		}
		assert.Less(t, specific, generic, "%q must precede %q", p[0], p[1])
	}
}

func TestResolverMatch(t *testing.T) {
	r := NewResolver(nil)

	rule, ok := r.Match("tuna steak")
	assert.True(t, ok)
	assert.Equal(t, "tuna", rule.Keyword)
	assert.False(t, rule.EmojiOnly())

	_, ok = r.Match("")
	assert.False(t, ok)
}

func TestFallbackGlyphIsEmoji(t *testing.T) {
	assert.NotEmpty(t, FallbackGlyph)
	assert.Equal(t, KindEmoji, DefaultToken.Kind)
}
