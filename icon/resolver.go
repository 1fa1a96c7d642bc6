// Package icon picks the icon or emoji an ingredient is drawn with.
//
// Resolution scans an ordered keyword table and returns the first rule whose
// keyword occurs in the ingredient name. Order is part of the behavior:
// "smoked salmon" resolves through "salmon" only because "salmon" is listed
// before "fish". The table ships embedded (tables/icons.toml) and may be
// replaced at startup by a file with a compatible major version.
package icon

import (
	"strings"

	"github.com/teranos/larder/normalize"
)

// DefaultGlyph is returned when neither a keyword nor the category matches.
const DefaultGlyph = "🍽️"

// FallbackGlyph is what renderers draw when an Icon token's asset fails to
// load. Resolve never returns it; it is published for consumers.
const FallbackGlyph = "🍽️"

// DefaultToken is the token for unrecognized ingredients.
var DefaultToken = Emoji(DefaultGlyph)

// Resolver resolves names against one table.
type Resolver struct {
	table *Table
}

// NewResolver returns a resolver over t. A nil t uses the embedded table.
func NewResolver(t *Table) *Resolver {
	if t == nil {
		t = embedded
	}
	return &Resolver{table: t}
}

// Table returns the resolver's table.
func (r *Resolver) Table() *Table { return r.table }

var defaultResolver = NewResolver(nil)

// Resolve uses the embedded table. See (*Resolver).Resolve.
func Resolve(name, category string) Token {
	return defaultResolver.Resolve(name, category)
}

// Resolve returns the token for an ingredient. It never fails:
//
//  1. the first rule whose keyword is in the folded name decides, if it has an icon;
//  2. otherwise a known category wins;
//  3. otherwise an emoji-only rule's emoji;
//  4. otherwise DefaultToken.
func (r *Resolver) Resolve(name, category string) Token {
	matched, ok := r.Match(name)
	if ok && !matched.EmojiOnly() {
		return matched.Result
	}
	if category != "" {
		if tok, found := r.table.Category(category); found {
			return tok
		}
	}
	if ok {
		return matched.Result
	}
	return DefaultToken
}

// Match returns the first rule whose keyword occurs in name.
func (r *Resolver) Match(name string) (Rule, bool) {
	folded := normalize.Key(name)
	if folded == "" {
		return Rule{}, false
	}
	for _, rule := range r.table.rules {
		if strings.Contains(folded, rule.Keyword) {
			return rule, true
		}
	}
	return Rule{}, false
}
