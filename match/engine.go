// Package match implements ingredient autocomplete: filtering a candidate
// list by the typed text, flagging an exact match, offering a "create new"
// entry, and moving a highlight cursor over the result.
//
// Engine.Query is a pure function of its inputs. Session layers the
// keyboard and focus state machine of an input field on top of it.
package match

import (
	"strings"

	"github.com/teranos/larder/errors"
	"github.com/teranos/larder/normalize"
)

// NoHighlight is Result.Highlighted for an empty list.
const NoHighlight = -1

// Candidate is an ingredient the user may pick.
type Candidate struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// EmptyQueryMode decides what an empty query shows. It has no default; the
// zero value is invalid.
type EmptyQueryMode int

const (
	// EmptyShowAll lists every candidate before anything is typed.
	EmptyShowAll EmptyQueryMode = iota + 1
	// EmptyShowNone lists nothing until the user types.
	EmptyShowNone
)

func (m EmptyQueryMode) String() string {
	switch m {
	case EmptyShowAll:
		return "all"
	case EmptyShowNone:
		return "none"
	default:
		return "unset"
	}
}

// ParseEmptyQueryMode maps the config spelling ("all" or "none") to a mode.
func ParseEmptyQueryMode(s string) (EmptyQueryMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all":
		return EmptyShowAll, nil
	case "none":
		return EmptyShowNone, nil
	default:
		return 0, errors.WithHint(
			errors.NewInvalidRequestf("unknown empty query mode %q", s),
			`use "all" or "none"`)
	}
}

// Engine filters candidates. It holds configuration only and is safe for
// concurrent use.
type Engine struct {
	mode       EmptyQueryMode
	maxResults int
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxResults caps the number of existing-candidate rows. Zero or less
// means unlimited. The create-new row is never counted.
func WithMaxResults(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxResults = n
		}
	}
}

// NewEngine returns an engine with the given empty-query behavior.
func NewEngine(mode EmptyQueryMode, opts ...Option) (*Engine, error) {
	switch mode {
	case EmptyShowAll, EmptyShowNone:
	default:
		return nil, errors.NewInvalidRequestf("empty query mode must be EmptyShowAll or EmptyShowNone, got %d", int(mode))
	}
	e := &Engine{mode: mode}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Mode returns the engine's empty-query behavior.
func (e *Engine) Mode() EmptyQueryMode { return e.mode }

// MaxResults returns the row cap, 0 when unlimited.
func (e *Engine) MaxResults() int { return e.maxResults }

// Query filters candidates by text.
//
// Matching is case-insensitive substring containment on the trimmed text and
// keeps the input order. The exact match is the first candidate whose name
// equals the text. It is always listed: when the row cap cuts it off it
// follows the capped rows. A create-new item is appended last when the text
// is non-empty and nothing matches exactly.
func (e *Engine) Query(candidates []Candidate, text string) Result {
	query := normalize.Trim(text)
	res := Result{Query: query, Highlighted: NoHighlight}

	if query == "" {
		if e.mode == EmptyShowAll {
			for _, c := range candidates {
				if e.full(res.Items) {
					break
				}
				res.Items = append(res.Items, existing(c))
			}
		}
		res.resetHighlight()
		return res
	}

	key := normalize.Fold(query)
	for i := range candidates {
		c := candidates[i]
		name := normalize.Fold(c.Name)
		if !strings.Contains(name, key) {
			continue
		}
		isExact := res.Exact == nil && name == key
		if isExact {
			exact := c
			res.Exact = &exact
		}
		if isExact || !e.full(res.Items) {
			res.Items = append(res.Items, existing(c))
		}
	}
	if res.Exact == nil {
		res.Items = append(res.Items, Item{Kind: ItemCreateNew, ProposedName: query})
	}
	res.resetHighlight()
	return res
}

func (e *Engine) full(items []Item) bool {
	return e.maxResults > 0 && len(items) >= e.maxResults
}
