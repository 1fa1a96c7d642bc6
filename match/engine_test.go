package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/larder/errors"
)

var pantry = []Candidate{
	{ID: 1, Name: "Olive Oil", Category: "pantry"},
	{ID: 2, Name: "Olive", Category: "produce"},
	{ID: 3, Name: "Garlic", Category: "produce"},
	{ID: 4, Name: "Black Olives", Category: "canned"},
	{ID: 5, Name: "Salt", Category: "spices"},
}

func newEngine(t *testing.T, mode EmptyQueryMode, opts ...Option) *Engine {
	t.Helper()
	e, err := NewEngine(mode, opts...)
	require.NoError(t, err)
	return e
}

func labels(r Result) []string {
	out := make([]string, len(r.Items))
	for i, it := range r.Items {
		out[i] = it.Label()
	}
	return out
}

func TestNewEngineRequiresMode(t *testing.T) {
	_, err := NewEngine(0)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequest(err))

	e, err := NewEngine(EmptyShowNone, WithMaxResults(3))
	require.NoError(t, err)
	assert.Equal(t, EmptyShowNone, e.Mode())
	assert.Equal(t, 3, e.MaxResults())
}

func TestParseEmptyQueryMode(t *testing.T) {
	m, err := ParseEmptyQueryMode(" ALL ")
	require.NoError(t, err)
	assert.Equal(t, EmptyShowAll, m)

	m, err = ParseEmptyQueryMode("none")
	require.NoError(t, err)
	assert.Equal(t, EmptyShowNone, m)

	_, err = ParseEmptyQueryMode("")
	assert.True(t, errors.IsInvalidRequest(err))
}

func TestQueryExactMatch(t *testing.T) {
	e := newEngine(t, EmptyShowNone)
	candidates := []Candidate{{ID: 1, Name: "Olive Oil"}, {ID: 2, Name: "Olive"}}

	r := e.Query(candidates, "Olive")

	require.NotNil(t, r.Exact)
	assert.Equal(t, int64(2), r.Exact.ID)
	assert.Equal(t, []string{"Olive Oil", "Olive"}, labels(r))
	assert.False(t, r.HasCreateNew())
	assert.Equal(t, 0, r.Highlighted)
}

func TestQueryCreateNew(t *testing.T) {
	e := newEngine(t, EmptyShowNone)

	r := e.Query([]Candidate{{ID: 1, Name: "Olive Oil"}}, "  Garlic ")

	assert.Nil(t, r.Exact)
	require.Len(t, r.Items, 1)
	assert.Equal(t, ItemCreateNew, r.Items[0].Kind)
	assert.Equal(t, "Garlic", r.Items[0].ProposedName)
	assert.Equal(t, 0, r.Highlighted)
}

func TestQueryStableFilter(t *testing.T) {
	e := newEngine(t, EmptyShowNone)

	r := e.Query(pantry, "oliv")

	assert.Equal(t, []string{"Olive Oil", "Olive", "Black Olives", "oliv"}, labels(r))
	assert.True(t, r.HasCreateNew())
	assert.Equal(t, "oliv", r.Query)
}

func TestQueryCaseInsensitive(t *testing.T) {
	e := newEngine(t, EmptyShowNone)

	r := e.Query(pantry, "GARLIC")
	require.NotNil(t, r.Exact)
	assert.Equal(t, "Garlic", r.Exact.Name)
	assert.Equal(t, []string{"Garlic"}, labels(r))
}

func TestQueryEmptyText(t *testing.T) {
	for _, text := range []string{"", "   "} {
		all := newEngine(t, EmptyShowAll).Query(pantry, text)
		assert.Len(t, all.Items, len(pantry))
		assert.False(t, all.HasCreateNew())
		assert.Nil(t, all.Exact)
		assert.Equal(t, 0, all.Highlighted)

		none := newEngine(t, EmptyShowNone).Query(pantry, text)
		assert.Empty(t, none.Items)
		assert.Equal(t, NoHighlight, none.Highlighted)
	}
}

func TestQueryNoCandidates(t *testing.T) {
	e := newEngine(t, EmptyShowAll)

	r := e.Query(nil, "")
	assert.Empty(t, r.Items)
	assert.Equal(t, NoHighlight, r.Highlighted)

	r = e.Query(nil, "thyme")
	assert.Equal(t, []string{"thyme"}, labels(r))
}

func TestQueryMaxResults(t *testing.T) {
	e := newEngine(t, EmptyShowAll, WithMaxResults(2))

	r := e.Query(pantry, "")
	assert.Equal(t, []string{"Olive Oil", "Olive"}, labels(r))

	r = e.Query(pantry, "oliv")
	assert.Equal(t, []string{"Olive Oil", "Olive", "oliv"}, labels(r))

	// The exact match is listed even past the cap.
	r = newEngine(t, EmptyShowAll, WithMaxResults(1)).Query(pantry, "olive")
	assert.Equal(t, []string{"Olive Oil", "Olive"}, labels(r))
	require.NotNil(t, r.Exact)
	assert.Equal(t, int64(2), r.Exact.ID)
	assert.False(t, r.HasCreateNew())

	r.Next()
	sel, ok := r.Commit()
	require.True(t, ok)
	assert.Equal(t, SelectExisting, sel.Kind)
	assert.Equal(t, int64(2), sel.Candidate.ID)
}

func TestQueryMaxResultsExactInsideCap(t *testing.T) {
	r := newEngine(t, EmptyShowAll, WithMaxResults(2)).Query(pantry, "olive")
	require.NotNil(t, r.Exact)
	assert.Equal(t, []string{"Olive Oil", "Olive"}, labels(r))
}

func TestQueryDoesNotModifyCandidates(t *testing.T) {
	e := newEngine(t, EmptyShowAll)
	before := append([]Candidate(nil), pantry...)

	r := e.Query(pantry, "olive")
	r.Items[0].Candidate.Name = "changed"
	r.Exact.Name = "changed"

	assert.Equal(t, before, pantry)
}

func TestHighlightWrap(t *testing.T) {
	e := newEngine(t, EmptyShowAll)
	r := e.Query(pantry, "")
	last := r.Len() - 1

	r.Prev()
	assert.Equal(t, last, r.Highlighted, "prev from first wraps to last")

	r.Next()
	assert.Equal(t, 0, r.Highlighted, "next from last wraps to first")

	for i := 0; i < last; i++ {
		r.Next()
	}
	assert.Equal(t, last, r.Highlighted)
}

func TestHighlightOnEmptyResult(t *testing.T) {
	r := newEngine(t, EmptyShowNone).Query(pantry, "")
	r.Next()
	r.Prev()
	assert.Equal(t, NoHighlight, r.Highlighted)

	_, ok := r.Commit()
	assert.False(t, ok)
}

func TestCommit(t *testing.T) {
	e := newEngine(t, EmptyShowNone)
	r := e.Query(pantry, "oliv")

	sel, ok := r.Commit()
	require.True(t, ok)
	assert.Equal(t, SelectExisting, sel.Kind)
	assert.Equal(t, int64(1), sel.Candidate.ID)
	assert.Equal(t, "Olive Oil", sel.Name())

	r.Prev()
	sel, ok = r.Commit()
	require.True(t, ok)
	assert.Equal(t, SelectCreateNew, sel.Kind)
	assert.Equal(t, "oliv", sel.NewName)
	assert.Equal(t, "oliv", sel.Name())
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "existing", ItemExisting.String())
	assert.Equal(t, "create_new", ItemCreateNew.String())
	assert.Equal(t, "create_new", SelectCreateNew.String())
	assert.Equal(t, "all", EmptyShowAll.String())
	assert.Equal(t, "unset", EmptyQueryMode(0).String())
}
