package match

// ItemKind tells which variant of an Item is active.
type ItemKind int

const (
	// ItemExisting wraps a catalog candidate.
	ItemExisting ItemKind = iota + 1
	// ItemCreateNew proposes adding the typed text as a new ingredient.
	ItemCreateNew
)

func (k ItemKind) String() string {
	switch k {
	case ItemExisting:
		return "existing"
	case ItemCreateNew:
		return "create_new"
	default:
		return "unknown"
	}
}

// Item is one row of a Result.
type Item struct {
	Kind         ItemKind
	Candidate    Candidate // set for ItemExisting
	ProposedName string    // set for ItemCreateNew
}

func existing(c Candidate) Item {
	return Item{Kind: ItemExisting, Candidate: c}
}

// Label is the text a row displays.
func (it Item) Label() string {
	if it.Kind == ItemCreateNew {
		return it.ProposedName
	}
	return it.Candidate.Name
}

// Result is the output of one query. Highlighted indexes Items, or is
// NoHighlight when Items is empty.
type Result struct {
	Query       string
	Items       []Item
	Highlighted int
	Exact       *Candidate
}

// Len returns the number of rows.
func (r *Result) Len() int { return len(r.Items) }

// HasCreateNew reports whether the last row proposes a new ingredient.
func (r *Result) HasCreateNew() bool {
	return len(r.Items) > 0 && r.Items[len(r.Items)-1].Kind == ItemCreateNew
}

// HighlightedItem returns the row under the cursor.
func (r *Result) HighlightedItem() (Item, bool) {
	if r.Highlighted < 0 || r.Highlighted >= len(r.Items) {
		return Item{}, false
	}
	return r.Items[r.Highlighted], true
}

// Next moves the cursor down, wrapping from the last row to the first.
func (r *Result) Next() {
	n := len(r.Items)
	if n == 0 {
		return
	}
	r.Highlighted = (r.Highlighted + 1) % n
}

// Prev moves the cursor up, wrapping from the first row to the last.
func (r *Result) Prev() {
	n := len(r.Items)
	if n == 0 {
		return
	}
	r.Highlighted = (r.Highlighted - 1 + n) % n
}

// Commit classifies the highlighted row. It reports false when nothing is
// highlighted. Nothing is created here; acting on a SelectCreateNew is up to
// the caller.
func (r *Result) Commit() (Selection, bool) {
	it, ok := r.HighlightedItem()
	if !ok {
		return Selection{}, false
	}
	switch it.Kind {
	case ItemExisting:
		return Selection{Kind: SelectExisting, Candidate: it.Candidate}, true
	case ItemCreateNew:
		return Selection{Kind: SelectCreateNew, NewName: it.ProposedName}, true
	default:
		return Selection{}, false
	}
}

func (r *Result) resetHighlight() {
	if len(r.Items) == 0 {
		r.Highlighted = NoHighlight
		return
	}
	r.Highlighted = 0
}

// SelectionKind tells which variant of a Selection is active.
type SelectionKind int

const (
	// SelectExisting picks a catalog candidate.
	SelectExisting SelectionKind = iota + 1
	// SelectCreateNew asks for a new ingredient named NewName.
	SelectCreateNew
)

func (k SelectionKind) String() string {
	switch k {
	case SelectExisting:
		return "existing"
	case SelectCreateNew:
		return "create_new"
	default:
		return "unknown"
	}
}

// Selection is the user's committed intent.
type Selection struct {
	Kind      SelectionKind
	Candidate Candidate // set for SelectExisting
	NewName   string    // set for SelectCreateNew
}

// Name is the ingredient name the input field should show after commit.
func (s Selection) Name() string {
	if s.Kind == SelectCreateNew {
		return s.NewName
	}
	return s.Candidate.Name
}
