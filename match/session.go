package match

import (
	"github.com/teranos/larder/errors"
)

// State is whether the suggestion list is showing.
type State int

const (
	Closed State = iota
	Open
)

func (s State) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

// EventKind enumerates the input-field events a Session reacts to.
type EventKind int

const (
	TextChanged EventKind = iota + 1
	FocusGained
	FocusLost
	KeyNext
	KeyPrev
	KeyCommit
	KeyEscape
)

var eventNames = map[EventKind]string{
	TextChanged: "text_changed",
	FocusGained: "focus_gained",
	FocusLost:   "focus_lost",
	KeyNext:     "key_next",
	KeyPrev:     "key_prev",
	KeyCommit:   "key_commit",
	KeyEscape:   "key_escape",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseEventKind maps a wire name such as "key_next" to its EventKind.
func ParseEventKind(name string) (EventKind, error) {
	for k, n := range eventNames {
		if n == name {
			return k, nil
		}
	}
	return 0, errors.NewInvalidRequestf("unknown autocomplete event %q", name)
}

// Event is one input-field event. Text is read for TextChanged only.
type Event struct {
	Kind EventKind
	Text string
}

// Session is the autocomplete state of one input field. It is owned by a
// single goroutine.
//
// Transitions:
//
//	TextChanged          store text, re-query, open
//	FocusGained          re-query, open
//	FocusLost, KeyEscape close (the last result stays readable)
//	KeyNext, KeyPrev     open: move the highlight; closed: re-query and open
//	KeyCommit            open with rows: emit selection, set text, close
type Session struct {
	engine     *Engine
	candidates []Candidate
	text       string
	state      State
	result     Result
}

// NewSession starts a closed session over candidates.
func NewSession(engine *Engine, candidates []Candidate) *Session {
	return &Session{
		engine:     engine,
		candidates: candidates,
		result:     Result{Highlighted: NoHighlight},
	}
}

// State returns Open or Closed.
func (s *Session) State() State { return s.state }

// Text returns the current field text.
func (s *Session) Text() string { return s.text }

// Result returns the most recent query result.
func (s *Session) Result() Result { return s.result }

// Candidates returns the candidate snapshot the session queries.
func (s *Session) Candidates() []Candidate { return s.candidates }

// SetCandidates replaces the candidate snapshot. An open session re-queries,
// which resets the highlight.
func (s *Session) SetCandidates(candidates []Candidate) {
	s.candidates = candidates
	if s.state == Open {
		s.requery()
	}
}

// SetEngine swaps the engine, e.g. after a configuration reload. An open
// session re-queries.
func (s *Session) SetEngine(engine *Engine) {
	s.engine = engine
	if s.state == Open {
		s.requery()
	}
}

// Handle applies ev. It returns a selection only for a KeyCommit that
// committed something.
func (s *Session) Handle(ev Event) (Selection, bool) {
	switch ev.Kind {
	case TextChanged:
		s.text = ev.Text
		s.open()
	case FocusGained:
		s.open()
	case FocusLost, KeyEscape:
		s.state = Closed
	case KeyNext:
		if s.state == Open {
			s.result.Next()
		} else {
			s.open()
		}
	case KeyPrev:
		if s.state == Open {
			s.result.Prev()
		} else {
			s.open()
		}
	case KeyCommit:
		if s.state != Open {
			return Selection{}, false
		}
		sel, ok := s.result.Commit()
		if !ok {
			return Selection{}, false
		}
		s.text = sel.Name()
		s.state = Closed
		return sel, true
	}
	return Selection{}, false
}

func (s *Session) open() {
	s.requery()
	s.state = Open
}

func (s *Session) requery() {
	s.result = s.engine.Query(s.candidates, s.text)
}
