// Package review is the sequential state machine shared by the batch and
// interactive flows. It walks the entry store one entry at a time and
// applies reviewer decisions; enrichment failures are data on the entry and
// never surface as errors here.
package review

import (
	"errors"

	"github.com/google/uuid"

	"github.com/Jubliano-sama/anki-extractor/internal/model"
	"github.com/Jubliano-sama/anki-extractor/internal/store"
)

// ErrIncompleteEntry is returned by SetCardType when the finalization
// invariant does not hold: a non-skip card needs a definition. It is a
// contract violation, not a recoverable warning; callers must satisfy the
// required fields first.
var ErrIncompleteEntry = errors.New("entry is incomplete: a non-skip card requires a definition")

// errNoEntry is returned by mutations attempted past the end of the store.
var errNoEntry = errors.New("no current entry")

// Session points at one entry of the store at a time. It runs strictly
// after enrichment; nothing mutates the store concurrently with it.
type Session struct {
	store *store.Store
	idx   int
	done  bool
}

// NewSession starts a session at the first entry, or already done for an
// empty store.
func NewSession(st *store.Store) *Session {
	return &Session{store: st, done: st.Len() == 0}
}

// Done reports whether the session has advanced past the last entry.
func (s *Session) Done() bool { return s.done }

// Index returns the current entry index.
func (s *Session) Index() int { return s.idx }

// Current returns a snapshot of the current entry for presentation. The
// second return is false when the session is done.
func (s *Session) Current() (model.Entry, bool) {
	if s.done {
		return model.Entry{}, false
	}
	var snap model.Entry
	s.store.View(s.currentID(), func(e *model.Entry) {
		snap = *e
		snap.Synonyms = append([]string(nil), e.Synonyms...)
		snap.Senses = append([]model.Sense(nil), e.Senses...)
	})
	return snap, true
}

func (s *Session) currentID() uuid.UUID {
	return s.store.At(s.idx).ID
}

// Advance moves to the next entry. The store may have grown since the
// session started (splits and duplicates append), so the bound is checked
// live; moving past the last entry finishes the session. Entries passed
// over keep whatever status they have.
func (s *Session) Advance() {
	if s.done {
		return
	}
	s.idx++
	if s.idx >= s.store.Len() {
		s.idx = s.store.Len() - 1
		if s.idx < 0 {
			s.idx = 0
		}
		s.done = true
	}
}

// Back moves to the previous entry; no-op at the first one. Going back from
// a finished session reopens it at the last entry.
func (s *Session) Back() {
	if s.store.Len() == 0 {
		return
	}
	if s.done {
		s.done = false
		return
	}
	if s.idx > 0 {
		s.idx--
	}
}

// ChooseDefinition sets the current entry's definition and its source tag.
// The entry's status is unchanged.
func (s *Session) ChooseDefinition(text string, source model.Source) error {
	if s.done {
		return errNoEntry
	}
	s.store.Update(s.currentID(), func(e *model.Entry) {
		e.Definition = text
		e.DefinitionSource = source
	})
	return nil
}

// ChooseExample sets the current entry's example and its source tag.
// The entry's status is unchanged.
func (s *Session) ChooseExample(text string, source model.Source) error {
	if s.done {
		return errNoEntry
	}
	s.store.Update(s.currentID(), func(e *model.Entry) {
		e.Example = text
		e.ExampleSource = source
	})
	return nil
}

// SetCardType records the reviewer's card-type decision. When the
// finalization invariant holds the entry is finalized; otherwise
// ErrIncompleteEntry is returned and the entry is left untouched.
func (s *Session) SetCardType(t model.CardType) error {
	if s.done {
		return errNoEntry
	}
	var err error
	s.store.Update(s.currentID(), func(e *model.Entry) {
		if t == model.CardUnset {
			err = errors.New("card type must be basic, reversed or skip")
			return
		}
		if t != model.CardSkip && e.Definition == "" {
			err = ErrIncompleteEntry
			return
		}
		e.CardType = t
		// A successful decision is immediately output-ready.
		e.Status = model.StatusFinalized
	})
	return err
}

// Duplicate appends an independent copy of the current entry at the end of
// the store. The session position does not change.
func (s *Session) Duplicate() (*model.Entry, error) {
	if s.done {
		return nil, errNoEntry
	}
	return s.store.Duplicate(s.currentID()), nil
}

// Reset restores the current entry to its original word with enrichment and
// decision fields cleared.
func (s *Session) Reset() error {
	if s.done {
		return errNoEntry
	}
	s.store.Reset(s.currentID())
	return nil
}

// Split decomposes the current entry into one pending entry per sense,
// inserted after the origin; the origin is marked discarded and stays in
// the store.
func (s *Session) Split(senses []model.Sense) ([]*model.Entry, error) {
	if s.done {
		return nil, errNoEntry
	}
	if len(senses) == 0 {
		return nil, errors.New("split requires at least one sense")
	}
	return s.store.Split(s.currentID(), senses), nil
}
