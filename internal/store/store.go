// Package store holds the mutable collection of card entries. The store is
// the single owner of every entry: the enrichment scheduler and the review
// session mutate entries only through it, and no caller keeps a mutable alias
// across an enrichment boundary.
package store

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Jubliano-sama/anki-extractor/internal/model"
)

// Store is an ordered, id-addressable collection of card entries.
// Entries are only ever appended; split and duplicate add siblings.
type Store struct {
	mu      sync.Mutex
	entries []*model.Entry
	byID    map[uuid.UUID]*model.Entry

	// inFlight guards against the same entry being dispatched twice within
	// one enrichment run.
	inFlight map[uuid.UUID]bool
}

// New creates an empty store.
func New() *Store {
	return &Store{
		byID:     make(map[uuid.UUID]*model.Entry),
		inFlight: make(map[uuid.UUID]bool),
	}
}

// FromWords ingests a word list: lines are trimmed, blank lines are dropped
// and duplicates are removed while preserving first-seen order. One pending
// entry is created per surviving word.
func FromWords(words []string) *Store {
	s := New()
	seen := make(map[string]bool)
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		s.Append(model.NewEntry(w))
	}
	return s
}

// Append adds an entry at the end of the store.
func (s *Store) Append(e *model.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	s.byID[e.ID] = e
}

// Len returns the number of entries, including discarded ones.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// At returns the entry at index i, or nil if out of range.
func (s *Store) At(i int) *model.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.entries) {
		return nil
	}
	return s.entries[i]
}

// ByID returns the entry with the given id, or nil.
func (s *Store) ByID(id uuid.UUID) *model.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byID[id]
}

// IDs returns the entry ids in store order. The slice is a snapshot; it does
// not alias store internals.
func (s *Store) IDs() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uuid.UUID, len(s.entries))
	for i, e := range s.entries {
		ids[i] = e.ID
	}
	return ids
}

// Update applies fn to the entry with the given id while holding the store
// lock. Returns false if the id is unknown.
func (s *Store) Update(id uuid.UUID, fn func(*model.Entry)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.byID[id]
	if !ok {
		return false
	}
	fn(e)
	return true
}

// View calls fn with the entry under the store lock, for consistent reads
// of several fields at once. Returns false if the id is unknown.
func (s *Store) View(id uuid.UUID, fn func(*model.Entry)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.byID[id]
	if !ok {
		return false
	}
	fn(e)
	return true
}

// BeginEnrich marks the entry as dispatched for enrichment. It returns false
// when the entry is unknown or already in flight, so one run never dispatches
// the same entry twice.
func (s *Store) BeginEnrich(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return false
	}
	if s.inFlight[id] {
		return false
	}
	s.inFlight[id] = true
	return true
}

// EndEnrich clears the in-flight mark for the entry.
func (s *Store) EndEnrich(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, id)
}

// Duplicate appends a field-for-field copy of the entry with a fresh id and
// pending status, and returns the copy. Returns nil for an unknown id.
// The copy is independent of its source from creation onward.
func (s *Store) Duplicate(id uuid.UUID) *model.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	src, ok := s.byID[id]
	if !ok {
		return nil
	}
	dup := src.Clone()
	dup.Status = model.StatusPending
	s.entries = append(s.entries, dup)
	s.byID[dup.ID] = dup
	return dup
}

// Split decomposes the entry into one new pending entry per sense, each with
// a sense-qualified word and the sense gloss as its definition. The new
// entries are deep copies sharing no mutable state with the origin or each
// other, inserted in sense order immediately after the origin. The origin is
// marked discarded, never removed. Returns the created entries, or nil for
// an unknown id or empty sense list.
func (s *Store) Split(id uuid.UUID, senses []model.Sense) []*model.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	origin, ok := s.byID[id]
	if !ok || len(senses) == 0 {
		return nil
	}
	at := -1
	for i, e := range s.entries {
		if e.ID == id {
			at = i
			break
		}
	}
	created := make([]*model.Entry, 0, len(senses))
	for _, sense := range senses {
		e := origin.Clone()
		e.Word = origin.Word + " (" + sense.Label + ")"
		e.OriginalWord = e.Word
		e.Definition = sense.Gloss
		e.DefinitionSource = model.SourceGenerated
		e.Synonyms = nil
		e.Example = ""
		e.ExampleSource = model.SourceUnset
		e.Senses = nil
		e.CardType = model.CardUnset
		e.Status = model.StatusPending
		e.EnrichError = ""
		s.byID[e.ID] = e
		created = append(created, e)
	}
	expanded := make([]*model.Entry, 0, len(s.entries)+len(created))
	expanded = append(expanded, s.entries[:at+1]...)
	expanded = append(expanded, created...)
	expanded = append(expanded, s.entries[at+1:]...)
	s.entries = expanded
	origin.Status = model.StatusDiscarded
	return created
}

// Reset restores the entry to its original word with enrichment and decision
// fields cleared. Returns false for an unknown id.
func (s *Store) Reset(id uuid.UUID) bool {
	return s.Update(id, func(e *model.Entry) { e.Reset() })
}

// Snapshot returns deep copies of all entries in store order, for read-only
// consumers such as the exporter and progress reporting.
func (s *Store) Snapshot() []model.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Entry, len(s.entries))
	for i, e := range s.entries {
		c := *e
		c.Synonyms = append([]string(nil), e.Synonyms...)
		c.Senses = append([]model.Sense(nil), e.Senses...)
		out[i] = c
	}
	return out
}
