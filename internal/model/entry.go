package model

import "github.com/google/uuid"

// Status tracks where an entry sits in the review lifecycle.
type Status string

const (
	// StatusPending means the entry has been ingested but not yet enriched.
	StatusPending Status = "pending"
	// StatusEnriched means automatic generation filled a definition/example.
	StatusEnriched Status = "enriched"
	// StatusFinalized means a reviewer decision set the card type and the
	// entry is output-ready. Terminal.
	StatusFinalized Status = "finalized"
	// StatusDiscarded marks the origin entry of a sense split. Kept in the
	// store for audit continuity, excluded from export.
	StatusDiscarded Status = "discarded"
)

// Source records where a definition or example came from.
type Source string

const (
	SourceUnset      Source = ""
	SourceDictionary Source = "dictionary"
	SourceGenerated  Source = "generated"
	SourceManual     Source = "manual"
)

// CardType is the reviewer's choice of output card.
type CardType string

const (
	CardUnset    CardType = ""
	CardBasic    CardType = "basic"
	CardReversed CardType = "reversed"
	CardSkip     CardType = "skip"
)

// Sense is one labeled meaning of a polysemous word.
type Sense struct {
	Label string `json:"label"`
	Gloss string `json:"gloss"`
}

// Entry is one candidate flashcard and its review state.
type Entry struct {
	ID           uuid.UUID `json:"id"`
	Word         string    `json:"word"`
	OriginalWord string    `json:"original_word"`

	// Context is the excerpt of source text surrounding the word's
	// occurrence. Empty when no corpus was supplied or no occurrence found.
	Context string `json:"context,omitempty"`

	Definition       string   `json:"definition,omitempty"`
	DefinitionSource Source   `json:"definition_source,omitempty"`
	Synonyms         []string `json:"synonyms,omitempty"`

	Example       string `json:"example,omitempty"`
	ExampleSource Source `json:"example_source,omitempty"`

	// Senses holds the candidate senses produced by a split request.
	Senses []Sense `json:"senses,omitempty"`

	CardType CardType `json:"card_type,omitempty"`
	Status   Status   `json:"status"`

	// EnrichError carries the last enrichment failure for this entry so the
	// reviewer can see it and retry manually. Failures are data, never
	// exceptions out of the pipeline.
	EnrichError string `json:"enrich_error,omitempty"`
}

// NewEntry creates a pending entry for a word. The original word is
// snapshotted so Reset can restore it after edits or sense splits.
func NewEntry(word string) *Entry {
	return &Entry{
		ID:           uuid.New(),
		Word:         word,
		OriginalWord: word,
		Status:       StatusPending,
	}
}

// Clone returns a deep copy of the entry under a fresh identity.
// The copy shares no mutable state with the receiver.
func (e *Entry) Clone() *Entry {
	c := *e
	c.ID = uuid.New()
	if e.Synonyms != nil {
		c.Synonyms = append([]string(nil), e.Synonyms...)
	}
	if e.Senses != nil {
		c.Senses = append([]Sense(nil), e.Senses...)
	}
	return &c
}

// OutputReady reports whether the entry satisfies the finalization
// invariant: a card type is chosen and, unless the card is skipped, a
// definition is present.
func (e *Entry) OutputReady() bool {
	if e.CardType == CardUnset {
		return false
	}
	return e.CardType == CardSkip || e.Definition != ""
}

// Reset returns the entry to its original word with all enrichment and
// decision fields cleared and status pending. The located context survives a
// reset: it derives from the original word, not from any edit. Idempotent.
func (e *Entry) Reset() {
	e.Word = e.OriginalWord
	e.Definition = ""
	e.DefinitionSource = SourceUnset
	e.Synonyms = nil
	e.Example = ""
	e.ExampleSource = SourceUnset
	e.Senses = nil
	e.CardType = CardUnset
	e.Status = StatusPending
	e.EnrichError = ""
}
