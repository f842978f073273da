package review

import (
	"errors"
	"fmt"

	"github.com/Jubliano-sama/anki-extractor/internal/model"
)

// Decision is what a reviewer returns for one presented entry. Zero-valued
// fields mean "no change"; navigation flags take precedence over edits.
type Decision struct {
	// DefinitionText/Source replace the entry's definition when non-empty.
	DefinitionText   string
	DefinitionSource model.Source

	// ExampleText/Source replace the entry's example when non-empty.
	ExampleText   string
	ExampleSource model.Source

	// CardType finalizes the entry when set.
	CardType model.CardType

	// Split replaces the entry with one sibling per sense.
	Split []model.Sense

	// Duplicate appends an independent copy and re-presents the entry.
	Duplicate bool

	// Reset restores the entry to its original word and re-presents it.
	Reset bool

	// Back returns to the previous entry.
	Back bool

	// Quit ends the session early; undecided entries stay as they are.
	Quit bool
}

// Reviewer supplies per-entry decisions. It is implemented by the automatic
// batch policy and by interactive surfaces; any presentation layer is just
// an adapter around this interface.
type Reviewer interface {
	Review(entry model.Entry) (Decision, error)
}

// Run presents every remaining entry to the reviewer and applies its
// decisions until the session finishes, the reviewer quits, or the reviewer
// fails. Discarded split origins are passed over. A decision that finalizes
// an incomplete entry re-presents it rather than failing the run.
func (s *Session) Run(r Reviewer) error {
	backward := false
	for !s.done {
		entry, ok := s.Current()
		if !ok {
			return nil
		}
		if entry.Status == model.StatusDiscarded {
			// Pass over split origins in the direction of travel, so going
			// back across one reaches the entries before it. At the first
			// entry there is nothing further back; resume moving forward.
			if backward && s.idx > 0 {
				s.Back()
			} else {
				backward = false
				s.Advance()
			}
			continue
		}

		decision, err := r.Review(entry)
		if err != nil {
			return fmt.Errorf("review %q: %w", entry.Word, err)
		}

		switch {
		case decision.Quit:
			return nil
		case decision.Back:
			backward = true
			s.Back()
			continue
		case decision.Reset:
			if err := s.Reset(); err != nil {
				return err
			}
			continue
		case decision.Duplicate:
			if _, err := s.Duplicate(); err != nil {
				return err
			}
			continue
		case len(decision.Split) > 0:
			if _, err := s.Split(decision.Split); err != nil {
				return err
			}
			backward = false
			s.Advance()
			continue
		}

		if decision.DefinitionText != "" {
			if err := s.ChooseDefinition(decision.DefinitionText, decision.DefinitionSource); err != nil {
				return err
			}
		}
		if decision.ExampleText != "" {
			if err := s.ChooseExample(decision.ExampleText, decision.ExampleSource); err != nil {
				return err
			}
		}

		if decision.CardType != model.CardUnset {
			if err := s.SetCardType(decision.CardType); err != nil {
				if errors.Is(err, ErrIncompleteEntry) {
					// Let the reviewer fix the entry and decide again.
					continue
				}
				return err
			}
		}
		backward = false
		s.Advance()
	}
	return nil
}

// AutoPolicy is the non-interactive reviewer used by batch mode: entries
// that came out of enrichment with a definition become cards of the default
// type, the rest are skipped.
type AutoPolicy struct {
	// Default is the card type for enriched entries; CardBasic when unset.
	Default model.CardType
}

// Review implements Reviewer.
func (p AutoPolicy) Review(entry model.Entry) (Decision, error) {
	if entry.Definition == "" {
		return Decision{CardType: model.CardSkip}, nil
	}
	t := p.Default
	if t == model.CardUnset {
		t = model.CardBasic
	}
	return Decision{CardType: t}, nil
}
