// Package locate finds a word's in-context occurrence inside a corpus and
// extracts a bounded window of surrounding text.
package locate

import (
	"regexp"
	"strings"

	"github.com/Jubliano-sama/anki-extractor/internal/corpus"
	"github.com/Jubliano-sama/anki-extractor/internal/model"
	"github.com/Jubliano-sama/anki-extractor/internal/store"
)

// tokenPattern matches one word token: letters/digits, with internal
// apostrophes or hyphens allowed ("don't", "well-known").
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’-][\p{L}\p{N}]+)*`)

// Locator extracts context windows around word occurrences.
type Locator struct {
	window int
}

// New creates a locator keeping up to cfg.WindowTokens tokens on each side
// of a match.
func New(cfg model.ContextConfig) *Locator {
	w := cfg.WindowTokens
	if w <= 0 {
		w = 20
	}
	return &Locator{window: w}
}

// Locate scans the corpus blocks in order and returns the context window of
// the first occurrence of word. A token matches only when it equals the word
// case-insensitively over its entire span; a word embedded in a larger token
// does not count. The second return is false when no block contains the
// word, which is the normal "no context available" outcome, not an error.
//
// Only the first match is used; occurrences after it are ignored.
func (l *Locator) Locate(word string, c *corpus.Corpus) (string, bool) {
	word = strings.TrimSpace(word)
	if word == "" || c == nil {
		return "", false
	}
	for _, block := range c.Blocks() {
		if window, ok := l.locateInBlock(word, block); ok {
			return window, true
		}
	}
	return "", false
}

func (l *Locator) locateInBlock(word, block string) (string, bool) {
	spans := tokenPattern.FindAllStringIndex(block, -1)
	for i, span := range spans {
		token := block[span[0]:span[1]]
		if !strings.EqualFold(token, word) {
			continue
		}

		lo := i - l.window
		if lo < 0 {
			lo = 0
		}
		hi := i + l.window
		if hi > len(spans)-1 {
			hi = len(spans) - 1
		}
		start := spans[lo][0]
		end := spans[hi][1]

		// Trim the window at sentence-terminal punctuation when present:
		// start just after the last terminator before the match, end just
		// after the first terminator past it.
		if idx := lastTerminator(block[start:span[0]]); idx >= 0 {
			start += idx + 1
		}
		if idx := firstTerminator(block[span[1]:end]); idx >= 0 {
			end = span[1] + idx + 1
		}
		return strings.TrimSpace(block[start:end]), true
	}
	return "", false
}

const terminators = ".!?"

func lastTerminator(s string) int  { return strings.LastIndexAny(s, terminators) }
func firstTerminator(s string) int { return strings.IndexAny(s, terminators) }

// Annotate attaches a context window to every entry whose word occurs in the
// corpus. Entries without an occurrence are left untouched.
func (l *Locator) Annotate(s *store.Store, c *corpus.Corpus) {
	if c == nil {
		return
	}
	for _, id := range s.IDs() {
		var word string
		s.View(id, func(e *model.Entry) { word = e.Word })
		if window, ok := l.Locate(word, c); ok {
			s.Update(id, func(e *model.Entry) { e.Context = window })
		}
	}
}
