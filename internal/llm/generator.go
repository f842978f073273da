// Package llm is the gateway to the external content-generation service.
// Each call is a stateless request/response that the caller may retry; all
// retry and concurrency discipline lives in the enrichment scheduler so that
// policy stays centralized.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Jubliano-sama/anki-extractor/internal/model"
)

// Generator produces card content for a word.
type Generator interface {
	// GenerateDefinition produces a concise definition for the word,
	// grounded on the context window when one is available.
	GenerateDefinition(ctx context.Context, word, context string) (Definition, error)

	// GenerateExample produces one example sentence using the word in the
	// sense of the given definition.
	GenerateExample(ctx context.Context, word, definition, context string) (string, error)

	// GenerateSenses splits the word into labeled senses. An empty slice
	// means the service considers the word single-sense; that is not an
	// error.
	GenerateSenses(ctx context.Context, word, definition string) ([]model.Sense, error)
}

// Definition is a generated definition with any synonyms the service
// volunteered on a trailing "syn: a, b, c" line.
type Definition struct {
	Text     string
	Synonyms []string
}

// GenerationError reports a transport or service failure for one call.
// Timeouts are normalized into it as well.
type GenerationError struct {
	Op     string // "definition", "example" or "senses"
	Word   string
	Reason string
	Err    error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate %s for %q: %s", e.Op, e.Word, e.Reason)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// IsGenerationError reports whether err is (or wraps) a GenerationError.
func IsGenerationError(err error) bool {
	var ge *GenerationError
	return errors.As(err, &ge)
}

// renderPrompt substitutes the template placeholders. When no context is
// available, any line carrying the {context} placeholder is dropped rather
// than rendered empty.
func renderPrompt(tpl, word, definition, contextText string) string {
	if contextText == "" {
		var kept []string
		for _, line := range strings.Split(tpl, "\n") {
			if strings.Contains(line, "{context}") {
				continue
			}
			kept = append(kept, line)
		}
		tpl = strings.Join(kept, "\n")
	}
	return strings.NewReplacer(
		"{word}", word,
		"{definition}", definition,
		"{context}", contextText,
	).Replace(tpl)
}
