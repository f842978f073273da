// Package enrich drives the pre-generation phase: it walks the entry store
// and fills definitions and examples concurrently under a bounded worker
// pool. Per-entry failures are recorded on the entry and never abort the
// run; concurrency policy lives here and nowhere else.
package enrich

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/Jubliano-sama/anki-extractor/internal/llm"
	"github.com/Jubliano-sama/anki-extractor/internal/model"
	"github.com/Jubliano-sama/anki-extractor/internal/store"
	"github.com/Jubliano-sama/anki-extractor/internal/worker"
)

// Dictionary is the reference-dictionary capability the scheduler consults
// before paying for a generated definition.
type Dictionary interface {
	FetchDefinitions(ctx context.Context, word string) ([]string, error)
}

// Summary reports what one run did. Entries never dispatched (for example
// after cancellation) appear in no bucket.
type Summary struct {
	Succeeded int
	Failed    int
	Skipped   int
}

// Scheduler runs the enrichment pipeline over a store.
type Scheduler struct {
	gen     llm.Generator
	dict    Dictionary // nil when dictionary lookups are disabled
	workers int
	limiter *rate.Limiter // nil when unthrottled
}

// NewScheduler builds a scheduler. dict may be nil.
func NewScheduler(gen llm.Generator, dict Dictionary, cfg model.Config) *Scheduler {
	s := &Scheduler{
		gen:     gen,
		dict:    dict,
		workers: cfg.Concurrency.Workers,
	}
	if rps := cfg.LLM.RequestsPerSecond; rps > 0 {
		burst := cfg.LLM.Burst
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
	return s
}

// Run enriches every pending entry in store order under the configured
// concurrency limit. Each entry is read at dispatch and written back at
// completion; the store's per-entry guard prevents double dispatch within a
// run. Cancelling ctx stops new dispatches; calls already in flight run to
// completion, and the summary reflects only entries actually attempted.
func (s *Scheduler) Run(ctx context.Context, st *store.Store) Summary {
	var succeeded, failed, skipped atomic.Int64

	pool := worker.NewPool(s.workers)
	pool.Start()

	for _, id := range st.IDs() {
		if ctx.Err() != nil {
			break
		}

		// Read at dispatch.
		var (
			word       string
			windowText string
			status     model.Status
		)
		st.View(id, func(e *model.Entry) {
			word, windowText, status = e.Word, e.Context, e.Status
		})
		if status != model.StatusPending {
			continue
		}
		if strings.TrimSpace(word) == "" {
			skipped.Add(1)
			continue
		}
		if !st.BeginEnrich(id) {
			continue
		}
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				st.EndEnrich(id)
				break
			}
		}

		entryID := id
		dispatched := pool.Submit(ctx, func() {
			defer st.EndEnrich(entryID)
			// Dispatched work is never force-aborted; each external call
			// carries its own timeout.
			if s.enrichEntry(context.WithoutCancel(ctx), st, entryID, word, windowText) {
				succeeded.Add(1)
			} else {
				failed.Add(1)
			}
		})
		if !dispatched {
			st.EndEnrich(entryID)
			break
		}
	}

	pool.Wait()
	return Summary{
		Succeeded: int(succeeded.Load()),
		Failed:    int(failed.Load()),
		Skipped:   int(skipped.Load()),
	}
}

// enrichEntry fills one entry and reports success. Failures and any partial
// content are written back to the entry; the entry stays pending with an
// error marker so the reviewer can see what happened and retry manually.
func (s *Scheduler) enrichEntry(ctx context.Context, st *store.Store, id uuid.UUID, word, windowText string) bool {
	var (
		definition string
		source     model.Source
		synonyms   []string
	)

	// Dictionary first: a dictionary hit makes the definition call
	// unnecessary. Lookup errors degrade to "no dictionary definition".
	if s.dict != nil {
		if defs, err := s.dict.FetchDefinitions(ctx, word); err == nil && len(defs) > 0 {
			definition = defs[0]
			source = model.SourceDictionary
		}
	}

	if definition == "" {
		def, err := s.gen.GenerateDefinition(ctx, word, windowText)
		if err != nil {
			st.Update(id, func(e *model.Entry) {
				e.EnrichError = err.Error()
			})
			return false
		}
		definition = def.Text
		synonyms = def.Synonyms
		source = model.SourceGenerated
	}

	example, err := s.gen.GenerateExample(ctx, word, definition, windowText)
	if err != nil {
		// Keep the definition: partial content stays reviewable.
		st.Update(id, func(e *model.Entry) {
			e.Definition = definition
			e.DefinitionSource = source
			e.Synonyms = synonyms
			e.EnrichError = err.Error()
		})
		return false
	}

	st.Update(id, func(e *model.Entry) {
		e.Definition = definition
		e.DefinitionSource = source
		e.Synonyms = synonyms
		e.Example = example
		e.ExampleSource = model.SourceGenerated
		e.Status = model.StatusEnriched
		e.EnrichError = ""
	})
	return true
}
