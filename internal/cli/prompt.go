package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Jubliano-sama/anki-extractor/internal/dict"
	"github.com/Jubliano-sama/anki-extractor/internal/llm"
	"github.com/Jubliano-sama/anki-extractor/internal/model"
	"github.com/Jubliano-sama/anki-extractor/internal/review"
)

// terminalReviewer presents entries at a terminal prompt. It holds the
// generator and dictionary client so the user can regenerate content on the
// spot; the accumulated edits are handed back as one review.Decision when
// the user navigates or decides a card type.
type terminalReviewer struct {
	ctx  context.Context
	in   *bufio.Reader
	out  io.Writer
	gen  llm.Generator
	dict *dict.Client // nil when dictionary lookups are disabled
}

func newTerminalReviewer(ctx context.Context, in io.Reader, out io.Writer, gen llm.Generator, dictClient *dict.Client) *terminalReviewer {
	return &terminalReviewer{
		ctx:  ctx,
		in:   bufio.NewReader(in),
		out:  out,
		gen:  gen,
		dict: dictClient,
	}
}

const promptHelp = "pick # | (g)en def | (e)xample | (m)anual def | s(p)lit | (d)up | reset(o) | (b)asic | re(v)ersed | (s)kip | (<) back | (n)ext | (q)uit"

// Review implements review.Reviewer.
func (r *terminalReviewer) Review(entry model.Entry) (review.Decision, error) {
	r.printEntry(entry)

	candidates := r.dictCandidates(entry.Word)
	for i, def := range candidates {
		fmt.Fprintf(r.out, "  %d. %s\n", i+1, def)
	}

	var pending review.Decision
	for {
		fmt.Fprintf(r.out, "\n[%s]\n> ", promptHelp)
		line, err := r.in.ReadString('\n')
		if err != nil {
			// End of input means the reviewer is gone; keep what we have.
			return review.Decision{Quit: true}, nil
		}
		input := strings.TrimSpace(line)

		if n, convErr := strconv.Atoi(input); convErr == nil {
			if n < 1 || n > len(candidates) {
				fmt.Fprintf(r.out, "no candidate #%d\n", n)
				continue
			}
			pending.DefinitionText = candidates[n-1]
			pending.DefinitionSource = model.SourceDictionary
			fmt.Fprintf(r.out, "definition: %s\n", pending.DefinitionText)
			continue
		}

		switch input {
		case "g":
			def, err := r.gen.GenerateDefinition(r.ctx, entry.Word, entry.Context)
			if err != nil {
				fmt.Fprintf(r.out, "generation failed: %v\n", err)
				continue
			}
			pending.DefinitionText = def.Text
			pending.DefinitionSource = model.SourceGenerated
			fmt.Fprintf(r.out, "definition: %s\n", def.Text)
			if len(def.Synonyms) > 0 {
				fmt.Fprintf(r.out, "synonyms: %s\n", strings.Join(def.Synonyms, ", "))
			}
		case "e":
			definition := pending.DefinitionText
			if definition == "" {
				definition = entry.Definition
			}
			example, err := r.gen.GenerateExample(r.ctx, entry.Word, definition, entry.Context)
			if err != nil {
				fmt.Fprintf(r.out, "generation failed: %v\n", err)
				continue
			}
			pending.ExampleText = example
			pending.ExampleSource = model.SourceGenerated
			fmt.Fprintf(r.out, "example: %s\n", example)
		case "m":
			fmt.Fprintf(r.out, "definition> ")
			text, err := r.in.ReadString('\n')
			if err != nil {
				return review.Decision{Quit: true}, nil
			}
			if text = strings.TrimSpace(text); text != "" {
				pending.DefinitionText = text
				pending.DefinitionSource = model.SourceManual
			}
		case "p":
			definition := pending.DefinitionText
			if definition == "" {
				definition = entry.Definition
			}
			senses, err := r.gen.GenerateSenses(r.ctx, entry.Word, definition)
			if err != nil {
				fmt.Fprintf(r.out, "generation failed: %v\n", err)
				continue
			}
			if len(senses) == 0 {
				fmt.Fprintf(r.out, "the service reports a single sense; nothing to split\n")
				continue
			}
			for _, sense := range senses {
				fmt.Fprintf(r.out, "  %s (%s): %s\n", entry.Word, sense.Label, sense.Gloss)
			}
			fmt.Fprintf(r.out, "split into %d entries? (y/n) ", len(senses))
			confirm, err := r.in.ReadString('\n')
			if err != nil || strings.TrimSpace(confirm) != "y" {
				continue
			}
			pending.Split = senses
			return pending, nil
		case "d":
			pending.Duplicate = true
			return pending, nil
		case "o":
			pending.Reset = true
			return pending, nil
		case "b":
			pending.CardType = model.CardBasic
			return pending, nil
		case "v":
			pending.CardType = model.CardReversed
			return pending, nil
		case "s":
			pending.CardType = model.CardSkip
			return pending, nil
		case "<":
			pending.Back = true
			return pending, nil
		case "n", "":
			return pending, nil
		case "q":
			return review.Decision{Quit: true}, nil
		default:
			fmt.Fprintf(r.out, "unknown command %q\n", input)
		}
	}
}

func (r *terminalReviewer) printEntry(entry model.Entry) {
	fmt.Fprintf(r.out, "\n───────────────────────────────────────────────\n")
	fmt.Fprintf(r.out, "word: %s   [%s]\n", entry.Word, entry.Status)
	if entry.Context != "" {
		fmt.Fprintf(r.out, "context: %s\n", entry.Context)
	}
	if entry.EnrichError != "" {
		fmt.Fprintf(r.out, "⚠ enrichment failed: %s\n", entry.EnrichError)
	}
	if entry.Definition != "" {
		fmt.Fprintf(r.out, "definition (%s): %s\n", entry.DefinitionSource, entry.Definition)
	}
	if len(entry.Synonyms) > 0 {
		fmt.Fprintf(r.out, "synonyms: %s\n", strings.Join(entry.Synonyms, ", "))
	}
	if entry.Example != "" {
		fmt.Fprintf(r.out, "example (%s): %s\n", entry.ExampleSource, entry.Example)
	}
}

// dictCandidates fetches the numbered dictionary candidates for a word.
// Dictionary trouble is not worth interrupting a review session for.
func (r *terminalReviewer) dictCandidates(word string) []string {
	if r.dict == nil {
		return nil
	}
	defs, err := r.dict.FetchDefinitions(r.ctx, word)
	if err != nil {
		fmt.Fprintf(r.out, "dictionary lookup failed: %v\n", err)
		return nil
	}
	return defs
}
