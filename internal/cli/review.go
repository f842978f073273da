package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Jubliano-sama/anki-extractor/internal/enrich"
	"github.com/Jubliano-sama/anki-extractor/internal/export"
	"github.com/Jubliano-sama/anki-extractor/internal/review"
)

var noPregen bool

// reviewCmd represents the interactive command
var reviewCmd = &cobra.Command{
	Use:   "review <words.txt>",
	Short: "Review cards interactively before export",
	Long: `Review walks the word list entry by entry at a terminal prompt.

For each entry you can pick a dictionary definition, generate a
definition or example, split a polysemous word into per-sense cards,
duplicate an entry, reset it, or go back. Choosing a card type (basic,
reversed, skip) finalizes the entry; finalized non-skip entries are
exported at the end.

By default all entries are pre-generated concurrently before the prompt
starts; use --no-pregen to generate on demand only.

Example:
  anki-extractor review words.txt --book novel.epub
  anki-extractor review words.txt --no-pregen`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
	addPipelineFlags(reviewCmd)
	reviewCmd.Flags().BoolVar(&noPregen, "no-pregen", false, "skip the concurrent pre-generation pass")
}

func runReview(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	applyPipelineFlags(&cfg)

	st, gen, dictClient, err := preparePipeline(args[0], cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if !noPregen {
		var dictionary enrich.Dictionary
		if dictClient != nil {
			dictionary = dictClient
		}
		fmt.Fprintf(os.Stderr, "⚙  Pre-generating %d entries with %d workers...\n", st.Len(), cfg.Concurrency.Workers)
		summary := enrich.NewScheduler(gen, dictionary, cfg).Run(ctx, st)
		fmt.Fprintf(os.Stderr, "✓ Pre-generation: %d succeeded, %d failed, %d skipped\n\n", summary.Succeeded, summary.Failed, summary.Skipped)
	}

	reviewer := newTerminalReviewer(ctx, os.Stdin, os.Stderr, gen, dictClient)
	if err := review.NewSession(st).Run(reviewer); err != nil {
		return err
	}

	basic, reversed := export.Export(st)
	written, err := export.WriteFiles(cfg.Output.Dir, basic, reversed)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	fmt.Fprintf(os.Stderr, "\nDone: %d basic, %d reversed\n", len(basic), len(reversed))
	for _, path := range written {
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", path)
	}
	return nil
}
