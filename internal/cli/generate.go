package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/Jubliano-sama/anki-extractor/internal/dict"
	"github.com/Jubliano-sama/anki-extractor/internal/enrich"
	"github.com/Jubliano-sama/anki-extractor/internal/export"
	"github.com/Jubliano-sama/anki-extractor/internal/llm"
	"github.com/Jubliano-sama/anki-extractor/internal/locate"
	"github.com/Jubliano-sama/anki-extractor/internal/model"
	"github.com/Jubliano-sama/anki-extractor/internal/review"
	"github.com/Jubliano-sama/anki-extractor/internal/store"
)

var (
	bookPath      string
	bookFormat    string
	concurrency   int
	outputDir     string
	llmModel      string
	llmTimeout    time.Duration
	llmRPS        float64
	noDictionary  bool
	contextWindow int
	defaultType   string
)

// generateCmd represents the batch (non-interactive) command
var generateCmd = &cobra.Command{
	Use:   "generate <words.txt>",
	Short: "Generate cards for a word list without interactive review",
	Long: `Generate processes a word list end to end:
- Ingest words (one per line; blanks and duplicates dropped)
- Locate each word's first occurrence in the book, if given
- Enrich entries concurrently: dictionary definition first, generated
  definition as fallback, then a generated example sentence
- Finalize every enriched entry with the default card type; entries that
  could not be enriched are skipped
- Export CSV tables for Anki import

Example:
  anki-extractor generate words.txt
  anki-extractor generate words.txt --book novel.epub --concurrency 8
  anki-extractor generate words.txt --book paper.pdf --card-type reversed`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	addPipelineFlags(generateCmd)
	generateCmd.Flags().StringVar(&defaultType, "card-type", "basic", "card type for enriched entries (basic, reversed)")
}

// addPipelineFlags registers the flags shared by generate and review.
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&bookPath, "book", "", "book file for context lookup (txt, epub, pdf)")
	cmd.Flags().StringVar(&bookFormat, "format", "", "book format override (text, epub, pdf)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "enrichment workers (default from config)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "output directory for CSV files")
	cmd.Flags().StringVar(&llmModel, "model", "", "generation model name")
	cmd.Flags().DurationVar(&llmTimeout, "timeout", 0, "per-call generation timeout")
	cmd.Flags().Float64Var(&llmRPS, "rps", 0, "generation requests per second (0 = unthrottled)")
	cmd.Flags().BoolVar(&noDictionary, "no-dictionary", false, "skip reference-dictionary lookups")
	cmd.Flags().IntVar(&contextWindow, "context-window", 0, "context window size in tokens per side")
}

// applyPipelineFlags overlays the shared flags onto the configuration.
func applyPipelineFlags(cfg *model.Config) {
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if llmTimeout > 0 {
		cfg.LLM.Timeout = llmTimeout
	}
	if llmRPS > 0 {
		cfg.LLM.RequestsPerSecond = llmRPS
	}
	if noDictionary {
		cfg.Dictionary.Enabled = false
	}
	if contextWindow > 0 {
		cfg.Context.WindowTokens = contextWindow
	}
}

// preparePipeline builds the store, attaches contexts and constructs the
// clients shared by generate and review.
func preparePipeline(wordFile string, cfg model.Config) (*store.Store, llm.Generator, *dict.Client, error) {
	words, err := readWords(wordFile)
	if err != nil {
		return nil, nil, nil, err
	}
	st := store.FromWords(words)
	if st.Len() == 0 {
		return nil, nil, nil, fmt.Errorf("word list %s contains no words", wordFile)
	}

	if c := loadCorpus(bookPath, bookFormat); c != nil {
		locate.New(cfg.Context).Annotate(st, c)
	}

	gen, err := llm.NewOpenRouterGenerator(cfg.LLM)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("configure generation service: %w (set OPENROUTER_API_KEY and --model)", err)
	}

	var dictClient *dict.Client
	if cfg.Dictionary.Enabled {
		dictClient = dict.NewClient(cfg.Dictionary)
	}
	return st, gen, dictClient, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	applyPipelineFlags(&cfg)

	cardType := model.CardType(defaultType)
	if cardType != model.CardBasic && cardType != model.CardReversed {
		return fmt.Errorf("invalid --card-type %q (basic, reversed)", defaultType)
	}

	st, gen, dictClient, err := preparePipeline(args[0], cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  anki-extractor: generating cards\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Words:       %d\n", st.Len())
	fmt.Fprintf(os.Stderr, "  Workers:     %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Dictionary:  %v\n", cfg.Dictionary.Enabled)
	fmt.Fprintf(os.Stderr, "  Model:       %s\n", cfg.LLM.Model)
	fmt.Fprintf(os.Stderr, "\n")

	var dictionary enrich.Dictionary
	if dictClient != nil {
		dictionary = dictClient
	}
	summary := enrich.NewScheduler(gen, dictionary, cfg).Run(ctx, st)
	fmt.Fprintf(os.Stderr, "⚙  Enrichment: %d succeeded, %d failed, %d skipped\n", summary.Succeeded, summary.Failed, summary.Skipped)
	if verbose {
		for _, e := range st.Snapshot() {
			if e.EnrichError != "" {
				fmt.Fprintf(os.Stderr, "  ✗ %s: %s\n", e.Word, e.EnrichError)
			}
		}
	}

	if err := review.NewSession(st).Run(review.AutoPolicy{Default: cardType}); err != nil {
		return fmt.Errorf("finalize entries: %w", err)
	}

	basic, reversed := export.Export(st)
	written, err := export.WriteFiles(cfg.Output.Dir, basic, reversed)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Basic cards:    %d\n", len(basic))
	fmt.Fprintf(os.Stderr, "  Reversed cards: %d\n", len(reversed))
	for _, path := range written {
		fmt.Fprintf(os.Stderr, "  ✓ Wrote %s\n", path)
	}
	fmt.Fprintf(os.Stderr, "\n")
	return nil
}
