package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/Jubliano-sama/anki-extractor/internal/corpus"
	"github.com/Jubliano-sama/anki-extractor/internal/model"
)

// buildConfig layers the config file and environment over the defaults.
// Flags are applied on top by each command.
func buildConfig() model.Config {
	cfg := model.DefaultConfig()

	if v := viper.GetString("llm.base_url"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := viper.GetString("llm.model"); v != "" {
		cfg.LLM.Model = v
	}
	if v := viper.GetString("llm.api_key"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("OPENROUTER_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if viper.IsSet("llm.timeout") {
		cfg.LLM.Timeout = viper.GetDuration("llm.timeout")
	}
	if v := viper.GetInt("llm.definition_max_tokens"); v > 0 {
		cfg.LLM.DefinitionMaxTokens = v
	}
	if v := viper.GetInt("llm.example_max_tokens"); v > 0 {
		cfg.LLM.ExampleMaxTokens = v
	}
	if v := viper.GetInt("llm.senses_max_tokens"); v > 0 {
		cfg.LLM.SensesMaxTokens = v
	}
	if viper.IsSet("llm.definition_temperature") {
		cfg.LLM.DefinitionTemp = float32(viper.GetFloat64("llm.definition_temperature"))
	}
	if viper.IsSet("llm.example_temperature") {
		cfg.LLM.ExampleTemp = float32(viper.GetFloat64("llm.example_temperature"))
	}
	if viper.IsSet("llm.senses_temperature") {
		cfg.LLM.SensesTemp = float32(viper.GetFloat64("llm.senses_temperature"))
	}
	if v := viper.GetString("llm.definition_prompt"); v != "" {
		cfg.LLM.DefinitionPrompt = v
	}
	if v := viper.GetString("llm.example_prompt"); v != "" {
		cfg.LLM.ExamplePrompt = v
	}
	if v := viper.GetString("llm.senses_prompt"); v != "" {
		cfg.LLM.SensesPrompt = v
	}
	if v := viper.GetString("llm.referer"); v != "" {
		cfg.LLM.Referer = v
	}
	if v := viper.GetString("llm.title"); v != "" {
		cfg.LLM.Title = v
	}
	if viper.IsSet("llm.requests_per_second") {
		cfg.LLM.RequestsPerSecond = viper.GetFloat64("llm.requests_per_second")
	}
	if v := viper.GetInt("llm.burst"); v > 0 {
		cfg.LLM.Burst = v
	}
	if viper.IsSet("dictionary.enabled") {
		cfg.Dictionary.Enabled = viper.GetBool("dictionary.enabled")
	}
	if v := viper.GetString("dictionary.base_url"); v != "" {
		cfg.Dictionary.BaseURL = v
	}
	if v := viper.GetString("dictionary.user_agent"); v != "" {
		cfg.Dictionary.UserAgent = v
	}
	if viper.IsSet("dictionary.timeout") {
		cfg.Dictionary.Timeout = viper.GetDuration("dictionary.timeout")
	}
	if viper.IsSet("dictionary.cache_ttl") {
		cfg.Dictionary.CacheTTL = viper.GetDuration("dictionary.cache_ttl")
	}
	if viper.IsSet("dictionary.requests_per_second") {
		cfg.Dictionary.RequestsPerSecond = viper.GetFloat64("dictionary.requests_per_second")
	}
	if v := viper.GetInt("dictionary.burst"); v > 0 {
		cfg.Dictionary.Burst = v
	}
	if viper.IsSet("dictionary.respect_robots") {
		cfg.Dictionary.RespectRobots = viper.GetBool("dictionary.respect_robots")
	}
	if viper.IsSet("concurrency.workers") {
		cfg.Concurrency.Workers = viper.GetInt("concurrency.workers")
	}
	if viper.IsSet("context.window_tokens") {
		cfg.Context.WindowTokens = viper.GetInt("context.window_tokens")
	}
	if v := viper.GetString("output.dir"); v != "" {
		cfg.Output.Dir = v
	}
	cfg.Output.Verbose = verbose

	return cfg
}

// readWords reads the word list: one word or phrase per line. Blank-line
// filtering and deduplication happen at store ingestion.
func readWords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer func() { _ = f.Close() }()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan word list: %w", err)
	}
	return words, nil
}

// loadCorpus builds the context corpus from the book file. Decode problems
// are fatal to context lookup only: the run continues with no context.
func loadCorpus(bookPath, formatFlag string) *corpus.Corpus {
	if bookPath == "" {
		return nil
	}
	hint := corpus.Format(strings.ToLower(formatFlag))
	c, err := corpus.Load(bookPath, hint)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot read book for context (%v); continuing without context\n", err)
		return nil
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Loaded book: %d text blocks\n", c.Len())
	}
	return c
}
