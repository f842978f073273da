package model

import "time"

// Config holds the complete run configuration. It is built once by the CLI
// from defaults, config file, environment and flags, and threaded explicitly
// into constructors; nothing reads ambient global state.
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Dictionary  DictionaryConfig  `yaml:"dictionary"`
	Context     ContextConfig     `yaml:"context"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Output      OutputConfig      `yaml:"output"`
}

// LLMConfig configures the generation service client.
type LLMConfig struct {
	// BaseURL of an OpenAI-compatible chat completions endpoint.
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`

	// Timeout is the per-call ceiling. A timed-out call is reported the same
	// way as any other generation failure.
	Timeout time.Duration `yaml:"timeout"`

	DefinitionMaxTokens int     `yaml:"definition_max_tokens"`
	ExampleMaxTokens    int     `yaml:"example_max_tokens"`
	SensesMaxTokens     int     `yaml:"senses_max_tokens"`
	DefinitionTemp      float32 `yaml:"definition_temperature"`
	ExampleTemp         float32 `yaml:"example_temperature"`
	SensesTemp          float32 `yaml:"senses_temperature"`

	// Prompt templates. Placeholders {word}, {definition} and {context} are
	// substituted at call time; the context line is dropped when no context
	// is available.
	DefinitionPrompt string `yaml:"definition_prompt"`
	ExamplePrompt    string `yaml:"example_prompt"`
	SensesPrompt     string `yaml:"senses_prompt"`

	// Attribution headers sent to OpenRouter.
	Referer string `yaml:"referer"`
	Title   string `yaml:"title"`

	// RequestsPerSecond throttles generation calls across all workers.
	// Zero disables throttling.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// DictionaryConfig configures the reference-dictionary client.
type DictionaryConfig struct {
	Enabled   bool          `yaml:"enabled"`
	BaseURL   string        `yaml:"base_url"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`

	// CacheTTL bounds how long scraped definitions are reused within a run.
	CacheTTL time.Duration `yaml:"cache_ttl"`

	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
	RespectRobots     bool    `yaml:"respect_robots"`
}

// ContextConfig configures occurrence location.
type ContextConfig struct {
	// WindowTokens is the maximum number of tokens kept on each side of a
	// matched occurrence.
	WindowTokens int `yaml:"window_tokens"`
}

// ConcurrencyConfig bounds the enrichment pipeline.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"`
}

// OutputConfig controls export and reporting.
type OutputConfig struct {
	Dir     string `yaml:"dir"`
	Verbose bool   `yaml:"verbose"`
}

// DefaultConfig returns sensible defaults. Prompt wording follows the card
// style the tool has always produced: plain definitions with no hard words,
// one simple example sentence.
func DefaultConfig() Config {
	return Config{
		LLM: LLMConfig{
			BaseURL:             "https://openrouter.ai/api/v1",
			Model:               "",
			Timeout:             30 * time.Second,
			DefinitionMaxTokens: 64,
			ExampleMaxTokens:    80,
			SensesMaxTokens:     256,
			DefinitionTemp:      0.2,
			ExampleTemp:         0.9,
			SensesTemp:          0.3,
			DefinitionPrompt:    DefaultDefinitionPrompt,
			ExamplePrompt:       DefaultExamplePrompt,
			SensesPrompt:        DefaultSensesPrompt,
			Referer:             "https://github.com/Jubliano-sama/anki-extractor",
			Title:               "anki-extractor",
		},
		Dictionary: DictionaryConfig{
			Enabled:           true,
			BaseURL:           "https://dictionary.cambridge.org/dictionary/english/",
			UserAgent:         "anki-extractor/0.1 (+https://github.com/Jubliano-sama/anki-extractor)",
			Timeout:           5 * time.Second,
			CacheTTL:          15 * time.Minute,
			RequestsPerSecond: 1,
			Burst:             2,
			RespectRobots:     true,
		},
		Context: ContextConfig{
			WindowTokens: 20,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Output: OutputConfig{
			Dir: ".",
		},
	}
}

// Default prompt templates.
const (
	DefaultDefinitionPrompt = "You are to define a word for an Anki vocab list. " +
		"Give a concise dictionary-style definition for '{word}', which is part of a book. " +
		"Please make sure the definition does not contain any words which may be non-trivial themselves. " +
		"Do not include the word in the definition. " +
		"If the word has common synonyms, end with a final line of the form 'syn: a, b, c'.\n" +
		"context: {context}"

	DefaultExamplePrompt = "You are to provide a simple example sentence using '{word}' for an Anki vocab list. " +
		"Write one natural, concise and simple example sentence using '{word}' in the sense defined as: {definition}. " +
		"Do not include any other words in the sentence which may be non-trivial. " +
		"React only with the sentence.\n" +
		"context: {context}"

	DefaultSensesPrompt = "List the distinct common senses of '{word}'. " +
		"The word is currently defined as: {definition}. " +
		"Reply with a numbered list, one sense per line, in exactly this form:\n" +
		"1. {word} (label): gloss\n" +
		"Use a one-or-two word label and a short gloss that does not contain the word itself. " +
		"If the word has only one sense, reply with the single word 'single'."
)
