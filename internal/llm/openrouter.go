package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/Jubliano-sama/anki-extractor/internal/model"
)

// OpenRouterGenerator implements Generator over an OpenAI-compatible chat
// completions endpoint (OpenRouter by default).
type OpenRouterGenerator struct {
	client *openai.Client
	cfg    model.LLMConfig
}

// attributionTransport adds the optional OpenRouter attribution headers to
// every request.
type attributionTransport struct {
	base    http.RoundTripper
	referer string
	title   string
}

func (t *attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.referer != "" {
		req.Header.Set("HTTP-Referer", t.referer)
	}
	if t.title != "" {
		req.Header.Set("X-Title", t.title)
	}
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

// NewOpenRouterGenerator creates a generator from configuration.
func NewOpenRouterGenerator(cfg model.LLMConfig) (*OpenRouterGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("generation service API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("generation model is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{
		Transport: &attributionTransport{referer: cfg.Referer, title: cfg.Title},
	}

	return &OpenRouterGenerator{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
	}, nil
}

// GenerateDefinition implements Generator.
func (g *OpenRouterGenerator) GenerateDefinition(ctx context.Context, word, contextText string) (Definition, error) {
	prompt := renderPrompt(g.cfg.DefinitionPrompt, word, "", contextText)
	raw, err := g.complete(ctx, prompt, g.cfg.DefinitionMaxTokens, g.cfg.DefinitionTemp)
	if err != nil {
		return Definition{}, g.wrap("definition", word, err)
	}
	return ParseDefinition(raw), nil
}

// GenerateExample implements Generator.
func (g *OpenRouterGenerator) GenerateExample(ctx context.Context, word, definition, contextText string) (string, error) {
	prompt := renderPrompt(g.cfg.ExamplePrompt, word, definition, contextText)
	raw, err := g.complete(ctx, prompt, g.cfg.ExampleMaxTokens, g.cfg.ExampleTemp)
	if err != nil {
		return "", g.wrap("example", word, err)
	}
	return strings.TrimSpace(raw), nil
}

// GenerateSenses implements Generator.
func (g *OpenRouterGenerator) GenerateSenses(ctx context.Context, word, definition string) ([]model.Sense, error) {
	prompt := renderPrompt(g.cfg.SensesPrompt, word, definition, "")
	raw, err := g.complete(ctx, prompt, g.cfg.SensesMaxTokens, g.cfg.SensesTemp)
	if err != nil {
		return nil, g.wrap("senses", word, err)
	}
	return ParseSenses(raw), nil
}

// complete runs one chat completion with the per-call timeout ceiling.
func (g *OpenRouterGenerator) complete(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error) {
	timeout := g.cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model: g.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from generation service")
	}
	return resp.Choices[0].Message.Content, nil
}

// wrap normalizes any failure, timeouts included, into a GenerationError.
func (g *OpenRouterGenerator) wrap(op, word string, err error) *GenerationError {
	reason := err.Error()
	if errors.Is(err, context.DeadlineExceeded) {
		reason = "call timed out"
	}
	return &GenerationError{Op: op, Word: word, Reason: reason, Err: err}
}
