package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Jubliano-sama/anki-extractor/internal/model"
)

type fakeCompletion struct {
	status  int
	content string
	delay   time.Duration

	lastPrompt  string
	lastReferer string
	lastTitle   string
}

func (f *fakeCompletion) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.lastReferer = r.Header.Get("HTTP-Referer")
		f.lastTitle = r.Header.Get("X-Title")

		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil && len(req.Messages) > 0 {
			f.lastPrompt = req.Messages[0].Content
		}

		if f.delay > 0 {
			time.Sleep(f.delay)
		}
		if f.status != 0 && f.status != http.StatusOK {
			w.WriteHeader(f.status)
			w.Write([]byte(`{"error":{"message":"boom"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": f.content}},
			},
		})
	}
}

func newTestGenerator(t *testing.T, fake *fakeCompletion, mutate func(*model.LLMConfig)) *OpenRouterGenerator {
	t.Helper()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	cfg := model.DefaultConfig().LLM
	cfg.APIKey = "test-key"
	cfg.Model = "test-model"
	cfg.BaseURL = srv.URL + "/v1"
	if mutate != nil {
		mutate(&cfg)
	}

	gen, err := NewOpenRouterGenerator(cfg)
	if err != nil {
		t.Fatalf("NewOpenRouterGenerator: %v", err)
	}
	return gen
}

func TestNewOpenRouterGenerator_RequiresCredentials(t *testing.T) {
	cfg := model.DefaultConfig().LLM
	cfg.Model = "m"
	if _, err := NewOpenRouterGenerator(cfg); err == nil {
		t.Fatal("expected error for missing API key")
	}
	cfg.APIKey = "k"
	cfg.Model = ""
	if _, err := NewOpenRouterGenerator(cfg); err == nil {
		t.Fatal("expected error for missing model")
	}
}

func TestGenerateDefinition(t *testing.T) {
	fake := &fakeCompletion{content: "a place that keeps money\nsyn: lender"}
	gen := newTestGenerator(t, fake, nil)

	def, err := gen.GenerateDefinition(context.Background(), "bank", "she went to the bank")
	if err != nil {
		t.Fatalf("GenerateDefinition: %v", err)
	}
	if def.Text != "a place that keeps money" {
		t.Errorf("text = %q", def.Text)
	}
	if len(def.Synonyms) != 1 || def.Synonyms[0] != "lender" {
		t.Errorf("synonyms = %v", def.Synonyms)
	}
	if !strings.Contains(fake.lastPrompt, "bank") {
		t.Errorf("prompt does not mention the word: %q", fake.lastPrompt)
	}
	if !strings.Contains(fake.lastPrompt, "she went to the bank") {
		t.Errorf("prompt does not carry the context: %q", fake.lastPrompt)
	}
}

func TestGenerate_AttributionHeaders(t *testing.T) {
	fake := &fakeCompletion{content: "ok"}
	gen := newTestGenerator(t, fake, func(cfg *model.LLMConfig) {
		cfg.Referer = "https://example.com/app"
		cfg.Title = "anki-extractor"
	})

	if _, err := gen.GenerateExample(context.Background(), "bank", "a slope", ""); err != nil {
		t.Fatalf("GenerateExample: %v", err)
	}
	if fake.lastReferer != "https://example.com/app" {
		t.Errorf("HTTP-Referer = %q", fake.lastReferer)
	}
	if fake.lastTitle != "anki-extractor" {
		t.Errorf("X-Title = %q", fake.lastTitle)
	}
}

func TestGenerateSenses(t *testing.T) {
	fake := &fakeCompletion{content: "1. bank (finance): keeps money\n2. bank (river): riverside land"}
	gen := newTestGenerator(t, fake, nil)

	senses, err := gen.GenerateSenses(context.Background(), "bank", "")
	if err != nil {
		t.Fatalf("GenerateSenses: %v", err)
	}
	if len(senses) != 2 || senses[0].Label != "finance" || senses[1].Label != "river" {
		t.Errorf("senses = %v", senses)
	}
}

func TestGenerate_ServiceError(t *testing.T) {
	fake := &fakeCompletion{status: http.StatusInternalServerError}
	gen := newTestGenerator(t, fake, nil)

	_, err := gen.GenerateDefinition(context.Background(), "bank", "")
	if err == nil {
		t.Fatal("expected error")
	}
	var ge *GenerationError
	if !errors.As(err, &ge) {
		t.Fatalf("error is %T, want *GenerationError", err)
	}
	if ge.Op != "definition" || ge.Word != "bank" {
		t.Errorf("op/word = %q/%q", ge.Op, ge.Word)
	}
}

func TestGenerate_TimeoutNormalized(t *testing.T) {
	fake := &fakeCompletion{content: "ok", delay: 200 * time.Millisecond}
	gen := newTestGenerator(t, fake, func(cfg *model.LLMConfig) {
		cfg.Timeout = 20 * time.Millisecond
	})

	_, err := gen.GenerateExample(context.Background(), "bank", "a slope", "")
	var ge *GenerationError
	if !errors.As(err, &ge) {
		t.Fatalf("error is %T, want *GenerationError", err)
	}
	if ge.Reason != "call timed out" {
		t.Errorf("reason = %q, want normalized timeout", ge.Reason)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("timeout cause not preserved in the error chain")
	}
}
