package cli

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"github.com/Jubliano-sama/anki-extractor/internal/model"
)

func TestBuildConfig_OverlaysFileKeys(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("llm.model", "meta/some-model")
	viper.Set("llm.timeout", "45s")
	viper.Set("llm.definition_max_tokens", 128)
	viper.Set("llm.example_max_tokens", 90)
	viper.Set("llm.senses_max_tokens", 110)
	viper.Set("llm.definition_temperature", 0.35)
	viper.Set("llm.example_temperature", 0.75)
	viper.Set("llm.senses_temperature", 0.15)
	viper.Set("llm.burst", 3)
	viper.Set("llm.referer", "https://example.com/decks")
	viper.Set("llm.title", "my-deck")
	viper.Set("dictionary.enabled", false)
	viper.Set("dictionary.user_agent", "custom-agent")
	viper.Set("dictionary.timeout", "9s")
	viper.Set("dictionary.cache_ttl", "1h")
	viper.Set("dictionary.requests_per_second", 0.5)
	viper.Set("dictionary.burst", 2)
	viper.Set("dictionary.respect_robots", false)
	viper.Set("concurrency.workers", 7)
	viper.Set("context.window_tokens", 12)
	viper.Set("output.dir", "cards")

	cfg := buildConfig()

	assert.Equal(t, "meta/some-model", cfg.LLM.Model)
	assert.Equal(t, 45*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 128, cfg.LLM.DefinitionMaxTokens)
	assert.Equal(t, 90, cfg.LLM.ExampleMaxTokens)
	assert.Equal(t, 110, cfg.LLM.SensesMaxTokens)
	assert.InDelta(t, 0.35, float64(cfg.LLM.DefinitionTemp), 1e-6)
	assert.InDelta(t, 0.75, float64(cfg.LLM.ExampleTemp), 1e-6)
	assert.InDelta(t, 0.15, float64(cfg.LLM.SensesTemp), 1e-6)
	assert.Equal(t, 3, cfg.LLM.Burst)
	assert.Equal(t, "https://example.com/decks", cfg.LLM.Referer)
	assert.Equal(t, "my-deck", cfg.LLM.Title)
	assert.False(t, cfg.Dictionary.Enabled)
	assert.Equal(t, "custom-agent", cfg.Dictionary.UserAgent)
	assert.Equal(t, 9*time.Second, cfg.Dictionary.Timeout)
	assert.Equal(t, time.Hour, cfg.Dictionary.CacheTTL)
	assert.Equal(t, 0.5, cfg.Dictionary.RequestsPerSecond)
	assert.Equal(t, 2, cfg.Dictionary.Burst)
	assert.False(t, cfg.Dictionary.RespectRobots)
	assert.Equal(t, 7, cfg.Concurrency.Workers)
	assert.Equal(t, 12, cfg.Context.WindowTokens)
	assert.Equal(t, "cards", cfg.Output.Dir)
}

func TestBuildConfig_DefaultsWhenUnset(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg := buildConfig()
	def := model.DefaultConfig()

	assert.Equal(t, def.LLM.BaseURL, cfg.LLM.BaseURL)
	assert.Equal(t, def.LLM.DefinitionMaxTokens, cfg.LLM.DefinitionMaxTokens)
	assert.Equal(t, def.LLM.DefinitionTemp, cfg.LLM.DefinitionTemp)
	assert.Equal(t, def.Dictionary.RespectRobots, cfg.Dictionary.RespectRobots)
	assert.Equal(t, def.Dictionary.CacheTTL, cfg.Dictionary.CacheTTL)
	assert.Equal(t, def.Concurrency.Workers, cfg.Concurrency.Workers)
}
