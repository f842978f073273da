package locate

import (
	"strings"
	"testing"

	"github.com/Jubliano-sama/anki-extractor/internal/corpus"
	"github.com/Jubliano-sama/anki-extractor/internal/model"
	"github.com/Jubliano-sama/anki-extractor/internal/store"
)

func buildCorpus(t *testing.T, text string) *corpus.Corpus {
	t.Helper()
	c, err := corpus.Build([]byte(text), corpus.FormatText)
	if err != nil {
		t.Fatalf("build corpus: %v", err)
	}
	return c
}

func newLocator(window int) *Locator {
	return New(model.ContextConfig{WindowTokens: window})
}

func TestLocate_WordNotFound(t *testing.T) {
	c := buildCorpus(t, "The dog barked at the mailman.")
	if window, ok := newLocator(10).Locate("cat", c); ok {
		t.Errorf("expected no match, got %q", window)
	}
}

func TestLocate_WholeTokenOnly(t *testing.T) {
	// "cat" appears only inside larger tokens; it must not match.
	c := buildCorpus(t, "The category of catalogs concatenates nothing.")
	if window, ok := newLocator(10).Locate("cat", c); ok {
		t.Errorf("substring match must not count, got %q", window)
	}

	c = buildCorpus(t, "The category held one cat inside.")
	window, ok := newLocator(10).Locate("cat", c)
	if !ok {
		t.Fatal("expected a match for the whole token")
	}
	if !strings.Contains(window, "cat") {
		t.Errorf("window %q does not contain the token", window)
	}
}

func TestLocate_CaseInsensitive(t *testing.T) {
	c := buildCorpus(t, "Zymurgy is the study of fermentation.")
	window, ok := newLocator(10).Locate("zymurgy", c)
	if !ok {
		t.Fatal("expected case-insensitive match")
	}
	if !strings.Contains(window, "Zymurgy") {
		t.Errorf("window %q should carry the original casing", window)
	}
}

func TestLocate_FirstMatchOnly(t *testing.T) {
	c := buildCorpus(t, "First block has a bank here.\n\nSecond block has a bank too.")
	window, ok := newLocator(10).Locate("bank", c)
	if !ok {
		t.Fatal("expected a match")
	}
	if !strings.Contains(window, "First") {
		t.Errorf("expected the first occurrence's window, got %q", window)
	}
	if strings.Contains(window, "Second") {
		t.Errorf("window leaked past the first block: %q", window)
	}
}

func TestLocate_WindowBounded(t *testing.T) {
	words := make([]string, 0, 41)
	for i := 0; i < 20; i++ {
		words = append(words, "left")
	}
	words = append(words, "target")
	for i := 0; i < 20; i++ {
		words = append(words, "right")
	}
	c := buildCorpus(t, strings.Join(words, " "))

	window, ok := newLocator(3).Locate("target", c)
	if !ok {
		t.Fatal("expected a match")
	}
	got := len(strings.Fields(window))
	if got > 7 {
		t.Errorf("window has %d tokens, want at most 7: %q", got, window)
	}
}

func TestLocate_TrimsAtSentenceBoundary(t *testing.T) {
	c := buildCorpus(t, "Unrelated lead-in sentence. The cat sat on the mat. Another sentence follows here.")
	window, ok := newLocator(15).Locate("cat", c)
	if !ok {
		t.Fatal("expected a match")
	}
	if strings.Contains(window, "Unrelated") {
		t.Errorf("window crossed the leading sentence boundary: %q", window)
	}
	if strings.Contains(window, "Another") {
		t.Errorf("window crossed the trailing sentence boundary: %q", window)
	}
	if !strings.Contains(window, "The cat sat on the mat.") {
		t.Errorf("window lost the matched sentence: %q", window)
	}
}

func TestLocate_EmptyWordOrCorpus(t *testing.T) {
	c := buildCorpus(t, "Some text.")
	if _, ok := newLocator(5).Locate("  ", c); ok {
		t.Error("blank word must not match")
	}
	if _, ok := newLocator(5).Locate("text", nil); ok {
		t.Error("nil corpus must not match")
	}
}

func TestAnnotate(t *testing.T) {
	c := buildCorpus(t, "The river bank was muddy.")
	st := store.FromWords([]string{"bank", "zymurgy"})

	newLocator(10).Annotate(st, c)

	if st.At(0).Context == "" {
		t.Error("expected context attached to 'bank'")
	}
	if st.At(1).Context != "" {
		t.Errorf("expected no context for 'zymurgy', got %q", st.At(1).Context)
	}
}
