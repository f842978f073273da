package llm

import (
	"reflect"
	"testing"

	"github.com/Jubliano-sama/anki-extractor/internal/model"
)

func TestParseDefinition(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantText string
		wantSyns []string
	}{
		{
			name:     "plain definition",
			raw:      "to move quickly on foot",
			wantText: "to move quickly on foot",
		},
		{
			name:     "trailing synonyms line",
			raw:      "to move quickly on foot\nsyn: sprint, dash, race",
			wantText: "to move quickly on foot",
			wantSyns: []string{"sprint", "dash", "race"},
		},
		{
			name:     "synonyms line case-insensitive",
			raw:      "a hard question\nSyn: puzzle",
			wantText: "a hard question",
			wantSyns: []string{"puzzle"},
		},
		{
			name:     "syn line only at the end",
			raw:      "syn: not really\nactual definition text",
			wantText: "syn: not really\nactual definition text",
		},
		{
			name:     "surrounding whitespace",
			raw:      "  to move quickly  \n",
			wantText: "to move quickly",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDefinition(tt.raw)
			if got.Text != tt.wantText {
				t.Errorf("text = %q, want %q", got.Text, tt.wantText)
			}
			if !reflect.DeepEqual(got.Synonyms, tt.wantSyns) {
				t.Errorf("synonyms = %v, want %v", got.Synonyms, tt.wantSyns)
			}
		})
	}
}

func TestParseSenses(t *testing.T) {
	raw := `Here are the senses:
1. bank (finance): an institution that keeps money
2. bank (river) - the land alongside a river
not a sense line
3. bank () : missing label is discarded
4. bank (tilt)
5. bank (verb): to tilt sideways`

	got := ParseSenses(raw)
	want := []model.Sense{
		{Label: "finance", Gloss: "an institution that keeps money"},
		{Label: "river", Gloss: "the land alongside a river"},
		{Label: "verb", Gloss: "to tilt sideways"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseSenses = %v, want %v", got, want)
	}
}

func TestParseSenses_SingleSense(t *testing.T) {
	if got := ParseSenses("single"); len(got) != 0 {
		t.Errorf("expected no senses for single-sense reply, got %v", got)
	}
	if got := ParseSenses(""); len(got) != 0 {
		t.Errorf("expected no senses for empty reply, got %v", got)
	}
}

func TestRenderPrompt(t *testing.T) {
	tpl := "Define '{word}' as in: {definition}.\ncontext: {context}"

	got := renderPrompt(tpl, "bank", "a slope", "the river bank was muddy")
	want := "Define 'bank' as in: a slope.\ncontext: the river bank was muddy"
	if got != want {
		t.Errorf("with context:\n got %q\nwant %q", got, want)
	}

	// Without context the whole context line disappears.
	got = renderPrompt(tpl, "bank", "a slope", "")
	want = "Define 'bank' as in: a slope."
	if got != want {
		t.Errorf("without context:\n got %q\nwant %q", got, want)
	}
}
