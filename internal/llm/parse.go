package llm

import (
	"regexp"
	"strings"

	"github.com/Jubliano-sama/anki-extractor/internal/model"
)

// sensePattern matches one sense line of the form "N. word (label): gloss".
// The separator after the label may be a colon or dash; the gloss is the
// rest of the line.
var sensePattern = regexp.MustCompile(`^\s*\d+\.\s+.*?\(([^)]+)\)\s*[:\-–]?\s*(.+)$`)

// synPrefix introduces the optional trailing synonyms line of a definition.
const synPrefix = "syn:"

// ParseDefinition splits raw definition text into the definition proper and
// the synonyms carried on a trailing "syn: a, b, c" line, if present.
func ParseDefinition(raw string) Definition {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	var (
		kept     []string
		synonyms []string
	)
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if i == len(lines)-1 && strings.HasPrefix(strings.ToLower(trimmed), synPrefix) {
			for _, s := range strings.Split(trimmed[len(synPrefix):], ",") {
				if s = strings.TrimSpace(s); s != "" {
					synonyms = append(synonyms, s)
				}
			}
			continue
		}
		kept = append(kept, line)
	}
	return Definition{
		Text:     strings.TrimSpace(strings.Join(kept, "\n")),
		Synonyms: synonyms,
	}
}

// ParseSenses extracts (label, gloss) pairs from the service's numbered-list
// reply. Free-text parsing of model output is fragile by nature, so any line
// that does not match the expected pattern is discarded, never fatal. An
// empty result means the service considers the word single-sense.
func ParseSenses(raw string) []model.Sense {
	var senses []model.Sense
	for _, line := range strings.Split(raw, "\n") {
		m := sensePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		label := strings.TrimSpace(m[1])
		gloss := strings.TrimSpace(m[2])
		if label == "" || gloss == "" {
			continue
		}
		senses = append(senses, model.Sense{Label: label, Gloss: gloss})
	}
	return senses
}
