package corpus

import "strings"

// decodeText splits plain text into paragraph blocks on blank lines.
func decodeText(raw []byte) ([]string, error) {
	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	var blocks []string
	for _, para := range strings.Split(text, "\n\n") {
		if b := collapse(para); b != "" {
			blocks = append(blocks, b)
		}
	}
	return blocks, nil
}
