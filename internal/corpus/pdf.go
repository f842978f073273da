package corpus

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// decodePDF extracts plain text page by page; each non-empty page becomes
// one block.
func decodePDF(raw []byte) ([]string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	var blocks []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not lose the rest of the book.
			continue
		}
		if b := collapse(text); b != "" {
			blocks = append(blocks, b)
		}
	}
	if len(blocks) == 0 {
		return nil, fmt.Errorf("no extractable text")
	}
	return blocks, nil
}
