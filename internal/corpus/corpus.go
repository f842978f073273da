// Package corpus normalizes an input document into an ordered sequence of
// text blocks that the occurrence locator can search. Decoding is per
// format; blocks are stripped of markup with whitespace collapsed, and the
// corpus is read-only after construction.
package corpus

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies a document decoder.
type Format string

const (
	FormatUnknown Format = ""
	FormatText    Format = "text"
	FormatEPUB    Format = "epub"
	FormatPDF     Format = "pdf"
)

// ErrUnsupportedFormat is returned when the format hint matches no decoder.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// DecodeError wraps a decoder failure for a recognized format.
type DecodeError struct {
	Format Format
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s document: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Corpus is an ordered sequence of normalized text blocks.
type Corpus struct {
	blocks []string
}

// Blocks returns the text blocks in source order.
func (c *Corpus) Blocks() []string { return c.blocks }

// Len returns the number of blocks.
func (c *Corpus) Len() int { return len(c.blocks) }

// Build decodes raw document bytes with the decoder for the given format.
func Build(raw []byte, format Format) (*Corpus, error) {
	var (
		blocks []string
		err    error
	)
	switch format {
	case FormatText:
		blocks, err = decodeText(raw)
	case FormatEPUB:
		blocks, err = decodeEPUB(raw)
	case FormatPDF:
		blocks, err = decodePDF(raw)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, &DecodeError{Format: format, Err: err}
	}
	return &Corpus{blocks: blocks}, nil
}

// Load reads a document from disk and builds a corpus. When hint is
// FormatUnknown the format is inferred from the file extension.
func Load(path string, hint Format) (*Corpus, error) {
	format := hint
	if format == FormatUnknown {
		format = InferFormat(path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return Build(raw, format)
}

// InferFormat maps a file extension onto a format.
func InferFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".text", ".md":
		return FormatText
	case ".epub":
		return FormatEPUB
	case ".pdf":
		return FormatPDF
	default:
		return FormatUnknown
	}
}

// collapse trims a block and folds runs of whitespace into single spaces.
// No case folding or stemming happens here; matching is the locator's job.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
