package corpus

import (
	"archive/zip"
	"bytes"
	"errors"
	"reflect"
	"testing"
)

func TestBuild_Text(t *testing.T) {
	raw := []byte("First   paragraph\nwith a wrapped line.\n\n\nSecond paragraph.\r\n\r\nThird.")
	c, err := Build(raw, FormatText)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := []string{
		"First paragraph with a wrapped line.",
		"Second paragraph.",
		"Third.",
	}
	if !reflect.DeepEqual(c.Blocks(), want) {
		t.Errorf("blocks = %q, want %q", c.Blocks(), want)
	}
}

func TestBuild_TextEmpty(t *testing.T) {
	c, err := Build([]byte("  \n\n \n"), FormatText)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("blocks = %q, want none", c.Blocks())
	}
}

func TestBuild_UnsupportedFormat(t *testing.T) {
	_, err := Build([]byte("x"), Format("docx"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
	_, err = Build([]byte("x"), FormatUnknown)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestBuild_DecodeError(t *testing.T) {
	_, err := Build([]byte("not a zip archive"), FormatEPUB)
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("err = %T, want *DecodeError", err)
	}
	if de.Format != FormatEPUB {
		t.Errorf("format = %q, want epub", de.Format)
	}
}

func TestBuild_EPUB(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"mimetype":          "application/epub+zip",
		"OEBPS/ch01.xhtml":  "<html><body><h1>One</h1><p>First  chapter\ntext.</p><p></p></body></html>",
		"OEBPS/ch02.xhtml":  "<html><body><p>Second chapter.</p><script>junk()</script></body></html>",
		"OEBPS/styles.css":  "p { margin: 0 }",
		"OEBPS/content.opf": "<package/>",
	}
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}

	c, err := Build(buf.Bytes(), FormatEPUB)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := []string{"One", "First chapter text.", "Second chapter."}
	if !reflect.DeepEqual(c.Blocks(), want) {
		t.Errorf("blocks = %q, want %q", c.Blocks(), want)
	}
}

func TestBuild_EPUBNoChapters(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("mimetype")
	w.Write([]byte("application/epub+zip"))
	zw.Close()

	_, err := Build(buf.Bytes(), FormatEPUB)
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("err = %T, want *DecodeError", err)
	}
}

func TestInferFormat(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"book.txt", FormatText},
		{"notes.MD", FormatText},
		{"book.epub", FormatEPUB},
		{"paper.PDF", FormatPDF},
		{"archive.docx", FormatUnknown},
		{"noext", FormatUnknown},
	}
	for _, tt := range tests {
		if got := InferFormat(tt.path); got != tt.want {
			t.Errorf("InferFormat(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
