package corpus

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// decodeEPUB treats the document as an EPUB container: a zip archive of
// XHTML chapter files. Chapters are read in archive path order, which
// matches spine order for the vast majority of books, and each markup
// paragraph becomes one block.
func decodeEPUB(raw []byte) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("open container: %w", err)
	}

	var chapters []*zip.File
	for _, f := range zr.File {
		if isChapterFile(f.Name) {
			chapters = append(chapters, f)
		}
	}
	if len(chapters) == 0 {
		return nil, fmt.Errorf("no document items in container")
	}
	sort.Slice(chapters, func(i, j int) bool { return chapters[i].Name < chapters[j].Name })

	var blocks []string
	for _, ch := range chapters {
		rc, err := ch.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", ch.Name, err)
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", ch.Name, err)
		}
		chBlocks, err := htmlBlocks(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", ch.Name, err)
		}
		blocks = append(blocks, chBlocks...)
	}
	return blocks, nil
}

func isChapterFile(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range []string{".xhtml", ".html", ".htm"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// htmlBlocks extracts one text block per block-level element, skipping
// scripts and styles.
func htmlBlocks(data []byte) ([]string, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var blocks []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style":
				return
			case "p", "h1", "h2", "h3", "h4", "h5", "h6", "li", "blockquote", "td":
				if b := collapse(nodeText(n)); b != "" {
					blocks = append(blocks, b)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	// Some chapters carry bare text without paragraph markup.
	if len(blocks) == 0 {
		if b := collapse(nodeText(doc)); b != "" {
			blocks = append(blocks, b)
		}
	}
	return blocks, nil
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
			return
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
