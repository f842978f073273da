// Package export partitions finalized entries by card type and writes the
// two Anki-importable CSV tables.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Jubliano-sama/anki-extractor/internal/model"
	"github.com/Jubliano-sama/anki-extractor/internal/store"
)

// Output file names, matching what Anki users of this tool import.
const (
	BasicFile    = "anki_basic.csv"
	ReversedFile = "anki_basic_reversed.csv"
)

// Row is one output card: front is the word, back is the definition with
// the example appended when present.
type Row struct {
	Front string
	Back  string
}

// Export collects the exportable rows: finalized entries whose card type is
// not skip. Skipped, unfinalized and discarded entries produce no rows.
func Export(st *store.Store) (basic, reversed []Row) {
	for _, e := range st.Snapshot() {
		if e.Status != model.StatusFinalized || e.CardType == model.CardSkip {
			continue
		}
		row := Row{Front: e.Word, Back: backField(e)}
		switch e.CardType {
		case model.CardBasic:
			basic = append(basic, row)
		case model.CardReversed:
			reversed = append(reversed, row)
		}
	}
	return basic, reversed
}

// backField joins definition and example the way the cards have always been
// formatted: Anki renders the <br><br> as a blank line.
func backField(e model.Entry) string {
	if e.Example == "" {
		return e.Definition
	}
	return e.Definition + "<br><br>" + e.Example
}

// WriteCSV writes rows as a front/back table. encoding/csv quotes fields
// containing commas, quotes or newlines, so arbitrary Unicode text
// round-trips.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"front", "back"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.Front, r.Back}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFiles writes the non-empty partitions into dir and returns the paths
// written. Empty partitions produce no file.
func WriteFiles(dir string, basic, reversed []Row) ([]string, error) {
	var written []string
	for _, part := range []struct {
		name string
		rows []Row
	}{
		{BasicFile, basic},
		{ReversedFile, reversed},
	} {
		if len(part.rows) == 0 {
			continue
		}
		path := filepath.Join(dir, part.name)
		if err := writeFile(path, part.rows); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func writeFile(path string, rows []Row) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()
	return WriteCSV(f, rows)
}
