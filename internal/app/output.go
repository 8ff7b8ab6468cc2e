package app

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/five82/dstk/pkg/dstk"
)

// table writes CSV rows, with an optional header row.
type table struct {
	w *csv.Writer
}

func newTable(out io.Writer, showHeaders bool, header ...string) (*table, error) {
	t := &table{w: csv.NewWriter(out)}
	if showHeaders {
		if err := t.w.Write(header); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}
	return t, nil
}

func (t *table) row(fields ...string) error {
	if err := t.w.Write(fields); err != nil {
		return fmt.Errorf("write row: %w", err)
	}
	return nil
}

func (t *table) flush() error {
	t.w.Flush()
	if err := t.w.Error(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func looseFloat(v dstk.LooseFloat) string {
	return formatFloat(float64(v))
}

func looseInt(v dstk.LooseInt) string {
	return strconv.Itoa(int(v))
}

// optionalInt leaves zero codes blank; the service uses 0 for "unknown".
func optionalInt(v dstk.LooseInt) string {
	if v == 0 {
		return ""
	}
	return looseInt(v)
}

// blanks pads a row for inputs the service could not resolve.
func blanks(n int) []string {
	return make([]string, n)
}

// writeText prints a document and guarantees a trailing newline.
func writeText(out io.Writer, text string) error {
	if _, err := io.WriteString(out, text); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if text == "" || text[len(text)-1] != '\n' {
		if _, err := io.WriteString(out, "\n"); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return nil
}
