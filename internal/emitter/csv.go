// Package emitter renders inferred tables as delimited text files, one
// file per table, in either batch or streaming mode.
package emitter

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/relcsv/relcsv/internal/relation"
)

// Ext is the file extension for emitted tables.
const Ext = ".csv"

const delimiter = ','

// quoteField wraps a field in double quotes, doubling embedded quotes,
// only when it contains the delimiter, a quote, or a line break.
// Everything else is emitted verbatim.
func quoteField(field string) string {
	if !strings.ContainsAny(field, string(delimiter)+"\"\n\r") {
		return field
	}
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(field); i++ {
		if field[i] == '"' {
			b.WriteString(`""`)
		} else {
			b.WriteByte(field[i])
		}
	}
	b.WriteByte('"')
	return b.String()
}

func writeLine(w *bufio.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.WriteByte(delimiter); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(quoteField(f)); err != nil {
			return err
		}
	}
	return w.WriteByte('\n')
}

// WriteTables writes every live table's buffered rows in one shot: open,
// header, rows, close, table by table. A table whose file cannot be
// opened is reported and skipped; the remaining tables are still written.
func WriteTables(dir string, tables []*relation.Table, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	for _, t := range tables {
		if t.Merged() {
			continue
		}
		if err := writeTable(dir, t); err != nil {
			log.Error("skipping unwritable table", "table", t.Name, "error", err)
		}
	}
	return nil
}

func writeTable(dir string, t *relation.Table) error {
	f, err := os.Create(filepath.Join(dir, t.Name+Ext))
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	w := bufio.NewWriter(f)
	if err := writeLine(w, t.Columns); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := writeLine(w, row); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

// StreamWriter appends rows to per-table files as they are generated.
// Each table's file is opened lazily on the first row targeting it, gets
// its header at that point, and stays open until Close. A table that
// fails to open is reported once and skipped for the rest of the run.
//
// StreamWriter implements relation.RowSink.
type StreamWriter struct {
	dir    string
	log    *slog.Logger
	files  map[string]*bufio.Writer
	closer map[string]*os.File
	failed map[string]bool
}

// NewStreamWriter creates a stream writer emitting into dir.
func NewStreamWriter(dir string, log *slog.Logger) *StreamWriter {
	if log == nil {
		log = slog.Default()
	}
	return &StreamWriter{
		dir:    dir,
		log:    log,
		files:  make(map[string]*bufio.Writer),
		closer: make(map[string]*os.File),
		failed: make(map[string]bool),
	}
}

// WriteRow appends one row to the table's file, opening it and writing
// the header first if this is the table's first row.
func (w *StreamWriter) WriteRow(t *relation.Table, row []string) error {
	if w.failed[t.Name] {
		return nil
	}
	bw, ok := w.files[t.Name]
	if !ok {
		f, err := os.Create(filepath.Join(w.dir, t.Name+Ext))
		if err != nil {
			w.failed[t.Name] = true
			w.log.Error("skipping unwritable table", "table", t.Name, "error", err)
			return nil
		}
		bw = bufio.NewWriter(f)
		w.files[t.Name] = bw
		w.closer[t.Name] = f
		if err := writeLine(bw, t.Columns); err != nil {
			return err
		}
	}
	return writeLine(bw, row)
}

// Close flushes and closes every open file. All files are closed even if
// some fail; the first error is returned.
func (w *StreamWriter) Close() error {
	var firstErr error
	for name, bw := range w.files {
		if err := bw.Flush(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("flush %s: %w", name, err)
		}
		if err := w.closer[name].Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close %s: %w", name, err)
		}
	}
	w.files = make(map[string]*bufio.Writer)
	w.closer = make(map[string]*os.File)
	return firstErr
}
