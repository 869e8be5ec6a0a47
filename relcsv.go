// Package relcsv converts an arbitrary JSON document into a set of
// relational tables, one CSV file per table, suitable for import into a
// relational store.
//
// The converter discovers a table for every distinct nesting position in
// the document, synthesizes primary and foreign keys that encode the
// original nesting, splits arrays into child tables (arrays of objects)
// or junction tables (arrays of scalars), derives table and column names
// from the document's own keys, and collapses tables that turn out to
// denote the same entity.
//
// # Quick Start
//
// The simplest way to use this package is with ConvertAndWrite:
//
//	err := relcsv.ConvertAndWrite(file, &relcsv.OutputOptions{
//		OutputDir: "out",
//	})
//
// # Two-phase workflow
//
// Convert and WriteTables can be used separately to inspect the inferred
// schema before anything is written:
//
//	sess, err := relcsv.Convert(file)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(sess.TableNames())
//	err = relcsv.WriteTables(sess, &relcsv.OutputOptions{OutputDir: "out"})
//
// # Emission modes
//
// Batch mode (the default) buffers all rows in memory and then writes
// each table in one shot. Streaming mode opens each table's file lazily
// on its first row and appends rows as they are generated, keeping one
// file handle per table open for the lifetime of the run:
//
//	&OutputOptions{OutputDir: "out", Streaming: true}
//
// # Database import
//
// LoadDatabase imports the generated tables directly into PostgreSQL,
// MySQL, or SQLite, addressed by URL the same way for all three:
//
//	err = relcsv.LoadDatabase(ctx, sess, "sqlite://out.db")
package relcsv

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/relcsv/relcsv/internal/ast"
	"github.com/relcsv/relcsv/internal/emitter"
	"github.com/relcsv/relcsv/internal/loader"
	"github.com/relcsv/relcsv/internal/relation"
)

// OutputOptions configures table emission.
//
// All fields are optional. If OutputDir is empty the current directory is
// used. Streaming selects incremental emission instead of buffering.
type OutputOptions struct {
	// OutputDir is the directory table files are written into, one
	// <tableName>.csv per live table. Created if it does not exist.
	OutputDir string

	// Streaming flushes rows to per-table files as they are generated
	// instead of buffering all rows first.
	Streaming bool
}

// Convert parses one JSON document from r and runs schema inference:
// identifier assignment, shape analysis, and relationship resolution.
// No rows are generated and nothing is written.
//
// The returned session exposes the final schema (TableNames, Tables) and
// is the input to WriteTables and LoadDatabase.
func Convert(r io.Reader) (*relation.Session, error) {
	doc, err := ast.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return ConvertDocument(doc), nil
}

// ConvertDocument runs schema inference over an already-built tree.
func ConvertDocument(doc *ast.Document) *relation.Session {
	sess := relation.NewSession(doc)
	sess.AssignIDs()
	sess.Analyze()
	sess.Resolve()
	return sess
}

// WriteTables generates rows and writes one CSV file per live table into
// opts.OutputDir.
//
// In batch mode every row is buffered before any file is opened; in
// streaming mode rows are appended as generated. In both modes a table
// whose file cannot be opened is reported and skipped, and the remaining
// tables are still written — emission is not atomic across tables.
func WriteTables(sess *relation.Session, opts *OutputOptions) error {
	if opts == nil {
		opts = &OutputOptions{}
	}
	dir := opts.OutputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if opts.Streaming {
		w := emitter.NewStreamWriter(dir, nil)
		if err := sess.EmitRows(w); err != nil {
			_ = w.Close()
			return fmt.Errorf("failed to generate rows: %w", err)
		}
		return w.Close()
	}

	if err := sess.EmitRows(nil); err != nil {
		return fmt.Errorf("failed to generate rows: %w", err)
	}
	return emitter.WriteTables(dir, sess.Tables(), nil)
}

// ConvertAndWrite converts one JSON document from r and writes the
// resulting tables in one call. This is the recommended entry point for
// most use cases.
func ConvertAndWrite(r io.Reader, opts *OutputOptions) error {
	sess, err := Convert(r)
	if err != nil {
		return err
	}
	return WriteTables(sess, opts)
}

// LoadDatabase imports the session's live tables into the database
// addressed by databaseURL (postgres://, mysql://, or sqlite://). Rows
// are generated first if WriteTables has not already buffered them.
func LoadDatabase(ctx context.Context, sess *relation.Session, databaseURL string) error {
	if !sess.Generated() {
		if err := sess.EmitRows(nil); err != nil {
			return fmt.Errorf("failed to generate rows: %w", err)
		}
	}
	return loader.Load(ctx, databaseURL, sess.Tables(), nil)
}
