// Package loader imports generated tables into a relational store.
//
// The target is selected by URL scheme, matching the converter CLI:
// postgres:// (pgx), mysql:// (go-sql-driver), sqlite:// (mattn). Tables
// are created with INTEGER key columns and TEXT everything else, then
// populated row by row in emission order. A table that fails to create or
// populate is reported and skipped; the load continues with the rest.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/relcsv/relcsv/internal/relation"
)

// Load imports the live tables into the database addressed by databaseURL.
// Rows must already be generated (batch mode).
func Load(ctx context.Context, databaseURL string, tables []*relation.Table, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	switch {
	case strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://"):
		return loadPostgres(ctx, databaseURL, tables, log)
	case strings.HasPrefix(databaseURL, "mysql://"):
		// Strip mysql:// prefix for the Go MySQL driver.
		return loadMySQL(ctx, strings.TrimPrefix(databaseURL, "mysql://"), tables, log)
	case strings.HasPrefix(databaseURL, "sqlite://"):
		// Strip sqlite:// prefix to get the file path.
		return loadSQLite(ctx, strings.TrimPrefix(databaseURL, "sqlite://"), tables, log)
	}
	return fmt.Errorf("invalid database URL scheme (must start with postgres://, mysql://, or sqlite://)")
}

// execFunc abstracts over pgx and database/sql statement execution.
type execFunc func(ctx context.Context, query string, args ...any) error

// dialect captures the identifier quoting and placeholder conventions a
// backend expects.
type dialect struct {
	quote       func(string) string
	placeholder func(n int) string // 1-based
}

func quoteDouble(s string) string { return `"` + strings.ReplaceAll(s, `"`, `""`) + `"` }
func quoteBacktick(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}

func questionMark(int) string { return "?" }

// columnType maps a column name to its SQL type: synthetic keys and the
// sequence counter are integers, everything else is text.
func columnType(name string) string {
	if name == "id" || name == "seq" || strings.HasSuffix(name, "_id") {
		return "INTEGER"
	}
	return "TEXT"
}

func createStmt(d dialect, t *relation.Table) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(d.quote(t.Name))
	b.WriteString(" (")
	for i, c := range t.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(d.quote(c))
		b.WriteByte(' ')
		b.WriteString(columnType(c))
		if i == 0 && c == "id" {
			b.WriteString(" PRIMARY KEY")
		}
	}
	b.WriteString(")")
	return b.String()
}

func insertStmt(d dialect, t *relation.Table) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(d.quote(t.Name))
	b.WriteString(" (")
	for i, c := range t.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(d.quote(c))
	}
	b.WriteString(") VALUES (")
	for i := range t.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(d.placeholder(i + 1))
	}
	b.WriteString(")")
	return b.String()
}

// rowArgs converts one emitted row to statement arguments. Empty text in
// an integer column (an absent parent or seq) becomes NULL.
func rowArgs(t *relation.Table, row []string) []any {
	args := make([]any, len(row))
	for i, v := range row {
		if v == "" && i < len(t.Columns) && columnType(t.Columns[i]) == "INTEGER" {
			args[i] = nil
			continue
		}
		args[i] = v
	}
	return args
}

func loadTables(ctx context.Context, exec execFunc, d dialect, tables []*relation.Table, log *slog.Logger) error {
	for _, t := range tables {
		if t.Merged() {
			continue
		}
		if err := exec(ctx, createStmt(d, t)); err != nil {
			log.Error("skipping table: create failed", "table", t.Name, "error", err)
			continue
		}
		stmt := insertStmt(d, t)
		for _, row := range t.Rows {
			if err := exec(ctx, stmt, rowArgs(t, row)...); err != nil {
				log.Error("skipping table: insert failed", "table", t.Name, "error", err)
				break
			}
		}
	}
	return nil
}
