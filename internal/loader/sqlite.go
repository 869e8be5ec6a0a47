package loader

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"

	"github.com/relcsv/relcsv/internal/relation"
)

func loadSQLite(ctx context.Context, path string, tables []*relation.Table, log *slog.Logger) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	// Test the connection.
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	d := dialect{quote: quoteDouble, placeholder: questionMark}
	exec := func(ctx context.Context, query string, args ...any) error {
		_, err := db.ExecContext(ctx, query, args...)
		return err
	}
	return loadTables(ctx, exec, d, tables, log)
}
