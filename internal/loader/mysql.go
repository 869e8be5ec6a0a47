package loader

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/go-sql-driver/mysql"

	"github.com/relcsv/relcsv/internal/relation"
)

func loadMySQL(ctx context.Context, connString string, tables []*relation.Table, log *slog.Logger) error {
	db, err := sql.Open("mysql", connString)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	// Test the connection.
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	d := dialect{quote: quoteBacktick, placeholder: questionMark}
	exec := func(ctx context.Context, query string, args ...any) error {
		_, err := db.ExecContext(ctx, query, args...)
		return err
	}
	return loadTables(ctx, exec, d, tables, log)
}
