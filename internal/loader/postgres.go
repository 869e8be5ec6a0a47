package loader

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/relcsv/relcsv/internal/relation"
)

func loadPostgres(ctx context.Context, connString string, tables []*relation.Table, log *slog.Logger) error {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer func() { _ = conn.Close(ctx) }()

	// Test the connection.
	if err := conn.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	d := dialect{
		quote:       quoteDouble,
		placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	}
	exec := func(ctx context.Context, query string, args ...any) error {
		_, err := conn.Exec(ctx, query, args...)
		return err
	}
	return loadTables(ctx, exec, d, tables, log)
}
