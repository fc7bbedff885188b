package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/crimson-data/cfb-analytics/internal/config"
)

// openDB opens the instrumented Postgres pool. Every statement becomes a
// span with the collapsed query text attached.
func openDB(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("postgres", cfg.DBURL,
		otelsql.WithDBName("cfb"),
		otelsql.WithQueryFormatter(formatQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres at %s: %w", RedactDBURL(cfg.DBURL), err)
	}

	return db, nil
}

// formatQuery collapses whitespace runs so multi-line statements read as
// one line in trace attributes.
func formatQuery(query string) string {
	return strings.Join(strings.Fields(query), " ")
}
