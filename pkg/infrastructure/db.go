package infrastructure

import (
	"context"
	"os"

	"github.com/jackc/pgx/v4/pgxpool"
)

// NewDocumentsPool connects to the documents database. An empty dsn falls back
// to DOCUMENTS_DATABASE_URL.
func NewDocumentsPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if dsn == "" {
		dsn = os.Getenv("DOCUMENTS_DATABASE_URL")
	}
	pool, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
