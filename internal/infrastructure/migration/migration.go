package migration

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/sirupsen/logrus"
)

// Migration represents a database migration
type Migration struct {
	Name  string
	Query string
}

// Migrations lists the schema changes in order. Every query is idempotent.
var Migrations = []Migration{
	{
		Name: "create_resume_documents",
		Query: `
		CREATE TABLE IF NOT EXISTS resume_documents (
			id UUID PRIMARY KEY,
			file_name TEXT NOT NULL DEFAULT '',
			mime_type TEXT NOT NULL DEFAULT '',
			state TEXT NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			block_count INTEGER NOT NULL DEFAULT 0,
			ocr_result JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
	},
	{
		Name: "index_resume_documents_state",
		Query: `
		CREATE INDEX IF NOT EXISTS resume_documents_state_idx
		ON resume_documents (state, updated_at DESC);`,
	},
}

// RunMigrations executes all necessary database migrations on startup
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, log logrus.FieldLogger) error {
	log = log.WithField("component", "migration")
	log.Info("Starting database migrations")

	for _, m := range Migrations {
		if _, err := pool.Exec(ctx, m.Query); err != nil {
			log.WithField("name", m.Name).WithError(err).Error("Migration failed")
			return err
		}
		log.WithField("name", m.Name).Info("Migration completed")
	}

	log.Info("All migrations completed successfully")
	return nil
}
