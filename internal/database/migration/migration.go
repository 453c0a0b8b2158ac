// Package migration creates the record and principal tables on first start.
package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinelTable is created by the last step; its presence means the schema is complete.
const sentinelTable = "public.users"

var steps = []migrationStep{
	{
		Name: "create_table_products",
		SQL: `CREATE TABLE IF NOT EXISTS products (
  id               UUID        PRIMARY KEY,
  title            TEXT        NOT NULL,
  authors          JSONB       NOT NULL DEFAULT '[]',
  abstract         TEXT        NOT NULL DEFAULT '',
  product_type     TEXT        NOT NULL,
  doi              TEXT,
  publication_year INTEGER,
  journal          TEXT,
  keywords         JSONB       NOT NULL DEFAULT '[]',
  url              TEXT,
  document_file    TEXT        NOT NULL DEFAULT '',
  audio_file       TEXT        NOT NULL DEFAULT '',
  view_count       BIGINT      NOT NULL DEFAULT 0 CHECK (view_count >= 0),
  download_count   BIGINT      NOT NULL DEFAULT 0 CHECK (download_count >= 0),
  created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_products_type",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_products_product_type ON products (product_type);`,
	},
	{
		Name: "create_index_products_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_products_created_at ON products (created_at DESC, id DESC);`,
	},
	{
		Name: "create_table_news",
		SQL: `CREATE TABLE IF NOT EXISTS news (
  id         UUID        PRIMARY KEY,
  title      TEXT        NOT NULL,
  content    TEXT        NOT NULL,
  category   TEXT        NOT NULL,
  author     TEXT        NOT NULL,
  image_file TEXT        NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_news_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_news_created_at ON news (created_at DESC, id DESC);`,
	},
	{
		Name: "create_table_ensino",
		SQL: `CREATE TABLE IF NOT EXISTS ensino (
  id            UUID        PRIMARY KEY,
  title         TEXT        NOT NULL,
  description   TEXT        NOT NULL,
  subject       TEXT        NOT NULL,
  tipo          TEXT        NOT NULL,
  video_url     TEXT,
  material_file TEXT        NOT NULL DEFAULT '',
  image_file    TEXT        NOT NULL DEFAULT '',
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_ensino_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_ensino_created_at ON ensino (created_at DESC, id DESC);`,
	},
	{
		Name: "create_table_extensao",
		SQL: `CREATE TABLE IF NOT EXISTS extensao (
  id            UUID        PRIMARY KEY,
  title         TEXT        NOT NULL,
  description   TEXT        NOT NULL,
  location      TEXT        NOT NULL,
  tipo          TEXT        NOT NULL,
  event_date    TIMESTAMPTZ,
  video_url     TEXT,
  material_file TEXT        NOT NULL DEFAULT '',
  image_file    TEXT        NOT NULL DEFAULT '',
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_extensao_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_extensao_created_at ON extensao (created_at DESC, id DESC);`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id            UUID        PRIMARY KEY,
  username      TEXT        NOT NULL UNIQUE,
  password_hash TEXT        NOT NULL,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
}

// EnsureMigrated runs every step unless the sentinel table already exists.
// Steps are idempotent, so a run interrupted halfway is completed on the next start.
func EnsureMigrated(ctx context.Context, db *sql.DB, log zerolog.Logger, dbHost string) error {
	start := time.Now()
	log = log.With().Str("component", "database").Str("db_host", dbHost).Logger()
	log.Info().Str("status", "starting").Msg("db_migration_check")

	var exists bool
	err := db.QueryRowContext(ctx, "SELECT to_regclass($1) IS NOT NULL", sentinelTable).Scan(&exists)
	if err != nil {
		log.Error().
			Err(err).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("db_migration_failed")
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info().
			Str("status", "success").
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("db_migration_skip")
		return nil
	}

	log.Info().Str("status", "in_progress").Int("steps", len(steps)).Msg("db_migration_start")

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error().
				Err(err).
				Str("migration_step", step.Name).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
				Msg("db_migration_failed")
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Debug().
			Str("migration_step", step.Name).
			Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
			Msg("db_migration_step")
	}

	log.Info().
		Str("status", "success").
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("db_migration_success")
	return nil
}
