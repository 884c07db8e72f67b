package repository

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jmoiron/sqlx"
)

//go:embed migrations/schema.sql
var schema string

// migrations run in order after the schema. Each one must be idempotent;
// append new ones at the end.
var migrations = []string{
	// Rows written by older clients kept comments in comment_data or
	// "commentsData". Fold whichever array is longer into comments and drop
	// the legacy columns.
	`DO $$
	BEGIN
		IF EXISTS (SELECT 1 FROM information_schema.columns
		           WHERE table_name = 'items' AND column_name = 'comment_data') THEN
			UPDATE items SET comments = comment_data::jsonb
			WHERE jsonb_typeof(comment_data::jsonb) = 'array'
			  AND jsonb_array_length(comment_data::jsonb) >
			      CASE WHEN jsonb_typeof(comments) = 'array' THEN jsonb_array_length(comments) ELSE 0 END;
			ALTER TABLE items DROP COLUMN comment_data;
		END IF;
		IF EXISTS (SELECT 1 FROM information_schema.columns
		           WHERE table_name = 'items' AND column_name = 'commentsData') THEN
			UPDATE items SET comments = "commentsData"::jsonb
			WHERE jsonb_typeof("commentsData"::jsonb) = 'array'
			  AND jsonb_array_length("commentsData"::jsonb) >
			      CASE WHEN jsonb_typeof(comments) = 'array' THEN jsonb_array_length(comments) ELSE 0 END;
			ALTER TABLE items DROP COLUMN "commentsData";
		END IF;
	END $$`,
	// Non-array values in comments are left for the tolerant decoder; normalize
	// SQL NULLs so jsonb operators behave.
	`UPDATE items SET comments = '[]'::jsonb WHERE comments IS NULL OR comments = 'null'::jsonb`,
	`UPDATE items SET contact_details = '[]'::jsonb WHERE contact_details IS NULL OR jsonb_typeof(contact_details) <> 'array'`,
}

// Migrate creates the schema and applies pending migrations.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	for i, m := range migrations {
		if _, err := db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}
	return nil
}
