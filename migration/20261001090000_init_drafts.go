package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upInitDrafts, downInitDrafts)
}

func upInitDrafts(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		CREATE TABLE drafts (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			country_code VARCHAR(8) NOT NULL,
			total_foreign NUMERIC(18,4) NOT NULL DEFAULT 0,
			mode VARCHAR(16) NOT NULL DEFAULT 'EQUAL',
			equal_amount VARCHAR(32) NOT NULL DEFAULT '',
			individual_locked BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `CREATE INDEX idx_drafts_updated_at ON drafts(updated_at DESC);`)
	if err != nil {
		return err
	}

	// members are replaced wholesale on update, so they cascade with the draft
	_, err = tx.ExecContext(ctx, `
		CREATE TABLE draft_members (
			draft_id UUID NOT NULL,
			position INTEGER NOT NULL,
			member_id BIGINT NOT NULL DEFAULT 0,
			temp_id VARCHAR(64) NOT NULL DEFAULT '',
			name VARCHAR(255) NOT NULL,
			is_leader BOOLEAN NOT NULL DEFAULT FALSE,
			amount VARCHAR(32) NOT NULL DEFAULT '',
			has_amount BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (draft_id, position),
			CONSTRAINT fk_draft_members_draft
				FOREIGN KEY(draft_id)
				REFERENCES drafts(id)
				ON UPDATE CASCADE
				ON DELETE CASCADE
		);
	`)
	if err != nil {
		return err
	}

	return nil
}

func downInitDrafts(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS draft_members;`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `DROP TABLE IF EXISTS drafts;`)
	if err != nil {
		return err
	}

	return nil
}
