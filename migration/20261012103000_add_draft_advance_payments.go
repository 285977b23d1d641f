package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upAddDraftAdvancePayments, downAddDraftAdvancePayments)
}

func upAddDraftAdvancePayments(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		ALTER TABLE drafts
		ADD COLUMN advance_payments JSONB NOT NULL DEFAULT '[]'::jsonb;
	`)
	return err
}

func downAddDraftAdvancePayments(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `ALTER TABLE drafts DROP COLUMN IF EXISTS advance_payments;`)
	return err
}
