package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"jeongsan/config"
	"jeongsan/db/pg"
	_ "jeongsan/migration" // registers the Go migrations

	_ "github.com/lib/pq" // PostgreSQL 驅動程式

	"github.com/pressly/goose/v3"
)

const migrationsDir = "migration"

func migrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "migrate the draft database",
		Long:  `This command creates the app schema if needed and migrates the draft tables with goose.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			up, _ := cmd.Flags().GetBool("up")
			down, _ := cmd.Flags().GetBool("down")
			if down && cmd.Flags().Changed("up") && up {
				return cmd.Help()
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runMigrate(ctx, pg.CreateDSN(appConfig.Database.URL), down)
		},
	}

	cmd.Flags().BoolP("up", "u", true, "up the version of db")
	cmd.Flags().BoolP("down", "d", false, "roll back the last migration")

	return cmd
}

func runMigrate(ctx context.Context, dsn string, down bool) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	// Ping 資料庫以確保連接已成功建立
	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	slog.Info("connected to the database")

	// search_path points at the app schema, which must exist before goose
	// creates its version table there
	if _, err := db.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+config.AppName); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	if down {
		slog.Info("rolling back the last migration")
		if err := goose.DownContext(ctx, db, migrationsDir); err != nil {
			return fmt.Errorf("goose down: %w", err)
		}
	} else {
		slog.Info("running up migrations")
		if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
			return fmt.Errorf("goose up: %w", err)
		}
	}

	if err := goose.StatusContext(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("goose status: %w", err)
	}
	return nil
}
