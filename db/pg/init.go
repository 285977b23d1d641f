package pg

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"jeongsan/config"
)

const defaultDSN = "host=localhost user=postgres dbname=postgres port=5432 sslmode=disable TimeZone=Asia/Seoul"

// CreateDSN resolves the connection string from configured, DATABASE_URL or
// the DATABASE_* variables, and points it at the app schema.
func CreateDSN(configured string) string {
	connStr := defaultDSN
	switch {
	case configured != "":
		connStr = configured
		slog.Info("using configured database url")
	case os.Getenv("DATABASE_URL") != "":
		connStr = os.Getenv("DATABASE_URL")
		slog.Info("using DATABASE_URL")
	case os.Getenv("DATABASE_PASSWORD") != "":
		dbUser := "postgres"
		if os.Getenv("DATABASE_USER") != "" {
			dbUser = os.Getenv("DATABASE_USER")
		}
		host := "127.0.0.1"
		if os.Getenv("DATABASE_HOST") != "" {
			host = os.Getenv("DATABASE_HOST")
		}
		connStr = fmt.Sprintf("host=%s user=%s dbname=postgres password=%s port=5432 sslmode=disable", host, dbUser, os.Getenv("DATABASE_PASSWORD"))
		slog.Info("using DATABASE_PASSWORD", "host", host, "user", dbUser)
	default:
		slog.Info("using default connection string", "dsn", connStr)
	}

	return withSearchPath(connStr, config.AppName)
}

func withSearchPath(connStr, schema string) string {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		u, err := url.Parse(connStr)
		if err == nil {
			q := u.Query()
			q.Set("search_path", schema)
			u.RawQuery = q.Encode()
			return u.String()
		}
	}
	return connStr + fmt.Sprintf(" search_path=%s", schema)
}

func CloseGORM(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("get sql.DB from GORM", "error", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		slog.Error("close database", "error", err)
	}
}

// InitPostgresGORM opens and pings a GORM connection. SQL logs go through
// slog at debug level.
func InitPostgresGORM(dsn string) (*gorm.DB, error) {
	newLogger := logger.New(
		slog.NewLogLogger(slog.Default().Handler(), slog.LevelDebug),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err = sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}
