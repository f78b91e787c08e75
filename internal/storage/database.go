package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"modernc.org/sqlite"
)

var db *sqlx.DB

var (
	ErrNotFound   = errors.New("not found")
	ErrUserExists = errors.New("username or email already registered")
)

const (
	sqliteConstraintUnique     = 2067
	sqliteConstraintPrimaryKey = 1555
	pqUniqueViolation          = "23505"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS predictions (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		file_name TEXT NOT NULL,
		model_used TEXT NOT NULL,
		prediction_column TEXT NOT NULL,
		total_records INTEGER NOT NULL,
		churn_rate DOUBLE PRECISION NOT NULL,
		payload TEXT NOT NULL,
		created_at BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_predictions_user_created ON predictions (username, created_at)`,
	`CREATE TABLE IF NOT EXISTS chat_messages (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		channel TEXT NOT NULL,
		message TEXT NOT NULL,
		response TEXT NOT NULL,
		created_at BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_chat_messages_user_created ON chat_messages (username, created_at)`,
}

// InitDB opens the database and creates the tables. driver is "sqlite" or
// "postgres".
func InitDB(driver, dsn string) error {
	conn, err := sqlx.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("InitDB(): failed to open database: %w", err)
	}
	if driver == "sqlite" {
		// one connection keeps :memory: databases shared and avoids SQLITE_BUSY
		conn.SetMaxOpenConns(1)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("InitDB(): failed to connect to database: %w", err)
	}

	for _, stmt := range schema {
		if _, err := conn.Exec(stmt); err != nil {
			conn.Close()
			return fmt.Errorf("InitDB(): failed to create schema: %w", err)
		}
	}

	if db != nil {
		db.Close()
	}
	db = conn
	zap.L().Info("database ready", zap.String("driver", driver))
	return nil
}

func CloseDB() error {
	if db == nil {
		return nil
	}
	err := db.Close()
	db = nil
	return err
}

// Ping reports whether the database is reachable.
func Ping(ctx context.Context) error {
	if db == nil {
		return errors.New("database not initialized")
	}
	return db.PingContext(ctx)
}

func rebind(query string) string {
	return db.Rebind(query)
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == sqliteConstraintUnique || code == sqliteConstraintPrimaryKey
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqUniqueViolation
	}
	return false
}
