package db

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/fbz-tec/pgxunload/core/formatters"
	"github.com/fbz-tec/pgxunload/core/unload"
	"github.com/fbz-tec/pgxunload/internal/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	connectTimeout = 10 * time.Second
	closeTimeout   = 2 * time.Second
)

// PgStore is a single pgx connection to a Redshift cluster.
type PgStore struct {
	dsn  string
	conn *pgx.Conn
}

func NewPgStore(dsn string) *PgStore {
	return &PgStore{dsn: dsn}
}

// Connect opens the connection and pings it. Calling Connect on an open
// store does nothing.
func (s *PgStore) Connect(ctx context.Context) error {
	if s.conn != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	logger.Debug("Connection timeout: %s", connectTimeout)
	logger.Debug("Attempting to connect to cluster: %s", sanitizeDSN(s.dsn))

	conn, err := pgx.Connect(ctx, s.dsn)
	if err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		conn.Close(ctx)
		return fmt.Errorf("unable to ping database: %w", err)
	}

	logger.Debug("Database ping successful")
	s.conn = conn
	return nil
}

func (s *PgStore) Close() error {
	if s.conn == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	err := s.conn.Close(ctx)
	if err != nil {
		logger.Debug("Error closing database connection: %v", err)
	} else {
		logger.Debug("Database connection closed")
	}
	s.conn = nil
	return err
}

// Exec runs sql with the simple query protocol. Redshift does not accept
// UNLOAD as a prepared statement.
func (s *PgStore) Exec(ctx context.Context, sql string) (pgconn.CommandTag, error) {
	if s.conn == nil {
		return pgconn.CommandTag{}, fmt.Errorf("database not connected")
	}

	logger.Debug("Executing: %s", sql)

	start := time.Now()
	tag, err := s.conn.Exec(ctx, sql, pgx.QueryExecModeSimpleProtocol)
	if err != nil {
		return pgconn.CommandTag{}, fmt.Errorf("statement execution failed: %w", err)
	}

	logger.Debug("Statement completed in %v (%s)", time.Since(start), tag.String())
	return tag, nil
}

// Unload binds the statement parameters and executes it.
func (s *PgStore) Unload(ctx context.Context, st *unload.Statement) (pgconn.CommandTag, error) {
	sql, err := formatters.BindStatement(st)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	return s.Exec(ctx, sql)
}

// sanitizeDSN masks the password inside a DSN before logging.
func sanitizeDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "<invalid-dsn>"
	}

	var userInfo string
	if u.User != nil {
		username := u.User.Username()
		if _, hasPwd := u.User.Password(); hasPwd {
			userInfo = fmt.Sprintf("%s:***@", username)
		} else {
			userInfo = fmt.Sprintf("%s@", username)
		}
	}

	path := u.Path
	if path == "" {
		path = "/"
	}

	return fmt.Sprintf("%s://%s%s%s", u.Scheme, userInfo, u.Host, path)
}
