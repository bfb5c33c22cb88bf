package db

import (
	"context"

	"github.com/fbz-tec/pgxunload/core/unload"
	"github.com/jackc/pgx/v5/pgconn"
)

// Store runs UNLOAD statements against a Redshift cluster.
type Store interface {
	Connect(ctx context.Context) error
	Close() error
	Exec(ctx context.Context, sql string) (pgconn.CommandTag, error)
	Unload(ctx context.Context, st *unload.Statement) (pgconn.CommandTag, error)
}
