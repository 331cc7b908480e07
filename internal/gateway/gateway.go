// Package gateway provides the database session primitives the deep-query
// engine runs against: table listing, table introspection and read-only
// query execution. Connection lifecycle, timeouts and dialect differences
// live here, not in the engine.
package gateway

import (
	"context"

	"sqlscope/backend/internal/model"
)

// Session is one usable database connection handed to the engine for the
// duration of a chain invocation. Implementations own pooling and
// reconnect policy; the engine never caches a Session across invocations.
type Session interface {
	ListTables(ctx context.Context) ([]string, error)
	DescribeTables(ctx context.Context, names []string) (map[string]string, error)
	RunSelect(ctx context.Context, sql string) (*model.QueryPayload, error)
}

// Error wraps a failure from one of the session primitives with the name
// of the primitive that produced it.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}
