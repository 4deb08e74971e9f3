// Package connector wraps vendor database drivers behind one
// connect / execute / disconnect surface.
//
// Each connector owns at most one session and one cursor at a time. The
// session is a *sql.DB, and the cursor is a dedicated *sql.Conn taken from
// it. Connectors are not safe for concurrent use.
package connector

import (
	"context"
	"database/sql"
	"maps"
	"slices"
)

// Connector is the capability set shared by every connector variant.
type Connector interface {
	// Connect opens the session and cursor. It is a no-op when already
	// connected.
	Connect(ctx context.Context) error
	// Disconnect releases the cursor and then the session. Release failures
	// are logged and never returned; the connector always ends disconnected.
	Disconnect(ctx context.Context) error
	// ExecuteQuery runs query with args forwarded to the driver unchanged.
	// Statements without a result set return a nil result and a nil error.
	ExecuteQuery(ctx context.Context, query string, args ...any) (*QueryResult, error)
	// State reports the lifecycle state.
	State() State
	// DbType names the database kind, e.g. "mysql" or "oracle".
	DbType() string
}

// State is the lifecycle state of a connector.
type State int

const (
	Disconnected State = iota
	Connected
)

func (s State) String() string {
	switch s {
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

// QueryResult holds the column headers and rows of a statement that
// produced a result set. Row values are whatever the driver returned.
type QueryResult struct {
	Headers []string
	Rows    [][]any
}

// Opener opens a driver session. It has the signature of sql.Open.
type Opener func(driverName, dataSourceName string) (*sql.DB, error)

func sqlOpen(driverName, dataSourceName string) (*sql.DB, error) {
	return sql.Open(driverName, dataSourceName)
}

// Named turns a mapping of named parameters into driver arguments, sorted
// by name. Placeholder syntax stays driver specific.
func Named(params map[string]any) []any {
	names := slices.Sorted(maps.Keys(params))
	args := make([]any, 0, len(names))
	for _, name := range names {
		args = append(args, sql.Named(name, params[name]))
	}
	return args
}

const maxLoggedQuery = 100

func truncateQuery(query string) string {
	r := []rune(query)
	if len(r) <= maxLoggedQuery {
		return query
	}
	return string(r[:maxLoggedQuery]) + "..."
}
