package connector

import (
	"context"
	"database/sql"

	"go.uber.org/zap"
)

// classifyFunc extracts the driver diagnostic from a connection error.
type classifyFunc func(error) (Reason, string)

// BaseConnection carries the session lifecycle shared by every variant.
// Variants embed it and supply the driver name, DSN and error
// classification.
type BaseConnection struct {
	dbType   string
	target   string
	user     string
	logger   *zap.Logger
	opener   Opener
	classify classifyFunc

	db   *sql.DB
	conn *sql.Conn
}

func newBaseConnection(dbType string, cfg ConnectionConfig, o options, classify classifyFunc) *BaseConnection {
	return &BaseConnection{
		dbType:   dbType,
		target:   cfg.Target,
		user:     cfg.User,
		logger:   o.logger.With(zap.String("db_type", dbType)),
		opener:   o.opener,
		classify: classify,
	}
}

func (b *BaseConnection) DbType() string { return b.dbType }

func (b *BaseConnection) State() State {
	if b.db != nil && b.conn != nil {
		return Connected
	}
	return Disconnected
}

// open establishes the session and cursor. On any failure both handles are
// cleared before the error is returned.
func (b *BaseConnection) open(ctx context.Context, driverName, dsn string) error {
	b.logger.Info("connecting",
		zap.String("target", b.target),
		zap.String("user", b.user),
	)

	db, err := b.opener(driverName, dsn)
	if err != nil {
		b.reset()
		return b.connectionFailure(err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		b.reset()
		return b.connectionFailure(err)
	}
	conn, err := db.Conn(ctx)
	if err != nil {
		_ = db.Close()
		b.reset()
		return b.connectionFailure(err)
	}

	b.db = db
	b.conn = conn
	b.logger.Info("connection established")
	return nil
}

func (b *BaseConnection) reset() {
	b.db = nil
	b.conn = nil
}

func (b *BaseConnection) connectionFailure(cause error) error {
	e := newError(KindConnection, b.dbType, "connect", "could not connect to "+b.target, cause)
	e.Reason = ReasonUnknown
	if b.classify != nil {
		e.Reason, e.Code = b.classify(cause)
	}

	fields := []zap.Field{zap.Error(cause), zap.String("reason", string(e.Reason))}
	switch e.Reason {
	case ReasonAccessDenied:
		b.logger.Error("access denied, check user and password", fields...)
	case ReasonUnknownDatabase:
		b.logger.Error("target database does not exist", append(fields, zap.String("target", b.target))...)
	default:
		b.logger.Error("could not connect", fields...)
	}
	return e
}

// Disconnect closes the cursor and then the session. Each step runs even
// if the previous one failed; failures are only logged.
func (b *BaseConnection) Disconnect(context.Context) error {
	if b.db == nil && b.conn == nil {
		b.logger.Info("no active connection to close")
		return nil
	}

	if b.conn != nil {
		if err := b.conn.Close(); err != nil {
			b.logger.Warn("could not close cursor", zap.Error(err))
		}
		b.conn = nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			b.logger.Warn("could not close connection", zap.Error(err))
		} else {
			b.logger.Info("connection closed")
		}
		b.db = nil
	}
	return nil
}

// query runs a statement on the cursor. When omitEmptyArgs is set and no
// args are given, the driver is called without any argument list.
func (b *BaseConnection) query(ctx context.Context, query string, args []any, omitEmptyArgs bool) (*QueryResult, error) {
	if b.State() != Connected {
		return nil, notConnected(b.dbType, "execute")
	}

	b.logger.Info("executing query", zap.String("query", truncateQuery(query)))

	var (
		rows *sql.Rows
		err  error
	)
	if omitEmptyArgs && len(args) == 0 {
		rows, err = b.conn.QueryContext(ctx, query)
	} else {
		rows, err = b.conn.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, b.queryFailure(err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, b.queryFailure(err)
	}

	if len(columns) == 0 {
		// some drivers only run the statement once the rows are stepped
		for rows.Next() {
		}
		if err := rows.Err(); err != nil {
			return nil, b.queryFailure(err)
		}
		b.logger.Warn("query returned no column description, not a SELECT?")
		return nil, nil
	}

	result := &QueryResult{Headers: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, b.queryFailure(err)
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, b.queryFailure(err)
	}
	return result, nil
}

func (b *BaseConnection) queryFailure(cause error) error {
	b.logger.Error("query failed", zap.Error(cause))
	return newError(KindQueryExecution, b.dbType, "execute", "", cause)
}
