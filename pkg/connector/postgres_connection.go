package connector

import (
	"context"
	"errors"
	"net"
	"net/url"

	"github.com/lib/pq"
)

const postgresDefaultPort = "5432"

// PostgresConnector is the connector for PostgreSQL through lib/pq.
type PostgresConnector struct {
	*BaseConnection
	cfg ConnectionConfig
}

var _ Connector = (*PostgresConnector)(nil)

// NewPostgresConnector stores cfg and returns a disconnected connector.
func NewPostgresConnector(cfg ConnectionConfig, opts ...Option) *PostgresConnector {
	cfg = cfg.clone()
	o := buildOptions(opts)
	return &PostgresConnector{
		BaseConnection: newBaseConnection("postgres", cfg, o, classifyPostgresError),
		cfg:            cfg,
	}
}

func (p *PostgresConnector) Connect(ctx context.Context) error {
	if p.State() == Connected {
		p.logger.Info("connection already active")
		return nil
	}
	return p.open(ctx, "postgres", p.DSN())
}

func (p *PostgresConnector) ExecuteQuery(ctx context.Context, query string, args ...any) (*QueryResult, error) {
	return p.query(ctx, query, args, false)
}

// DSN renders a postgres:// URL; options become query parameters.
func (p *PostgresConnector) DSN() string {
	host, port, database := splitTarget(p.cfg.Target, postgresDefaultPort)
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(p.cfg.User, p.cfg.Password),
		Host:   net.JoinHostPort(host, port),
		Path:   "/" + database,
	}
	q := url.Values{}
	for k, v := range p.cfg.Options {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func classifyPostgresError(err error) (Reason, string) {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return ReasonUnknown, ""
	}
	code := string(pqErr.Code)
	switch code {
	case "28P01", "28000":
		return ReasonAccessDenied, code
	case "3D000":
		return ReasonUnknownDatabase, code
	default:
		return ReasonUnknown, code
	}
}
