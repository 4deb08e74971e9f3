package connector

import (
	"context"
	"errors"
	"net"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
)

const (
	mysqlDefaultPort = "3306"

	// MySQL server error numbers.
	mysqlErrAccessDenied = 1045
	mysqlErrBadDB        = 1049

	// OptionAuthPlugin selects the MySQL authentication plugin.
	OptionAuthPlugin = "auth_plugin"
)

// MySQLConnector is the connector for MySQL and MariaDB servers.
type MySQLConnector struct {
	*BaseConnection
	cfg ConnectionConfig
}

var _ Connector = (*MySQLConnector)(nil)

// NewMySQLConnector stores cfg and returns a disconnected connector. No
// I/O is performed. Without an auth_plugin option the connector asks for
// mysql_native_password.
func NewMySQLConnector(cfg ConnectionConfig, opts ...Option) *MySQLConnector {
	cfg = cfg.clone()
	o := buildOptions(opts)
	return &MySQLConnector{
		BaseConnection: newBaseConnection("mysql", cfg, o, classifyMySQLError),
		cfg:            cfg,
	}
}

func (m *MySQLConnector) Connect(ctx context.Context) error {
	if m.State() == Connected {
		m.logger.Info("connection already active")
		return nil
	}
	return m.open(ctx, "mysql", m.DSN())
}

func (m *MySQLConnector) ExecuteQuery(ctx context.Context, query string, args ...any) (*QueryResult, error) {
	return m.query(ctx, query, args, false)
}

// DSN renders the go-sql-driver data source name for the stored config.
func (m *MySQLConnector) DSN() string {
	host, port, database := splitTarget(m.cfg.Target, mysqlDefaultPort)

	c := mysql.NewConfig()
	c.User = m.cfg.User
	c.Passwd = m.cfg.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(host, port)
	c.DBName = database
	c.AllowNativePasswords = true

	for k, v := range m.cfg.Options {
		if strings.EqualFold(k, OptionAuthPlugin) {
			switch strings.ToLower(v) {
			case "mysql_native_password":
				c.AllowNativePasswords = true
			case "mysql_clear_password":
				c.AllowCleartextPasswords = true
			}
			continue
		}
		if c.Params == nil {
			c.Params = make(map[string]string)
		}
		c.Params[k] = v
	}
	return c.FormatDSN()
}

func classifyMySQLError(err error) (Reason, string) {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return ReasonUnknown, ""
	}
	code := strconv.Itoa(int(myErr.Number))
	switch myErr.Number {
	case mysqlErrAccessDenied:
		return ReasonAccessDenied, code
	case mysqlErrBadDB:
		return ReasonUnknownDatabase, code
	default:
		return ReasonUnknown, code
	}
}
