package connector

import (
	"maps"
	"strings"

	"go.uber.org/zap"
)

// ConnectionConfig holds the credentials and target of one database session.
//
// Target is driver specific: host[:port]/database for MySQL and Postgres,
// an Easy Connect string or TNS alias for Oracle. Options carries
// driver settings such as the MySQL auth plugin.
type ConnectionConfig struct {
	User     string
	Password string
	Target   string
	Options  map[string]string
}

func (c ConnectionConfig) clone() ConnectionConfig {
	c.Options = maps.Clone(c.Options)
	return c
}

// Option returns the driver option for key, matched case-insensitively.
func (c ConnectionConfig) Option(key string) (string, bool) {
	for k, v := range c.Options {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}

// NativeClientConfig locates the native client libraries the Oracle
// connector loads.
type NativeClientConfig struct {
	LibDir string
}

// Option configures a connector.
type Option func(*options)

type options struct {
	logger       *zap.Logger
	opener       Opener
	nativeClient *NativeClient
}

func defaultOptions() options {
	return options{
		logger: zap.NewNop(),
		opener: sqlOpen,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger connector diagnostics are written to.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithOpener replaces the function used to open driver sessions.
func WithOpener(fn Opener) Option {
	return func(o *options) {
		if fn != nil {
			o.opener = fn
		}
	}
}

// WithNativeClient sets the native client lifecycle manager used by the
// Oracle connector. DefaultNativeClient is used otherwise.
func WithNativeClient(nc *NativeClient) Option {
	return func(o *options) {
		o.nativeClient = nc
	}
}

// splitTarget parses host[:port]/database. A missing port is replaced by
// defaultPort.
func splitTarget(target, defaultPort string) (host, port, database string) {
	addr := target
	if i := strings.Index(target, "/"); i >= 0 {
		addr = target[:i]
		database = target[i+1:]
	}
	host = addr
	port = defaultPort
	if i := strings.LastIndex(addr, ":"); i >= 0 && !strings.Contains(addr[i+1:], "]") {
		host = addr[:i]
		if p := addr[i+1:]; p != "" {
			port = p
		}
	}
	return strings.Trim(host, "[]"), port, database
}
