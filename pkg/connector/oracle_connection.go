package connector

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/godror/godror"
	"go.uber.org/zap"
)

// ORA error codes used to classify connection failures.
const (
	oraInvalidCredentials = 1017
	oraAccountLocked      = 28000
	oraNotAvailable       = 1034
	oraUnknownService     = 12514
	oraUnknownSID         = 12505
)

const clientDriverQuery = `SELECT client_driver FROM v$session_connect_info
 WHERE sid = SYS_CONTEXT('USERENV', 'SID') AND ROWNUM = 1`

// OracleConnector is the connector for Oracle databases through godror,
// which runs on the Oracle native client (thick mode). The native client
// is initialized once per process before the first connection.
type OracleConnector struct {
	*BaseConnection
	cfg    ConnectionConfig
	native NativeClientConfig
	client *NativeClient
}

var _ Connector = (*OracleConnector)(nil)

// NewOracleConnector stores both configs and initializes the native client
// if no connector in the process has done so yet.
func NewOracleConnector(cfg ConnectionConfig, native NativeClientConfig, opts ...Option) (*OracleConnector, error) {
	cfg = cfg.clone()
	o := buildOptions(opts)
	client := o.nativeClient
	if client == nil {
		client = DefaultNativeClient
	}

	oc := &OracleConnector{
		BaseConnection: newBaseConnection("oracle", cfg, o, classifyOracleError),
		cfg:            cfg,
		native:         native,
		client:         client,
	}
	if !client.Initialized() {
		if err := client.Init(native.LibDir, oc.logger); err != nil {
			return nil, err
		}
	}
	return oc, nil
}

func (oc *OracleConnector) Connect(ctx context.Context) error {
	if !oc.client.Initialized() {
		oc.logger.Warn("native client was not initialized before connecting, initializing now")
		if err := oc.client.Init(oc.native.LibDir, oc.logger); err != nil {
			return err
		}
	}

	if oc.State() == Connected {
		oc.logger.Info("connection already active")
		return nil
	}

	if err := oc.open(ctx, "godror", oc.DSN()); err != nil {
		return err
	}
	oc.checkNativeMode(ctx)
	return nil
}

// ExecuteQuery runs query on the cursor. Without args the statement is
// executed with no argument list at all.
func (oc *OracleConnector) ExecuteQuery(ctx context.Context, query string, args ...any) (*QueryResult, error) {
	return oc.query(ctx, query, args, true)
}

// DSN renders the godror connect string. Options are appended as extra
// parameters; connections are standalone unless an option says otherwise.
func (oc *OracleConnector) DSN() string {
	libDir := oc.client.LibDir()
	if libDir == "" {
		libDir = oc.native.LibDir
	}

	params := [][2]string{
		{"user", oc.cfg.User},
		{"password", oc.cfg.Password},
		{"connectString", oc.cfg.Target},
	}
	if libDir != "" {
		params = append(params, [2]string{"libDir", libDir})
	}
	if _, ok := oc.cfg.Option("standaloneConnection"); !ok {
		params = append(params, [2]string{"standaloneConnection", "1"})
	}
	keys := make([]string, 0, len(oc.cfg.Options))
	for k := range oc.cfg.Options {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		params = append(params, [2]string{k, oc.cfg.Options[k]})
	}

	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, p[0]+"="+logfmtQuote(p[1]))
	}
	return strings.Join(parts, " ")
}

var logfmtEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// logfmtQuote quotes a connect string value. Only the backslash and the
// double quote are escaped; any other byte is passed through as is.
func logfmtQuote(v string) string {
	return `"` + logfmtEscaper.Replace(v) + `"`
}

// checkNativeMode logs whether the session reports a native client driver.
// It never fails the connection.
func (oc *OracleConnector) checkNativeMode(ctx context.Context) {
	var driver string
	if err := oc.conn.QueryRowContext(ctx, clientDriverQuery).Scan(&driver); err != nil {
		oc.logger.Debug("could not read session client driver", zap.Error(err))
		return
	}
	if !isNativeClientDriver(driver) {
		oc.logger.Warn("session is NOT using the native client despite initialization",
			zap.String("client_driver", driver))
		return
	}
	oc.logger.Info("native client mode confirmed", zap.String("client_driver", driver))
}

func isNativeClientDriver(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || strings.Contains(name, "thin") || strings.Contains(name, "thn") {
		return false
	}
	return strings.Contains(name, "godror") || strings.Contains(name, "odpi") || strings.Contains(name, "oci")
}

func classifyOracleError(err error) (Reason, string) {
	oraErr, ok := godror.AsOraErr(err)
	if !ok {
		return ReasonUnknown, ""
	}
	code := fmt.Sprintf("ORA-%05d", oraErr.Code())
	switch oraErr.Code() {
	case oraInvalidCredentials, oraAccountLocked:
		return ReasonAccessDenied, code
	case oraUnknownService, oraUnknownSID, oraNotAvailable:
		return ReasonUnknownDatabase, code
	default:
		return ReasonUnknown, code
	}
}
