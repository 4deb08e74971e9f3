package connector

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNativeClient() (*NativeClient, *int) {
	boots := 0
	return NewNativeClient(func(string) error {
		boots++
		return nil
	}), &boots
}

func expectClientDriver(mock sqlmock.Sqlmock, driver string) {
	mock.ExpectQuery(regexp.QuoteMeta("SELECT client_driver FROM v$session_connect_info")).
		WillReturnRows(sqlmock.NewRows([]string{"CLIENT_DRIVER"}).AddRow(driver))
}

func TestNewOracleConnectorInitializesOnce(t *testing.T) {
	nc, boots := newTestNativeClient()
	native := NativeClientConfig{LibDir: t.TempDir()}

	_, err := NewOracleConnector(testConfig, native, WithNativeClient(nc))
	require.NoError(t, err)
	_, err = NewOracleConnector(testConfig, native, WithNativeClient(nc))
	require.NoError(t, err)

	assert.Equal(t, 1, *boots)
	assert.True(t, nc.Initialized())
}

func TestNewOracleConnectorInvalidLibDir(t *testing.T) {
	nc, boots := newTestNativeClient()
	drv := newFakeDriver(t, false)

	c, err := NewOracleConnector(testConfig,
		NativeClientConfig{LibDir: filepath.Join(t.TempDir(), "missing")},
		WithNativeClient(nc), WithOpener(drv.open))

	assert.Nil(t, c)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	assert.Zero(t, *boots)
	assert.Zero(t, drv.opens)
	assert.False(t, nc.Initialized())
}

func TestNewOracleConnectorBootstrapFailure(t *testing.T) {
	nc := NewNativeClient(func(string) error { return errors.New("DPI-1047: cannot locate Oracle Client library") })

	c, err := NewOracleConnector(testConfig, NativeClientConfig{LibDir: t.TempDir()}, WithNativeClient(nc))
	assert.Nil(t, c)
	assert.True(t, IsKind(err, KindNativeClientInit))
}

func TestOracleConnectorConnect(t *testing.T) {
	nc, _ := newTestNativeClient()
	drv := newFakeDriver(t, false)
	expectClientDriver(drv.mock, "godror : 0.49.3")

	logger, logs := observedLogger()
	c, err := NewOracleConnector(testConfig, NativeClientConfig{LibDir: t.TempDir()},
		WithNativeClient(nc), WithOpener(drv.open), WithLogger(logger))
	require.NoError(t, err)

	require.NoError(t, c.Connect(context.Background()))
	require.NoError(t, c.Connect(context.Background()))

	assert.Equal(t, 1, drv.opens)
	assert.Equal(t, "godror", drv.driverName)
	assert.Equal(t, Connected, c.State())
	assert.Equal(t, 1, logs.FilterMessage("native client mode confirmed").Len())
	assert.NoError(t, drv.mock.ExpectationsWereMet())
}

func TestOracleConnectorWarnsWhenNotNative(t *testing.T) {
	tests := []struct {
		name  string
		setup func(sqlmock.Sqlmock)
		msg   string
	}{
		{
			name:  "thin driver",
			setup: func(m sqlmock.Sqlmock) { expectClientDriver(m, "jdbcthin : 23.3.0.0.0") },
			msg:   "session is NOT using the native client despite initialization",
		},
		{
			name: "probe error",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery("client_driver").WillReturnError(errors.New("ORA-00942: table or view does not exist"))
			},
			msg: "could not read session client driver",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nc, _ := newTestNativeClient()
			drv := newFakeDriver(t, false)
			tt.setup(drv.mock)

			logger, logs := observedLogger()
			c, err := NewOracleConnector(testConfig, NativeClientConfig{LibDir: t.TempDir()},
				WithNativeClient(nc), WithOpener(drv.open), WithLogger(logger))
			require.NoError(t, err)

			require.NoError(t, c.Connect(context.Background()))
			assert.Equal(t, Connected, c.State())
			assert.Equal(t, 1, logs.FilterMessage(tt.msg).Len())
		})
	}
}

func TestOracleConnectorConnectReinitializes(t *testing.T) {
	nc, boots := newTestNativeClient()
	drv := newFakeDriver(t, false)
	expectClientDriver(drv.mock, "godror : 0.49.3")

	c, err := NewOracleConnector(testConfig, NativeClientConfig{LibDir: t.TempDir()},
		WithNativeClient(nc), WithOpener(drv.open))
	require.NoError(t, err)

	nc.Reset()
	require.NoError(t, c.Connect(context.Background()))
	assert.Equal(t, 2, *boots)
	assert.True(t, nc.Initialized())
}

func TestOracleConnectorExecuteQuery(t *testing.T) {
	nc, _ := newTestNativeClient()
	drv := newFakeDriver(t, false)
	expectClientDriver(drv.mock, "godror : 0.49.3")
	drv.mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM users")).
		WithoutArgs().
		WillReturnRows(sqlmock.NewRows([]string{"ID", "NAME"}).AddRow(1, "a").AddRow(2, "b"))
	drv.mock.ExpectQuery(regexp.QuoteMeta("SELECT name FROM users WHERE id = :1")).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"NAME"}).AddRow("b"))
	drv.mock.ExpectQuery("UPDATE users").
		WithArgs("c", 2).
		WillReturnRows(sqlmock.NewRows([]string{}))
	drv.mock.ExpectClose()

	c, err := NewOracleConnector(testConfig, NativeClientConfig{LibDir: t.TempDir()},
		WithNativeClient(nc), WithOpener(drv.open))
	require.NoError(t, err)

	_, err = c.ExecuteQuery(context.Background(), "SELECT 1 FROM DUAL")
	require.ErrorIs(t, err, ErrNotConnected)

	require.NoError(t, c.Connect(context.Background()))

	res, err := c.ExecuteQuery(context.Background(), "SELECT id, name FROM users")
	require.NoError(t, err)
	assert.Equal(t, []string{"ID", "NAME"}, res.Headers)
	assert.Equal(t, [][]any{{int64(1), "a"}, {int64(2), "b"}}, res.Rows)

	res, err = c.ExecuteQuery(context.Background(), "SELECT name FROM users WHERE id = :1", 2)
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"b"}}, res.Rows)

	res, err = c.ExecuteQuery(context.Background(), "UPDATE users SET name = :1 WHERE id = :2", "c", 2)
	require.NoError(t, err)
	assert.Nil(t, res)

	require.NoError(t, c.Disconnect(context.Background()))
	assert.NoError(t, drv.mock.ExpectationsWereMet())
}

func TestOracleConnectorConnectFailure(t *testing.T) {
	nc, _ := newTestNativeClient()
	drv := newFakeDriver(t, true)
	drv.mock.ExpectPing().WillReturnError(errors.New("ORA-12541: TNS:no listener"))

	c, err := NewOracleConnector(testConfig, NativeClientConfig{LibDir: t.TempDir()},
		WithNativeClient(nc), WithOpener(drv.open))
	require.NoError(t, err)

	err = c.Connect(context.Background())
	assert.True(t, IsKind(err, KindConnection))
	assert.Equal(t, ReasonUnknown, ReasonOf(err))
	assert.Equal(t, Disconnected, c.State())
	assert.NoError(t, c.Disconnect(context.Background()))
}

func TestOracleConnectorDSN(t *testing.T) {
	nc, _ := newTestNativeClient()
	libDir := t.TempDir()
	cfg := ConnectionConfig{
		User:     "scott",
		Password: `ti"ger`,
		Target:   "localhost:1521/ORCLPDB1",
		Options:  map[string]string{"timezone": "UTC"},
	}

	c, err := NewOracleConnector(cfg, NativeClientConfig{LibDir: libDir}, WithNativeClient(nc))
	require.NoError(t, err)

	dsn := c.DSN()
	assert.Contains(t, dsn, `user="scott"`)
	assert.Contains(t, dsn, `password="ti\"ger"`)
	assert.Contains(t, dsn, `connectString="localhost:1521/ORCLPDB1"`)
	assert.Contains(t, dsn, `libDir="`+libDir+`"`)
	assert.Contains(t, dsn, `standaloneConnection="1"`)
	assert.Contains(t, dsn, `timezone="UTC"`)
}

func TestLogfmtQuote(t *testing.T) {
	tests := map[string]string{
		"tiger":     `"tiger"`,
		`ti"ger`:    `"ti\"ger"`,
		`C:\oracle`: `"C:\\oracle"`,
		"bell\a\vé": "\"bell\a\vé\"",
		"":          `""`,
	}
	for in, want := range tests {
		assert.Equal(t, want, logfmtQuote(in), in)
	}
}

func TestIsNativeClientDriver(t *testing.T) {
	tests := map[string]bool{
		"godror : 0.49.3":       true,
		"ODPI-C : 5.4.1":        true,
		"SQL*PLUS":              false,
		"jdbcthin : 23.3.0.0.0": false,
		"jdbcthin : 21.9.0.0.0": false,
		"":                      false,
	}
	for name, want := range tests {
		assert.Equal(t, want, isNativeClientDriver(name), name)
	}
}

func TestClassifyOracleErrorWithoutOraErr(t *testing.T) {
	reason, code := classifyOracleError(errors.New("dial tcp: i/o timeout"))
	assert.Equal(t, ReasonUnknown, reason)
	assert.Empty(t, code)
}
