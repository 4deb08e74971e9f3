package connector

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// fakeDriver hands out one sqlmock session and records how often a
// session was opened.
type fakeDriver struct {
	db   *sql.DB
	mock sqlmock.Sqlmock
	err  error

	opens      int
	driverName string
	dsn        string
}

func newFakeDriver(t *testing.T, monitorPings bool) *fakeDriver {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(monitorPings))
	require.NoError(t, err)
	return &fakeDriver{db: db, mock: mock}
}

func (f *fakeDriver) open(driverName, dsn string) (*sql.DB, error) {
	f.opens++
	f.driverName = driverName
	f.dsn = dsn
	if f.err != nil {
		return nil, f.err
	}
	return f.db, nil
}

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

var testConfig = ConnectionConfig{
	User:     "scott",
	Password: "tiger",
	Target:   "db.example.com/shop",
}
