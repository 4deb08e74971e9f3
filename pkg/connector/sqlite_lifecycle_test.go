package connector

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLifecycleAgainstRealDriver runs the generic session lane on an
// in-memory SQLite database. The cursor is a single dedicated connection,
// so the in-memory database lives exactly as long as the session.
func TestLifecycleAgainstRealDriver(t *testing.T) {
	opens := 0
	opener := func(string, string) (*sql.DB, error) {
		opens++
		return sql.Open("sqlite3", ":memory:")
	}
	ctx := context.Background()

	c := NewMySQLConnector(testConfig, WithOpener(opener))
	require.NoError(t, c.Connect(ctx))
	require.NoError(t, c.Connect(ctx))
	assert.Equal(t, 1, opens)

	res, err := c.ExecuteQuery(ctx, "CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT)")
	require.NoError(t, err)
	assert.Nil(t, res)

	res, err = c.ExecuteQuery(ctx, "INSERT INTO users (id, name) VALUES (?, ?), (?, ?)", 1, "a", 2, "b")
	require.NoError(t, err)
	assert.Nil(t, res)

	res, err = c.ExecuteQuery(ctx, "SELECT id, name FROM users ORDER BY id")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, []string{"id", "name"}, res.Headers)
	assert.Equal(t, [][]any{{int64(1), "a"}, {int64(2), "b"}}, res.Rows)

	res, err = c.ExecuteQuery(ctx, "SELECT name FROM users WHERE id = :id", Named(map[string]any{"id": 2})...)
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"b"}}, res.Rows)

	_, err = c.ExecuteQuery(ctx, "SELECT * FROM missing")
	assert.True(t, IsKind(err, KindQueryExecution))

	require.NoError(t, c.Disconnect(ctx))
	require.NoError(t, c.Disconnect(ctx))
	assert.Equal(t, Disconnected, c.State())

	_, err = c.ExecuteQuery(ctx, "SELECT 1")
	assert.ErrorIs(t, err, ErrNotConnected)
}
