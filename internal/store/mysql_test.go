package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real server, e.g.
// MYSQL_TEST_DSN="sail:password@tcp(localhost:3306)/books_test"
func openTestMySQL(t *testing.T) *MySQL {
	dsn := os.Getenv("MYSQL_TEST_DSN")
	if dsn == "" {
		t.Skip("MYSQL_TEST_DSN not set")
	}
	db, err := sql.Open("mysql", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := NewMySQL(db, nil)
	require.NoError(t, s.Ping(context.Background()))
	require.NoError(t, s.EnsureSchema(context.Background()))
	return s
}

func TestMySQLStore(t *testing.T) {
	testDocumentStore(t, openTestMySQL(t))
}

func TestMySQLSkipsInvalidBodies(t *testing.T) {
	s := openTestMySQL(t)
	ctx := context.Background()

	_, err := s.GetDB().ExecContext(ctx,
		"INSERT INTO "+TableName+" (id, body, created_at, updated_at) VALUES ('malformed-row', '{\"section\": 1}', NOW(), NOW())")
	require.NoError(t, err)
	t.Cleanup(func() {
		s.GetDB().ExecContext(ctx, "DELETE FROM "+TableName+" WHERE id = 'malformed-row'")
	})

	recs, err := s.ListAll(ctx)
	require.NoError(t, err)
	for _, r := range recs {
		assert.NotEqual(t, "malformed-row", r.ID)
	}
}
