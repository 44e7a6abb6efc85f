package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/products_api/internal/models"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	ctx := context.Background()

	gdb, err := Open(ctx, "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(gdb) })

	require.NoError(t, Migrate(gdb))
	require.NoError(t, Ping(ctx, gdb))

	for _, m := range models.All() {
		require.True(t, gdb.Migrator().HasTable(m))
	}
}

func TestOpenRejectsBadInput(t *testing.T) {
	_, err := Open(context.Background(), "sqlite", "")
	require.ErrorContains(t, err, "DATABASE_URL is empty")

	_, err = Open(context.Background(), "oracle", "dsn")
	require.ErrorContains(t, err, `unsupported driver "oracle"`)
}
