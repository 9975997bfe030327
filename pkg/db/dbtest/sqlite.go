// Package dbtest opens throwaway in-memory SQLite databases migrated with the
// application models.
package dbtest

import (
	"context"
	"testing"

	"github.com/angelmondragon/mechanicshop-backend/pkg/config"
	"github.com/angelmondragon/mechanicshop-backend/pkg/db"
	"github.com/angelmondragon/mechanicshop-backend/pkg/migrate"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// NewSQLite returns a client bound to a fresh, fully migrated database that is
// closed when the test finishes.
func NewSQLite(t testing.TB) *db.Client {
	t.Helper()

	dsn := "file:mechanicshop_" + uuid.NewString() + "?mode=memory&cache=shared"
	client, err := db.New(context.Background(), config.DBConfig{SQLitePath: dsn}, true, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, migrate.AutoMigrateModels(context.Background(), client))
	return client
}
