package repository

import (
	"context"
	"testing"

	"job-tracker-backend/config"
	"job-tracker-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLite(t *testing.T) {
	gateway, closeFn, err := Open(context.Background(), &config.Config{StoreDriver: config.StoreSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	defer closeFn()

	apps, err := gateway.Select(context.Background(), domain.Filter{})
	require.NoError(t, err)
	assert.Empty(t, apps)
}

func TestOpenSupabaseDoesNotDial(t *testing.T) {
	gateway, closeFn, err := Open(context.Background(), &config.Config{
		StoreDriver: config.StoreSupabase,
		SupabaseURL: "http://127.0.0.1:1",
		SupabaseKey: "k",
	})
	require.NoError(t, err)
	defer closeFn()
	assert.Implements(t, (*domain.Pinger)(nil), gateway)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, closeFn, err := Open(context.Background(), &config.Config{StoreDriver: "mongo"})
	assert.Error(t, err)
	assert.NotNil(t, closeFn)
}
