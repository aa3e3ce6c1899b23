//go:build integration

package ponyx

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgresContainer starts an ephemeral PostgreSQL container and
// returns its connection string.
func setupPostgresContainer(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15",
		postgres.WithDatabase("ponyx_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")
	return connStr
}

func TestPostgres_E2E_Conformance(t *testing.T) {
	connStr := setupPostgresContainer(t)
	var n atomic.Int32

	// each subtest gets its own tables
	testSourceStorage(t, func(t *testing.T) SourceStorage {
		s, err := NewPostgresStorage(PostgresConfig{
			ConnectionString: connStr,
			AutoMigrate:      true,
			TablePrefix:      fmt.Sprintf("t%d_", n.Add(1)),
			QueryTimeout:     30 * time.Second,
		})
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestPostgres_E2E_Migrations(t *testing.T) {
	connStr := setupPostgresContainer(t)
	ctx := context.Background()

	s, err := NewPostgresStorage(PostgresConfig{ConnectionString: connStr, AutoMigrate: true})
	require.NoError(t, err)
	defer s.Close()

	version, err := s.CurrentSchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(s.migrations()), version)

	require.NoError(t, s.RunMigrations(ctx), "migrations are idempotent")
	again, err := s.CurrentSchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, version, again)
}

func TestPostgres_E2E_Driver(t *testing.T) {
	connStr := setupPostgresContainer(t)
	ctx := context.Background()

	s, err := OpenStorage(DriverPostgres, connStr)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Save(ctx, &StoredSource{Name: "page", Source: "---\n<main>{title}</main>"}))

	engine := MustNew(WithStorage(s))
	result, err := engine.ParseStored(ctx, "page")
	require.NoError(t, err)
	assert.Empty(t, result.Diagnostics)
	assert.Equal(t, SourceID("page@v1"), result.Source.ID)
}

func TestPostgres_E2E_ConcurrentSave(t *testing.T) {
	connStr := setupPostgresContainer(t)
	ctx := context.Background()

	s, err := NewPostgresStorage(PostgresConfig{ConnectionString: connStr, AutoMigrate: true})
	require.NoError(t, err)
	defer s.Close()

	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		go func() {
			errs <- s.Save(ctx, &StoredSource{Name: "shared", Source: "---"})
		}()
	}
	saved := 0
	for i := 0; i < 10; i++ {
		if err := <-errs; err == nil {
			saved++
		}
	}

	versions, err := s.ListVersions(ctx, "shared")
	require.NoError(t, err)
	assert.Len(t, versions, saved, "serialization failures are reported, never duplicated")
}
