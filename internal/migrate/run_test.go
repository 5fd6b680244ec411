package migrate_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/minbak/minbak-web/internal/migrate"
	"github.com/minbak/minbak-web/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersions(t *testing.T) {
	versions, err := migrate.Versions()
	require.NoError(t, err)
	require.NotEmpty(t, versions)
	assert.Equal(t, "0001_init", versions[0])
	assert.IsNonDecreasing(t, versions)
}

func TestRun_Idempotent(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		require.NoError(t, migrate.Run(ctx, db))
		require.NoError(t, migrate.Run(ctx, db))

		versions, err := migrate.Versions()
		require.NoError(t, err)

		var applied int
		require.NoError(t, db.QueryRowContext(ctx, `SELECT count(*) FROM schema_migrations`).Scan(&applied))
		assert.Equal(t, len(versions), applied)
	})
}
