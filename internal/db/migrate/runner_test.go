package migrate

import (
	"io/fs"
	"testing"

	"club-admin-server/internal/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_EmptyDSN(t *testing.T) {
	for _, dsn := range []string{"", "   "} {
		err := Run(dsn, DirectionUp)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dsn")
	}
}

func TestRun_InvalidDirection(t *testing.T) {
	for _, direction := range []string{"", "UP", "sideways"} {
		err := Run("postgres://localhost/club", direction)
		require.Error(t, err, direction)
		assert.Contains(t, err.Error(), "направление")
	}
}

func TestMigrationFS_PairedFiles(t *testing.T) {
	up, err := fs.Glob(db.MigrationFS, "migrations/*.up.sql")
	require.NoError(t, err)
	down, err := fs.Glob(db.MigrationFS, "migrations/*.down.sql")
	require.NoError(t, err)

	assert.NotEmpty(t, up)
	assert.Len(t, down, len(up))
}
