package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasoahq/checkout-backend/pkg/migrate"
)

func TestCreateSQLMigrationWritesGooseTemplate(t *testing.T) {
	dir := t.TempDir()

	path, err := migrate.CreateSQLMigration(dir, "Add Loyalty Points!")
	require.NoError(t, err)

	base := filepath.Base(path)
	assert.True(t, strings.HasSuffix(base, "_add_loyalty_points.sql"), "got %s", base)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "-- +goose Up")
	assert.Contains(t, string(b), "-- +goose Down")
}

func TestCreateSQLMigrationRejectsUnusableName(t *testing.T) {
	_, err := migrate.CreateSQLMigration(t.TempDir(), " --- ")
	require.Error(t, err)
}

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	require.NoError(t, migrate.ValidateDir("migrations"))
}

func TestValidateDirRejectsMissingDownSection(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "20260101000000_broken.sql")
	require.NoError(t, os.WriteFile(bad, []byte("-- +goose Up\nSELECT 1;\n"), 0o644))

	err := migrate.ValidateDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "+goose Down")
}

func TestValidateDirRejectsBadFilename(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001_short.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))

	err := migrate.ValidateDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid migration filename")
}
