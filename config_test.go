package sqlls

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

func TestLoadConfig_MissingFileReturnsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	config, err := LoadConfig(filepath.Join(tmpDir, "sqlls.yaml"))
	assert.NoError(t, err)
	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, 4, config.Database.PoolSize)
	assert.Equal(t, 2*time.Second, config.Database.QueryTimeout)
}

func TestLoadConfig_ParsesYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "sqlls.yaml")
	contents := `
dialect: postgres
dialect_version: "16"
log_level: debug
database:
  connection_string: postgresql://localhost/app
  pool_size: 8
  query_timeout: 5s
`
	assert.NoError(t, os.WriteFile(configPath, []byte(contents), 0o644))

	config, err := LoadConfig(configPath)
	assert.NoError(t, err)
	assert.Equal(t, "postgres", config.Dialect)
	assert.Equal(t, "16", config.DialectVersion)
	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, "postgresql://localhost/app", config.Database.ConnectionString)
	assert.Equal(t, 8, config.Database.PoolSize)
	assert.Equal(t, 5*time.Second, config.Database.QueryTimeout)
}

func TestLoadConfig_AppliesDefaultsForZeroValues(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "sqlls.yaml")
	assert.NoError(t, os.WriteFile(configPath, []byte("dialect: mysql\n"), 0o644))

	config, err := LoadConfig(configPath)
	assert.NoError(t, err)
	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, 4, config.Database.PoolSize)
	assert.Equal(t, 2*time.Second, config.Database.QueryTimeout)
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("SQLLS_TEST_HOST", "db.internal")
	assert.Equal(t, "postgresql://db.internal/app", expandEnvVars("postgresql://${SQLLS_TEST_HOST}/app"))
	assert.Equal(t, "postgresql://db.internal/app", expandEnvVars("postgresql://$SQLLS_TEST_HOST/app"))
}
