package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testService = Service{Name: "loan-api", DefaultPort: "8000", DefaultDBFile: "loans.db"}

func TestBuildConfig_Defaults(t *testing.T) {
	cfg, err := buildConfig(testService, values{})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, time.Hour, cfg.Auth.AccessTokenDuration)
	assert.Equal(t, "http://localhost:8001/api", cfg.Inventory.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Inventory.Timeout)
	assert.Equal(t, "loans.db", filepath.Base(cfg.Store.DBPath))
	require.NoError(t, cfg.Validate())
}

func TestBuildConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("INVENTORY_URL", "http://inventory:8001/api")
	t.Setenv("ACCESS_TOKEN_DURATION", "30m")

	cfg, err := buildConfig(testService, values{})
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "http://inventory:8001/api", cfg.Inventory.BaseURL)
	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessTokenDuration)
}

func TestBuildConfig_FlagBeatsEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")

	cfg, err := buildConfig(testService, values{serverPort: "9999"})
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Server.Port)
}

func TestBuildConfig_InvalidDuration(t *testing.T) {
	_, err := buildConfig(testService, values{inventoryTimeout: "soon"})
	assert.Error(t, err)
}

func TestValidate_RejectsBadEnvironment(t *testing.T) {
	cfg, err := buildConfig(testService, values{env: "sandbox"})
	require.NoError(t, err)

	err = cfg.Validate()
	assert.ErrorContains(t, err, "invalid environment")
}

func TestValidate_RejectsBadLogLevel(t *testing.T) {
	cfg, err := buildConfig(testService, values{logLevel: "loud"})
	require.NoError(t, err)

	err = cfg.Validate()
	assert.ErrorContains(t, err, "invalid log level")
}

func TestExpandDataPath_ExplicitPath(t *testing.T) {
	dir := t.TempDir()

	cfg, err := buildConfig(testService, values{dataPath: dir})
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Store.DataPath)
	assert.Equal(t, filepath.Join(dir, "loans.db"), cfg.Store.DBPath)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "# comment\nTEST_SHELFLINE_KEY=value1\nQUOTED_KEY=\"quoted\"\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("TEST_SHELFLINE_KEY")
		os.Unsetenv("QUOTED_KEY")
	})

	require.NoError(t, loadEnvFile(envPath))

	assert.Equal(t, "value1", os.Getenv("TEST_SHELFLINE_KEY"))
	assert.Equal(t, "quoted", os.Getenv("QUOTED_KEY"))
}

func TestLoadEnvFile_EnvVarWins(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("WINNER_KEY=file\n"), 0o600))
	t.Setenv("WINNER_KEY", "env")

	require.NoError(t, loadEnvFile(envPath))

	assert.Equal(t, "env", os.Getenv("WINNER_KEY"))
}
