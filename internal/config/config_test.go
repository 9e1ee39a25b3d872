package config

import (
	"os"
	"path/filepath"
	"testing"

	"pricebook/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PRICEBOOK_INPUT", "PRICEBOOK_OUTPUT", "PRICEBOOK_SHEET", "PORT", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultInputPath, cfg.Paths.InputFile)
	assert.Equal(t, DefaultOutputPath, cfg.Paths.OutputFile)
	assert.Equal(t, "", cfg.Paths.Sheet)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, "INFO", cfg.LogLevel)
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PRICEBOOK_INPUT", "/data/book.xlsx")
	t.Setenv("PRICEBOOK_OUTPUT", "/srv/out.json")
	t.Setenv("PRICEBOOK_SHEET", "Rates")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/data/book.xlsx", cfg.Paths.InputFile)
	assert.Equal(t, "/srv/out.json", cfg.Paths.OutputFile)
	assert.Equal(t, "Rates", cfg.Paths.Sheet)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
}

func TestLoadRejectsBadPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "http")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestValidateRequiresPaths(t *testing.T) {
	err := Validate(&Config{Paths: PathConfig{InputFile: " ", OutputFile: "out.json"}})
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))

	err = Validate(&Config{Paths: PathConfig{InputFile: "in.xlsx"}})
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))

	assert.NoError(t, Validate(&Config{Paths: PathConfig{InputFile: "in.xlsx", OutputFile: "out.json"}}))
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("PRICEBOOK_SHEET")

	envPath := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("PRICEBOOK_SHEET=Global\n"), 0o644))

	require.NoError(t, LoadEnvFile(envPath))
	t.Cleanup(func() { os.Unsetenv("PRICEBOOK_SHEET") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Global", cfg.Paths.Sheet)
}

func TestLoadEnvFileMissingIsNotAnError(t *testing.T) {
	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")))
}
