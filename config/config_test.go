package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envVars = []string{
	"DAIRY_SERVER_PORT", "DAIRY_SERVER_READ_TIMEOUT", "DAIRY_SERVER_WRITE_TIMEOUT",
	"DAIRY_SERVER_SHUTDOWN_TIMEOUT", "DAIRY_DATA_CSV_PATH", "DAIRY_STORAGE_DRIVER",
	"DAIRY_STORAGE_DSN", "DAIRY_LOGGING_LEVEL", "DAIRY_LOGGING_DEVELOPMENT", FileEnv,
}

// clearEnv unsets every DAIRY_* variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		if val, ok := os.LookupEnv(key); ok {
			require.NoError(t, os.Unsetenv(key))
			t.Cleanup(func() { os.Setenv(key, val) })
		}
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dairy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     string
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8050, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
				assert.Equal(t, "eu_dairy_cluster.csv", cfg.Data.CSVPath)
				assert.Equal(t, "memory", cfg.Storage.Driver)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.False(t, cfg.Logging.Development)
				assert.Equal(t, ":8050", cfg.Addr())
			},
		},
		{
			name: "environment overrides",
			env: map[string]string{
				"DAIRY_SERVER_PORT":    "9000",
				"DAIRY_STORAGE_DRIVER": "sqlite",
				"DAIRY_LOGGING_LEVEL":  "debug",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9000, cfg.Server.Port)
				assert.Equal(t, "sqlite", cfg.Storage.Driver)
				assert.Equal(t, "debug", cfg.Logging.Level)
			},
		},
		{
			name: "file values apply",
			file: "server:\n  port: 7000\ndata:\n  csv_path: /srv/prices.csv\nlogging:\n  development: true\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7000, cfg.Server.Port)
				assert.Equal(t, "/srv/prices.csv", cfg.Data.CSVPath)
				assert.True(t, cfg.Logging.Development)
				assert.Equal(t, "memory", cfg.Storage.Driver)
			},
		},
		{
			name: "environment beats file",
			env:  map[string]string{"DAIRY_SERVER_PORT": "9100"},
			file: "server:\n  port: 7000\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9100, cfg.Server.Port)
			},
		},
		{
			name:    "invalid driver",
			env:     map[string]string{"DAIRY_STORAGE_DRIVER": "postgres"},
			wantErr: "validation",
		},
		{
			name:    "invalid level",
			file:    "logging:\n  level: loud\n",
			wantErr: "validation",
		},
		{
			name:    "unknown key in file",
			file:    "server:\n  prot: 1\n",
			wantErr: "file",
		},
		{
			name:    "bad env value",
			env:     map[string]string{"DAIRY_SERVER_PORT": "eighty"},
			wantErr: "env",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if tt.file != "" {
				t.Setenv(FileEnv, writeFile(t, tt.file))
			} else {
				chdir(t, t.TempDir())
			}

			cfg, err := Load()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	clearEnv(t)
	t.Setenv(FileEnv, filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
