package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("TABLE_PREFIX", "")
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("LOG_MAX_FILES", "not-a-number")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, "dev_", cfg.TablePrefix)
	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, 10, cfg.LogMaxFiles)
}

func TestTablePrefix(t *testing.T) {
	tests := []struct {
		env      string
		override string
		want     string
	}{
		{"prod", "", "prod_"},
		{"test", "", "test_"},
		{"dev", "", "dev_"},
		{"staging", "", "dev_"},
		{"prod", "custom_", "custom_"},
	}

	for _, tt := range tests {
		t.Run(tt.env+tt.override, func(t *testing.T) {
			t.Setenv("TABLE_PREFIX", tt.override)
			assert.Equal(t, tt.want, getTablePrefix(tt.env))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"sqlite with secret", Config{DatabaseDriver: DriverSQLite, SQLitePath: "x.db", JWTSecret: "s"}, false},
		{"postgres without url", Config{DatabaseDriver: DriverPostgres, JWTSecret: "s"}, true},
		{"unknown driver", Config{DatabaseDriver: "mysql", JWTSecret: "s"}, true},
		{"no verifier", Config{DatabaseDriver: DriverSQLite, SQLitePath: "x.db"}, true},
		{"prod needs jwks", Config{DatabaseDriver: DriverSQLite, SQLitePath: "x.db", JWTSecret: "s", Environment: "prod"}, true},
		{"prod with jwks", Config{DatabaseDriver: DriverPostgres, DatabaseURL: "postgres://", JWKSURL: "https://idp/jwks", Environment: "prod"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateStorageIgnoresVerifier(t *testing.T) {
	cfg := Config{DatabaseDriver: DriverSQLite, SQLitePath: "x.db"}
	assert.NoError(t, cfg.ValidateStorage())
	assert.Error(t, cfg.Validate())
}

func TestAllowedOrigins(t *testing.T) {
	cfg := &Config{CORSOrigins: "http://a.test, http://b.test,,"}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins())
}

func TestSetupLogFileKeepsNewest(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"cabinets-2020-01-01T00-00-00.log", "cabinets-2020-01-02T00-00-00.log"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	f, err := SetupLogFile(dir, 2)
	require.NoError(t, err)
	defer f.Close()

	files, err := filepath.Glob(filepath.Join(dir, "cabinets-*.log"))
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.NoFileExists(t, filepath.Join(dir, "cabinets-2020-01-01T00-00-00.log"))
}
