package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"HTTP_ADDR", "SHUTDOWN_TIMEOUT", "NOTES_BACKEND", "NOTES_FILE", "UPDATE_REQUIRE_TEXT",
	"DATABASE_URL", "DB_MAX_OPEN", "DB_MAX_IDLE", "DB_CONN_MAX_LIFETIME", "DB_CONN_MAX_IDLE_TIME",
	"S3_ENDPOINT", "S3_REGION", "S3_BUCKET", "S3_KEY", "S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY", "S3_USE_PATH_STYLE",
	"LOG_LEVEL", "LOG_FORMAT", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "CORS_ALLOWED_ORIGINS", "CONFIG_FILE",
}

// clearEnv blanks every variable Load reads; getenv treats "" as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":3000", cfg.HTTPAddr)
	require.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	require.Equal(t, BackendFile, cfg.Backend)
	require.Equal(t, "./notes.json", cfg.NotesFile)
	require.False(t, cfg.UpdateRequireText)
	require.Equal(t, "", cfg.DatabaseURL)
	require.Equal(t, 20, cfg.MaxOpenConns)
	require.Equal(t, 10, cfg.MaxIdleConns)
	require.Equal(t, 30*time.Minute, cfg.ConnMaxLifetime)
	require.Equal(t, 5*time.Minute, cfg.ConnMaxIdleTime)
	require.Equal(t, "us-east-1", cfg.S3.Region)
	require.Equal(t, "notes.json", cfg.S3.Key)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "text", cfg.LogFormat)
	require.Zero(t, cfg.RateLimitRPS)
	require.Nil(t, cfg.AllowedOrigins())
	require.NoError(t, cfg.Validate())
}

func TestLoad_OverridesAndInvalidValues(t *testing.T) {
	t.Run("valid overrides", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("HTTP_ADDR", ":9999")
		t.Setenv("NOTES_BACKEND", "postgres")
		t.Setenv("UPDATE_REQUIRE_TEXT", "true")
		t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/db?sslmode=disable")
		t.Setenv("DB_MAX_OPEN", "5")
		t.Setenv("DB_CONN_MAX_LIFETIME", "1m")
		t.Setenv("S3_USE_PATH_STYLE", "1")
		t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, ":9999", cfg.HTTPAddr)
		require.Equal(t, BackendPostgres, cfg.Backend)
		require.True(t, cfg.UpdateRequireText)
		require.Equal(t, "postgres://u:p@localhost:5432/db?sslmode=disable", cfg.DatabaseURL)
		require.Equal(t, 5, cfg.MaxOpenConns)
		require.Equal(t, time.Minute, cfg.ConnMaxLifetime)
		require.True(t, cfg.S3.UsePathStyle)
		require.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins())
		require.NoError(t, cfg.Validate())
	})

	t.Run("invalid values fall back to defaults", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DB_MAX_OPEN", "abc")
		t.Setenv("DB_CONN_MAX_IDLE_TIME", "bad")
		t.Setenv("UPDATE_REQUIRE_TEXT", "maybe")
		t.Setenv("RATE_LIMIT_BURST", "x")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, 20, cfg.MaxOpenConns)
		require.Equal(t, 5*time.Minute, cfg.ConnMaxIdleTime)
		require.False(t, cfg.UpdateRequireText)
		require.Equal(t, 10, cfg.RateLimitBurst)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"file ok", func(c *Config) {}, false},
		{"file blank path", func(c *Config) { c.NotesFile = "  " }, true},
		{"memory ok", func(c *Config) { c.Backend = BackendMemory }, false},
		{"postgres missing url", func(c *Config) { c.Backend = BackendPostgres }, true},
		{"s3 missing bucket", func(c *Config) { c.Backend = BackendS3 }, true},
		{"s3 ok", func(c *Config) { c.Backend = BackendS3; c.S3.Bucket = "b" }, false},
		{"unknown backend", func(c *Config) { c.Backend = "redis" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			cfg := FromEnv()
			tt.mutate(&cfg)
			if tt.wantErr {
				require.Error(t, cfg.Validate())
			} else {
				require.NoError(t, cfg.Validate())
			}
		})
	}
}

func TestLoad_ConfigFileOverridesEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
http_addr: ":4000"
backend: s3
update_require_text: true
db_max_open: 7
shutdown_timeout: 3s
s3:
  bucket: ${NOTES_TEST_BUCKET:-fallback-bucket}
  endpoint: ${NOTES_TEST_ENDPOINT}
  use_path_style: true
`), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("NOTES_FILE", "/var/lib/notes.json")
	t.Setenv("NOTES_TEST_ENDPOINT", "http://localhost:9000")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":4000", cfg.HTTPAddr)
	require.Equal(t, BackendS3, cfg.Backend)
	require.True(t, cfg.UpdateRequireText)
	require.Equal(t, 7, cfg.MaxOpenConns)
	require.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	require.Equal(t, "fallback-bucket", cfg.S3.Bucket)
	require.Equal(t, "http://localhost:9000", cfg.S3.Endpoint)
	require.True(t, cfg.S3.UsePathStyle)
	// untouched by the file
	require.Equal(t, "/var/lib/notes.json", cfg.NotesFile)
	require.Equal(t, "notes.json", cfg.S3.Key)
	require.Equal(t, "us-east-1", cfg.S3.Region)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yml"))

	_, err := Load()
	require.Error(t, err)
}

func TestExpandEnvWithDefaults(t *testing.T) {
	t.Setenv("NOTES_TEST_SET", "value")
	t.Setenv("NOTES_TEST_EMPTY", "")

	require.Equal(t, "value", expandEnvWithDefaults("${NOTES_TEST_SET:-other}"))
	require.Equal(t, "other", expandEnvWithDefaults("${NOTES_TEST_EMPTY:-other}"))
	require.Equal(t, "", expandEnvWithDefaults("${NOTES_TEST_EMPTY}"))
	require.Equal(t, "a-value-b", expandEnvWithDefaults("a-${NOTES_TEST_SET}-b"))
	require.Equal(t, "plain", expandEnvWithDefaults("plain"))
}
