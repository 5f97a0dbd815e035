package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"example.com/notes-registry/internal/stringsx"
)

const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
)

type Config struct {
	HTTPAddr        string        `mapstructure:"http_addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	Backend           string `mapstructure:"backend"`
	NotesFile         string `mapstructure:"notes_file"`
	UpdateRequireText bool   `mapstructure:"update_require_text"`

	DatabaseURL     string        `mapstructure:"database_url"`
	MaxOpenConns    int           `mapstructure:"db_max_open"`
	MaxIdleConns    int           `mapstructure:"db_max_idle"`
	ConnMaxLifetime time.Duration `mapstructure:"db_conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"db_conn_max_idle_time"`

	S3 S3Config `mapstructure:"s3"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	RateLimitRPS       int    `mapstructure:"rate_limit_rps"`
	RateLimitBurst     int    `mapstructure:"rate_limit_burst"`
	CORSAllowedOrigins string `mapstructure:"cors_allowed_origins"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	Key             string `mapstructure:"key"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
}

// Load reads the environment. When CONFIG_FILE is set, values found in that
// file override the environment.
func Load() (Config, error) {
	cfg := FromEnv()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := MergeFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

func FromEnv() Config {
	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":3000"),
		ShutdownTimeout: getenvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		Backend:           getenv("NOTES_BACKEND", BackendFile),
		NotesFile:         getenv("NOTES_FILE", "./notes.json"),
		UpdateRequireText: getenvBool("UPDATE_REQUIRE_TEXT", false),

		DatabaseURL:     getenv("DATABASE_URL", ""),
		MaxOpenConns:    getenvInt("DB_MAX_OPEN", 20),
		MaxIdleConns:    getenvInt("DB_MAX_IDLE", 10),
		ConnMaxLifetime: getenvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		ConnMaxIdleTime: getenvDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),

		S3: S3Config{
			Endpoint:        getenv("S3_ENDPOINT", ""),
			Region:          getenv("S3_REGION", "us-east-1"),
			Bucket:          getenv("S3_BUCKET", ""),
			Key:             getenv("S3_KEY", "notes.json"),
			AccessKeyID:     getenv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getenv("S3_SECRET_ACCESS_KEY", ""),
			UsePathStyle:    getenvBool("S3_USE_PATH_STYLE", false),
		},

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "text"),

		RateLimitRPS:       getenvInt("RATE_LIMIT_RPS", 0),
		RateLimitBurst:     getenvInt("RATE_LIMIT_BURST", 10),
		CORSAllowedOrigins: getenv("CORS_ALLOWED_ORIGINS", ""),
	}
}

// Validate checks that the selected backend has what it needs.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendFile:
		if stringsx.IsEmpty(c.NotesFile) {
			return fmt.Errorf("NOTES_FILE is required for the %s backend", c.Backend)
		}
	case BackendMemory:
	case BackendPostgres:
		if stringsx.IsEmpty(c.DatabaseURL) {
			return fmt.Errorf("DATABASE_URL is required for the %s backend", c.Backend)
		}
	case BackendS3:
		if stringsx.IsEmpty(c.S3.Bucket) || stringsx.IsEmpty(c.S3.Key) {
			return fmt.Errorf("S3_BUCKET and S3_KEY are required for the %s backend", c.Backend)
		}
	default:
		return fmt.Errorf("unknown NOTES_BACKEND %q", c.Backend)
	}
	return nil
}

// AllowedOrigins splits CORSAllowedOrigins on commas.
func (c Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
