package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment `koanf:"-"`

	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	Security  SecurityConfig  `koanf:"security"`
	Recommend RecommendConfig `koanf:"recommend"`
	Logging   LoggingConfig   `koanf:"logging"`
	Storage   StorageConfig   `koanf:"storage"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            string        `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the listen address for the HTTP server
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	Host            string        `koanf:"host"`
	Port            string        `koanf:"port"`
	User            string        `koanf:"user"`
	Password        string        `koanf:"password"`
	Name            string        `koanf:"name"`
	SSLMode         string        `koanf:"ssl_mode"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	MigrationsDir   string        `koanf:"migrations_dir"`
}

// DSN returns a postgres connection string. DATABASE_URL wins when set.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// Redacted returns host:port/name for logging without credentials
func (d DatabaseConfig) Redacted() string {
	if d.URL != "" {
		if u, err := url.Parse(d.URL); err == nil {
			return u.Host + u.Path
		}
		return "database_url"
	}
	return fmt.Sprintf("%s:%s/%s", d.Host, d.Port, d.Name)
}

type RedisConfig struct {
	URL      string `koanf:"url"`
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	// Optional lets the API start without Redis; rate limiting falls back to in-process limiters.
	Optional bool `koanf:"optional"`
}

type SecurityConfig struct {
	JWTSecret         string        `koanf:"jwt_secret"`
	TokenTTL          time.Duration `koanf:"token_ttl"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RefreshRateLimit  int           `koanf:"refresh_rate_limit"`
	RefreshRateWindow time.Duration `koanf:"refresh_rate_window"`
}

type RecommendConfig struct {
	SimilarityLimit   int           `koanf:"similarity_limit"`
	PersonalizedLimit int           `koanf:"personalized_limit"`
	RefreshLimit      int           `koanf:"refresh_limit"`
	QueryTimeout      time.Duration `koanf:"query_timeout"`

	RefreshEnabled   bool `koanf:"refresh_enabled"`
	RefreshHour      int  `koanf:"refresh_hour"`
	RefreshMinute    int  `koanf:"refresh_minute"`
	RefreshOnStartup bool `koanf:"refresh_on_startup"`

	BreakerMaxFailures uint32        `koanf:"breaker_max_failures"`
	BreakerTimeout     time.Duration `koanf:"breaker_timeout"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

type StorageConfig struct {
	Region     string `koanf:"region"`
	Bucket     string `koanf:"bucket"`
	CatalogKey string `koanf:"catalog_key"`
}

// DefaultConfigPaths lists the config files searched in order; the first hit is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/recipenest/config.yaml",
}

const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8080",
			ShutdownTimeout: 5 * time.Second,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            "5432",
			User:            "postgres",
			Name:            "recipenest",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    25,
			ConnMaxLifetime: 5 * time.Minute,
			MigrationsDir:   "migrations",
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: "6379",
		},
		Security: SecurityConfig{
			TokenTTL:          24 * time.Hour,
			CORSOrigins:       []string{"http://localhost:3000"},
			RefreshRateLimit:  10,
			RefreshRateWindow: time.Hour,
		},
		Recommend: RecommendConfig{
			SimilarityLimit:    10,
			PersonalizedLimit:  20,
			RefreshLimit:       10,
			QueryTimeout:       5 * time.Second,
			RefreshEnabled:     true,
			BreakerMaxFailures: 5,
			BreakerTimeout:     30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Storage: StorageConfig{
			CatalogKey: "catalog/recipes.json",
		},
	}
}

// LoadConfig layers defaults, an optional YAML file and environment variables,
// fills unset credentials from Docker secrets, then validates the result for
// the current environment.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.Environment = GetEnvironment()
	cfg.Security.CORSOrigins = splitList(cfg.Security.CORSOrigins)

	applySecrets(cfg)

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var envMappings = map[string]string{
	"server_host":      "server.host",
	"server_port":      "server.port",
	"shutdown_timeout": "server.shutdown_timeout",

	"database_url":         "database.url",
	"db_host":              "database.host",
	"db_port":              "database.port",
	"db_user":              "database.user",
	"db_password":          "database.password",
	"db_name":              "database.name",
	"db_ssl_mode":          "database.ssl_mode",
	"db_max_open_conns":    "database.max_open_conns",
	"db_max_idle_conns":    "database.max_idle_conns",
	"db_conn_max_lifetime": "database.conn_max_lifetime",
	"migrations_dir":       "database.migrations_dir",

	"redis_url":      "redis.url",
	"redis_host":     "redis.host",
	"redis_port":     "redis.port",
	"redis_password": "redis.password",
	"redis_db":       "redis.db",
	"redis_optional": "redis.optional",

	"jwt_secret":          "security.jwt_secret",
	"jwt_token_ttl":       "security.token_ttl",
	"cors_origins":        "security.cors_origins",
	"refresh_rate_limit":  "security.refresh_rate_limit",
	"refresh_rate_window": "security.refresh_rate_window",

	"recommend_similarity_limit":   "recommend.similarity_limit",
	"recommend_personalized_limit": "recommend.personalized_limit",
	"recommend_refresh_limit":      "recommend.refresh_limit",
	"recommend_query_timeout":      "recommend.query_timeout",
	"refresh_enabled":              "recommend.refresh_enabled",
	"refresh_hour":                 "recommend.refresh_hour",
	"refresh_minute":               "recommend.refresh_minute",
	"refresh_on_startup":           "recommend.refresh_on_startup",
	"breaker_max_failures":         "recommend.breaker_max_failures",
	"breaker_timeout":              "recommend.breaker_timeout",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"aws_region":         "storage.region",
	"s3_bucket_name":     "storage.bucket",
	"catalog_object_key": "storage.catalog_key",
}

// envTransformFunc maps flat environment variable names to koanf paths.
// Unknown variables are dropped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// splitList handles comma separated values coming in through a single env var
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// applySecrets fills sensitive values from Docker secrets when they were not
// supplied through the environment or the config file.
func applySecrets(cfg *Config) {
	if cfg.Database.Password == "" {
		cfg.Database.Password = readSecret("db_password")
	}
	if cfg.Database.User == "" {
		cfg.Database.User = readSecret("db_user")
	}
	if cfg.Security.JWTSecret == "" {
		cfg.Security.JWTSecret = readSecret("jwt_secret")
	}
	if cfg.Redis.Password == "" {
		cfg.Redis.Password = readSecret("redis_password")
	}
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
