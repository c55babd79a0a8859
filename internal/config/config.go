package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	JWT    JWTConfig
	S3     S3Config
	Log    LogConfig
	Parser ParserConfig
	CORS   CORSConfig
	Ingest IngestConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret            string        `mapstructure:"secret"`
	AccessTokenExpiry time.Duration `mapstructure:"access_expiry"`
	Issuer            string        `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings for the document inbox.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ParserConfig holds LLM document parser settings.
type ParserConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	MaxRetries   int    `mapstructure:"max_retries"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// IngestConfig holds the batch pipeline settings.
type IngestConfig struct {
	SourceDir    string `mapstructure:"source_dir"`
	CacheDir     string `mapstructure:"cache_dir"`
	TemplatePath string `mapstructure:"template_path"`
	OutputDir    string `mapstructure:"output_dir"`
	UseAI        bool   `mapstructure:"use_ai"`
}

// Load reads configuration from environment variables with the RADLIC_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RADLIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "radlic")
	v.SetDefault("db.password", "radlic_secret")
	v.SetDefault("db.name", "radlic_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "8h")
	v.SetDefault("jwt.issuer", "radlic")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "radlic-inbox")
	v.SetDefault("s3.prefix", "")
	v.SetDefault("s3.endpoint", "")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Parser defaults
	v.SetDefault("parser.provider", "gemini")
	v.SetDefault("parser.api_key", "")
	v.SetDefault("parser.default_model", "gemini-2.0-flash")
	v.SetDefault("parser.max_retries", 2)
	v.SetDefault("parser.timeout_secs", 120)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Ingest defaults
	v.SetDefault("ingest.source_dir", "")
	v.SetDefault("ingest.cache_dir", ".radlic-cache")
	v.SetDefault("ingest.template_path", "templates/licencia.docx")
	v.SetDefault("ingest.output_dir", "out")
	v.SetDefault("ingest.use_ai", false)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":          "RADLIC_SERVER_PORT",
		"server.read_timeout":  "RADLIC_SERVER_READ_TIMEOUT",
		"server.write_timeout": "RADLIC_SERVER_WRITE_TIMEOUT",
		"server.environment":   "RADLIC_SERVER_ENVIRONMENT",
		"db.host":              "RADLIC_DB_HOST",
		"db.port":              "RADLIC_DB_PORT",
		"db.user":              "RADLIC_DB_USER",
		"db.password":          "RADLIC_DB_PASSWORD",
		"db.name":              "RADLIC_DB_NAME",
		"db.sslmode":           "RADLIC_DB_SSLMODE",
		"db.max_open":          "RADLIC_DB_MAX_OPEN",
		"db.max_idle":          "RADLIC_DB_MAX_IDLE",
		"jwt.secret":           "RADLIC_JWT_SECRET",
		"jwt.access_expiry":    "RADLIC_JWT_ACCESS_EXPIRY",
		"jwt.issuer":           "RADLIC_JWT_ISSUER",
		"s3.region":            "RADLIC_S3_REGION",
		"s3.bucket":            "RADLIC_S3_BUCKET",
		"s3.prefix":            "RADLIC_S3_PREFIX",
		"s3.endpoint":          "RADLIC_S3_ENDPOINT",
		"s3.access_key":        "RADLIC_S3_ACCESS_KEY",
		"s3.secret_key":        "RADLIC_S3_SECRET_KEY",
		"log.level":            "RADLIC_LOG_LEVEL",
		"log.format":           "RADLIC_LOG_FORMAT",
		"parser.provider":      "RADLIC_PARSER_PROVIDER",
		"parser.api_key":       "RADLIC_PARSER_API_KEY",
		"parser.default_model": "RADLIC_PARSER_DEFAULT_MODEL",
		"parser.max_retries":   "RADLIC_PARSER_MAX_RETRIES",
		"parser.timeout_secs":  "RADLIC_PARSER_TIMEOUT_SECS",
		"cors.allowed_origins": "RADLIC_CORS_ALLOWED_ORIGINS",
		"ingest.source_dir":    "RADLIC_INGEST_SOURCE_DIR",
		"ingest.cache_dir":     "RADLIC_INGEST_CACHE_DIR",
		"ingest.template_path": "RADLIC_INGEST_TEMPLATE_PATH",
		"ingest.output_dir":    "RADLIC_INGEST_OUTPUT_DIR",
		"ingest.use_ai":        "RADLIC_INGEST_USE_AI",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if RADLIC_SERVER_PORT
	// is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("RADLIC_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:            v.GetString("jwt.secret"),
		AccessTokenExpiry: v.GetDuration("jwt.access_expiry"),
		Issuer:            v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Prefix:    v.GetString("s3.prefix"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Parser = ParserConfig{
		Provider:     v.GetString("parser.provider"),
		APIKey:       v.GetString("parser.api_key"),
		DefaultModel: v.GetString("parser.default_model"),
		MaxRetries:   v.GetInt("parser.max_retries"),
		TimeoutSecs:  v.GetInt("parser.timeout_secs"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Ingest = IngestConfig{
		SourceDir:    v.GetString("ingest.source_dir"),
		CacheDir:     v.GetString("ingest.cache_dir"),
		TemplatePath: v.GetString("ingest.template_path"),
		OutputDir:    v.GetString("ingest.output_dir"),
		UseAI:        v.GetBool("ingest.use_ai"),
	}

	return cfg, nil
}
