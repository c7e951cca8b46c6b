// AngelaMos | 2026
// config.go

package config

import (
	"fmt"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App       AppConfig       `koanf:"app"`
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	JWT       JWTConfig       `koanf:"jwt"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	CORS      CORSConfig      `koanf:"cors"`
	Media     MediaConfig     `koanf:"media"`
	Seed      SeedConfig      `koanf:"seed"`
	Log       LogConfig       `koanf:"log"`
	Otel      OtelConfig      `koanf:"otel"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
}

type RedisConfig struct {
	URL          string `koanf:"url"`
	PoolSize     int    `koanf:"pool_size"`
	MinIdleConns int    `koanf:"min_idle_conns"`
}

type JWTConfig struct {
	PrivateKeyPath     string        `koanf:"private_key_path"`
	PublicKeyPath      string        `koanf:"public_key_path"`
	AccessTokenExpire  time.Duration `koanf:"access_token_expire"`
	RefreshTokenExpire time.Duration `koanf:"refresh_token_expire"`
	Issuer             string        `koanf:"issuer"`
	Audience           string        `koanf:"audience"`
}

type RateLimitConfig struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
	Burst    int           `koanf:"burst"`
}

// CORSPolicy selects one of the supported origin policies. The deployment
// history of this service accumulated several near-identical entrypoints
// differing only in CORS strictness; the policy knob replaces all of them.
type CORSPolicy string

const (
	CORSAllowAll      CORSPolicy = "allow-all"
	CORSAllowListed   CORSPolicy = "allow-listed"
	CORSDevPermissive CORSPolicy = "dev-permissive"
)

type CORSConfig struct {
	Policy           CORSPolicy `koanf:"policy"`
	AllowedOrigins   []string   `koanf:"allowed_origins"`
	AllowedMethods   []string   `koanf:"allowed_methods"`
	AllowedHeaders   []string   `koanf:"allowed_headers"`
	AllowCredentials bool       `koanf:"allow_credentials"`
	MaxAge           int        `koanf:"max_age"`
}

type MediaConfig struct {
	CloudName     string        `koanf:"cloud_name"`
	APIKey        string        `koanf:"api_key"`
	APISecret     string        `koanf:"api_secret"`
	UploadFolder  string        `koanf:"upload_folder"`
	UploadTimeout time.Duration `koanf:"upload_timeout"`
}

type SeedConfig struct {
	OfficialEmail     string `koanf:"official_email"`
	OfficialPassword  string `koanf:"official_password"`
	OfficialFirstName string `koanf:"official_first_name"`
	OfficialLastName  string `koanf:"official_last_name"`
	OfficialPhone     string `koanf:"official_phone"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type OtelConfig struct {
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	Enabled     bool    `koanf:"enabled"`
	Insecure    bool    `koanf:"insecure"`
	SampleRate  float64 `koanf:"sample_rate"`
}

// Load reads defaults, the optional YAML file, and environment overrides,
// in that order. It holds no package state; callers invoke it exactly once
// during process startup and pass the result down explicitly.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKeyReplacer), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":        "PakAir API",
		"app.version":     "1.0.0",
		"app.environment": "development",

		"server.host":             "0.0.0.0",
		"server.port":             8080,
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "15s",

		"database.max_open_conns":     25,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  "1h",
		"database.conn_max_idle_time": "30m",

		"redis.pool_size":      10,
		"redis.min_idle_conns": 5,

		"jwt.access_token_expire":  "15m",
		"jwt.refresh_token_expire": "720h",
		"jwt.issuer":               "pakair-api",
		"jwt.audience":             "pakair-clients",
		"jwt.private_key_path":     "keys/private.pem",
		"jwt.public_key_path":      "keys/public.pem",

		"rate_limit.requests": 100,
		"rate_limit.window":   "1m",
		"rate_limit.burst":    20,

		"cors.policy":          string(CORSDevPermissive),
		"cors.allowed_origins": []string{"http://localhost:3000"},
		"cors.allowed_methods": []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
		},
		"cors.allowed_headers": []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		"cors.allow_credentials": true,
		"cors.max_age":           300,

		"media.upload_folder":  "pakair/reports",
		"media.upload_timeout": "30s",

		"seed.official_first_name": "Developer",
		"seed.official_last_name":  "Official",
		"seed.official_phone":      "0000000000",

		"log.level":  "info",
		"log.format": "json",

		"otel.enabled":      false,
		"otel.insecure":     true,
		"otel.sample_rate":  0.1,
		"otel.service_name": "pakair-api",
	}

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

var envKeyMap = map[string]string{
	"DATABASE_URL":                "database.url",
	"REDIS_URL":                   "redis.url",
	"ENVIRONMENT":                 "app.environment",
	"HOST":                        "server.host",
	"PORT":                        "server.port",
	"LOG_LEVEL":                   "log.level",
	"LOG_FORMAT":                  "log.format",
	"JWT_PRIVATE_KEY_PATH":        "jwt.private_key_path",
	"JWT_PUBLIC_KEY_PATH":         "jwt.public_key_path",
	"JWT_ACCESS_TOKEN_EXPIRE":     "jwt.access_token_expire",
	"JWT_REFRESH_TOKEN_EXPIRE":    "jwt.refresh_token_expire",
	"JWT_ISSUER":                  "jwt.issuer",
	"JWT_AUDIENCE":                "jwt.audience",
	"RATE_LIMIT_REQUESTS":         "rate_limit.requests",
	"RATE_LIMIT_WINDOW":           "rate_limit.window",
	"RATE_LIMIT_BURST":            "rate_limit.burst",
	"CORS_POLICY":                 "cors.policy",
	"CORS_ORIGIN":                 "cors.allowed_origins",
	"CLOUDINARY_CLOUD_NAME":       "media.cloud_name",
	"CLOUDINARY_API_KEY":          "media.api_key",
	"CLOUDINARY_API_SECRET":       "media.api_secret",
	"MEDIA_UPLOAD_FOLDER":         "media.upload_folder",
	"MEDIA_UPLOAD_TIMEOUT":        "media.upload_timeout",
	"DEFAULT_OFFICIAL_EMAIL":      "seed.official_email",
	"DEFAULT_OFFICIAL_PASSWORD":   "seed.official_password",
	"DEFAULT_OFFICIAL_FIRST_NAME": "seed.official_first_name",
	"DEFAULT_OFFICIAL_LAST_NAME":  "seed.official_last_name",
	"DEFAULT_OFFICIAL_PHONE":      "seed.official_phone",
	"OTEL_ENDPOINT":               "otel.endpoint",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "otel.endpoint",
	"OTEL_SERVICE_NAME":           "otel.service_name",
	"OTEL_ENABLED":                "otel.enabled",
	"OTEL_INSECURE":               "otel.insecure",
	"OTEL_SAMPLE_RATE":            "otel.sample_rate",
}

func envKeyReplacer(s string) string {
	if mapped, ok := envKeyMap[s]; ok {
		return mapped
	}
	return ""
}

func validate(c *Config) error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.JWT.PrivateKeyPath == "" {
		return fmt.Errorf("JWT_PRIVATE_KEY_PATH is required")
	}

	if c.JWT.PublicKeyPath == "" {
		return fmt.Errorf("JWT_PUBLIC_KEY_PATH is required")
	}

	switch c.CORS.Policy {
	case CORSAllowAll, CORSAllowListed, CORSDevPermissive:
	default:
		return fmt.Errorf(
			"cors.policy must be one of allow-all, allow-listed, dev-permissive",
		)
	}

	if c.CORS.Policy == CORSAllowListed && len(c.CORS.AllowedOrigins) == 0 {
		return fmt.Errorf(
			"cors.allowed_origins is required with the allow-listed policy",
		)
	}

	if c.IsProduction() {
		if c.CORS.Policy == CORSDevPermissive {
			return fmt.Errorf(
				"cors.policy dev-permissive cannot be used in production",
			)
		}
		if c.Otel.Enabled && c.Otel.Insecure {
			return fmt.Errorf("OTEL_INSECURE must be false in production")
		}
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive")
	}

	if c.Media.UploadTimeout <= 0 {
		return fmt.Errorf("media.upload_timeout must be positive")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
