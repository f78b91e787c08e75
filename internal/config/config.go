// Package config loads server settings from defaults, an optional .env file
// and the process environment. The environment wins.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "default_secret_key"

// ErrMissingJWTSecret stops a production server from signing tokens with the
// built-in development key.
var ErrMissingJWTSecret = errors.New("JWT_SECRET_KEY must be set when APP_ENV=production")

type Config struct {
	AppEnv         string        `mapstructure:"app_env"`
	Port           string        `mapstructure:"port"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	LogLevel       string        `mapstructure:"log_level"`
	DatabaseDriver string        `mapstructure:"database_driver"`
	DatabaseDSN    string        `mapstructure:"database_dsn"`
	JWTSecretKey   string        `mapstructure:"jwt_secret_key"`
	TokenTTL       time.Duration `mapstructure:"token_ttl"`
	InviteCode     string        `mapstructure:"signup_invite_code"`
	UploadDir      string        `mapstructure:"upload_dir"`
	OutputDir      string        `mapstructure:"output_dir"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`

	ModelServerURL   string        `mapstructure:"model_server_url"`
	ModelBatchSize   int           `mapstructure:"model_batch_size"`
	ModelConcurrency int           `mapstructure:"model_concurrency"`
	ModelTimeout     time.Duration `mapstructure:"model_timeout"`

	GoogleAPIKey       string `mapstructure:"google_api_key"`
	GeminiModel        string `mapstructure:"gemini_model"`
	GoogleCredentials  string `mapstructure:"google_application_credentials"`
	SpeechLanguageCode string `mapstructure:"speech_language_code"`

	LoginRatePerMinute int           `mapstructure:"login_rate_per_minute"`
	ChatRatePerMinute  int           `mapstructure:"chat_rate_per_minute"`
	ReportCacheTTL     time.Duration `mapstructure:"report_cache_ttl"`
}

var keys = []string{
	"app_env", "port", "allowed_origins", "log_level", "database_driver", "database_dsn",
	"jwt_secret_key", "token_ttl", "signup_invite_code", "upload_dir", "output_dir", "max_upload_bytes",
	"model_server_url", "model_batch_size", "model_concurrency", "model_timeout",
	"google_api_key", "gemini_model", "google_application_credentials", "speech_language_code",
	"login_rate_per_minute", "chat_rate_per_minute", "report_cache_ttl",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "development")
	v.SetDefault("port", "8000")
	v.SetDefault("allowed_origins", []string{
		"http://localhost:5173",
		"http://127.0.0.1:5173",
		"http://localhost:4173",
		"http://127.0.0.1:4173",
	})
	v.SetDefault("log_level", "info")
	v.SetDefault("database_driver", "sqlite")
	v.SetDefault("database_dsn", "./churnradar.db")
	v.SetDefault("jwt_secret_key", "")
	v.SetDefault("token_ttl", 24*time.Hour)
	v.SetDefault("signup_invite_code", "")
	v.SetDefault("upload_dir", "uploads")
	v.SetDefault("output_dir", "outputs")
	v.SetDefault("max_upload_bytes", 32<<20)
	v.SetDefault("model_server_url", "")
	v.SetDefault("model_batch_size", 500)
	v.SetDefault("model_concurrency", 4)
	v.SetDefault("model_timeout", 60*time.Second)
	v.SetDefault("google_api_key", "")
	v.SetDefault("gemini_model", "gemini-1.5-flash")
	v.SetDefault("google_application_credentials", "")
	v.SetDefault("speech_language_code", "en-US")
	v.SetDefault("login_rate_per_minute", 20)
	v.SetDefault("chat_rate_per_minute", 30)
	v.SetDefault("report_cache_ttl", 10*time.Minute)
}

// Load reads envFiles (missing files are ignored) and then the environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// godotenv never overrides variables already set in the process
		_ = godotenv.Load(f)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, k := range keys {
		if err := v.BindEnv(k, strings.ToUpper(k)); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.AllowedOrigins = splitOrigins(cfg.AllowedOrigins)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// an env value arrives as a single comma-separated string
func splitOrigins(in []string) []string {
	var out []string
	for _, o := range in {
		for _, part := range strings.Split(o, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		return errors.New("DATABASE_DRIVER must be sqlite or postgres")
	}
	if c.Port == "" {
		return errors.New("PORT must not be empty")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.Production() && c.JWTSecretKey == "" {
		return ErrMissingJWTSecret
	}
	return nil
}

func (c *Config) Production() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// JWTSecret returns the signing key and whether it fell back to the default.
func (c *Config) JWTSecret() ([]byte, bool) {
	if c.JWTSecretKey == "" {
		return []byte(defaultJWTSecret), true
	}
	return []byte(c.JWTSecretKey), false
}
