package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env                  string        `mapstructure:"APP_ENV"`
	Port                 string        `mapstructure:"PORT"`
	DBDriver             string        `mapstructure:"DB_DRIVER"`
	DatabaseURL          string        `mapstructure:"DATABASE_URL"`
	SQLitePath           string        `mapstructure:"SQLITE_PATH"`
	DBMaxConns           int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns           int32         `mapstructure:"DB_MIN_CONNS"`
	RedisURL             string        `mapstructure:"REDIS_URL"`
	SessionTTL           time.Duration `mapstructure:"SESSION_TTL"`
	CookieSecure         bool          `mapstructure:"COOKIE_SECURE"`
	UploadDir            string        `mapstructure:"UPLOAD_DIR"`
	MaxUploadBytes       int64         `mapstructure:"MAX_UPLOAD_BYTES"`
	InferenceURL         string        `mapstructure:"INFERENCE_URL"`
	InferenceToken       string        `mapstructure:"INFERENCE_TOKEN"`
	InferenceMaxTokens   int           `mapstructure:"INFERENCE_MAX_TOKENS"`
	InferenceTemperature float64       `mapstructure:"INFERENCE_TEMPERATURE"`
	InferenceTimeout     time.Duration `mapstructure:"INFERENCE_TIMEOUT"`
	InferenceConcurrency int           `mapstructure:"INFERENCE_CONCURRENCY"`
	SendGridAPIKey       string        `mapstructure:"SENDGRID_API_KEY"`
	MailFrom             string        `mapstructure:"MAIL_FROM"`
	MailFromName         string        `mapstructure:"MAIL_FROM_NAME"`
	FeedbackInbox        string        `mapstructure:"FEEDBACK_INBOX"`
}

var keys = []string{
	"APP_ENV", "PORT", "DB_DRIVER", "DATABASE_URL", "SQLITE_PATH", "DB_MAX_CONNS", "DB_MIN_CONNS",
	"REDIS_URL", "SESSION_TTL", "COOKIE_SECURE", "UPLOAD_DIR", "MAX_UPLOAD_BYTES",
	"INFERENCE_URL", "INFERENCE_TOKEN", "INFERENCE_MAX_TOKENS", "INFERENCE_TEMPERATURE",
	"INFERENCE_TIMEOUT", "INFERENCE_CONCURRENCY",
	"SENDGRID_API_KEY", "MAIL_FROM", "MAIL_FROM_NAME", "FEEDBACK_INBOX",
}

// Load reads configuration from the environment. Outside production a .env
// file in the working directory is loaded first; a missing file is not an
// error.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("SQLITE_PATH", "db.sqlite3")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("MAX_UPLOAD_BYTES", 10<<20)
	v.SetDefault("INFERENCE_MAX_TOKENS", 200)
	v.SetDefault("INFERENCE_TEMPERATURE", 0.7)
	v.SetDefault("INFERENCE_TIMEOUT", "60s")
	v.SetDefault("INFERENCE_CONCURRENCY", 1)
	v.SetDefault("MAIL_FROM", "donotreply@medassist.local")
	v.SetDefault("MAIL_FROM_NAME", "MedAssist")

	// Unmarshal only sees keys viper knows about.
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required when DB_DRIVER=sqlite")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be \"postgres\" or \"sqlite\", got %q", c.DBDriver)
	}
	if c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	if c.InferenceMaxTokens <= 0 {
		return fmt.Errorf("INFERENCE_MAX_TOKENS must be positive, got %d", c.InferenceMaxTokens)
	}
	if c.InferenceTemperature <= 0 {
		return fmt.Errorf("INFERENCE_TEMPERATURE must be positive, got %g", c.InferenceTemperature)
	}
	if c.InferenceConcurrency < 1 {
		return fmt.Errorf("INFERENCE_CONCURRENCY must be at least 1, got %d", c.InferenceConcurrency)
	}
	if c.InferenceTimeout <= 0 {
		return fmt.Errorf("INFERENCE_TIMEOUT must be positive, got %s", c.InferenceTimeout)
	}
	return nil
}
