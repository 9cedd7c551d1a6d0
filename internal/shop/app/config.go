package app

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	AppName      string `yaml:"app_name" env:"SHOP_APP_NAME" env-default:"FluffyFriend" env-description:"Shop name, also the TOTP issuer label"`
	DatabaseFile string `yaml:"database_file" env:"SHOP_DATABASE_FILE" env-default:"shop.db" env-description:"SQLite database file"`
	PepperFile   string `yaml:"pepper_file" env:"SHOP_PEPPER_FILE" env-default:"pepper" env-description:"Password pepper, created on first start"`

	SessionKey     string        `yaml:"session_key" env:"SHOP_SESSION_KEY" env-description:"Secret for signing session cookies; overrides the key file"`
	SessionKeyFile string        `yaml:"session_key_file" env:"SHOP_SESSION_KEY_FILE" env-default:"session.key" env-description:"Cookie signing key, created on first start"`
	SecureCookies  bool          `yaml:"secure_cookies" env:"SHOP_SECURE_COOKIES" env-default:"false" env-description:"Mark the session cookie Secure (HTTPS only)"`
	TrustProxy     bool          `yaml:"trust_proxy" env:"SHOP_TRUST_PROXY" env-default:"false" env-description:"Key rate limits on X-Forwarded-For / X-Real-IP. Only enable behind a reverse proxy that sets them"`
	SessionTTL     time.Duration `yaml:"session_ttl" env:"SHOP_SESSION_TTL" env-default:"168h"`
	PendingAuthTTL time.Duration `yaml:"pending_auth_ttl" env:"SHOP_PENDING_AUTH_TTL" env-default:"5m"`
	EnrollmentTTL  time.Duration `yaml:"enrollment_ttl" env:"SHOP_ENROLLMENT_TTL" env-default:"10m"`

	// First administrator, created when none exists.
	AdminEmail    string `yaml:"admin_email" env:"SHOP_ADMIN_EMAIL"`
	AdminUsername string `yaml:"admin_username" env:"SHOP_ADMIN_USERNAME" env-default:"admin"`
	AdminPassword string `yaml:"admin_password" env:"SHOP_ADMIN_PASSWORD"`

	Env                  string        `yaml:"env" env:"ENV" env-default:"dev"`
	LogLevel             string        `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat            string        `yaml:"log_format" env:"LOG_FORMAT" env-default:"json"`
	Port                 int           `yaml:"port" env:"PORT" env-default:"8080"`
	ShutdownGracePeriod  time.Duration `yaml:"shutdown_grace_period" env:"SHUTDOWN_GRACE_PERIOD" env-default:"10s"`
	HousekeepingInterval time.Duration `yaml:"housekeeping_interval" env:"HOUSEKEEPING_INTERVAL" env-default:"1h"`
}

// LoadConfig reads the configuration. Variables from SHOP_ENV_FILE (default
// .env, optional) are loaded into the environment first. When
// SHOP_CONFIG_FILE names a YAML, TOML, JSON or .env file it is read, with
// environment variables taking precedence.
func LoadConfig() (Config, error) {
	loadEnvFile(os.Getenv("SHOP_ENV_FILE"))

	var cfg Config
	if file := os.Getenv("SHOP_CONFIG_FILE"); file != "" {
		if err := cleanenv.ReadConfig(file, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", file, err)
		}
		return cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read config from environment: %w", err)
	}
	return cfg, nil
}

func loadEnvFile(file string) {
	if file == "" {
		file = ".env"
	}

	if _, err := os.Stat(file); os.IsNotExist(err) {
		return
	}

	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(file); err != nil {
		slog.Warn("failed to load env file", "path", file, "error", err)
	}
}

// Usage describes every environment variable, for --help.
func Usage() string {
	var cfg Config
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return err.Error()
	}
	return text
}

// DSN is the sqlite connection string for the configured database file.
func (c Config) DSN() string {
	return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", c.DatabaseFile)
}
