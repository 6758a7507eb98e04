package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration required by the API process.
// All values must come from env (or env-file loaded by the process runner).
// No business logic should depend on raw environment variables.
type Config struct {
	App      AppConfig
	Auth     AuthConfig
	Accounts AccountsConfig
	Redis    RedisConfig
}

type AppConfig struct {
	Env  string
	Port int
}

// AuthConfig carries the three secrets the gate cannot run without.
// It is read once at startup and never mutated afterwards.
type AuthConfig struct {
	// StoreURL is either the Supabase project URL (http/https, PostgREST)
	// or a direct postgres:// connection URL.
	StoreURL       string
	ServiceRoleKey string
	JWTSecret      string
}

type AccountsConfig struct {
	Table    string
	IDColumn string

	// Timeout bounds each store round trip issued by the HTTP client.
	Timeout time.Duration
}

// RedisConfig is optional; an empty Addr disables the account lookup cache.
type RedisConfig struct {
	Addr     string
	CacheTTL time.Duration
}

const (
	defaultEnv          = "local"
	defaultPort         = 8080
	defaultTable        = "users"
	defaultIDColumn     = "account_id"
	defaultStoreTimeout = 5 * time.Second
	defaultCacheTTL     = 30 * time.Second
)

func Load() (Config, error) {
	c := Config{}
	var parseErrs []error

	c.App.Env = strings.TrimSpace(os.Getenv("APP_ENV"))
	{
		n, err := optionalInt("APP_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.App.Port = n
	}

	c.Auth.StoreURL = strings.TrimSpace(os.Getenv("SUPABASE_URL"))
	c.Auth.ServiceRoleKey = os.Getenv("SUPABASE_SERVICE_ROLE_KEY")
	c.Auth.JWTSecret = os.Getenv("SUPABASE_JWT_SECRET")

	c.Accounts.Table = strings.TrimSpace(os.Getenv("ACCOUNTS_TABLE"))
	c.Accounts.IDColumn = strings.TrimSpace(os.Getenv("ACCOUNTS_ID_COLUMN"))
	{
		d, err := optionalDuration("STORE_TIMEOUT")
		if err != nil {
			parseErrs = append(parseErrs, err)
		}
		c.Accounts.Timeout = d
	}

	c.Redis.Addr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	{
		d, err := optionalDuration("ACCOUNT_CACHE_TTL")
		if err != nil {
			parseErrs = append(parseErrs, err)
		}
		c.Redis.CacheTTL = d
	}

	if err := joinErrors(parseErrs); err != nil {
		return Config{}, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = defaultEnv
	}
	if c.App.Port == 0 {
		c.App.Port = defaultPort
	}
	if c.Accounts.Table == "" {
		c.Accounts.Table = defaultTable
	}
	if c.Accounts.IDColumn == "" {
		c.Accounts.IDColumn = defaultIDColumn
	}
	if c.Accounts.Timeout <= 0 {
		c.Accounts.Timeout = defaultStoreTimeout
	}
	if c.Redis.CacheTTL <= 0 {
		c.Redis.CacheTTL = defaultCacheTTL
	}
}

func (c Config) Validate() error {
	var errs []error

	if c.App.Env == "" {
		errs = append(errs, errors.New("APP_ENV is required"))
	} else if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}

	if err := c.Auth.Validate(); err != nil {
		errs = append(errs, err)
	}

	if c.Accounts.Table == "" {
		errs = append(errs, errors.New("ACCOUNTS_TABLE must not be empty"))
	}
	if c.Accounts.IDColumn == "" {
		errs = append(errs, errors.New("ACCOUNTS_ID_COLUMN must not be empty"))
	}

	return joinErrors(errs)
}

// Validate reports every missing or unusable secret at once.
func (a AuthConfig) Validate() error {
	var errs []error

	if strings.TrimSpace(a.StoreURL) == "" {
		errs = append(errs, errors.New("SUPABASE_URL is required"))
	} else if _, err := a.StoreKind(); err != nil {
		errs = append(errs, err)
	}
	if a.ServiceRoleKey == "" {
		errs = append(errs, errors.New("SUPABASE_SERVICE_ROLE_KEY is required"))
	}
	if a.JWTSecret == "" {
		errs = append(errs, errors.New("SUPABASE_JWT_SECRET is required"))
	}

	return joinErrors(errs)
}

// StoreKind names the account store backend implied by the StoreURL scheme.
type StoreKind string

const (
	StoreREST     StoreKind = "rest"
	StorePostgres StoreKind = "postgres"
)

func (a AuthConfig) StoreKind() (StoreKind, error) {
	u, err := url.Parse(strings.TrimSpace(a.StoreURL))
	if err != nil {
		return "", fmt.Errorf("SUPABASE_URL is not a valid URL: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		if u.Host == "" {
			return "", fmt.Errorf("SUPABASE_URL must include a host, got %q", a.StoreURL)
		}
		return StoreREST, nil
	case "postgres", "postgresql":
		return StorePostgres, nil
	default:
		return "", fmt.Errorf("SUPABASE_URL scheme must be http, https, postgres or postgresql, got %q", u.Scheme)
	}
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func (c Config) CacheEnabled() bool {
	return c.Redis.Addr != ""
}

func optionalInt(key string) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func optionalDuration(key string) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration, got %q", key, v)
	}
	return d, nil
}

func appendParseErr(errs []error, n int, err error) (int, []error) {
	if err != nil {
		errs = append(errs, err)
	}
	return n, errs
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
