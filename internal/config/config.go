package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration required by the API process.
// All values must come from env (or env-file loaded by the process runner).
// No business logic should depend on raw environment variables.
type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Env  string
	Port int
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string

	// SSLMode is kept explicit for hosted-Postgres posture.
	// Accepts: disable, require, verify-ca, verify-full
	SSLMode string
}

type RedisConfig struct {
	Host string
	Port int
}

// AuthConfig is the full configuration surface of the token core.
// Every service that verifies tokens issued elsewhere must carry the same
// secret and algorithm; a mismatch rejects every request with no error that
// points at configuration, so Validate is strict here.
type AuthConfig struct {
	SigningSecret string

	// Algorithm selects the HMAC variant. One fixed value per deployment.
	// Accepts: HS256 (default), HS384, HS512.
	Algorithm string

	Issuer   string
	Audience string

	AccessTTLMinutes int
	RefreshTTLDays   int

	// Leeway is the clock-skew tolerance applied during verification.
	// Zero means exact expiry comparison.
	Leeway time.Duration
}

func (c AuthConfig) AccessTTL() time.Duration {
	return time.Duration(c.AccessTTLMinutes) * time.Minute
}

func (c AuthConfig) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTTLDays) * 24 * time.Hour
}

// RateLimitConfig guards the credential endpoints (login/refresh).
type RateLimitConfig struct {
	LoginAttempts int
	LoginWindow   time.Duration
}

func Load() (Config, error) {
	c := Config{}
	var parseErrs []error

	c.App.Env = strings.TrimSpace(os.Getenv("APP_ENV"))
	{
		n, err := mustInt("APP_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.App.Port = n
	}

	c.DB.Host = strings.TrimSpace(os.Getenv("DB_HOST"))
	{
		n, err := mustInt("DB_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.DB.Port = n
	}
	c.DB.User = strings.TrimSpace(os.Getenv("DB_USER"))
	c.DB.Password = os.Getenv("DB_PASSWORD")
	c.DB.Name = strings.TrimSpace(os.Getenv("DB_NAME"))
	c.DB.SSLMode = strings.TrimSpace(os.Getenv("DB_SSLMODE"))

	c.Redis.Host = strings.TrimSpace(os.Getenv("REDIS_HOST"))
	{
		n, err := mustInt("REDIS_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.Redis.Port = n
	}

	c.Auth.SigningSecret = os.Getenv("JWT_SECRET")
	c.Auth.Algorithm = strings.TrimSpace(os.Getenv("JWT_ALGORITHM"))
	c.Auth.Issuer = strings.TrimSpace(os.Getenv("JWT_ISSUER"))
	c.Auth.Audience = strings.TrimSpace(os.Getenv("JWT_AUDIENCE"))
	// TTL env vars are optional; defaults applied in Validate().
	c.Auth.AccessTTLMinutes = optionalInt("JWT_ACCESS_TTL_MINUTES")
	c.Auth.RefreshTTLDays = optionalInt("JWT_REFRESH_TTL_DAYS")
	c.Auth.Leeway = optionalDuration("JWT_LEEWAY")

	c.RateLimit.LoginAttempts = optionalInt("RATE_LIMIT_LOGIN_ATTEMPTS")
	c.RateLimit.LoginWindow = optionalDuration("RATE_LIMIT_LOGIN_WINDOW")

	if err := joinErrors(parseErrs); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.App.Env == "" {
		errs = append(errs, errors.New("APP_ENV is required"))
	} else if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}

	if c.DB.Host == "" {
		errs = append(errs, errors.New("DB_HOST is required"))
	}
	if c.DB.Port <= 0 || c.DB.Port > 65535 {
		errs = append(errs, fmt.Errorf("DB_PORT must be a valid port, got %d", c.DB.Port))
	}
	if c.DB.User == "" {
		errs = append(errs, errors.New("DB_USER is required"))
	}
	if c.DB.Name == "" {
		errs = append(errs, errors.New("DB_NAME is required"))
	}
	if strings.TrimSpace(c.DB.SSLMode) == "" {
		if c.IsProduction() {
			errs = append(errs, errors.New("DB_SSLMODE is required in production"))
		} else {
			// Local-friendly default; production must be explicit.
			c.DB.SSLMode = "disable"
		}
	}
	if c.DB.SSLMode != "" && !isValidSSLMode(c.DB.SSLMode) {
		errs = append(errs, fmt.Errorf("DB_SSLMODE must be one of disable, require, verify-ca, verify-full, got %q", c.DB.SSLMode))
	}

	if c.Redis.Host == "" {
		errs = append(errs, errors.New("REDIS_HOST is required"))
	}
	if c.Redis.Port <= 0 || c.Redis.Port > 65535 {
		errs = append(errs, fmt.Errorf("REDIS_PORT must be a valid port, got %d", c.Redis.Port))
	}

	if c.Auth.SigningSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Auth.Algorithm == "" {
		c.Auth.Algorithm = "HS256"
	}
	if !isValidAlgorithm(c.Auth.Algorithm) {
		errs = append(errs, fmt.Errorf("JWT_ALGORITHM must be one of HS256, HS384, HS512, got %q", c.Auth.Algorithm))
	}
	if c.IsProduction() {
		if c.Auth.Issuer == "" {
			errs = append(errs, errors.New("JWT_ISSUER is required in production"))
		}
		if c.Auth.Audience == "" {
			errs = append(errs, errors.New("JWT_AUDIENCE is required in production"))
		}
	}

	if c.Auth.AccessTTLMinutes <= 0 {
		// Default: short-lived access tokens.
		c.Auth.AccessTTLMinutes = 30
	}
	if c.Auth.RefreshTTLDays <= 0 {
		// Default: longer-lived refresh tokens.
		c.Auth.RefreshTTLDays = 7
	}
	if c.Auth.RefreshTTL() <= c.Auth.AccessTTL() {
		errs = append(errs, errors.New("JWT_REFRESH_TTL_DAYS must exceed JWT_ACCESS_TTL_MINUTES"))
	}
	if c.Auth.Leeway < 0 {
		errs = append(errs, errors.New("JWT_LEEWAY must not be negative"))
	}

	if c.RateLimit.LoginAttempts <= 0 {
		c.RateLimit.LoginAttempts = 10
	}
	if c.RateLimit.LoginWindow <= 0 {
		c.RateLimit.LoginWindow = time.Minute
	}

	return joinErrors(errs)
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func (c Config) PostgresDSN() string {
	// Avoid logging this string; it contains secrets.
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host,
		c.DB.Port,
		c.DB.User,
		c.DB.Password,
		c.DB.Name,
		c.DB.SSLMode,
	)
}

func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func mustInt(key string) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func optionalInt(key string) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func optionalDuration(key string) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0
	}
	return d
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

func isValidSSLMode(v string) bool {
	switch v {
	case "disable", "require", "verify-ca", "verify-full":
		return true
	default:
		return false
	}
}

func isValidAlgorithm(v string) bool {
	switch v {
	case "HS256", "HS384", "HS512":
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
