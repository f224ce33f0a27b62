package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// minJWTSecretLen is the shortest HS256 signing key accepted.
const minJWTSecretLen = 32

type Env struct {
	AppAddr string `env:"APP_ADDR" env-default:":8080"`
	GinMode string `env:"GIN_MODE"`

	APIBaseURL string        `env:"API_BASE_URL" env-default:"http://localhost:8000/api"`
	APITimeout time.Duration `env:"API_TIMEOUT" env-default:"15s"`

	JWTSecret  string        `env:"JWT_SECRET"`
	SessionTTL time.Duration `env:"SESSION_TTL" env-default:"24h"`

	WizardTTL    time.Duration `env:"WIZARD_TTL" env-default:"30m"`
	PaymentDelay time.Duration `env:"PAYMENT_DELAY" env-default:"2s"`
	Currency     string        `env:"CURRENCY" env-default:"XOF"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" env-default:"0"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173"`

	AdminEmail        string `env:"ADMIN_EMAIL"`
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`
}

// LoadEnv reads configuration from environment variables.
func LoadEnv() (Env, error) {
	var env Env
	if err := cleanenv.ReadEnv(&env); err != nil {
		return Env{}, fmt.Errorf("config error: %w", err)
	}
	env.normalize()
	if err := env.Validate(); err != nil {
		return Env{}, err
	}
	return env, nil
}

func (e *Env) normalize() {
	e.APIBaseURL = strings.TrimRight(strings.TrimSpace(e.APIBaseURL), "/")
	e.GinMode = strings.TrimSpace(e.GinMode)
	e.RedisAddr = strings.TrimSpace(e.RedisAddr)
	e.Currency = strings.ToUpper(strings.TrimSpace(e.Currency))
	origins := e.CORSAllowedOrigins[:0]
	for _, o := range e.CORSAllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	e.CORSAllowedOrigins = origins
}

func (e Env) Validate() error {
	if strings.TrimSpace(e.JWTSecret) == "" {
		return fmt.Errorf("config error: JWT_SECRET must be set")
	}
	if len(e.JWTSecret) < minJWTSecretLen {
		return fmt.Errorf("config error: JWT_SECRET must be at least %d characters", minJWTSecretLen)
	}
	if e.WizardTTL <= 0 {
		return fmt.Errorf("config error: WIZARD_TTL must be positive")
	}
	if e.SessionTTL <= 0 {
		return fmt.Errorf("config error: SESSION_TTL must be positive")
	}
	if e.PaymentDelay < 0 {
		return fmt.Errorf("config error: PAYMENT_DELAY must not be negative")
	}
	if (e.AdminEmail == "") != (e.AdminPasswordHash == "") {
		return fmt.Errorf("config error: ADMIN_EMAIL and ADMIN_PASSWORD_HASH must be set together")
	}
	return nil
}

// UseRedis reports whether wizard state lives in Redis.
func (e Env) UseRedis() bool { return e.RedisAddr != "" }

// WizardLockTTL outlives the longest payment request: the simulated delay
// plus the booking call, with a margin. It is never below a minute.
func (e Env) WizardLockTTL() time.Duration {
	ttl := e.PaymentDelay + e.APITimeout + 30*time.Second
	if ttl < time.Minute {
		ttl = time.Minute
	}
	return ttl
}
