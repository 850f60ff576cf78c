package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Backend selects where OAuth tokens are persisted between runs.
type Backend string

const (
	BackendFile     Backend = "file"
	BackendSQLite   Backend = "sqlite"
	BackendRedis    Backend = "redis"
	BackendPostgres Backend = "postgres"
)

type Config struct {
	Email    string `env:"GARMIN_EMAIL"`
	Password string `env:"GARMIN_PASSWORD"`

	// Domain selects the Garmin instance; garmin.cn is the only other
	// deployment in the wild.
	Domain string `env:"GARMIN_DOMAIN" envDefault:"garmin.com"`

	// TokenStore is the directory for the file and sqlite backends. Empty
	// means paths.TokenStore(), the ~/.garminconnect default.
	TokenStore        string  `env:"GARMIN_TOKENSTORE"`
	TokenStoreBackend Backend `env:"GARMIN_TOKENSTORE_BACKEND" envDefault:"file"`

	// Connection strings for the non-file token store backends.
	RedisURL    string `env:"GARMIN_REDIS_URL"`
	PostgresURL string `env:"GARMIN_POSTGRES_URL"`

	HTTPTimeout time.Duration `env:"GARMIN_HTTP_TIMEOUT" envDefault:"30s"`
}

func Read() (Config, error) {
	return env.ParseAs[Config]()
}
