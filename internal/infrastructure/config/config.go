package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"FITTRACK_PORT,      default=8080"`
	Env      string `env:"FITTRACK_ENV,       default=development"`
	LogLevel string `env:"FITTRACK_LOG_LEVEL, default=info"`

	Backend BackendConfig
	Storage StorageConfig
	Redis   RedisConfig
}

type BackendConfig struct {
	BaseURL     string        `env:"FITTRACK_API_URL,      default=http://localhost:8000/api"`
	HTTPTimeout time.Duration `env:"FITTRACK_HTTP_TIMEOUT, default=10s"`
	LoadTimeout time.Duration `env:"FITTRACK_LOAD_TIMEOUT, default=15s"`
}

type StorageConfig struct {
	// Backend selects the token store: file, redis, or memory.
	Backend string `env:"FITTRACK_STORAGE,    default=file"`
	Path    string `env:"FITTRACK_TOKEN_FILE, default=.fittrack/tokens.json"`
	// Key seals the token file at rest when set (file backend only).
	Key string `env:"FITTRACK_STORAGE_KEY"`
}

type RedisConfig struct {
	Addr string `env:"FITTRACK_REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"FITTRACK_REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
