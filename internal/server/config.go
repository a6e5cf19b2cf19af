package server

import (
	"github.com/caarlos0/env/v11"
)

// Config holds the server configuration, read from the environment.
type Config struct {
	// Addr is the listen address.
	Addr string `env:"QRFORGE_ADDR" envDefault:":8080"`

	// RedisAddr selects a shared Redis cache when set (host:port).
	// Unset, the server falls back to an in-process file cache.
	RedisAddr string `env:"QRFORGE_REDIS_ADDR"`

	// MongoURI enables the generation history store when set.
	MongoURI string `env:"QRFORGE_MONGO_URI"`

	// LogFile sends logs to a rotating file instead of stderr when set.
	LogFile string `env:"QRFORGE_LOG_FILE"`

	// MaxBodyBytes caps request bodies (JSON options, verify uploads).
	MaxBodyBytes int64 `env:"QRFORGE_MAX_BODY_BYTES" envDefault:"8388608"`
}

// LoadConfig reads the configuration from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
