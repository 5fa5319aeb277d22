// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/sirupsen/logrus"
)

// Config is read from the environment. A .env file in the working directory is loaded
// first by the commands through godotenv's autoload.
type Config struct {
	Port           string `env:"PORT,default=8080"`
	LogLevel       string `env:"LOG_LEVEL,default=info"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS,default=*"`

	// DatabaseURL is optional; without it round results are not persisted.
	DatabaseURL string `env:"DATABASE_URL"`

	RedisAddr string `env:"REDIS_ADDR"`
	RedisDB   int    `env:"REDIS_DB,default=0"`

	HistorianQueueName string `env:"HISTORIAN_QUEUE_NAME,default=president_actions"`
	HistorianBatchSize int    `env:"HISTORIAN_BATCH_SIZE,default=20"`
	HistorianFlushMS   int    `env:"HISTORIAN_FLUSH_MS,default=500"`

	TokenExpireTime time.Duration `env:"TOKEN_EXPIRE_TIME,default=24h"`
}

// Load decodes the environment into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.HistorianBatchSize <= 0 {
		return nil, fmt.Errorf("HISTORIAN_BATCH_SIZE must be positive, got %d", cfg.HistorianBatchSize)
	}
	return &cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Origins splits AllowedOrigins on commas.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// HistorianFlushDelay is HistorianFlushMS as a duration.
func (c *Config) HistorianFlushDelay() time.Duration {
	return time.Duration(c.HistorianFlushMS) * time.Millisecond
}

// Logger builds the process logger at the configured level.
func (c *Config) Logger() *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		logger.Warnf("unknown LOG_LEVEL %q, using info", c.LogLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
