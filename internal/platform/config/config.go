package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process level configuration. Every backend is optional:
// with no DSN, URL or brokers configured the service runs fully in memory,
// which is what the local development loop uses.
type Server struct {
	Addr string

	// PostgresDSN enables the durable event store when set.
	PostgresDSN string
	// Redis enables the shared read-model store when set.
	Redis RedisConfig
	// KafkaBrokers enables integration-event publishing when non-empty.
	KafkaBrokers []string

	ShutdownTimeout time.Duration
}

// RedisConfig holds connection settings for the view store.
type RedisConfig struct {
	URL          string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("ROLLCALL_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	var brokers []string
	for _, b := range strings.Split(os.Getenv("ROLLCALL_KAFKA_BROKERS"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}

	return Server{
		Addr:        addr,
		PostgresDSN: os.Getenv("ROLLCALL_POSTGRES_DSN"),
		Redis: RedisConfig{
			URL:          os.Getenv("ROLLCALL_REDIS_URL"),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		KafkaBrokers:    brokers,
		ShutdownTimeout: 10 * time.Second,
	}
}
