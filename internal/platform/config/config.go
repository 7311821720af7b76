package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr          string
	AdminToken    string
	AdminIdentity string
	JWTSigningKey string

	PostgresURL string
	Redis       RedisConfig

	KafkaBrokers []string
	KafkaTopic   string
}

// RedisConfig configures the optional read-side cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CacheTTL     time.Duration
}

// FromEnv builds a Server config from environment variables so main stays
// lean. Empty Postgres/Redis/Kafka settings disable the respective backend.
func FromEnv() Server {
	addr := os.Getenv("VOUCHNET_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	adminIdentity := os.Getenv("VOUCHNET_ADMIN_IDENTITY")
	if adminIdentity == "" {
		adminIdentity = "admin"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default - must be overridden in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	topic := os.Getenv("KAFKA_TOPIC")
	if topic == "" {
		topic = "vouchnet.registry.events"
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	return Server{
		Addr:          addr,
		AdminToken:    os.Getenv("VOUCHNET_ADMIN_TOKEN"),
		AdminIdentity: adminIdentity,
		JWTSigningKey: jwtSigningKey,
		PostgresURL:   os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			CacheTTL:     30 * time.Second,
		},
		KafkaBrokers: brokers,
		KafkaTopic:   topic,
	}
}
