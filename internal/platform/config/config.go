package config

import (
	"os"
	"strings"

	"openbadges/pkg/domain"
)

// Server captures process-level configuration. Empty infrastructure URLs mean
// the corresponding in-memory implementation is used, which keeps local
// development and unit tests free of external services.
type Server struct {
	Addr          string
	JWTSigningKey string

	// AdminIdentity is the registry administrator (the deployer in the
	// source system). Fixed at startup, not rotatable.
	AdminIdentity domain.Identity

	PostgresURL  string
	RedisURL     string
	KafkaBrokers []string
	KafkaTopic   string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("OPENBADGES_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default - must be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	admin := os.Getenv("OPENBADGES_ADMIN_IDENTITY")
	if admin == "" {
		admin = "registry-admin"
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}
	topic := os.Getenv("KAFKA_TOPIC")
	if topic == "" {
		topic = "openbadges.events"
	}

	return Server{
		Addr:          addr,
		JWTSigningKey: jwtSigningKey,
		AdminIdentity: domain.Identity(admin),
		PostgresURL:   os.Getenv("POSTGRES_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		KafkaBrokers:  brokers,
		KafkaTopic:    topic,
	}
}
