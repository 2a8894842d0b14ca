package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	DatabaseURL string

	JWTSecret       []byte
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	LinkTokenMaxAge time.Duration
	Domain          string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers        []string
	NotifyTopic         string
	NotifyGroupID       string
	NotifyMaxDeliveries int
	ConsumerMaxRestarts int

	WebhookURL     string
	WebhookTimeout time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}
	return FromEnv()
}

func FromEnv() *Config {
	return &Config{
		ServiceName: EnvDefault("SERVICE_NAME", "bookly"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL: EnvDefault("DATABASE_URL", ""),

		JWTSecret:       []byte(EnvDefault("JWT_SECRET", "")),
		AccessTokenTTL:  EnvDurationDefault("ACCESS_TOKEN_TTL", 60*time.Minute),
		RefreshTokenTTL: EnvDurationDefault("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		LinkTokenMaxAge: EnvDurationDefault("LINK_TOKEN_MAX_AGE", time.Hour),
		Domain:          EnvDefault("DOMAIN", "localhost:8080"),

		RedisAddr:     EnvDefault("REDIS_ADDR", ""),
		RedisPassword: EnvDefault("REDIS_PASSWORD", ""),
		RedisDB:       EnvIntDefault("REDIS_DB", 0),

		KafkaBrokers:        CSV(EnvDefault("KAFKA_BROKERS", "")),
		NotifyTopic:         EnvDefault("NOTIFY_TOPIC", "review_notifications"),
		NotifyGroupID:       EnvDefault("NOTIFY_GROUP_ID", "bookly-notifier"),
		NotifyMaxDeliveries: EnvIntDefault("NOTIFY_MAX_DELIVERIES", 10),
		ConsumerMaxRestarts: EnvIntDefault("CONSUMER_MAX_RESTARTS", 5),

		WebhookURL:     EnvDefault("WEBHOOK_URL", ""),
		WebhookTimeout: EnvDurationDefault("WEBHOOK_TIMEOUT", 10*time.Second),

		SMTPHost:     EnvDefault("SMTP_HOST", ""),
		SMTPPort:     EnvDefault("SMTP_PORT", "587"),
		SMTPUser:     EnvDefault("SMTP_USER", ""),
		SMTPPassword: EnvDefault("SMTP_PASSWORD", ""),
		MailFrom:     EnvDefault("MAIL_FROM", ""),

		ESURL:      EnvDefault("ES_URL", ""),
		ESUser:     EnvDefault("ES_USER", ""),
		ESPassword: EnvDefault("ES_PASSWORD", ""),
		ESIndex:    EnvDefault("ES_INDEX", "books"),
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, fmt.Errorf("missing required env %s", "DATABASE_URL"))
	}
	if len(c.JWTSecret) == 0 {
		errs = append(errs, fmt.Errorf("missing required env %s", "JWT_SECRET"))
	}
	if c.RefreshTokenTTL <= c.AccessTokenTTL {
		errs = append(errs, fmt.Errorf("REFRESH_TOKEN_TTL (%s) must be longer than ACCESS_TOKEN_TTL (%s)", c.RefreshTokenTTL, c.AccessTokenTTL))
	}
	if c.NotifyMaxDeliveries < 1 {
		errs = append(errs, fmt.Errorf("NOTIFY_MAX_DELIVERIES must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}
