package cmd

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	KafkaBrokers          []string
	KafkaFulfillmentTopic string

	OutboxRelaySchedule string
	OutboxBatchSize     int

	// OriginCountry is the ship-from country used for domestic and
	// international method scope. Empty disables the scope check.
	OriginCountry string

	// ShippingCatalogFile, when set, is a YAML catalog loaded at startup.
	ShippingCatalogFile string

	LogLevel slog.Level
}

// ConfigFromEnv builds a Config from a lookup function such as os.Getenv.
// Missing optional values fall back to defaults.
func ConfigFromEnv(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		HTTPPort:              get("HTTP_PORT", "8080"),
		DBHost:                get("DB_HOST", "localhost"),
		DBPort:                get("DB_PORT", "5432"),
		DBUser:                get("DB_USER", "postgres"),
		DBPassword:            get("DB_PASSWORD", ""),
		DBName:                get("DB_NAME", "fulfillment"),
		DBSslMode:             get("DB_SSLMODE", "disable"),
		KafkaFulfillmentTopic: get("KAFKA_FULFILLMENT_TOPIC", "fulfillment.events"),
		OutboxRelaySchedule:   get("OUTBOX_RELAY_SCHEDULE", ""),
		OriginCountry:         strings.ToUpper(get("ORIGIN_COUNTRY", "")),
		ShippingCatalogFile:   get("SHIPPING_CATALOG_FILE", ""),
	}

	for _, b := range strings.Split(get("KAFKA_BROKERS", "localhost:9092"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
		}
	}

	if raw := get("OUTBOX_BATCH_SIZE", ""); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("OUTBOX_BATCH_SIZE must be a positive integer, got %q", raw)
		}
		cfg.OutboxBatchSize = n
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(get("LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	if cfg.OriginCountry != "" && len(cfg.OriginCountry) != 2 {
		return Config{}, fmt.Errorf("ORIGIN_COUNTRY must be a 2-letter code, got %q", cfg.OriginCountry)
	}

	return cfg, nil
}

// DSN is the postgres connection string for gorm.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
