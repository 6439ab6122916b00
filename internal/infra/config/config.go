package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Hash store backends.
const (
	HashStoreMongo    = "mongo"
	HashStoreScylla   = "scylla"
	HashStoreMemory   = "memory"
	HashStoreDisabled = "disabled"
)

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env                string
	HTTPAddr           string
	MongoURI           string
	MongoDB            string
	KafkaBrokers       []string
	KafkaTopicPrefix   string
	KafkaConsumerGroup string
	HashStore          string
	ScyllaHosts        []string
	ScyllaKeyspace     string
	ScyllaTimeout      time.Duration
	ScyllaUsername     string
	ScyllaPassword     string
	HashTTL            time.Duration
	HashChunkSize      int
	S3Endpoint         string
	S3AccessKey        string
	S3SecretKey        string
	S3Bucket           string
	S3UseSSL           bool
	AverageMode        string
	RoundingMode       string
}

// Load parses configuration from the current environment.
func Load() (Config, error) {
	cfg := Config{
		Env:                getEnv("APP_ENV", "dev"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		MongoURI:           os.Getenv("MONGO_URI"),
		MongoDB:            getEnv("MONGO_DB", "roomrates"),
		KafkaTopicPrefix:   getEnv("KAFKA_TOPIC_PREFIX", ""),
		KafkaConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "roomrates-engine"),
		HashStore:          strings.ToLower(getEnv("HASH_STORE", HashStoreMongo)),
		ScyllaKeyspace:     getEnv("SCYLLA_KEYSPACE", "roomrates"),
		ScyllaUsername:     os.Getenv("SCYLLA_USERNAME"),
		ScyllaPassword:     os.Getenv("SCYLLA_PASSWORD"),
		S3Endpoint:         os.Getenv("S3_ENDPOINT"),
		S3AccessKey:        getEnv("S3_ACCESS_KEY", "minioadmin"),
		S3SecretKey:        getEnv("S3_SECRET_KEY", "minioadmin"),
		S3Bucket:           getEnv("S3_BUCKET", "roomrates-runs"),
		AverageMode:        strings.ToUpper(getEnv("AVERAGE_MODE", "MIDPOINT")),
		RoundingMode:       strings.ToUpper(getEnv("ROUNDING_MODE", "NO_ROUNDING")),
	}
	cfg.KafkaBrokers = splitList(getEnv("KAFKA_BROKERS", ""))
	cfg.ScyllaHosts = splitList(getEnv("SCYLLA_HOSTS", ""))

	scyllaTimeout, err := parseDurationEnv("SCYLLA_TIMEOUT", 5*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.ScyllaTimeout = scyllaTimeout

	hashTTL, err := parseDurationEnv("HASH_TTL", 400*24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cfg.HashTTL = hashTTL

	chunk, err := parseIntEnv("HASH_CHUNK_SIZE", 5000)
	if err != nil {
		return Config{}, err
	}
	if chunk <= 0 {
		return Config{}, fmt.Errorf("HASH_CHUNK_SIZE must be positive, got %d", chunk)
	}
	cfg.HashChunkSize = chunk

	useSSL, err := parseBoolEnv("S3_USE_SSL", false)
	if err != nil {
		return Config{}, err
	}
	cfg.S3UseSSL = useSSL

	if cfg.MongoURI == "" {
		return Config{}, fmt.Errorf("MONGO_URI is required")
	}
	switch cfg.HashStore {
	case HashStoreMongo, HashStoreMemory, HashStoreDisabled:
	case HashStoreScylla:
		if len(cfg.ScyllaHosts) == 0 {
			return Config{}, fmt.Errorf("SCYLLA_HOSTS is required for HASH_STORE=scylla")
		}
	default:
		return Config{}, fmt.Errorf("invalid HASH_STORE %q", cfg.HashStore)
	}
	return cfg, nil
}

// KafkaEnabled reports whether rates are pushed to and triggers read from Kafka.
func (c Config) KafkaEnabled() bool { return len(c.KafkaBrokers) > 0 }

// ArchiveEnabled reports whether run snapshots go to object storage.
func (c Config) ArchiveEnabled() bool { return c.S3Endpoint != "" }

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseIntEnv(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s integer: %w", key, err)
	}
	return n, nil
}

func parseBoolEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "t", "true", "yes", "y", "on":
		return true, nil
	case "0", "f", "false", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid %s boolean: %q", key, raw)
	}
}
