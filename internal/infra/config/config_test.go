package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("HASH_STORE", "")
	t.Setenv("HASH_TTL", "")
	t.Setenv("HASH_CHUNK_SIZE", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, HashStoreMongo, cfg.HashStore)
	require.Equal(t, 400*24*time.Hour, cfg.HashTTL)
	require.Equal(t, 5000, cfg.HashChunkSize)
	require.False(t, cfg.KafkaEnabled())
}

func TestLoadParsesLists(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("HASH_STORE", "Scylla")
	t.Setenv("SCYLLA_HOSTS", "s1,s2")
	t.Setenv("HASH_CHUNK_SIZE", "250")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	require.Equal(t, HashStoreScylla, cfg.HashStore)
	require.Equal(t, []string{"s1", "s2"}, cfg.ScyllaHosts)
	require.Equal(t, 250, cfg.HashChunkSize)
	require.True(t, cfg.KafkaEnabled())
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]map[string]string{
		"missing mongo":  {"MONGO_URI": ""},
		"bad store":      {"HASH_STORE": "redis"},
		"scylla hosts":   {"HASH_STORE": "scylla", "SCYLLA_HOSTS": ""},
		"bad chunk":      {"HASH_CHUNK_SIZE": "many"},
		"zero chunk":     {"HASH_CHUNK_SIZE": "0"},
		"bad ttl":        {"HASH_TTL": "forever"},
		"bad ssl toggle": {"S3_USE_SSL": "maybe"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("MONGO_URI", "mongodb://localhost:27017")
			t.Setenv("HASH_STORE", "")
			t.Setenv("HASH_CHUNK_SIZE", "")
			t.Setenv("HASH_TTL", "")
			t.Setenv("S3_USE_SSL", "")
			t.Setenv("SCYLLA_HOSTS", "")
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
		})
	}
}
