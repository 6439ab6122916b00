package kafka

import (
	"github.com/IBM/sarama"
)

// Producer sends batches synchronously; a nil error means every message was acked by all in-sync replicas.
type Producer struct {
	sync sarama.SyncProducer
}

// NewConfig is the idempotent producer setup shared by every sender.
func NewConfig(clientID string) *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = clientID
	cfg.Version = sarama.V2_5_0_0
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Producer.Return.Successes = true
	cfg.Net.MaxOpenRequests = 1
	return cfg
}

func NewProducer(brokers []string, cfg *sarama.Config) (*Producer, error) {
	if cfg == nil {
		cfg = NewConfig("roomrates")
	}
	sync, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}
	return &Producer{sync: sync}, nil
}

// NewProducerFrom wraps an existing sync producer.
func NewProducerFrom(sync sarama.SyncProducer) *Producer {
	return &Producer{sync: sync}
}

func (p *Producer) SendAll(msgs []*sarama.ProducerMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	return p.sync.SendMessages(msgs)
}

func (p *Producer) Close() error {
	if p.sync == nil {
		return nil
	}
	return p.sync.Close()
}

func headers(kv map[string]string) []sarama.RecordHeader {
	hs := make([]sarama.RecordHeader, 0, len(kv))
	for k, v := range kv {
		hs = append(hs, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}
	return hs
}
