package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

type KafkaConfig struct {
	Brokers  []string      `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	Topic    string        `yaml:"topic" env:"KAFKA_TOPIC" env-default:"registration-events"`
	ClientID string        `yaml:"client_id" env:"KAFKA_CLIENT_ID" env-default:"registration-bot"`
	Timeout  time.Duration `yaml:"timeout" env:"KAFKA_TIMEOUT" env-default:"5s"`
}

func (c KafkaConfig) Configured() bool {
	return len(c.Brokers) > 0
}

// KafkaPublisher пишет события в топик; ключ записи - Telegram ID,
// поэтому события одного пользователя попадают в одну партицию.
type KafkaPublisher struct {
	client  *kgo.Client
	timeout time.Duration
}

func NewKafkaPublisher(cfg KafkaConfig) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.ClientID(cfg.ClientID),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}

	p := &KafkaPublisher{
		client:  client,
		timeout: cfg.Timeout,
	}
	if p.timeout <= 0 {
		p.timeout = 5 * time.Second
	}

	return p, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	const op = "KafkaPublisher.Publish"

	record, err := newRecord(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// newRecord кодирует событие в JSON с ключом по Telegram ID
func newRecord(event Event) (*kgo.Record, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	return &kgo.Record{
		Key:   []byte(strconv.FormatInt(event.TgUserID, 10)),
		Value: value,
	}, nil
}

func (p *KafkaPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}

func (p *KafkaPublisher) Close() {
	p.client.Close()
}
