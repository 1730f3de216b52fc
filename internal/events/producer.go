package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
)

// MessageSent is published after a group message is stored. Downstream
// consumers (notification fanout, analytics) hang off this topic; the
// REST path does not depend on them.
type MessageSent struct {
	MessageID string    `json:"message_id"`
	GroupID   string    `json:"group_id"`
	SentBy    string    `json:"sent_by"`
	Content   string    `json:"content"`
	SentOn    time.Time `json:"sent_on"`
}

// Producer 消息事件生产者 (Kafka)
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

// NewProducer 创建 Kafka 生产者实例
func NewProducer(brokers []string, topic string) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("starting sarama producer: %w", err)
	}

	return &Producer{
		producer: producer,
		topic:    topic,
	}, nil
}

// Publish sends one event keyed by its group id, so events of the same
// group stay ordered within a partition.
func (p *Producer) Publish(event *MessageSent) error {
	bytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.GroupID),
		Value: sarama.ByteEncoder(bytes),
	}

	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("publishing to kafka: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.producer.Close()
}
