package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nsqio/go-nsq"
	"go.uber.org/zap"
	"kemea.backend/internal/domain/entities"
	"kemea.backend/pkg/logger"
)

type publisher interface {
	Publish(topic string, body []byte) error
	Stop()
}

var newProducer = func(address string) (publisher, error) {
	producer, err := nsq.NewProducer(address, nsq.NewConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create NSQ producer: %w", err)
	}
	if err := producer.Ping(); err != nil {
		producer.Stop()
		return nil, fmt.Errorf("failed to ping NSQ daemon: %w", err)
	}
	return producer, nil
}

// Delivery is the message published to the mail topic. A separate worker
// owns SMTP and consumes it.
type Delivery struct {
	From     string   `json:"from"`
	To       []string `json:"to"`
	Subject  string   `json:"subject"`
	HTML     string   `json:"html"`
	Template string   `json:"template"`
}

// NSQSender publishes emails to an NSQ topic.
type NSQSender struct {
	producer publisher
	topic    string
	from     string
}

func NewNSQSender(address, topic, from string) (*NSQSender, error) {
	if topic == "" {
		return nil, errors.New("nsq topic is required")
	}
	p, err := newProducer(address)
	if err != nil {
		return nil, err
	}
	return &NSQSender{producer: p, topic: topic, from: from}, nil
}

func (s *NSQSender) Send(ctx context.Context, msg entities.EmailMessage) error {
	body, err := json.Marshal(Delivery{
		From:     s.from,
		To:       msg.Recipients,
		Subject:  msg.Subject,
		HTML:     msg.Body,
		Template: msg.Template,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	if err := s.producer.Publish(s.topic, body); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	logger.Debug(ctx, "Published email", zap.String("topic", s.topic), zap.String("template", msg.Template))
	return nil
}

func (s *NSQSender) Close() {
	s.producer.Stop()
}
