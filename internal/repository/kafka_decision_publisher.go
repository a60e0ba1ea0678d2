package repository

import (
	"context"
	"time"

	"SignalDesk/internal/domain/models"
	domrepo "SignalDesk/internal/domain/repository"
	"SignalDesk/pkg/kafka"
	applogger "SignalDesk/pkg/logger"
)

// KafkaDecisionPublisher emits directional decisions to a Kafka topic,
// keyed by symbol so downstream consumers see per-symbol ordering.
type KafkaDecisionPublisher struct {
	producer *kafka.Producer
	topic    string
	l        *applogger.Logger
}

func NewKafkaDecisionPublisher(producer *kafka.Producer, topic string, l *applogger.Logger) domrepo.DecisionPublisher {
	return &KafkaDecisionPublisher{producer: producer, topic: topic, l: l}
}

type decisionEvent struct {
	Symbol     string                `json:"symbol"`
	EmittedAt  time.Time             `json:"emitted_at"`
	Decision   models.DecisionResult `json:"decision"`
	SchemaVers int                   `json:"schema_version"`
}

func (p *KafkaDecisionPublisher) Publish(ctx context.Context, symbol string, res *models.DecisionResult) error {
	evt := decisionEvent{
		Symbol:     symbol,
		EmittedAt:  time.Now().UTC(),
		Decision:   *res,
		SchemaVers: 1,
	}
	if err := p.producer.Publish(ctx, p.topic, []byte(symbol), evt); err != nil {
		p.l.Error("kafka publish failed",
			applogger.String("symbol", symbol),
			applogger.String("topic", p.topic),
			applogger.Error(err))
		return err
	}
	p.l.Debug("decision published",
		applogger.String("symbol", symbol),
		applogger.String("signal", string(res.Signal)))
	return nil
}

func (p *KafkaDecisionPublisher) Close() error {
	return p.producer.Close()
}
