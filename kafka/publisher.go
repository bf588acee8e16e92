package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/PapaBear1981/supplyline-mro-suite/pkg/logger"
)

// AuditPublisher publishes audit events to Kafka
type AuditPublisher struct {
	producer sarama.SyncProducer
	brokers  []string
}

// NewAuditPublisher creates a new Kafka audit publisher
func NewAuditPublisher(brokers []string) (*AuditPublisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 3
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Compression = sarama.CompressionSnappy

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Msg("Kafka audit publisher initialized")

	return &AuditPublisher{
		producer: producer,
		brokers:  brokers,
	}, nil
}

// Record publishes one audit event. Audit delivery is best-effort: the caller
// never treats a publish failure as an operation failure.
func (p *AuditPublisher) Record(ctx context.Context, actionType string, actorID uint, details map[string]interface{}) {
	if p == nil {
		return
	}

	tracer := otel.Tracer("kafka-audit-publisher")
	ctx, span := tracer.Start(ctx, "kafka.publish.audit",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", TopicCycleCountAudit),
			attribute.String("audit.action_type", actionType),
			attribute.Int64("audit.actor_id", int64(actorID)),
		),
	)
	defer span.End()

	event := AuditEvent{
		EventID:    uuid.New().String(),
		ActionType: actionType,
		ActorID:    actorID,
		Details:    details,
		Timestamp:  time.Now(),
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to marshal event")
		logger.Warn(ctx).Err(err).Str("action_type", actionType).Msg("Failed to marshal audit event")
		return
	}

	// Inject trace context into Kafka headers
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	headers := []sarama.RecordHeader{
		{Key: []byte("action_type"), Value: []byte(actionType)},
		{Key: []byte("event_id"), Value: []byte(event.EventID)},
	}
	for key, value := range carrier {
		headers = append(headers, sarama.RecordHeader{
			Key:   []byte(key),
			Value: []byte(value),
		})
	}

	msg := &sarama.ProducerMessage{
		Topic:   TopicCycleCountAudit,
		Key:     sarama.StringEncoder(actionType),
		Value:   sarama.ByteEncoder(eventBytes),
		Headers: headers,
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to send message")
		logger.Warn(ctx).
			Err(err).
			Str("topic", TopicCycleCountAudit).
			Str("action_type", actionType).
			Msg("Failed to publish audit event")
		return
	}

	span.SetAttributes(
		attribute.Int("messaging.kafka.partition", int(partition)),
		attribute.Int64("messaging.kafka.offset", offset),
	)

	logger.Debug(ctx).
		Str("event_id", event.EventID).
		Str("action_type", actionType).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("Audit event published")
}

// Close closes the Kafka producer
func (p *AuditPublisher) Close() error {
	if p == nil || p.producer == nil {
		return nil
	}
	return p.producer.Close()
}
