// Package kafka publishes filtered close-approach results to a sink topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/neo-approach-service/internal/config"
	"github.com/couchcryptid/neo-approach-service/internal/domain"
	"github.com/couchcryptid/neo-approach-service/internal/export"
	"github.com/couchcryptid/neo-approach-service/internal/observability"
)

// Publisher produces close-approach records to a Kafka topic.
type Publisher struct {
	writer    *kafkago.Writer
	batchSize int
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured sink topic.
func NewPublisher(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{
		writer:    w,
		batchSize: cfg.PublishBatchSize,
		metrics:   metrics,
		logger:    logger,
	}
}

// PublishAll drains the approach stream into the sink topic, writing messages
// in batches of the configured size. It returns the number of approaches
// published; on error the stream is abandoned where it stood.
func (p *Publisher) PublishAll(ctx context.Context, approaches iter.Seq[*domain.CloseApproach]) (int, error) {
	batch := make([]kafkago.Message, 0, p.batchSize)
	published := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := p.writer.WriteMessages(ctx, batch...); err != nil {
			return fmt.Errorf("write batch of %d: %w", len(batch), err)
		}
		published += len(batch)
		p.metrics.ApproachesPublished.Add(float64(len(batch)))
		p.metrics.PublishBatchSize.Observe(float64(len(batch)))
		batch = batch[:0]
		return nil
	}

	for ca := range approaches {
		msg, err := serializeApproach(ca)
		if err != nil {
			return published, err
		}
		batch = append(batch, msg)
		if len(batch) >= p.batchSize {
			if err := flush(); err != nil {
				return published, err
			}
		}
	}
	if err := flush(); err != nil {
		return published, err
	}

	p.logger.Info("publish complete", "approaches", published, "topic", p.writer.Topic)
	return published, nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeApproach marshals a close approach into a Kafka message keyed by
// the NEO's primary designation.
func serializeApproach(ca *domain.CloseApproach) (kafkago.Message, error) {
	data, err := json.Marshal(export.NewRecord(ca))
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize close approach: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(ca.Designation),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "designation", Value: []byte(ca.Designation)},
			{Key: "exported_at", Value: []byte(domain.Now().UTC().Format(time.RFC3339))},
		},
	}, nil
}
