package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/rainwater-harvest-service/internal/config"
	"github.com/couchcryptid/rainwater-harvest-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Submitter publishes property submissions to the source topic, where the
// estimator pipeline picks them up.
type Submitter struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewSubmitter creates a Kafka producer for the configured source topic.
func NewSubmitter(cfg *config.Config, logger *slog.Logger) *Submitter {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSourceTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Submitter{writer: w, logger: logger}
}

// Submit publishes records in one WriteMessages call, keyed by submission ID.
func (s *Submitter) Submit(ctx context.Context, records ...domain.SubmissionRecord) error {
	if len(records) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(records))
	for i, rec := range records {
		msg, err := submissionMessage(rec)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := s.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish submissions: %w", err)
	}
	s.logger.Debug("submissions published", "count", len(msgs), "topic", s.writer.Topic)
	return nil
}

func (s *Submitter) Close() error {
	return s.writer.Close()
}

func submissionMessage(rec domain.SubmissionRecord) (kafkago.Message, error) {
	value, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("encode submission %s: %w", rec.SubmissionID, err)
	}
	return kafkago.Message{Key: []byte(rec.SubmissionID), Value: value}, nil
}
