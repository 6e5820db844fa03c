package kafka

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/sedbuilder/internal/config"
	"github.com/couchcryptid/sedbuilder/internal/domain"
)

// Message header keys.
const (
	HeaderFormat          = "format"
	HeaderContentType     = "content_type"
	HeaderExportedAt      = "exported_at"
	HeaderMeasurements    = "measurements"
	HeaderWarningsDropped = "warnings_dropped"
)

// Writer publishes rendered SED documents to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch publishes the documents in a single WriteMessages call. Messages
// are keyed by position so re-exports of one source land on one partition.
func (w *Writer) LoadBatch(ctx context.Context, events []domain.ExportEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(events))
	for i := range events {
		msgs[i] = toMessage(events[i])
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return err
	}
	w.logger.Debug("published sed documents", "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// toMessage maps an export event onto a Kafka message. The body is sent as is.
func toMessage(event domain.ExportEvent) kafkago.Message {
	return kafkago.Message{
		Key:   []byte(event.Key),
		Value: event.Body,
		Headers: []kafkago.Header{
			{Key: HeaderFormat, Value: []byte(event.Format)},
			{Key: HeaderContentType, Value: []byte(event.ContentType)},
			{Key: HeaderExportedAt, Value: []byte(event.ExportedAt.Format(time.RFC3339))},
			{Key: HeaderMeasurements, Value: []byte(strconv.Itoa(event.Measurements))},
			{Key: HeaderWarningsDropped, Value: []byte(strconv.Itoa(event.WarningsDropped))},
		},
	}
}
