package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/bikeshare-dashboard/internal/config"
	"github.com/couchcryptid/bikeshare-dashboard/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafkago.Writer the adapter needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes the daily traffic classification to a Kafka topic, one
// message per calendar date. It implements pipeline.DailyPublisher.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// DailyMessage is the JSON value of a published day.
type DailyMessage struct {
	Date     string  `json:"date"`
	Count    int     `json:"count"`
	Category string  `json:"category"`
	Q1       float64 `json:"q1"`
	Q3       float64 `json:"q3"`
}

// PublishDaily serializes every classified day and writes them in a single
// WriteMessages call. Failures are returned as-is; there is no retry.
func (w *Writer) PublishDaily(ctx context.Context, preparedAt time.Time, clusters domain.DailyClusters) error {
	if len(clusters.Days) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(clusters.Days))
	for i, day := range clusters.Days {
		msg, err := serializeToMessage(day, clusters.Q1, clusters.Q3, preparedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish daily traffic: %w", err)
	}
	w.logger.Debug("daily traffic published", "days", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals one classified day into a Kafka message keyed by its date.
func serializeToMessage(day domain.DailyTraffic, q1, q3 float64, preparedAt time.Time) (kafkago.Message, error) {
	date := day.Date.Format(domain.DateLayout)
	data, err := json.Marshal(DailyMessage{
		Date:     date,
		Count:    day.Count,
		Category: day.Category,
		Q1:       q1,
		Q3:       q3,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize daily traffic: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(date),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "category", Value: []byte(day.Category)},
			{Key: "prepared_at", Value: []byte(preparedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}
