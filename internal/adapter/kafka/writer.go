// Package kafka publishes enriched map points to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/qso-mapper/internal/domain"
)

// Writer produces enriched map points to a Kafka topic.
type Writer struct {
	writer   *kafkago.Writer
	logger   *slog.Logger
	attempts int
}

// NewWriter creates a Kafka producer for topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger, attempts: 3}
}

// Publish writes every point of a run in a single WriteMessages call. Points
// are keyed by callsign so repeat contacts land on the same partition.
func (w *Writer) Publish(ctx context.Context, e domain.Enrichment) error {
	points := e.Points()
	if len(points) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(points))
	for i := range points {
		msg, err := serializeToMessage(e.RunID, e.FinishedAt, points[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.write(ctx, msgs); err != nil {
		return fmt.Errorf("publish %d points: %w", len(msgs), err)
	}
	w.logger.Info("points published", "topic", w.writer.Topic, "count", len(msgs), "run_id", e.RunID)
	return nil
}

// write retries WriteMessages with exponential backoff, starting at 200ms
// and capped at 5s.
func (w *Writer) write(ctx context.Context, msgs []kafkago.Message) error {
	backoff := 200 * time.Millisecond
	var err error
	for attempt := 1; attempt <= w.attempts; attempt++ {
		if err = w.writer.WriteMessages(ctx, msgs...); err == nil {
			return nil
		}
		if attempt == w.attempts || ctx.Err() != nil {
			break
		}
		w.logger.Warn("publish failed, retrying", "error", err, "attempt", attempt, "backoff", backoff)
		if !retry.SleepWithContext(ctx, backoff) {
			break
		}
		backoff = retry.NextBackoff(backoff, 5*time.Second)
	}
	return err
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// message is the published value: the map point plus the run it came from.
type message struct {
	RunID string `json:"run_id"`
	domain.MapPoint
}

// serializeToMessage marshals a MapPoint into a Kafka message.
func serializeToMessage(runID string, finishedAt time.Time, p domain.MapPoint) (kafkago.Message, error) {
	data, err := json.Marshal(message{RunID: runID, MapPoint: p})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize map point: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(p.Call),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "point_kind", Value: []byte(p.Kind)},
			{Key: "run_id", Value: []byte(runID)},
			{Key: "processed_at", Value: []byte(finishedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}
