// Package notify publishes report events for downstream consumers.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/urbano-mdr/urbano/internal/config"
)

// EventReportSubmitted is the event type of a saved report.
const EventReportSubmitted = "report.submitted"

// ReportEvent describes a saved report.
type ReportEvent struct {
	EventType   string    `json:"event_type"`
	ID          int64     `json:"id"`
	Street      string    `json:"nome_rua"`
	Number      string    `json:"numero"`
	District    string    `json:"bairro"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	PhotoPath   string    `json:"foto_path,omitempty"`
	Situations  []string  `json:"situacoes"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Publisher sends report events.
type Publisher interface {
	Publish(ctx context.Context, e ReportEvent) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaPublisher writes events to a Kafka topic keyed by report id.
type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher creates a producer for the reports topic.
func NewKafkaPublisher(cfg *config.Config) *KafkaPublisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaReportsTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e ReportEvent) error {
	msg, err := toMessage(e)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func toMessage(e ReportEvent) (kafkago.Message, error) {
	if e.EventType == "" {
		e.EventType = EventReportSubmitted
	}
	if e.Situations == nil {
		e.Situations = []string{}
	}
	data, err := json.Marshal(e)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize report event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(strconv.FormatInt(e.ID, 10)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(e.EventType)},
			{Key: "submitted_at", Value: []byte(e.SubmittedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}

// Noop drops every event; used when no brokers are configured.
type Noop struct{}

func (Noop) Publish(context.Context, ReportEvent) error { return nil }
func (Noop) Close() error                               { return nil }

// New returns a Kafka publisher when brokers are configured, else Noop.
func New(cfg *config.Config) Publisher {
	if cfg.KafkaEnabled() {
		return NewKafkaPublisher(cfg)
	}
	return Noop{}
}
