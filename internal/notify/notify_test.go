package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbano-mdr/urbano/internal/config"
)

type fakeWriter struct {
	msgs   []kafkago.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestToMessage(t *testing.T) {
	lat := -2.053655
	now := time.Date(2024, 5, 1, 12, 30, 0, 0, time.FixedZone("BRT", -3*3600))
	msg, err := toMessage(ReportEvent{
		ID:          42,
		Street:      "Rua das Flores",
		Number:      "10",
		District:    "Centro",
		Latitude:    &lat,
		SubmittedAt: now,
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("42"), msg.Key)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, []byte(EventReportSubmitted), msg.Headers[0].Value)
	assert.Equal(t, []byte("2024-05-01T15:30:00Z"), msg.Headers[1].Value)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, EventReportSubmitted, body["event_type"])
	assert.Equal(t, -2.053655, body["latitude"])
	assert.Nil(t, body["longitude"])
	assert.Equal(t, []interface{}{}, body["situacoes"])
	assert.NotContains(t, body, "foto_path")
}

func TestKafkaPublisher(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}
	require.NoError(t, p.Publish(context.Background(), ReportEvent{ID: 1, Situations: []string{"buraco"}}))
	require.Len(t, w.msgs, 1)
	assert.Contains(t, string(w.msgs[0].Value), `"situacoes":["buraco"]`)

	w.err = errors.New("broker down")
	assert.Error(t, p.Publish(context.Background(), ReportEvent{ID: 2}))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNew(t *testing.T) {
	assert.IsType(t, Noop{}, New(&config.Config{}))
	assert.IsType(t, &KafkaPublisher{}, New(&config.Config{
		KafkaBrokers:      []string{"localhost:9092"},
		KafkaReportsTopic: "urbano.reports",
	}))
	assert.NoError(t, Noop{}.Publish(context.Background(), ReportEvent{}))
}
