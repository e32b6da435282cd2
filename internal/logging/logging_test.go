package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoWritesFieldsAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "info", "json")
	t.Cleanup(func() { Configure("info", "json", nil) })

	ctx := WithRequestID(context.Background(), "req-1")
	Info(ctx, Data{"bairro": "Centro", "total": 3}, "dashboard rendered")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "dashboard rendered", line["msg"])
	assert.Equal(t, "Centro", line["bairro"])
	assert.Equal(t, float64(3), line["total"])
	assert.Equal(t, "req-1", line["request_id"])
}

func TestErrorIncludesError(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "info", "json")
	t.Cleanup(func() { Configure("info", "json", nil) })

	Error(context.Background(), errors.New("boom"), nil, "insert failed")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "ERROR", line["level"])
	assert.Equal(t, "boom", line["error"])
}

func TestDebugSuppressedAtInfo(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "info", "text")
	t.Cleanup(func() { Configure("info", "json", nil) })

	Debug(context.Background(), nil, "hidden")
	assert.Empty(t, buf.String())
}

func TestRequestIDMissing(t *testing.T) {
	assert.Empty(t, RequestID(context.Background()))
}
