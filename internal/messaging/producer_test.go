package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/helpdesk-labs/support-insights/internal/config"
)

type recordingWriter struct {
	mu    sync.Mutex
	err   error
	calls int
	sent  []kafka.Message
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls++
	if w.err != nil {
		return w.err
	}
	w.sent = append(w.sent, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestNewProducer_DisabledWithoutBrokers(t *testing.T) {
	assert.Nil(t, NewProducer(config.KafkaConfig{Topic: "t"}, zap.NewNop()))
	var p *Producer
	assert.NoError(t, p.Close())
}

func TestSendEvent_EncodesJSON(t *testing.T) {
	w := &recordingWriter{}
	p := newProducer(w, zap.NewNop())

	require.NoError(t, p.SendEvent(context.Background(), "TKT-1", map[string]string{"type": "triage_applied"}))

	require.Len(t, w.sent, 1)
	assert.Equal(t, "TKT-1", string(w.sent[0].Key))
	var decoded map[string]string
	require.NoError(t, json.Unmarshal(w.sent[0].Value, &decoded))
	assert.Equal(t, "triage_applied", decoded["type"])
	assert.Equal(t, "closed", p.State())
}

func TestSendEvent_BreakerOpensAfterFailures(t *testing.T) {
	w := &recordingWriter{err: errors.New("broker unavailable")}
	p := newProducer(w, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < breakerMaxFailures; i++ {
		err := p.SendEvent(ctx, "k", "v")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrCircuitOpen)
	}

	err := p.SendEvent(ctx, "k", "v")
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, breakerMaxFailures, w.calls)
	assert.Equal(t, "open", p.State())
}
