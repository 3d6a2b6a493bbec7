package broker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barbershop-engine/internal/audit"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestWriteKeysByEntity(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w}

	err := p.Write(context.Background(), audit.Event{
		LocationID: "loc-1",
		Action:     "appointment_cancelled",
		Entity:     "appointment",
		EntityID:   audit.Ref("ap-1"),
	})
	require.NoError(t, err)

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "appointment-ap-1", string(w.msgs[0].Key))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.Equal(t, "appointment_cancelled", decoded["action"])
	assert.Equal(t, "ap-1", decoded["entityId"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishEventWrapsWriterError(t *testing.T) {
	p := &Producer{writer: &fakeWriter{err: errors.New("leader not available")}}

	err := p.PublishEvent(context.Background(), "k", map[string]string{"a": "b"})
	assert.ErrorContains(t, err, "leader not available")
}
