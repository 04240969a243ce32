package kafka

import (
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"

	"github.com/jceal/stormwater-classifier/internal/domain"
)

func TestMapMessageToRawSubmission(t *testing.T) {
	now := time.Now()
	msg := kafkago.Message{
		Key:       []byte("sub-1"),
		Value:     []byte(`{"id":"sub-1","description":"new building"}`),
		Topic:     "project-submissions",
		Partition: 2,
		Offset:    42,
		Time:      now,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte("permit-intake")},
		},
	}

	raw := mapMessageToRawSubmission(msg)

	assert.Equal(t, []byte("sub-1"), raw.Key)
	assert.JSONEq(t, `{"id":"sub-1","description":"new building"}`, string(raw.Value))
	assert.Equal(t, "project-submissions", raw.Topic)
	assert.Equal(t, 2, raw.Partition)
	assert.Equal(t, int64(42), raw.Offset)
	assert.Equal(t, now, raw.Timestamp)
	assert.Equal(t, "permit-intake", raw.Headers["source"])
	assert.Nil(t, raw.Commit)
}

func TestMapOutputToMessage(t *testing.T) {
	event := domain.OutputEvent{
		Key:   []byte("sub-1"),
		Value: []byte(`{"id":"sub-1"}`),
		Headers: map[string]string{
			"id":            "sub-1",
			"classified_at": "2026-05-14T09:30:00Z",
		},
	}

	msg := mapOutputToMessage(event)

	assert.Equal(t, []byte("sub-1"), msg.Key)
	assert.Equal(t, []byte(`{"id":"sub-1"}`), msg.Value)
	// Header order is deterministic: sorted by key.
	assert.Equal(t, []kafkago.Header{
		{Key: "classified_at", Value: []byte("2026-05-14T09:30:00Z")},
		{Key: "id", Value: []byte("sub-1")},
	}, msg.Headers)
}
