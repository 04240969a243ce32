package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Submission is an inbound project description awaiting classification.
type Submission struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// RawSubmission is a consumed but not yet acknowledged source message.
// Commit acknowledges the message once the labeled result has been
// published.
type RawSubmission struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// OutputEvent is a labeled result ready for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// ParseRawSubmission decodes the message payload. A missing ID is filled in
// so every classification carries a stable identifier; an empty description
// is rejected since there is nothing to classify.
func ParseRawSubmission(raw RawSubmission) (Submission, error) {
	var sub Submission
	if err := json.Unmarshal(raw.Value, &sub); err != nil {
		return Submission{}, fmt.Errorf("decoding submission: %w", err)
	}
	if sub.Description == "" {
		return Submission{}, fmt.Errorf("submission %q has no description", sub.ID)
	}
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	return sub, nil
}

// SerializeClassification encodes a labeled result for the sink topic. The
// submission ID becomes the message key so results partition with their
// submissions.
func SerializeClassification(c Classification) (OutputEvent, error) {
	value, err := json.Marshal(c)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("encoding classification %s: %w", c.ID, err)
	}
	return OutputEvent{
		Key:   []byte(c.ID),
		Value: value,
		Headers: map[string]string{
			"id":            c.ID,
			"classified_at": c.ClassifiedAt.Format(time.RFC3339),
		},
	}, nil
}
