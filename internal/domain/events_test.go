package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRawSubmission(t *testing.T) {
	t.Run("complete submission", func(t *testing.T) {
		raw := RawSubmission{Value: []byte(`{"id":"sub-42","description":"Work disturbing 25,000 SF"}`)}
		sub, err := ParseRawSubmission(raw)

		require.NoError(t, err)
		assert.Equal(t, "sub-42", sub.ID)
		assert.Equal(t, "Work disturbing 25,000 SF", sub.Description)
	})

	t.Run("missing ID is generated", func(t *testing.T) {
		raw := RawSubmission{Value: []byte(`{"description":"Work disturbing 25,000 SF"}`)}
		sub, err := ParseRawSubmission(raw)

		require.NoError(t, err)
		assert.NotEmpty(t, sub.ID)
	})

	t.Run("empty description is rejected", func(t *testing.T) {
		raw := RawSubmission{Value: []byte(`{"id":"sub-43"}`)}
		_, err := ParseRawSubmission(raw)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no description")
	})

	t.Run("invalid JSON", func(t *testing.T) {
		raw := RawSubmission{Value: []byte(`{invalid`)}
		_, err := ParseRawSubmission(raw)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "decoding submission")
	})
}

func TestSerializeClassification(t *testing.T) {
	classifiedAt := time.Date(2026, 5, 14, 9, 30, 0, 0, time.UTC)
	c := Classification{
		ID: "sub-42",
		Final: FinalLabels{
			ESC: true,
			NNI: NNINotApplicable(),
		},
		ClassifiedAt: classifiedAt,
	}

	event, err := SerializeClassification(c)
	require.NoError(t, err)

	assert.Equal(t, []byte("sub-42"), event.Key)
	assert.Equal(t, "sub-42", event.Headers["id"])
	assert.Equal(t, "2026-05-14T09:30:00Z", event.Headers["classified_at"])

	var decoded Classification
	require.NoError(t, json.Unmarshal(event.Value, &decoded))
	assert.Equal(t, c, decoded)
}
