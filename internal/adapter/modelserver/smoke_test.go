//go:build modelserver

package modelserver

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jceal/stormwater-classifier/internal/observability"
)

// These tests hit a real model server and require MODEL_SERVER_URL.
// Run with: go test -tags=modelserver ./internal/adapter/modelserver/ -v -count=1

func smokeClient(t *testing.T, model string) *Client {
	t.Helper()
	url := os.Getenv("MODEL_SERVER_URL")
	if url == "" {
		t.Fatal("MODEL_SERVER_URL must be set to run smoke tests")
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(url, model, 10*time.Second, logger, observability.NewMetricsForTesting())
}

func TestSmoke_ActivityPredict(t *testing.T) {
	c := smokeClient(t, "table_2_2_activity")

	// Milling and resurfacing is a canonical exempt maintenance activity.
	decision, err := c.Predict(context.Background(), "Milling and resurfacing of the existing roadway")
	require.NoError(t, err)
	assert.True(t, decision)
}

func TestSmoke_NewConnectionPredict(t *testing.T) {
	c := smokeClient(t, "new_connection")

	_, err := c.Predict(context.Background(), "Interior renovation with no sitework")
	require.NoError(t, err)
}

func TestSmoke_LazyPredictorProbe(t *testing.T) {
	lazy := NewLazyPredictor(smokeClient(t, "table_2_2_activity"))

	// First call probes the models endpoint; a served model must not error.
	decision1, err := lazy.Predict(context.Background(), "Demolition of the existing structure and regrading")
	require.NoError(t, err)

	// Second call: probe result is reused.
	decision2, err := lazy.Predict(context.Background(), "Demolition of the existing structure and regrading")
	require.NoError(t, err)
	assert.Equal(t, decision1, decision2)
}
