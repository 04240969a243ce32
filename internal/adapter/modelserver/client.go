package modelserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/jceal/stormwater-classifier/internal/observability"
)

// decisionThreshold converts the model's probability into a boolean label.
const decisionThreshold = 0.5

// Client implements domain.Predictor against the model server's /predict
// endpoint for one named model.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a predictor client for a single model. Metrics may be nil.
func NewClient(baseURL, model string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: metrics,
	}
}

type predictRequest struct {
	Model string `json:"model"`
	Text  string `json:"text"`
}

type predictResponse struct {
	Probability float64 `json:"probability"`
}

// Predict scores the text and thresholds the returned probability.
func (c *Client) Predict(ctx context.Context, text string) (bool, error) {
	start := time.Now()
	decision, err := c.doPredict(ctx, text)
	c.observe(time.Since(start), decision, err)
	return decision, err
}

func (c *Client) doPredict(ctx context.Context, text string) (bool, error) {
	payload, err := json.Marshal(predictRequest{Model: c.model, Text: text})
	if err != nil {
		return false, fmt.Errorf("encode predict request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(payload))
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("%s predict request: %w", c.model, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return false, fmt.Errorf("model server error: status %d: %s", resp.StatusCode, body)
	}

	var result predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("decode predict response: %w", err)
	}

	return result.Probability >= decisionThreshold, nil
}

func (c *Client) observe(elapsed time.Duration, decision bool, err error) {
	if c.metrics == nil {
		return
	}
	outcome := "negative"
	switch {
	case err != nil:
		outcome = "error"
	case decision:
		outcome = "positive"
	}
	c.metrics.PredictorRequests.WithLabelValues(c.model, outcome).Inc()
	c.metrics.PredictorDuration.WithLabelValues(c.model).Observe(elapsed.Seconds())
}
