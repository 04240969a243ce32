package modelserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/jceal/stormwater-classifier/internal/domain"
)

// ErrModelUnavailable is returned once the availability probe has failed;
// callers treat it as a negative decision.
var ErrModelUnavailable = errors.New("model unavailable")

// LazyPredictor defers the model availability check until the first
// prediction. The probe runs exactly once; its result is reused for the
// process lifetime.
type LazyPredictor struct {
	client *Client

	once      sync.Once
	available bool
}

// NewLazyPredictor wraps a client with a one-time availability probe.
func NewLazyPredictor(client *Client) *LazyPredictor {
	return &LazyPredictor{client: client}
}

var _ domain.Predictor = (*LazyPredictor)(nil)

// Predict probes model availability on first use, then delegates.
func (p *LazyPredictor) Predict(ctx context.Context, text string) (bool, error) {
	p.once.Do(func() {
		p.available = p.probe(ctx)
	})
	if !p.available {
		return false, fmt.Errorf("model %s: %w", p.client.model, ErrModelUnavailable)
	}
	return p.client.Predict(ctx, text)
}

type modelsResponse struct {
	Models []string `json:"models"`
}

// probe asks the model server which models it serves.
func (p *LazyPredictor) probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.client.baseURL+"/models", nil)
	if err != nil {
		return false
	}

	resp, err := p.client.httpClient.Do(req)
	if err != nil {
		p.client.logger.Warn("model server probe failed", "model", p.client.model, "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.client.logger.Warn("model server probe rejected", "model", p.client.model, "status", resp.StatusCode)
		return false
	}

	var result modelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		p.client.logger.Warn("model server probe returned malformed body", "model", p.client.model, "error", err)
		return false
	}

	for _, name := range result.Models {
		if name == p.client.model {
			return true
		}
	}
	p.client.logger.Warn("model not served", "model", p.client.model, "served", result.Models)
	return false
}
