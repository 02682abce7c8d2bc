package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"swms-backend/internal/models"
	"swms-backend/internal/optimizer"
)

// optimizerTimeout bounds the single outbound optimizer call; a slow
// optimizer must fail route generation, never hang it.
const optimizerTimeout = 10 * time.Second

// OptimizerClient calls the optimization service over HTTP. Timeouts,
// transport errors, and non-2xx responses all surface as
// ErrOptimizerUnavailable so callers can fail route generation cleanly.
type OptimizerClient struct {
	baseURL string
	client  *http.Client
}

func NewOptimizerClient(baseURL string) *OptimizerClient {
	return &OptimizerClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: optimizerTimeout},
	}
}

type optimizeRequest struct {
	Depot models.Location       `json:"depot"`
	Bins  []optimizer.Candidate `json:"bins"`
}

// Optimize requests a visiting order for the candidates.
func (c *OptimizerClient) Optimize(ctx context.Context, depot models.Location, candidates []optimizer.Candidate) (*optimizer.Plan, error) {
	body, err := json.Marshal(optimizeRequest{Depot: depot, Bins: candidates})
	if err != nil {
		return nil, fmt.Errorf("failed to encode optimizer request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/optimize", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build optimizer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOptimizerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrOptimizerUnavailable, resp.StatusCode)
	}

	var plan optimizer.Plan
	if err := json.NewDecoder(resp.Body).Decode(&plan); err != nil {
		return nil, fmt.Errorf("%w: invalid response: %v", ErrOptimizerUnavailable, err)
	}

	return &plan, nil
}
