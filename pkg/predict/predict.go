// Package predict is the client for the hosted usage-prediction service. The
// service itself is opaque: we post a short history series and get one number
// back. Prediction is strictly optional decoration for the dashboard.
package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Malindup2/WattWise-sub000/pkg/common"
	"github.com/levenlabs/go-lflag"
)

// Client predicts the next day's usage from a trailing daily series.
type Client interface {
	PredictNextDay(ctx context.Context, userID string, history []float64) (float64, error)
}

// HTTPClient calls an external prediction endpoint over HTTP.
type HTTPClient struct {
	endpoint string
	client   *http.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTP creates a prediction client for the given endpoint.
func NewHTTP(endpoint string) *HTTPClient {
	return &HTTPClient{
		endpoint: endpoint,
		client:   common.HTTPClient(10 * time.Second),
	}
}

// ErrDisabled is returned when no prediction endpoint is configured. Callers
// treat it as "no prediction available" rather than a failure.
var ErrDisabled = errors.New("prediction disabled")

type configuredClient struct {
	inner Client
}

func (c *configuredClient) PredictNextDay(ctx context.Context, userID string, history []float64) (float64, error) {
	if c.inner == nil {
		return 0, ErrDisabled
	}
	return c.inner.PredictNextDay(ctx, userID, history)
}

// Configured sets up the prediction client from flags. With no endpoint
// configured the client returns ErrDisabled from every call.
func Configured() Client {
	endpoint := lflag.String("predict-endpoint", "", "URL of the usage prediction service (empty disables)")

	c := &configuredClient{}

	lflag.Do(func() {
		if *endpoint != "" {
			c.inner = NewHTTP(*endpoint)
		}
	})

	return c
}

type predictRequest struct {
	UserID  string    `json:"userID"`
	History []float64 `json:"history"`
}

type predictResponse struct {
	PredictedKWH float64 `json:"predictedKWH"`
}

// PredictNextDay posts the history series and decodes the predicted kWh.
func (c *HTTPClient) PredictNextDay(ctx context.Context, userID string, history []float64) (float64, error) {
	body, err := json.Marshal(predictRequest{UserID: userID, History: history})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal prediction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build prediction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("prediction request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("prediction service returned %d", resp.StatusCode)
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("failed to decode prediction response: %w", err)
	}
	if out.PredictedKWH < 0 {
		return 0, fmt.Errorf("prediction service returned negative kWh %v", out.PredictedKWH)
	}
	return out.PredictedKWH, nil
}
