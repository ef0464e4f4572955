// Package artificialanalysis fetches the benchmark/pricing catalog from the
// Artificial Analysis LLMs API.
package artificialanalysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/everstacklabs/modelrank/internal/httpclient"
	"github.com/everstacklabs/modelrank/internal/model"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://artificialanalysis.ai/api/v2/data/llms"

// Fetcher retrieves raw benchmark models. It never returns partial data: a
// non-2xx status, timeout, or decode failure is an error for the caller
// (the cache layer) to convert into a fallback.
type Fetcher struct {
	client  *httpclient.Client
	baseURL string
	apiKey  string
	now     func() time.Time
}

// NewFetcher creates a Fetcher. apiKey is required at fetch time, not here,
// so a cache-only run can still be constructed without credentials.
func NewFetcher(client *httpclient.Client, baseURL, apiKey string) *Fetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Fetcher{client: client, baseURL: baseURL, apiKey: apiKey, now: time.Now}
}

type modelsEnvelope struct {
	Data []any `json:"data"`
}

// Fetch retrieves and normalizes the model list. Source-internal id fields
// are stripped recursively before decoding; they are not stable across
// refreshes and must not leak into cache artifacts.
func (f *Fetcher) Fetch(ctx context.Context) (model.BenchmarkSnapshot, error) {
	var snap model.BenchmarkSnapshot
	if f.apiKey == "" {
		return snap, fmt.Errorf("missing Artificial Analysis API key")
	}

	resp, err := f.client.Get(ctx, f.baseURL+"/models", map[string]string{
		"x-api-key": f.apiKey,
	})
	if err != nil {
		return snap, err
	}

	var envelope modelsEnvelope
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return snap, fmt.Errorf("parsing models response: %w", err)
	}

	stripped, err := json.Marshal(stripIDs(envelope.Data))
	if err != nil {
		return snap, fmt.Errorf("re-encoding models: %w", err)
	}

	var models []model.BenchmarkModel
	if err := json.Unmarshal(stripped, &models); err != nil {
		return snap, fmt.Errorf("decoding models: %w", err)
	}

	fetchedAt := f.now().Unix()
	status := resp.StatusCode
	slog.Info("artificial analysis fetch complete", "models", len(models), "status", status)

	snap.FetchedAtEpochSeconds = &fetchedAt
	snap.StatusCode = &status
	snap.Models = models
	return snap, nil
}

// stripIDs removes every "id" key from nested maps, recursively.
func stripIDs(value any) any {
	switch v := value.(type) {
	case []any:
		out := make([]any, 0, len(v))
		for _, item := range v {
			out = append(out, stripIDs(item))
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, child := range v {
			if key == "id" {
				continue
			}
			out[key] = stripIDs(child)
		}
		return out
	default:
		return value
	}
}
