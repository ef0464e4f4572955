// Package modelsdev fetches the models.dev provider registry and flattens
// it into one row per (provider, model) pair.
package modelsdev

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/everstacklabs/modelrank/internal/httpclient"
	"github.com/everstacklabs/modelrank/internal/model"
)

// DefaultBaseURL is the production registry root.
const DefaultBaseURL = "https://models.dev"

// Fetcher retrieves and flattens the registry. Like the benchmark fetcher,
// it fails loudly; fallback handling belongs to the cache layer.
type Fetcher struct {
	client       *httpclient.Client
	baseURL      string
	lookbackDays int
	now          func() time.Time
}

// NewFetcher creates a Fetcher keeping models released within lookbackDays.
func NewFetcher(client *httpclient.Client, baseURL string, lookbackDays int) *Fetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Fetcher{client: client, baseURL: baseURL, lookbackDays: lookbackDays, now: time.Now}
}

type registryProvider struct {
	Name   string                         `json:"name"`
	Models map[string]model.RegistryModel `json:"models"`
}

// Fetch retrieves the nested provider→model registry, flattens it, drops
// models released before the lookback cutoff, and orders rows by output
// cost ascending then release date descending.
func (f *Fetcher) Fetch(ctx context.Context) (model.RegistryPayload, error) {
	var payload model.RegistryPayload

	resp, err := f.client.Get(ctx, f.baseURL+"/api.json", nil)
	if err != nil {
		return payload, err
	}

	var providers map[string]registryProvider
	if err := json.Unmarshal(resp.Body, &providers); err != nil {
		return payload, fmt.Errorf("parsing registry response: %w", err)
	}

	cutoff := f.now().UTC().AddDate(0, 0, -f.lookbackDays).Format("2006-01-02")
	rows := flatten(providers)
	rows = rankRecent(rows, cutoff)

	fetchedAt := f.now().Unix()
	status := resp.StatusCode
	slog.Info("models.dev fetch complete", "providers", len(providers), "models", len(rows), "status", status)

	payload.FetchedAtEpochSeconds = &fetchedAt
	payload.StatusCode = &status
	payload.Models = rows
	return payload, nil
}

// flatten walks providers and models in sorted key order so that runs over
// identical input produce byte-identical snapshots.
func flatten(providers map[string]registryProvider) []model.RegistryRow {
	providerIDs := make([]string, 0, len(providers))
	for id := range providers {
		providerIDs = append(providerIDs, id)
	}
	sort.Strings(providerIDs)

	var rows []model.RegistryRow
	for _, providerID := range providerIDs {
		provider := providers[providerID]
		providerName := provider.Name
		if providerName == "" {
			providerName = providerID
		}

		modelKeys := make([]string, 0, len(provider.Models))
		for key := range provider.Models {
			modelKeys = append(modelKeys, key)
		}
		sort.Strings(modelKeys)

		for _, key := range modelKeys {
			m := provider.Models[key]
			modelID := m.ID
			if modelID == "" {
				modelID = key
			}
			rows = append(rows, model.RegistryRow{
				ProviderID:   providerID,
				ProviderName: providerName,
				ModelID:      modelID,
				Model:        m,
			})
		}
	}
	return rows
}

// rankRecent keeps rows whose release date is on or after cutoff and sorts
// by output cost ascending (missing cost last), ties by release date
// descending, further ties preserving flatten order.
func rankRecent(rows []model.RegistryRow, cutoff string) []model.RegistryRow {
	var recent []model.RegistryRow
	for _, row := range rows {
		if row.Model.ReleaseDate != "" && row.Model.ReleaseDate >= cutoff {
			recent = append(recent, row)
		}
	}

	sort.SliceStable(recent, func(i, j int) bool {
		ci, cj := outputCost(recent[i]), outputCost(recent[j])
		if ci != cj {
			return ci < cj
		}
		return recent[i].Model.ReleaseDate > recent[j].Model.ReleaseDate
	})
	return recent
}

func outputCost(row model.RegistryRow) float64 {
	if row.Model.Cost == nil || row.Model.Cost.Output == nil {
		return math.Inf(1)
	}
	v := *row.Model.Cost.Output
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return math.Inf(1)
	}
	return v
}
