package model

// Payload envelopes. Each cached artifact carries its own fetch timestamp so
// freshness can be judged from the document alone. A nil timestamp or status
// marks an empty-safe fallback payload.

// BenchmarkSnapshot is the raw Source A cache artifact.
type BenchmarkSnapshot struct {
	FetchedAtEpochSeconds *int64           `json:"fetched_at_epoch_seconds"`
	StatusCode            *int             `json:"status_code"`
	Models                []BenchmarkModel `json:"models"`
}

// FetchedAtUnix implements cache.Payload.
func (p BenchmarkSnapshot) FetchedAtUnix() int64 {
	if p.FetchedAtEpochSeconds == nil {
		return 0
	}
	return *p.FetchedAtEpochSeconds
}

// BenchmarkPayload is the ranked/scored Source A output.
type BenchmarkPayload struct {
	FetchedAtEpochSeconds *int64        `json:"fetched_at_epoch_seconds"`
	StatusCode            *int          `json:"status_code"`
	Models                []ScoredModel `json:"models"`
}

// FetchedAtUnix implements cache.Payload.
func (p BenchmarkPayload) FetchedAtUnix() int64 {
	if p.FetchedAtEpochSeconds == nil {
		return 0
	}
	return *p.FetchedAtEpochSeconds
}

// RegistryPayload is the flattened Source B snapshot, doubling as the
// public registry output.
type RegistryPayload struct {
	FetchedAtEpochSeconds *int64        `json:"fetched_at_epoch_seconds"`
	StatusCode            *int          `json:"status_code"`
	Models                []RegistryRow `json:"models"`
}

// FetchedAtUnix implements cache.Payload.
func (p RegistryPayload) FetchedAtUnix() int64 {
	if p.FetchedAtEpochSeconds == nil {
		return 0
	}
	return *p.FetchedAtEpochSeconds
}

// MappingPayload is the full cross-source mapping with candidates.
type MappingPayload struct {
	BenchmarkFetchedAtEpochSeconds *int64        `json:"artificial_analysis_fetched_at_epoch_seconds"`
	RegistryFetchedAtEpochSeconds  *int64        `json:"models_dev_fetched_at_epoch_seconds"`
	TotalBenchmarkModels           int           `json:"total_artificial_analysis_models"`
	TotalRegistryModels            int           `json:"total_models_dev_models"`
	MaxCandidates                  int           `json:"max_candidates"`
	VoidMode                       string        `json:"void_mode"`
	VoidThreshold                  *float64      `json:"void_threshold"`
	VoidedCount                    int           `json:"voided_count"`
	Models                         []MappedModel `json:"models"`
}

// UnionPayload is the cross-source union output.
type UnionPayload struct {
	BenchmarkFetchedAtEpochSeconds *int64       `json:"artificial_analysis_fetched_at_epoch_seconds"`
	RegistryFetchedAtEpochSeconds  *int64       `json:"models_dev_fetched_at_epoch_seconds"`
	TotalBenchmarkModels           int          `json:"total_artificial_analysis_models"`
	TotalRegistryModels            int          `json:"total_models_dev_models"`
	VoidMode                       string       `json:"void_mode"`
	VoidThreshold                  *float64     `json:"void_threshold"`
	VoidedCount                    int          `json:"voided_count"`
	TotalUnionModels               int          `json:"total_union_models"`
	Models                         []UnionModel `json:"models"`
}

// SelectedPayload is the final flattened projection, cache-gated in list
// mode with its own freshness timestamp.
type SelectedPayload struct {
	FetchedAtEpochSeconds *int64          `json:"fetched_at_epoch_seconds"`
	Models                []SelectedModel `json:"models"`
}

// FetchedAtUnix implements cache.Payload.
func (p SelectedPayload) FetchedAtUnix() int64 {
	if p.FetchedAtEpochSeconds == nil {
		return 0
	}
	return *p.FetchedAtEpochSeconds
}
