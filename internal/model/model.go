package model

// BenchmarkModel is one entry from the benchmark/pricing catalog
// (Artificial Analysis). Source-internal ids are stripped at the fetch
// boundary, so the slug is the only identity carried here.
type BenchmarkModel struct {
	Slug                         string              `json:"slug"`
	Name                         string              `json:"name,omitempty"`
	ReleaseDate                  string              `json:"release_date,omitempty"`
	Creator                      *Creator            `json:"model_creator,omitempty"`
	Evaluations                  map[string]*float64 `json:"evaluations,omitempty"`
	Pricing                      *Pricing            `json:"pricing,omitempty"`
	MedianOutputTokensPerSecond  *float64            `json:"median_output_tokens_per_second,omitempty"`
	MedianTimeToFirstAnswerToken *float64            `json:"median_time_to_first_answer_token,omitempty"`
}

// Creator identifies the organization behind a benchmark-catalog model.
type Creator struct {
	Name string `json:"name,omitempty"`
	Slug string `json:"slug,omitempty"`
}

// Pricing holds per-million-token prices in USD.
type Pricing struct {
	Blended3To1  *float64 `json:"price_1m_blended_3_to_1,omitempty"`
	InputTokens  *float64 `json:"price_1m_input_tokens,omitempty"`
	OutputTokens *float64 `json:"price_1m_output_tokens,omitempty"`
}

// ScoreSet holds the derived per-model scores. A nil entry means the
// inputs for that score were absent or non-finite.
type ScoreSet struct {
	Overall       *float64 `json:"overall_score"`
	Intelligence  *float64 `json:"intelligence_score"`
	BenchmarkBias *float64 `json:"benchmark_bias_score"`
	Price         *float64 `json:"price_score"`
	Speed         *float64 `json:"speed_score"`
}

// PercentileSet holds percentile ranks (0–100) within the ranked population.
type PercentileSet struct {
	Overall      *float64 `json:"overall_percentile"`
	Intelligence *float64 `json:"intelligence_percentile"`
	Speed        *float64 `json:"speed_percentile"`
	Price        *float64 `json:"price_percentile"`
}

// ScoredModel is a BenchmarkModel annotated with derived scores and
// percentiles. Scores are recomputed on every scoring pass, never persisted
// independently of the model they annotate.
type ScoredModel struct {
	BenchmarkModel
	Scores      ScoreSet      `json:"scores"`
	Percentiles PercentileSet `json:"percentiles"`
}

// RegistryModel is the per-model record from the model registry
// (models.dev). Field names match the registry wire format.
type RegistryModel struct {
	ID          string         `json:"id,omitempty"`
	Name        string         `json:"name,omitempty"`
	Attachment  *bool          `json:"attachment,omitempty"`
	Reasoning   *bool          `json:"reasoning,omitempty"`
	Temperature *bool          `json:"temperature,omitempty"`
	ToolCall    *bool          `json:"tool_call,omitempty"`
	Knowledge   string         `json:"knowledge,omitempty"`
	ReleaseDate string         `json:"release_date,omitempty"`
	LastUpdated string         `json:"last_updated,omitempty"`
	OpenWeights *bool          `json:"open_weights,omitempty"`
	Modalities  *Modalities    `json:"modalities,omitempty"`
	Cost        *RegistryCost  `json:"cost,omitempty"`
	Limit       *RegistryLimit `json:"limit,omitempty"`
}

// Modalities lists input/output modalities.
type Modalities struct {
	Input  []string `json:"input,omitempty"`
	Output []string `json:"output,omitempty"`
}

// RegistryCost holds registry prices per million tokens in USD.
type RegistryCost struct {
	Input      *float64 `json:"input,omitempty"`
	Output     *float64 `json:"output,omitempty"`
	CacheRead  *float64 `json:"cache_read,omitempty"`
	CacheWrite *float64 `json:"cache_write,omitempty"`
}

// RegistryLimit holds context/output token limits.
type RegistryLimit struct {
	Context *int `json:"context,omitempty"`
	Output  *int `json:"output,omitempty"`
}

// RegistryRow is one flattened (provider, model) pair from the registry.
// ProviderID groups models into disjoint namespaces; matching is always
// scoped to exactly one namespace.
type RegistryRow struct {
	ProviderID   string        `json:"provider_id"`
	ProviderName string        `json:"provider_name"`
	ModelID      string        `json:"model_id"`
	Model        RegistryModel `json:"model"`
}

// MatchCandidate is a scored registry candidate for one benchmark model.
// Higher scores are better; non-positive scores are never returned.
type MatchCandidate struct {
	ModelID      string  `json:"model_id"`
	ProviderID   string  `json:"provider_id"`
	ProviderName string  `json:"provider_name"`
	ModelName    string  `json:"model_name,omitempty"`
	Score        float64 `json:"score"`
}

// MappedModel is the mapping entry for one benchmark model: its best
// registry match plus the bounded candidate list, sorted descending by score.
type MappedModel struct {
	Slug        string           `json:"artificial_analysis_slug"`
	Name        string           `json:"artificial_analysis_name,omitempty"`
	ReleaseDate string           `json:"artificial_analysis_release_date,omitempty"`
	BestMatch   *MatchCandidate  `json:"best_match"`
	Candidates  []MatchCandidate `json:"candidates"`
}

// UnionModel merges a matched (benchmark, registry) pair into one record.
// Registry fields form the base; benchmark fields override on collision.
// Name prefers the registry display name when a match exists.
type UnionModel struct {
	ID          string         `json:"id,omitempty"`
	Name        string         `json:"name,omitempty"`
	Attachment  *bool          `json:"attachment,omitempty"`
	Reasoning   *bool          `json:"reasoning,omitempty"`
	Temperature *bool          `json:"temperature,omitempty"`
	ToolCall    *bool          `json:"tool_call,omitempty"`
	Knowledge   string         `json:"knowledge,omitempty"`
	LastUpdated string         `json:"last_updated,omitempty"`
	OpenWeights *bool          `json:"open_weights,omitempty"`
	Modalities  *Modalities    `json:"modalities,omitempty"`
	Cost        *RegistryCost  `json:"cost,omitempty"`
	Limit       *RegistryLimit `json:"limit,omitempty"`

	Slug                         string              `json:"slug"`
	ReleaseDate                  string              `json:"release_date,omitempty"`
	Creator                      *Creator            `json:"model_creator,omitempty"`
	Evaluations                  map[string]*float64 `json:"evaluations,omitempty"`
	Pricing                      *Pricing            `json:"pricing,omitempty"`
	MedianOutputTokensPerSecond  *float64            `json:"median_output_tokens_per_second,omitempty"`
	MedianTimeToFirstAnswerToken *float64            `json:"median_time_to_first_answer_token,omitempty"`
	Scores                       ScoreSet            `json:"scores"`
	Percentiles                  PercentileSet       `json:"percentiles"`
}

// UnionRow pairs one benchmark model with its matched registry row and the
// merged union record. Rows whose best match is voided are excluded from the
// union output but remain visible in the mapping output.
type UnionRow struct {
	Slug        string          `json:"artificial_analysis_slug"`
	Name        string          `json:"artificial_analysis_name,omitempty"`
	ReleaseDate string          `json:"artificial_analysis_release_date,omitempty"`
	BestMatch   *MatchCandidate `json:"best_match"`
	Benchmark   ScoredModel     `json:"artificial_analysis"`
	Registry    *RegistryRow    `json:"models_dev"`
	Union       UnionModel      `json:"union"`
}

// Speed groups the median throughput/latency fields for the selected
// projection.
type Speed struct {
	MedianOutputTokensPerSecond  *float64 `json:"median_output_tokens_per_second,omitempty"`
	MedianTimeToFirstAnswerToken *float64 `json:"median_time_to_first_answer_token,omitempty"`
}

// SelectedModel is the flattened externally-consumed projection of one
// union record.
type SelectedModel struct {
	ID            string              `json:"id,omitempty"`
	Name          string              `json:"name,omitempty"`
	Provider      string              `json:"provider,omitempty"`
	Logo          string              `json:"logo,omitempty"`
	Attachment    *bool               `json:"attachment"`
	Reasoning     *bool               `json:"reasoning"`
	ReleaseDate   string              `json:"release_date,omitempty"`
	Modalities    *Modalities         `json:"modalities,omitempty"`
	OpenWeights   *bool               `json:"open_weights"`
	Cost          *RegistryCost       `json:"cost,omitempty"`
	ContextWindow *RegistryLimit      `json:"context_window,omitempty"`
	Speed         Speed               `json:"speed"`
	Evaluations   map[string]*float64 `json:"evaluations,omitempty"`
	Scores        *ScoreSet           `json:"scores,omitempty"`
	Percentiles   *PercentileSet      `json:"percentiles,omitempty"`
}
