// Package stats is the public surface of the ranking pipeline: fetch,
// cache, score, match, union, and project. Every top-level payload is
// empty-safe: callers never crash on stats unavailability.
package stats

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/everstacklabs/modelrank/internal/cache"
	"github.com/everstacklabs/modelrank/internal/config"
	"github.com/everstacklabs/modelrank/internal/httpclient"
	"github.com/everstacklabs/modelrank/internal/match"
	"github.com/everstacklabs/modelrank/internal/model"
	"github.com/everstacklabs/modelrank/internal/score"
	"github.com/everstacklabs/modelrank/internal/source/artificialanalysis"
	"github.com/everstacklabs/modelrank/internal/source/modelsdev"
)

// Cache artifact keys. One JSON document each, human-diffable, regenerable.
const (
	keyBenchmark       = "artificial_analysis"
	keyBenchmarkOutput = "artificial_analysis_output"
	keyRegistry        = "models_dev"
	keySelected        = "model_stats"
)

const (
	defaultSourceTTL   = 12 * time.Hour
	defaultSelectedTTL = 24 * time.Hour
)

// Service orchestrates the full pipeline. The two sources have
// independently configured TTLs.
type Service struct {
	store         *cache.Store
	benchFetch    func(context.Context) (model.BenchmarkSnapshot, error)
	registryFetch func(context.Context) (model.RegistryPayload, error)
	scorer        *score.Scorer
	matcher       *match.Matcher
	benchTTL      time.Duration
	registryTTL   time.Duration
	selectedTTL   time.Duration
	force         bool
	now           func() time.Time
}

// Option overrides Service wiring, mainly for tests.
type Option func(*Service)

// WithBenchmarkFetch replaces the Source A fetcher.
func WithBenchmarkFetch(fn func(context.Context) (model.BenchmarkSnapshot, error)) Option {
	return func(s *Service) { s.benchFetch = fn }
}

// WithRegistryFetch replaces the Source B fetcher.
func WithRegistryFetch(fn func(context.Context) (model.RegistryPayload, error)) Option {
	return func(s *Service) { s.registryFetch = fn }
}

// WithStore replaces the snapshot store; nil disables persistence.
func WithStore(store *cache.Store) Option {
	return func(s *Service) { s.store = store }
}

// WithForceRefresh bypasses all cache freshness checks.
func WithForceRefresh(force bool) Option {
	return func(s *Service) { s.force = force }
}

// New builds a Service from configuration. A cache directory that cannot
// be created downgrades to an uncached service rather than failing.
func New(cfg *config.Config, opts ...Option) *Service {
	client := httpclient.New(httpclient.WithRateLimit(10))

	store, err := cache.NewStore(cfg.CacheDir)
	if err != nil {
		slog.Warn("failed to create cache, continuing without", "error", err)
		store = nil
	}

	scoreCfg := score.DefaultConfig()
	if cfg.Scoring.LookbackDays > 0 {
		scoreCfg.LookbackDays = cfg.Scoring.LookbackDays
	}

	matchCfg := match.DefaultConfig()
	if cfg.Matcher.ProviderScope != "" {
		matchCfg.ProviderScope = cfg.Matcher.ProviderScope
	}
	if cfg.Matcher.MaxCandidates > 0 {
		matchCfg.MaxCandidates = cfg.Matcher.MaxCandidates
	}
	if cfg.Matcher.VoidThresholdRatio > 0 {
		matchCfg.VoidThresholdRatio = cfg.Matcher.VoidThresholdRatio
	}

	benchFetcher := artificialanalysis.NewFetcher(client, cfg.ArtificialAnalysis.BaseURL, cfg.ArtificialAnalysis.APIKey)
	registryFetcher := modelsdev.NewFetcher(client, cfg.ModelsDev.BaseURL, scoreCfg.LookbackDays)

	s := &Service{
		store:         store,
		benchFetch:    benchFetcher.Fetch,
		registryFetch: registryFetcher.Fetch,
		scorer:        score.New(scoreCfg),
		matcher:       match.New(matchCfg),
		benchTTL:      parseTTL(cfg.ArtificialAnalysis.CacheTTL, defaultSourceTTL),
		registryTTL:   parseTTL(cfg.ModelsDev.CacheTTL, defaultSourceTTL),
		selectedTTL:   parseTTL(cfg.Selected.CacheTTL, defaultSelectedTTL),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func parseTTL(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

// ArtificialAnalysis returns ranked and scored benchmark models. Any
// failure in fetch, parse, or cache collapses to the empty-safe payload.
func (s *Service) ArtificialAnalysis(ctx context.Context) model.BenchmarkPayload {
	snap, err := cache.GetOrRefresh(s.store, keyBenchmark, s.benchTTL, s.force, func() (model.BenchmarkSnapshot, error) {
		return s.benchFetch(ctx)
	})
	if err != nil {
		slog.Warn("artificial analysis stats unavailable", "error", err)
		return model.BenchmarkPayload{Models: []model.ScoredModel{}}
	}

	ranked := s.scorer.RankAndEnrich(snap.Models)
	if ranked == nil {
		ranked = []model.ScoredModel{}
	}
	payload := model.BenchmarkPayload{
		FetchedAtEpochSeconds: snap.FetchedAtEpochSeconds,
		StatusCode:            snap.StatusCode,
		Models:                ranked,
	}
	if err := cache.Write(s.store, keyBenchmarkOutput, payload); err != nil {
		slog.Warn("cache write failed", "key", keyBenchmarkOutput, "error", err)
	}
	return payload
}

// ModelsDev returns the flattened, lookback-filtered registry rows.
func (s *Service) ModelsDev(ctx context.Context) model.RegistryPayload {
	payload, err := cache.GetOrRefresh(s.store, keyRegistry, s.registryTTL, s.force, func() (model.RegistryPayload, error) {
		return s.registryFetch(ctx)
	})
	if err != nil {
		slog.Warn("models.dev stats unavailable", "error", err)
		return model.RegistryPayload{Models: []model.RegistryRow{}}
	}
	if payload.Models == nil {
		payload.Models = []model.RegistryRow{}
	}
	return payload
}

// fetchBoth runs the two source pipelines concurrently. Neither waits on
// the other beyond both completing before matching starts.
func (s *Service) fetchBoth(ctx context.Context) (model.BenchmarkPayload, model.RegistryPayload) {
	var (
		bench    model.BenchmarkPayload
		registry model.RegistryPayload
		wg       sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		bench = s.ArtificialAnalysis(ctx)
	}()
	go func() {
		defer wg.Done()
		registry = s.ModelsDev(ctx)
	}()
	wg.Wait()
	return bench, registry
}

// Mapping returns the cross-source mapping with bounded candidate lists.
// maxCandidates <= 0 selects the configured default.
func (s *Service) Mapping(ctx context.Context, maxCandidates int) model.MappingPayload {
	if maxCandidates <= 0 {
		maxCandidates = s.matcher.Config().MaxCandidates
	}

	bench, registry := s.fetchBoth(ctx)
	scoped := s.matcher.ScopeRows(registry.Models)

	mapped := make([]model.MappedModel, 0, len(bench.Models))
	for _, m := range bench.Models {
		candidates := s.matcher.CollectCandidates(m.Slug, scoped)
		if len(candidates) > maxCandidates {
			candidates = candidates[:maxCandidates]
		}
		if candidates == nil {
			candidates = []model.MatchCandidate{}
		}
		var best *model.MatchCandidate
		if len(candidates) > 0 {
			c := candidates[0]
			best = &c
		}
		mapped = append(mapped, model.MappedModel{
			Slug:        m.Slug,
			Name:        m.Name,
			ReleaseDate: m.ReleaseDate,
			BestMatch:   best,
			Candidates:  candidates,
		})
	}

	threshold := s.matcher.VoidThreshold(bestScores(mapped))
	voided := 0
	if threshold != nil {
		for i := range mapped {
			if mapped[i].BestMatch != nil && mapped[i].BestMatch.Score < *threshold {
				mapped[i].BestMatch = nil
				mapped[i].Candidates = []model.MatchCandidate{}
				voided++
			}
		}
	}

	return model.MappingPayload{
		BenchmarkFetchedAtEpochSeconds: bench.FetchedAtEpochSeconds,
		RegistryFetchedAtEpochSeconds:  registry.FetchedAtEpochSeconds,
		TotalBenchmarkModels:           len(mapped),
		TotalRegistryModels:            len(scoped),
		MaxCandidates:                  maxCandidates,
		VoidMode:                       match.VoidMode,
		VoidThreshold:                  threshold,
		VoidedCount:                    voided,
		Models:                         mapped,
	}
}

// Union returns merged records for every benchmark model with a surviving
// best match.
func (s *Service) Union(ctx context.Context) model.UnionPayload {
	bench, registry := s.fetchBoth(ctx)
	scoped := s.matcher.ScopeRows(registry.Models)

	rows := make([]model.UnionRow, 0, len(bench.Models))
	for _, m := range bench.Models {
		candidates := s.matcher.CollectCandidates(m.Slug, scoped)
		var best *model.MatchCandidate
		var matched *model.RegistryRow
		if len(candidates) > 0 {
			c := candidates[0]
			best = &c
			matched = findRow(scoped, c.ModelID)
		}
		rows = append(rows, model.UnionRow{
			Slug:        m.Slug,
			Name:        m.Name,
			ReleaseDate: m.ReleaseDate,
			BestMatch:   best,
			Benchmark:   m,
			Registry:    matched,
			Union:       mergeUnion(m, matched),
		})
	}

	var scores []float64
	for _, row := range rows {
		if row.BestMatch != nil {
			scores = append(scores, row.BestMatch.Score)
		}
	}
	threshold := s.matcher.VoidThreshold(scores)
	voided := 0
	if threshold != nil {
		for i := range rows {
			if rows[i].BestMatch != nil && rows[i].BestMatch.Score < *threshold {
				rows[i].BestMatch = nil
				voided++
			}
		}
	}

	unions := make([]model.UnionModel, 0, len(rows))
	for _, row := range rows {
		if row.BestMatch != nil {
			unions = append(unions, row.Union)
		}
	}

	return model.UnionPayload{
		BenchmarkFetchedAtEpochSeconds: bench.FetchedAtEpochSeconds,
		RegistryFetchedAtEpochSeconds:  registry.FetchedAtEpochSeconds,
		TotalBenchmarkModels:           len(bench.Models),
		TotalRegistryModels:            len(scoped),
		VoidMode:                       match.VoidMode,
		VoidThreshold:                  threshold,
		VoidedCount:                    voided,
		TotalUnionModels:               len(unions),
		Models:                         unions,
	}
}

// Selected returns the final flattened projection. List mode (empty id) is
// served cache-first and re-persisted after rebuild; id mode always
// computes in memory and never touches the cache artifact.
func (s *Service) Selected(ctx context.Context, id string) model.SelectedPayload {
	build := func() (model.SelectedPayload, error) {
		union := s.Union(ctx)
		models := make([]model.SelectedModel, 0, len(union.Models))
		for _, u := range union.Models {
			sel := projectSelected(u)
			if id != "" && sel.ID != id {
				continue
			}
			models = append(models, sel)
		}
		fetchedAt := s.now().Unix()
		return model.SelectedPayload{
			FetchedAtEpochSeconds: &fetchedAt,
			Models:                models,
		}, nil
	}

	if id != "" {
		payload, _ := build()
		return payload
	}

	payload, err := cache.GetOrRefresh(s.store, keySelected, s.selectedTTL, s.force, build)
	if err != nil {
		return model.SelectedPayload{Models: []model.SelectedModel{}}
	}
	return payload
}

func bestScores(mapped []model.MappedModel) []float64 {
	var scores []float64
	for _, m := range mapped {
		if m.BestMatch != nil {
			scores = append(scores, m.BestMatch.Score)
		}
	}
	return scores
}

func findRow(rows []model.RegistryRow, modelID string) *model.RegistryRow {
	for i := range rows {
		if rows[i].ModelID == modelID {
			return &rows[i]
		}
	}
	return nil
}
