package score

import (
	"math"
	"testing"
	"time"

	"github.com/everstacklabs/modelrank/internal/model"
)

func fixedScorer() *Scorer {
	s := New(DefaultConfig())
	s.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	return s
}

func fptr(v float64) *float64 { return &v }

// benchModel builds an eligible model with the given evaluation indexes and
// blended price. Speed metrics are fixed.
func benchModel(slug string, intelligence, coding, blended float64) model.BenchmarkModel {
	return model.BenchmarkModel{
		Slug:        slug,
		Name:        slug,
		ReleaseDate: "2025-11-01",
		Evaluations: map[string]*float64{
			IntelligenceIndexKey: fptr(intelligence),
			CodingIndexKey:       fptr(coding),
		},
		Pricing: &model.Pricing{
			Blended3To1:  fptr(blended),
			InputTokens:  fptr(blended),
			OutputTokens: fptr(blended),
		},
		MedianTimeToFirstAnswerToken: fptr(0.5),
		MedianOutputTokensPerSecond:  fptr(100),
	}
}

func TestRankAndEnrichFiltersStaleReleases(t *testing.T) {
	s := fixedScorer()

	old := benchModel("old-model", 50, 40, 1)
	old.ReleaseDate = "2024-01-01"
	recent := benchModel("recent-model", 50, 40, 1)

	ranked := s.RankAndEnrich([]model.BenchmarkModel{old, recent})
	if len(ranked) != 1 {
		t.Fatalf("ranked %d models, want 1", len(ranked))
	}
	if ranked[0].Slug != "recent-model" {
		t.Errorf("ranked %q, want recent-model", ranked[0].Slug)
	}
}

func TestRankAndEnrichFiltersNonPositiveMetrics(t *testing.T) {
	s := fixedScorer()

	cases := []struct {
		name   string
		mutate func(*model.BenchmarkModel)
	}{
		{"zero blended price", func(m *model.BenchmarkModel) { m.Pricing.Blended3To1 = fptr(0) }},
		{"nil pricing", func(m *model.BenchmarkModel) { m.Pricing = nil }},
		{"negative ttfa", func(m *model.BenchmarkModel) { m.MedianTimeToFirstAnswerToken = fptr(-1) }},
		{"nan tps", func(m *model.BenchmarkModel) { m.MedianOutputTokensPerSecond = fptr(math.NaN()) }},
		{"missing release date", func(m *model.BenchmarkModel) { m.ReleaseDate = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := benchModel("broken", 50, 40, 1)
			tc.mutate(&m)
			if got := s.RankAndEnrich([]model.BenchmarkModel{m}); len(got) != 0 {
				t.Errorf("ranked %d models, want 0", len(got))
			}
		})
	}
}

func TestRankAndEnrichOrdersByOverallDescending(t *testing.T) {
	s := fixedScorer()

	// Same price and speed, rising intelligence.
	models := []model.BenchmarkModel{
		benchModel("low", 20, 10, 1),
		benchModel("high", 80, 70, 1),
		benchModel("mid", 50, 40, 1),
	}

	ranked := s.RankAndEnrich(models)
	if len(ranked) != 3 {
		t.Fatalf("ranked %d models, want 3", len(ranked))
	}
	want := []string{"high", "mid", "low"}
	for i, slug := range want {
		if ranked[i].Slug != slug {
			t.Errorf("rank %d = %q, want %q", i, ranked[i].Slug, slug)
		}
	}
	for i := 1; i < len(ranked); i++ {
		if *ranked[i-1].Scores.Overall < *ranked[i].Scores.Overall {
			t.Errorf("overall not descending at %d", i)
		}
	}
}

func TestRankAndEnrichStableOnTies(t *testing.T) {
	s := fixedScorer()

	a := benchModel("tie-a", 50, 40, 1)
	b := benchModel("tie-b", 50, 40, 1)

	ranked := s.RankAndEnrich([]model.BenchmarkModel{a, b})
	if len(ranked) != 2 {
		t.Fatalf("ranked %d models, want 2", len(ranked))
	}
	if ranked[0].Slug != "tie-a" || ranked[1].Slug != "tie-b" {
		t.Errorf("tie order changed: %q, %q", ranked[0].Slug, ranked[1].Slug)
	}
}

func TestIntelligenceScoreFormula(t *testing.T) {
	s := fixedScorer()

	m := benchModel("m", 60, 30, 1)
	ranked := s.RankAndEnrich([]model.BenchmarkModel{m})
	if len(ranked) != 1 {
		t.Fatal("expected one ranked model")
	}
	got := ranked[0].Scores.Intelligence
	if got == nil || *got != 2*60+30 {
		t.Errorf("intelligence = %v, want 150", got)
	}
}

func TestIntelligenceNilWhenEitherIndexMissing(t *testing.T) {
	s := fixedScorer()

	m := benchModel("m", 60, 30, 1)
	delete(m.Evaluations, CodingIndexKey)
	ranked := s.RankAndEnrich([]model.BenchmarkModel{m})
	if len(ranked) != 1 {
		t.Fatal("model should still rank on remaining terms")
	}
	if ranked[0].Scores.Intelligence != nil {
		t.Errorf("intelligence = %v, want nil", *ranked[0].Scores.Intelligence)
	}
	if ranked[0].Scores.Overall == nil {
		t.Error("overall should renormalize over the remaining terms")
	}
}

func TestBenchmarkBiasIgnoresNonPositive(t *testing.T) {
	s := fixedScorer()

	m := benchModel("m", 60, 30, 1)
	m.Evaluations["hle"] = fptr(0.4)
	m.Evaluations["scicode"] = fptr(0.6)
	m.Evaluations["ifbench"] = fptr(0)   // excluded
	m.Evaluations["lcr"] = fptr(-1)      // excluded

	ranked := s.RankAndEnrich([]model.BenchmarkModel{m})
	got := ranked[0].Scores.BenchmarkBias
	if got == nil || math.Abs(*got-0.5) > 1e-12 {
		t.Errorf("benchmark bias = %v, want 0.5", got)
	}
}

func TestPriceAndSpeedScores(t *testing.T) {
	s := fixedScorer()

	m := benchModel("m", 60, 30, 2.0)
	ranked := s.RankAndEnrich([]model.BenchmarkModel{m})
	scores := ranked[0].Scores

	wantPrice := -math.Log(2.0)
	if scores.Price == nil || math.Abs(*scores.Price-wantPrice) > 1e-12 {
		t.Errorf("price = %v, want %v", scores.Price, wantPrice)
	}
	wantSpeed := (-math.Log(0.5) + math.Log(100)) / 2
	if scores.Speed == nil || math.Abs(*scores.Speed-wantSpeed) > 1e-12 {
		t.Errorf("speed = %v, want %v", scores.Speed, wantSpeed)
	}
}

func TestPercentilesSpanPopulation(t *testing.T) {
	s := fixedScorer()

	models := []model.BenchmarkModel{
		benchModel("a", 80, 70, 1),
		benchModel("b", 50, 40, 1),
		benchModel("c", 20, 10, 1),
	}

	ranked := s.RankAndEnrich(models)
	if len(ranked) != 3 {
		t.Fatalf("ranked %d, want 3", len(ranked))
	}

	// Top model includes itself and everything below: always 100.
	if p := ranked[0].Percentiles.Overall; p == nil || *p != 100 {
		t.Errorf("top percentile = %v, want 100", p)
	}
	// Bottom model includes only itself.
	if p := ranked[2].Percentiles.Overall; p == nil || math.Abs(*p-100.0/3) > 1e-9 {
		t.Errorf("bottom percentile = %v, want 33.33", p)
	}
	for _, m := range ranked {
		for name, p := range map[string]*float64{
			"overall":      m.Percentiles.Overall,
			"intelligence": m.Percentiles.Intelligence,
			"speed":        m.Percentiles.Speed,
			"price":        m.Percentiles.Price,
		} {
			if p != nil && (*p < 0 || *p > 100) {
				t.Errorf("%s percentile %v outside [0, 100] for %s", name, *p, m.Slug)
			}
		}
	}
}

func TestWeightedMeanRenormalizes(t *testing.T) {
	got := weightedMean([]weighted{
		{fptr(10), 0.3},
		{nil, 0.3},
		{fptr(20), 0.2},
	})
	// (10*0.3 + 20*0.2) / 0.5 = 14
	if got == nil || math.Abs(*got-14) > 1e-12 {
		t.Errorf("weightedMean = %v, want 14", got)
	}

	if weightedMean([]weighted{{nil, 0.5}, {fptr(math.NaN()), 0.5}}) != nil {
		t.Error("weightedMean with no finite terms should be nil")
	}
}

func TestPercentileRankSkipsNonFinitePopulation(t *testing.T) {
	population := []*float64{fptr(1), fptr(2), fptr(math.Inf(1)), nil, fptr(3)}
	got := percentileRank(population, fptr(2))
	if got == nil || math.Abs(*got-2.0/3*100) > 1e-9 {
		t.Errorf("percentileRank = %v, want 66.67", got)
	}
}
