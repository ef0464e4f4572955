// Package score derives per-model scores and percentile ranks for the
// benchmark catalog. All weights and key sets are empirically tuned
// heuristics exposed through Config rather than buried as literals.
package score

import (
	"math"
	"sort"
	"time"

	"github.com/everstacklabs/modelrank/internal/model"
)

// Evaluation keys read from the benchmark catalog.
const (
	IntelligenceIndexKey = "artificial_analysis_intelligence_index"
	CodingIndexKey       = "artificial_analysis_coding_index"
)

// Config holds the scoring constants.
type Config struct {
	LookbackDays int

	// BenchmarkKeys are the named benchmark scores averaged into the
	// benchmark-bias score; non-positive and missing entries are ignored.
	BenchmarkKeys []string

	IntelligenceWeight  float64
	BenchmarkBiasWeight float64
	PriceWeight         float64
	SpeedWeight         float64
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		LookbackDays:        365,
		BenchmarkKeys:       []string{"hle", "terminalbench_hard", "lcr", "ifbench", "scicode"},
		IntelligenceWeight:  0.3,
		BenchmarkBiasWeight: 0.3,
		PriceWeight:         0.2,
		SpeedWeight:         0.2,
	}
}

// Scorer filters, scores, ranks, and enriches benchmark models.
type Scorer struct {
	cfg Config
	now func() time.Time
}

// New creates a Scorer.
func New(cfg Config) *Scorer {
	return &Scorer{cfg: cfg, now: time.Now}
}

// RankAndEnrich runs the full scoring pass: eligibility filter, partial and
// overall scores, stable descending sort by overall, then percentile ranks
// within the ranked population. Models without a finite overall score are
// dropped from the ranked output.
func (s *Scorer) RankAndEnrich(models []model.BenchmarkModel) []model.ScoredModel {
	cutoff := s.now().UTC().AddDate(0, 0, -s.cfg.LookbackDays).Format("2006-01-02")

	var scored []model.ScoredModel
	for _, m := range models {
		if !s.eligible(m, cutoff) {
			continue
		}
		scored = append(scored, model.ScoredModel{
			BenchmarkModel: m,
			Scores:         s.computeScores(m),
		})
	}

	ranked := scored[:0:0]
	for _, m := range scored {
		if finitePtr(m.Scores.Overall) != nil {
			ranked = append(ranked, m)
		}
	}

	// Ties keep fetch order; the sort is stable on purpose.
	sort.SliceStable(ranked, func(i, j int) bool {
		return *ranked[i].Scores.Overall > *ranked[j].Scores.Overall
	})

	overall := make([]*float64, len(ranked))
	intelligence := make([]*float64, len(ranked))
	speed := make([]*float64, len(ranked))
	price := make([]*float64, len(ranked))
	for i, m := range ranked {
		overall[i] = m.Scores.Overall
		intelligence[i] = m.Scores.Intelligence
		speed[i] = m.Scores.Speed
		price[i] = m.Scores.Price
	}

	for i := range ranked {
		ranked[i].Percentiles = model.PercentileSet{
			Overall:      percentileRank(overall, ranked[i].Scores.Overall),
			Intelligence: percentileRank(intelligence, ranked[i].Scores.Intelligence),
			Speed:        percentileRank(speed, ranked[i].Scores.Speed),
			Price:        percentileRank(price, ranked[i].Scores.Price),
		}
	}
	return ranked
}

// eligible requires a release date within the lookback window and strictly
// positive pricing and speed metrics across the board.
func (s *Scorer) eligible(m model.BenchmarkModel, cutoff string) bool {
	if m.ReleaseDate == "" || m.ReleaseDate < cutoff {
		return false
	}
	if m.Pricing == nil {
		return false
	}
	return positiveFinite(m.Pricing.Blended3To1) &&
		positiveFinite(m.Pricing.InputTokens) &&
		positiveFinite(m.Pricing.OutputTokens) &&
		positiveFinite(m.MedianTimeToFirstAnswerToken) &&
		positiveFinite(m.MedianOutputTokensPerSecond)
}

func (s *Scorer) computeScores(m model.BenchmarkModel) model.ScoreSet {
	intelligenceIdx := finitePtr(m.Evaluations[IntelligenceIndexKey])
	codingIdx := finitePtr(m.Evaluations[CodingIndexKey])

	var intelligence *float64
	if intelligenceIdx != nil && codingIdx != nil {
		intelligence = ptr(2**intelligenceIdx + *codingIdx)
	}

	var biasValues []*float64
	for _, key := range s.cfg.BenchmarkKeys {
		if v := m.Evaluations[key]; positiveFinite(v) {
			biasValues = append(biasValues, v)
		}
	}
	benchmarkBias := mean(biasValues)

	price := negLog(m.Pricing.Blended3To1)
	speed := mean([]*float64{
		negLog(m.MedianTimeToFirstAnswerToken),
		posLog(m.MedianOutputTokensPerSecond),
	})

	overall := weightedMean([]weighted{
		{intelligence, s.cfg.IntelligenceWeight},
		{benchmarkBias, s.cfg.BenchmarkBiasWeight},
		{price, s.cfg.PriceWeight},
		{speed, s.cfg.SpeedWeight},
	})

	return model.ScoreSet{
		Overall:       overall,
		Intelligence:  intelligence,
		BenchmarkBias: benchmarkBias,
		Price:         price,
		Speed:         speed,
	}
}

type weighted struct {
	value  *float64
	weight float64
}

// weightedMean averages the present terms, renormalizing over their
// weights. Nil if no term is present.
func weightedMean(pairs []weighted) *float64 {
	var sum, weightSum float64
	for _, p := range pairs {
		v := finitePtr(p.value)
		if v == nil || p.weight <= 0 || math.IsInf(p.weight, 0) || math.IsNaN(p.weight) {
			continue
		}
		sum += *v * p.weight
		weightSum += p.weight
	}
	if weightSum == 0 {
		return nil
	}
	return ptr(sum / weightSum)
}

func mean(values []*float64) *float64 {
	var sum float64
	count := 0
	for _, v := range values {
		if f := finitePtr(v); f != nil {
			sum += *f
			count++
		}
	}
	if count == 0 {
		return nil
	}
	return ptr(sum / float64(count))
}

// percentileRank is (count of population values <= value) / population size
// * 100, over finite population values only. Nil when the model's own value
// is nil or the population is empty.
func percentileRank(population []*float64, value *float64) *float64 {
	v := finitePtr(value)
	if v == nil {
		return nil
	}
	total, lessOrEqual := 0, 0
	for _, p := range population {
		f := finitePtr(p)
		if f == nil {
			continue
		}
		total++
		if *f <= *v {
			lessOrEqual++
		}
	}
	if total == 0 {
		return nil
	}
	return ptr(float64(lessOrEqual) / float64(total) * 100)
}

// negLog is -ln(v) for positive finite v, nil otherwise.
func negLog(v *float64) *float64 {
	if !positiveFinite(v) {
		return nil
	}
	return ptr(-math.Log(*v))
}

// posLog is ln(v) for positive finite v, nil otherwise.
func posLog(v *float64) *float64 {
	if !positiveFinite(v) {
		return nil
	}
	return ptr(math.Log(*v))
}

func positiveFinite(v *float64) bool {
	f := finitePtr(v)
	return f != nil && *f > 0
}

func finitePtr(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return v
}

func ptr(v float64) *float64 { return &v }
