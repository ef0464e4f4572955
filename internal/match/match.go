// Package match cross-matches benchmark-catalog models against registry
// models by identity, using multi-heuristic token similarity with
// tie-breaking and a population-relative confidence cutoff.
package match

import (
	"sort"

	"github.com/everstacklabs/modelrank/internal/model"
)

// VoidMode names the confidence-cutoff strategy in output payloads.
const VoidMode = "maxmin_half"

// Config holds the matcher's tuned constants. Magnitudes are empirical
// heuristics; override them via config rather than editing literals.
type Config struct {
	// ProviderScope is the single registry namespace candidates come from.
	ProviderScope string
	// MaxCandidates bounds the candidate list in mapping output.
	MaxCandidates int

	// TokenPrefixWeights award per-position points for identical leading
	// tokens, stopping at the first mismatch.
	TokenPrefixWeights    []float64
	TokenPrefixMultiplier float64

	NumericExactReward    float64
	NumericClosenessScale float64
	NumericAllEqualReward float64

	VariantSuffixReward float64

	CoverageExactReward        float64
	CoverageMissingBasePenalty float64

	BScaleExactReward     float64
	BScaleMismatchPenalty float64
	BScaleMissingPenalty  float64

	ActiveBExactReward     float64
	ActiveBMismatchPenalty float64

	CharPrefixRewardScale float64
	LengthGapPenaltyScale float64

	// VoidThresholdRatio positions the cutoff inside the [min, max] range
	// of best-match scores. Observed in the wild as both ~0.35 and ~0.5;
	// 0.35 is the shipped default.
	VoidThresholdRatio float64

	// TagTokens are capability/variant tags excluded from scoring tokens.
	TagTokens []string
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		ProviderScope:              "openrouter",
		MaxCandidates:              5,
		TokenPrefixWeights:         []float64{5, 4, 3, 2, 1},
		TokenPrefixMultiplier:      2,
		NumericExactReward:         2,
		NumericClosenessScale:      0.1,
		NumericAllEqualReward:      0.2,
		VariantSuffixReward:        2,
		CoverageExactReward:        4,
		CoverageMissingBasePenalty: 1,
		BScaleExactReward:          3,
		BScaleMismatchPenalty:      4,
		BScaleMissingPenalty:       2,
		ActiveBExactReward:         2,
		ActiveBMismatchPenalty:     2,
		CharPrefixRewardScale:      0.03,
		LengthGapPenaltyScale:      0.005,
		VoidThresholdRatio:         0.35,
		TagTokens: []string{
			"free", "extended", "exacto", "instruct", "vl",
			"thinking", "reasoning", "online", "nitro",
		},
	}
}

// Matcher scores registry candidates for benchmark slugs. Scoring is pure
// over immutable inputs; a Matcher is safe for concurrent use.
type Matcher struct {
	cfg       Config
	tagTokens map[string]struct{}
}

// New creates a Matcher.
func New(cfg Config) *Matcher {
	tags := make(map[string]struct{}, len(cfg.TagTokens))
	for _, t := range cfg.TagTokens {
		tags[t] = struct{}{}
	}
	return &Matcher{cfg: cfg, tagTokens: tags}
}

// Config returns the matcher configuration.
func (m *Matcher) Config() Config { return m.cfg }

// ScopeRows filters registry rows to the configured provider namespace.
func (m *Matcher) ScopeRows(rows []model.RegistryRow) []model.RegistryRow {
	var scoped []model.RegistryRow
	for _, row := range rows {
		if row.ProviderID == m.cfg.ProviderScope {
			scoped = append(scoped, row)
		}
	}
	return scoped
}

// CollectCandidates gates, scores, and orders registry candidates for one
// benchmark slug. Candidates failing the first-token gate are never scored;
// candidates with non-positive scores are discarded. The result is sorted
// descending by score, ties broken by ascending model id.
func (m *Matcher) CollectCandidates(slug string, rows []model.RegistryRow) []model.MatchCandidate {
	if slug == "" {
		return nil
	}
	var candidates []model.MatchCandidate
	for _, row := range rows {
		name := row.Model.Name
		if !m.firstTokenMatch(slug, row.ModelID, name) {
			continue
		}
		score := m.scoreCandidate(slug, row.ModelID, name)
		if score <= 0 {
			continue
		}
		candidates = append(candidates, model.MatchCandidate{
			ModelID:      row.ModelID,
			ProviderID:   row.ProviderID,
			ProviderName: row.ProviderName,
			ModelName:    name,
			Score:        score,
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].ModelID < candidates[j].ModelID
	})
	return candidates
}

// firstTokenMatch is the hard candidate gate: the slug's first token must
// equal the first token of the id tail or of the display name.
func (m *Matcher) firstTokenMatch(slug, modelID, modelName string) bool {
	slugTokens := m.splitTokens(slug)
	if len(slugTokens) == 0 {
		return false
	}
	first := slugTokens[0]
	baseTokens := m.splitTokens(baseModelID(modelID))
	if len(baseTokens) > 0 && baseTokens[0] == first {
		return true
	}
	nameTokens := m.splitTokens(modelName)
	return len(nameTokens) > 0 && nameTokens[0] == first
}

func (m *Matcher) scoreCandidate(slug, modelID, modelName string) float64 {
	normalizedSlug := normalize(slug)
	normalizedBase := normalize(baseModelID(modelID))
	normalizedName := normalize(modelName)

	prefixBase := commonPrefixLength(normalizedSlug, normalizedBase)
	prefixName := commonPrefixLength(normalizedSlug, normalizedName)
	maxPrefix := max(prefixBase, prefixName)
	if maxPrefix == 0 {
		return 0
	}
	if m.hasHardBScaleMismatch(slug, modelID, modelName) {
		return 0
	}

	slugTokens := m.splitTokens(slug)
	baseTokens := m.splitTokens(baseModelID(modelID))
	nameTokens := m.splitTokens(modelName)

	tokenScore := max(
		m.weightedTokenPrefixScore(slugTokens, baseTokens),
		m.weightedTokenPrefixScore(slugTokens, nameTokens),
	)

	return tokenScore*m.cfg.TokenPrefixMultiplier +
		m.numericMatchReward(slugTokens, baseTokens) +
		m.numericClosenessReward(slugTokens, baseTokens) +
		m.sameVariantReward(slugTokens, baseTokens, nameTokens) +
		m.bScaleRewardOrPenalty(slugTokens, baseTokens, nameTokens) +
		m.activeBRewardOrPenalty(slugTokens, baseTokens, nameTokens) +
		m.coverageRewardOrPenalty(slugTokens, baseTokens, nameTokens) +
		float64(maxPrefix)*m.cfg.CharPrefixRewardScale -
		float64(abs(len(normalizedSlug)-len(normalizedBase)))*m.cfg.LengthGapPenaltyScale
}

// weightedTokenPrefixScore walks aligned tokens from the start, awarding
// the per-position weight while tokens stay identical.
func (m *Matcher) weightedTokenPrefixScore(left, right []string) float64 {
	maxLen := min(len(left), len(right))
	score := 0.0
	for i := 0; i < maxLen; i++ {
		if left[i] != right[i] {
			break
		}
		if i < len(m.cfg.TokenPrefixWeights) {
			score += m.cfg.TokenPrefixWeights[i]
		}
	}
	return score
}

// numericMatchReward rewards the first positionally-aligned pair of numeric
// (or B-scale) tokens being equal; an unequal first pair ends the search.
func (m *Matcher) numericMatchReward(slugTokens, baseTokens []string) float64 {
	maxLen := min(len(slugTokens), len(baseTokens))
	for i := 0; i < maxLen; i++ {
		sv, sok := parseNumericOrBScale(slugTokens[i])
		bv, bok := parseNumericOrBScale(baseTokens[i])
		if sok && bok {
			if sv == bv {
				return m.cfg.NumericExactReward
			}
			return 0
		}
	}
	return 0
}

// numericClosenessReward compares the ordered numeric token sequences. At
// the first differing aligned position it awards a bonus shrinking with the
// gap; if every aligned position is equal it awards the flat all-equal
// bonus instead. A missing counterpart anywhere ends the comparison.
func (m *Matcher) numericClosenessReward(slugTokens, baseTokens []string) float64 {
	slugNums := numericSequence(slugTokens)
	baseNums := numericSequence(baseTokens)
	maxLen := max(len(slugNums), len(baseNums))
	for i := 0; i < maxLen; i++ {
		if i >= len(slugNums) || i >= len(baseNums) {
			return 0
		}
		if slugNums[i] == baseNums[i] {
			continue
		}
		return m.cfg.NumericClosenessScale / float64(1+abs(slugNums[i]-baseNums[i]))
	}
	return m.cfg.NumericAllEqualReward
}

func numericSequence(tokens []string) []int {
	var nums []int
	for _, token := range tokens {
		if v, ok := parseNumericOrBScale(token); ok {
			nums = append(nums, v)
		}
	}
	return nums
}

// sameVariantReward distinguishes same-family variants: a non-numeric slug
// suffix matching either candidate suffix earns the bonus.
func (m *Matcher) sameVariantReward(slugTokens, baseTokens, nameTokens []string) float64 {
	if len(slugTokens) == 0 {
		return 0
	}
	last := slugTokens[len(slugTokens)-1]
	if isNumericToken(last) {
		return 0
	}
	if len(baseTokens) > 0 && baseTokens[len(baseTokens)-1] == last {
		return m.cfg.VariantSuffixReward
	}
	if len(nameTokens) > 0 && nameTokens[len(nameTokens)-1] == last {
		return m.cfg.VariantSuffixReward
	}
	return 0
}

func (m *Matcher) candidateBScale(baseTokens, nameTokens []string) (int, bool) {
	if v, ok := firstParsed(baseTokens, parseBScale); ok {
		return v, true
	}
	return firstParsed(nameTokens, parseBScale)
}

func (m *Matcher) bScaleRewardOrPenalty(slugTokens, baseTokens, nameTokens []string) float64 {
	slugScale, ok := firstParsed(slugTokens, parseBScale)
	if !ok {
		return 0
	}
	candidateScale, ok := m.candidateBScale(baseTokens, nameTokens)
	if !ok {
		return -m.cfg.BScaleMissingPenalty
	}
	if candidateScale == slugScale {
		return m.cfg.BScaleExactReward
	}
	return -m.cfg.BScaleMismatchPenalty
}

// hasHardBScaleMismatch disqualifies candidates whose parameter-count
// shorthand disagrees with the slug's. Both sides must carry one.
func (m *Matcher) hasHardBScaleMismatch(slug, modelID, modelName string) bool {
	slugScale, ok := firstParsed(m.splitTokens(slug), parseBScale)
	if !ok {
		return false
	}
	candidateScale, ok := m.candidateBScale(m.splitTokens(baseModelID(modelID)), m.splitTokens(modelName))
	if !ok {
		return false
	}
	return candidateScale != slugScale
}

func (m *Matcher) activeBRewardOrPenalty(slugTokens, baseTokens, nameTokens []string) float64 {
	slugActive, ok := firstParsed(slugTokens, parseActiveB)
	if !ok {
		return 0
	}
	candidateActive, ok := firstParsed(baseTokens, parseActiveB)
	if !ok {
		candidateActive, ok = firstParsed(nameTokens, parseActiveB)
	}
	if !ok {
		return 0
	}
	if candidateActive == slugActive {
		return m.cfg.ActiveBExactReward
	}
	return -m.cfg.ActiveBMismatchPenalty
}

// coverageRewardOrPenalty compares token sets: missing slug tokens are
// penalized per token, an exact set match earns the flat reward. The better
// of the id-tail and display-name sets wins.
func (m *Matcher) coverageRewardOrPenalty(slugTokens, baseTokens, nameTokens []string) float64 {
	slugSet := toSet(slugTokens)
	if len(slugSet) == 0 {
		return 0
	}
	compare := func(candidate map[string]struct{}) float64 {
		missing := 0
		for token := range slugSet {
			if _, ok := candidate[token]; !ok {
				missing++
			}
		}
		if missing > 0 {
			return -m.cfg.CoverageMissingBasePenalty - float64(missing)
		}
		if len(candidate) == len(slugSet) {
			return m.cfg.CoverageExactReward
		}
		return 0
	}
	return max(compare(toSet(baseTokens)), compare(toSet(nameTokens)))
}

// VoidThreshold computes the population-relative confidence cutoff over
// best-match scores: min + (max-min) * ratio. Nil when there are fewer than
// two distinct scores, in which case no voiding occurs.
func (m *Matcher) VoidThreshold(scores []float64) *float64 {
	if len(scores) == 0 {
		return nil
	}
	minScore, maxScore := scores[0], scores[0]
	for _, s := range scores[1:] {
		if s < minScore {
			minScore = s
		}
		if s > maxScore {
			maxScore = s
		}
	}
	if minScore == maxScore {
		return nil
	}
	threshold := minScore + (maxScore-minScore)*m.cfg.VoidThresholdRatio
	return &threshold
}

func toSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
