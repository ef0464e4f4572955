package stats

import (
	"fmt"
	"strings"

	"github.com/everstacklabs/modelrank/internal/model"
)

// mergeUnion builds the union record with an explicit precedence table:
//
//	registry (base): id, attachment, reasoning, temperature, tool_call,
//	                 knowledge, last_updated, open_weights, modalities,
//	                 cost, limit
//	benchmark (overrides): slug, release_date, model_creator, evaluations,
//	                 pricing, median_* speed fields, scores, percentiles
//	name: registry display name when a match exists, else benchmark name
func mergeUnion(bench model.ScoredModel, matched *model.RegistryRow) model.UnionModel {
	u := model.UnionModel{
		Name:                         bench.Name,
		Slug:                         bench.Slug,
		ReleaseDate:                  bench.ReleaseDate,
		Creator:                      bench.Creator,
		Evaluations:                  bench.Evaluations,
		Pricing:                      bench.Pricing,
		MedianOutputTokensPerSecond:  bench.MedianOutputTokensPerSecond,
		MedianTimeToFirstAnswerToken: bench.MedianTimeToFirstAnswerToken,
		Scores:                       bench.Scores,
		Percentiles:                  bench.Percentiles,
	}
	if matched == nil {
		return u
	}

	reg := matched.Model
	u.ID = matched.ModelID
	u.Attachment = reg.Attachment
	u.Reasoning = reg.Reasoning
	u.Temperature = reg.Temperature
	u.ToolCall = reg.ToolCall
	u.Knowledge = reg.Knowledge
	u.LastUpdated = reg.LastUpdated
	u.OpenWeights = reg.OpenWeights
	u.Modalities = reg.Modalities
	u.Cost = reg.Cost
	u.Limit = reg.Limit

	if reg.Name != "" {
		u.Name = reg.Name
	}
	if u.ReleaseDate == "" {
		u.ReleaseDate = reg.ReleaseDate
	}
	return u
}

// projectSelected maps a union record into the externally-consumed
// flattened shape.
func projectSelected(u model.UnionModel) model.SelectedModel {
	provider := providerFromID(u.ID)
	return model.SelectedModel{
		ID:          u.ID,
		Name:        u.Name,
		Provider:    provider,
		Logo:        buildLogo(u, provider),
		Attachment:  u.Attachment,
		Reasoning:   u.Reasoning,
		ReleaseDate: u.ReleaseDate,
		Modalities:  u.Modalities,
		OpenWeights: u.OpenWeights,
		Cost:        u.Cost,
		ContextWindow: u.Limit,
		Speed: model.Speed{
			MedianOutputTokensPerSecond:  u.MedianOutputTokensPerSecond,
			MedianTimeToFirstAnswerToken: u.MedianTimeToFirstAnswerToken,
		},
		Evaluations: u.Evaluations,
		Scores:      &u.Scores,
		Percentiles: &u.Percentiles,
	}
}

// providerFromID derives the provider by splitting the identifier on its
// first slash. Empty when the id has no provider part.
func providerFromID(id string) string {
	idx := strings.Index(id, "/")
	if idx <= 0 {
		return ""
	}
	return id[:idx]
}

// buildLogo prefers the benchmark-source creator logo, falling back to the
// registry-provider logo URL.
func buildLogo(u model.UnionModel, provider string) string {
	if u.Creator != nil && u.Creator.Slug != "" {
		return fmt.Sprintf("https://artificialanalysis.ai/img/logos/%s_small.svg", u.Creator.Slug)
	}
	if provider == "" {
		provider = "unknown"
	}
	return fmt.Sprintf("https://models.dev/logos/%s.svg", provider)
}
