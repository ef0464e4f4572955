package stats

import (
	"testing"

	"github.com/everstacklabs/modelrank/internal/model"
)

func TestMergeUnionPrecedence(t *testing.T) {
	bench := model.ScoredModel{
		BenchmarkModel: model.BenchmarkModel{
			Slug:        "grok-4-fast",
			Name:        "Grok 4 Fast (AA)",
			ReleaseDate: "2025-09-19",
			Creator:     &model.Creator{Slug: "xai"},
			Pricing:     &model.Pricing{Blended3To1: fptr(0.55)},
		},
		Scores: model.ScoreSet{Overall: fptr(5.5)},
	}
	row := grokRegistryRow()
	// Registry disagrees on release date; the benchmark value wins.
	row.Model.ReleaseDate = "2025-01-01"

	u := mergeUnion(bench, &row)

	if u.ID != "x-ai/grok-4-fast" {
		t.Errorf("id = %q, want the matched registry id", u.ID)
	}
	if u.Name != "Grok 4 Fast" {
		t.Errorf("name = %q, want registry display name", u.Name)
	}
	if u.ReleaseDate != "2025-09-19" {
		t.Errorf("release date = %q, want benchmark value", u.ReleaseDate)
	}
	if u.Cost == nil || *u.Cost.Input != 0.2 {
		t.Error("registry cost should form the union base")
	}
	if u.Pricing == nil || *u.Pricing.Blended3To1 != 0.55 {
		t.Error("benchmark pricing should override")
	}
	if u.Scores.Overall == nil || *u.Scores.Overall != 5.5 {
		t.Error("derived scores should carry through")
	}
}

func TestMergeUnionReleaseDateFallsBackToRegistry(t *testing.T) {
	bench := model.ScoredModel{
		BenchmarkModel: model.BenchmarkModel{Slug: "grok-4-fast"},
	}
	row := grokRegistryRow()
	row.Model.ReleaseDate = "2025-01-01"

	u := mergeUnion(bench, &row)
	if u.ReleaseDate != "2025-01-01" {
		t.Errorf("release date = %q, want registry fallback", u.ReleaseDate)
	}
}

func TestMergeUnionWithoutMatch(t *testing.T) {
	bench := model.ScoredModel{
		BenchmarkModel: model.BenchmarkModel{Slug: "grok-4-fast", Name: "Grok 4 Fast (AA)"},
	}

	u := mergeUnion(bench, nil)
	if u.ID != "" {
		t.Errorf("id = %q, want empty without a match", u.ID)
	}
	if u.Name != "Grok 4 Fast (AA)" {
		t.Errorf("name = %q, want benchmark name without a match", u.Name)
	}
}

func TestProviderFromID(t *testing.T) {
	cases := []struct {
		id   string
		want string
	}{
		{"x-ai/grok-4-fast", "x-ai"},
		{"grok-4-fast", ""},
		{"/leading-slash", ""},
		{"", ""},
		{"a/b/c", "a"},
	}
	for _, tc := range cases {
		if got := providerFromID(tc.id); got != tc.want {
			t.Errorf("providerFromID(%q) = %q, want %q", tc.id, got, tc.want)
		}
	}
}

func TestBuildLogoPrefersCreatorSlug(t *testing.T) {
	u := model.UnionModel{Creator: &model.Creator{Slug: "xai"}}
	if got := buildLogo(u, "x-ai"); got != "https://artificialanalysis.ai/img/logos/xai_small.svg" {
		t.Errorf("logo = %q", got)
	}
}

func TestBuildLogoFallsBackToProvider(t *testing.T) {
	u := model.UnionModel{}
	if got := buildLogo(u, "x-ai"); got != "https://models.dev/logos/x-ai.svg" {
		t.Errorf("logo = %q", got)
	}
	if got := buildLogo(u, ""); got != "https://models.dev/logos/unknown.svg" {
		t.Errorf("logo = %q, want unknown fallback", got)
	}
}

func TestProjectSelectedFlattens(t *testing.T) {
	u := model.UnionModel{
		ID:                           "x-ai/grok-4-fast",
		Name:                         "Grok 4 Fast",
		Reasoning:                    bptr(true),
		Limit:                        &model.RegistryLimit{Context: iptr(2_000_000)},
		MedianOutputTokensPerSecond:  fptr(150),
		MedianTimeToFirstAnswerToken: fptr(0.4),
		Scores:                       model.ScoreSet{Overall: fptr(5.5)},
		Percentiles:                  model.PercentileSet{Overall: fptr(100)},
	}

	sel := projectSelected(u)
	if sel.Provider != "x-ai" {
		t.Errorf("provider = %q", sel.Provider)
	}
	if sel.ContextWindow == nil || *sel.ContextWindow.Context != 2_000_000 {
		t.Error("context window should come from the registry limit")
	}
	if sel.Speed.MedianTimeToFirstAnswerToken == nil || *sel.Speed.MedianTimeToFirstAnswerToken != 0.4 {
		t.Error("speed should group the benchmark medians")
	}
	if sel.Scores == nil || *sel.Scores.Overall != 5.5 {
		t.Error("scores should flatten into the projection")
	}
	if sel.Percentiles == nil || *sel.Percentiles.Overall != 100 {
		t.Error("percentiles should flatten into the projection")
	}
}
