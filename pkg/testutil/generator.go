// Package testutil provides scenario fixtures, rapid generators and
// assertions shared by package tests. Fixture generators are deterministic
// for a given seed.
package testutil

import (
	"fmt"
	"math/rand"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/medadventure/pkg/catalog"
	"github.com/vanderheijden86/medadventure/pkg/model"
)

// Result headlines that land in each outcome category.
var categoryResults = map[model.Category][]string{
	model.CategoryPositive: {"Jackpot! Everything lines up.", "The smart 'Goldilocks' move!"},
	model.CategoryNegative: {"Coverage loss!", "Risk of losing coverage."},
	model.CategoryWarning:  {"Gap in coverage!"},
	model.CategoryNeutral:  {"Safe, but you're paying for redundancy.", "Freedom of choice, but predictability issues."},
}

// ResultFor returns a canned headline that classifies as c.
func ResultFor(c model.Category) string {
	return categoryResults[c][0]
}

// GeneratorConfig controls fixture generation.
type GeneratorConfig struct {
	Seed               int64 // Random seed (0 = 42)
	FirstID            int   // First scenario id (default 1)
	IDStride           int   // Gap between consecutive ids (default 1)
	ChoicesPerScenario int   // Default 3
	TakeawaysPerChoice int   // Default 2
	WithMarkup         bool  // Wrap the first takeaway label in <strong>
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:               42,
		FirstID:            1,
		IDStride:           1,
		ChoicesPerScenario: 3,
		TakeawaysPerChoice: 2,
	}
}

// Generator builds scenario fixtures.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator, filling zero fields from DefaultConfig.
func New(cfg GeneratorConfig) *Generator {
	def := DefaultConfig()
	if cfg.Seed == 0 {
		cfg.Seed = def.Seed
	}
	if cfg.FirstID <= 0 {
		cfg.FirstID = def.FirstID
	}
	if cfg.IDStride <= 0 {
		cfg.IDStride = def.IDStride
	}
	if cfg.ChoicesPerScenario <= 0 {
		cfg.ChoicesPerScenario = def.ChoicesPerScenario
	}
	if cfg.TakeawaysPerChoice < 0 {
		cfg.TakeawaysPerChoice = 0
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

// NewDefault creates a Generator with DefaultConfig.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// Scenarios returns n valid scenarios. Outcome categories are drawn from
// the generator's random source.
func (g *Generator) Scenarios(n int) []model.Scenario {
	cats := model.Categories()
	out := make([]model.Scenario, n)
	for i := range out {
		id := g.cfg.FirstID + i*g.cfg.IDStride
		s := model.Scenario{
			ID:        id,
			Title:     fmt.Sprintf("Scenario %d", id),
			Subtitle:  fmt.Sprintf("Subtitle %d", id),
			Character: fmt.Sprintf("Person%d", id),
			Intro:     fmt.Sprintf("Person%d has a Medicare decision to make.", id),
		}
		for c := 1; c <= g.cfg.ChoicesPerScenario; c++ {
			cat := cats[g.rng.Intn(len(cats))]
			results := categoryResults[cat]
			ch := model.Choice{
				ID:       c,
				Title:    fmt.Sprintf("Choice %d.%d", id, c),
				Subtitle: fmt.Sprintf("Option %d", c),
				Outcome: model.Outcome{
					Result:        results[g.rng.Intn(len(results))],
					Clarification: fmt.Sprintf("Clarification for %d.%d", id, c),
				},
			}
			for k := 1; k <= g.cfg.TakeawaysPerChoice; k++ {
				text := fmt.Sprintf("Takeaway %d.%d.%d", id, c, k)
				if g.cfg.WithMarkup && k == 1 {
					text = "<strong>Label:</strong> " + text
				}
				ch.Outcome.KeyTakeaways = append(ch.Outcome.KeyTakeaways, text)
			}
			s.Choices = append(s.Choices, ch)
		}
		out[i] = s
	}
	return out
}

// Catalog returns a catalog of n generated scenarios.
func (g *Generator) Catalog(n int) *catalog.Catalog {
	return catalog.MustNew(g.Scenarios(n))
}

// QuickCatalog returns n sequentially numbered scenarios with default
// settings.
func QuickCatalog(n int) *catalog.Catalog {
	return NewDefault().Catalog(n)
}

// Single returns a one-scenario catalog.
func Single() *catalog.Catalog {
	return QuickCatalog(1)
}

// WithCategories returns a single scenario whose choices produce the given
// outcome categories, in order.
func WithCategories(id int, cats ...model.Category) model.Scenario {
	s := model.Scenario{ID: id, Title: fmt.Sprintf("Scenario %d", id), Character: "Pat"}
	for i, c := range cats {
		s.Choices = append(s.Choices, model.Choice{
			ID:      i + 1,
			Title:   fmt.Sprintf("Choice %d", i+1),
			Outcome: model.Outcome{Result: ResultFor(c), KeyTakeaways: []string{"takeaway"}},
		})
	}
	return s
}

// --- rapid generators ------------------------------------------------------

// ChoiceGen draws a valid choice with the given id.
func ChoiceGen(id int) *rapid.Generator[model.Choice] {
	return rapid.Custom(func(t *rapid.T) model.Choice {
		cat := rapid.SampledFrom(model.Categories()).Draw(t, "category")
		return model.Choice{
			ID:    id,
			Title: rapid.StringMatching(`[A-Z][a-z ]{2,20}`).Draw(t, "title"),
			Outcome: model.Outcome{
				Result:       rapid.SampledFrom(categoryResults[cat]).Draw(t, "result"),
				KeyTakeaways: rapid.SliceOfN(rapid.StringMatching(`[a-z ]{1,30}`), 0, 5).Draw(t, "takeaways"),
			},
		}
	})
}

// ScenarioGen draws a valid scenario with the given id and 1-5 choices.
func ScenarioGen(id int) *rapid.Generator[model.Scenario] {
	return rapid.Custom(func(t *rapid.T) model.Scenario {
		n := rapid.IntRange(1, 5).Draw(t, "choices")
		s := model.Scenario{
			ID:        id,
			Title:     rapid.StringMatching(`[A-Z][a-z ]{2,20}`).Draw(t, "title"),
			Character: rapid.StringMatching(`[A-Z][a-z]{2,8}`).Draw(t, "character"),
		}
		for c := 1; c <= n; c++ {
			s.Choices = append(s.Choices, ChoiceGen(c).Draw(t, fmt.Sprintf("choice%d", c)))
		}
		return s
	})
}

// CatalogGen draws a catalog of minLen..maxLen scenarios with distinct,
// unordered ids.
func CatalogGen(minLen, maxLen int) *rapid.Generator[*catalog.Catalog] {
	return rapid.Custom(func(t *rapid.T) *catalog.Catalog {
		ids := rapid.SliceOfNDistinct(rapid.IntRange(1, 10_000), minLen, maxLen, rapid.ID[int]).Draw(t, "ids")
		scenarios := make([]model.Scenario, len(ids))
		for i, id := range ids {
			scenarios[i] = ScenarioGen(id).Draw(t, fmt.Sprintf("scenario%d", i))
		}
		return catalog.MustNew(scenarios)
	})
}
