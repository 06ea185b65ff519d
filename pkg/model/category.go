package model

import "strings"

// Category is the display accent of an outcome headline. It never affects
// navigation or data.
type Category int

const (
	CategoryNeutral Category = iota
	CategoryPositive
	CategoryNegative
	CategoryWarning
)

// Phrases that select a category. Authored outcome strings are written to
// trigger these exactly, so matching is case-sensitive.
const (
	PhraseJackpot     = "Jackpot!"
	PhraseGoldilocks  = "smart 'Goldilocks' move!"
	PhraseLoss        = "Coverage loss!"
	PhraseRiskOfLoss  = "Risk of losing coverage"
	PhraseCoverageGap = "Gap in coverage!"
)

// Classify maps a result headline to its category. Precedence is positive,
// negative, warning, then neutral; the first match wins.
func Classify(result string) Category {
	switch {
	case strings.Contains(result, PhraseJackpot), strings.Contains(result, PhraseGoldilocks):
		return CategoryPositive
	case strings.Contains(result, PhraseLoss), strings.Contains(result, PhraseRiskOfLoss):
		return CategoryNegative
	case strings.Contains(result, PhraseCoverageGap):
		return CategoryWarning
	default:
		return CategoryNeutral
	}
}

// String returns the lowercase category name.
func (c Category) String() string {
	switch c {
	case CategoryPositive:
		return "positive"
	case CategoryNegative:
		return "negative"
	case CategoryWarning:
		return "warning"
	default:
		return "neutral"
	}
}

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{CategoryPositive, CategoryNeutral, CategoryWarning, CategoryNegative}
}
