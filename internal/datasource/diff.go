package datasource

import (
	"fmt"
	"sort"

	"github.com/vanderheijden86/medadventure/pkg/model"
)

// SourceDiff represents differences between two catalog sources
type SourceDiff struct {
	// SourceA is the description of the first source
	SourceA string
	// SourceB is the description of the second source
	SourceB string
	// MissingInA contains scenario IDs present in B but not in A
	MissingInA []int
	// MissingInB contains scenario IDs present in A but not in B
	MissingInB []int
	// ResultMismatch lists choices whose outcome headline differs
	ResultMismatch []ResultDifference
	// OrderDiffers is set when shared scenarios appear in a different order
	OrderDiffers bool
	// CountA is the number of scenarios in source A
	CountA int
	// CountB is the number of scenarios in source B
	CountB int
}

// ResultDifference represents an outcome mismatch for a single choice
type ResultDifference struct {
	ScenarioID int    `json:"scenario_id"`
	ChoiceID   int    `json:"choice_id"`
	ResultA    string `json:"result_a"`
	ResultB    string `json:"result_b"`
}

// HasInconsistencies returns true if there are any differences between sources
func (d SourceDiff) HasInconsistencies() bool {
	return len(d.MissingInA) > 0 || len(d.MissingInB) > 0 || len(d.ResultMismatch) > 0 || d.OrderDiffers
}

// Summary returns a human-readable summary of the differences
func (d SourceDiff) Summary() string {
	if !d.HasInconsistencies() {
		return fmt.Sprintf("Sources match (%d scenarios each)", d.CountA)
	}

	summary := fmt.Sprintf("Inconsistencies found between %s and %s:\n", d.SourceA, d.SourceB)
	if d.CountA != d.CountB {
		summary += fmt.Sprintf("  - Count mismatch: %d vs %d\n", d.CountA, d.CountB)
	}
	if len(d.MissingInA) > 0 {
		summary += fmt.Sprintf("  - scenarios %v in %s but not %s\n", d.MissingInA, d.SourceB, d.SourceA)
	}
	if len(d.MissingInB) > 0 {
		summary += fmt.Sprintf("  - scenarios %v in %s but not %s\n", d.MissingInB, d.SourceA, d.SourceB)
	}
	if d.OrderDiffers {
		summary += "  - scenario order differs\n"
	}
	for _, m := range d.ResultMismatch {
		summary += fmt.Sprintf("  - scenario %d choice %d: %q vs %q\n", m.ScenarioID, m.ChoiceID, m.ResultA, m.ResultB)
	}
	return summary
}

// DetectInconsistencies compares two scenario lists.
func DetectInconsistencies(a, b []model.Scenario, sourceA, sourceB string) SourceDiff {
	diff := SourceDiff{
		SourceA: sourceA,
		SourceB: sourceB,
		CountA:  len(a),
		CountB:  len(b),
	}

	mapA := make(map[int]model.Scenario, len(a))
	for _, s := range a {
		mapA[s.ID] = s
	}
	mapB := make(map[int]model.Scenario, len(b))
	for _, s := range b {
		mapB[s.ID] = s
	}

	var sharedA []int
	for _, s := range a {
		if _, ok := mapB[s.ID]; !ok {
			diff.MissingInB = append(diff.MissingInB, s.ID)
			continue
		}
		sharedA = append(sharedA, s.ID)
	}
	var sharedB []int
	for _, s := range b {
		if _, ok := mapA[s.ID]; !ok {
			diff.MissingInA = append(diff.MissingInA, s.ID)
			continue
		}
		sharedB = append(sharedB, s.ID)
	}
	for i := range sharedA {
		if sharedA[i] != sharedB[i] {
			diff.OrderDiffers = true
			break
		}
	}

	for _, id := range sharedA {
		sa, sb := mapA[id], mapB[id]
		for _, ca := range sa.Choices {
			cb, ok := sb.Choice(ca.ID)
			if !ok || cb.Outcome.Result == ca.Outcome.Result {
				continue
			}
			diff.ResultMismatch = append(diff.ResultMismatch, ResultDifference{
				ScenarioID: id,
				ChoiceID:   ca.ID,
				ResultA:    ca.Outcome.Result,
				ResultB:    cb.Outcome.Result,
			})
		}
	}
	sort.Ints(diff.MissingInA)
	sort.Ints(diff.MissingInB)
	return diff
}

// CompareSources loads and compares two data sources
func CompareSources(sourceA, sourceB DataSource) (*SourceDiff, error) {
	catA, err := LoadFromSource(sourceA)
	if err != nil {
		return nil, fmt.Errorf("failed to load source A (%s): %w", sourceA, err)
	}
	catB, err := LoadFromSource(sourceB)
	if err != nil {
		return nil, fmt.Errorf("failed to load source B (%s): %w", sourceB, err)
	}
	diff := DetectInconsistencies(catA.Scenarios(), catB.Scenarios(), sourceA.String(), sourceB.String())
	return &diff, nil
}

// CheckAllSourcesConsistent compares every pair of valid sources and returns
// the diffs that found something.
func CheckAllSourcesConsistent(sources []DataSource) []SourceDiff {
	var diffs []SourceDiff
	for i := 0; i < len(sources); i++ {
		if !sources[i].Valid {
			continue
		}
		for j := i + 1; j < len(sources); j++ {
			if !sources[j].Valid {
				continue
			}
			diff, err := CompareSources(sources[i], sources[j])
			if err != nil {
				continue
			}
			if diff.HasInconsistencies() {
				diffs = append(diffs, *diff)
			}
		}
	}
	return diffs
}
