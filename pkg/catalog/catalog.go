// Package catalog holds the ordered, immutable collection of scenarios a
// session navigates. Order is the authored declaration order and drives
// "next scenario" sequencing; ids are never used for arithmetic.
package catalog

import (
	"errors"
	"fmt"

	"github.com/vanderheijden86/medadventure/pkg/model"
)

// Catalog errors.
var (
	ErrEmpty             = errors.New("catalog has no scenarios")
	ErrDuplicateScenario = errors.New("duplicate scenario id")
)

// Catalog is an immutable ordered list of scenarios. The zero value is an
// empty catalog; use New to build one.
type Catalog struct {
	scenarios []model.Scenario
	index     map[int]int // scenario id -> position
}

// New validates the scenarios and returns a catalog holding a deep copy of
// them, so later changes to the input cannot leak in.
func New(scenarios []model.Scenario) (*Catalog, error) {
	if len(scenarios) == 0 {
		return nil, ErrEmpty
	}

	c := &Catalog{
		scenarios: make([]model.Scenario, len(scenarios)),
		index:     make(map[int]int, len(scenarios)),
	}
	for i, s := range scenarios {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("scenario at position %d: %w", i, err)
		}
		if prev, dup := c.index[s.ID]; dup {
			return nil, fmt.Errorf("%w: %d (positions %d and %d)", ErrDuplicateScenario, s.ID, prev, i)
		}
		c.index[s.ID] = i
		c.scenarios[i] = s.Clone()
	}
	return c, nil
}

// MustNew is New for compiled-in data; it panics on invalid input.
func MustNew(scenarios []model.Scenario) *Catalog {
	c, err := New(scenarios)
	if err != nil {
		panic(fmt.Sprintf("catalog: %v", err))
	}
	return c
}

// Len returns the number of scenarios.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.scenarios)
}

// Scenarios returns a copy of all scenarios in catalog order.
func (c *Catalog) Scenarios() []model.Scenario {
	if c == nil {
		return nil
	}
	out := make([]model.Scenario, len(c.scenarios))
	for i, s := range c.scenarios {
		out[i] = s.Clone()
	}
	return out
}

// At returns the scenario at position i.
func (c *Catalog) At(i int) (*model.Scenario, bool) {
	if c == nil || i < 0 || i >= len(c.scenarios) {
		return nil, false
	}
	s := c.scenarios[i].Clone()
	return &s, true
}

// IndexOf returns the catalog position of the scenario id, or -1.
func (c *Catalog) IndexOf(id int) int {
	if c == nil {
		return -1
	}
	if i, ok := c.index[id]; ok {
		return i
	}
	return -1
}

// Find resolves a scenario by id.
func (c *Catalog) Find(id int) (*model.Scenario, bool) {
	return c.At(c.IndexOf(id))
}

// Next returns the scenario one position after id. It reports false for the
// last scenario and for ids not in the catalog.
func (c *Catalog) Next(id int) (*model.Scenario, bool) {
	i := c.IndexOf(id)
	if i < 0 {
		return nil, false
	}
	return c.At(i + 1)
}

// IDs returns scenario ids in catalog order.
func (c *Catalog) IDs() []int {
	if c == nil {
		return nil
	}
	ids := make([]int, len(c.scenarios))
	for i, s := range c.scenarios {
		ids[i] = s.ID
	}
	return ids
}

// Stats summarises a catalog for validation output.
type Stats struct {
	Scenarios  int
	Choices    int
	Takeaways  int
	ByCategory map[model.Category]int
}

// Stats counts scenarios, choices, takeaways and outcome categories.
func (c *Catalog) Stats() Stats {
	st := Stats{ByCategory: make(map[model.Category]int)}
	if c == nil {
		return st
	}
	st.Scenarios = len(c.scenarios)
	for _, s := range c.scenarios {
		st.Choices += len(s.Choices)
		for _, ch := range s.Choices {
			st.Takeaways += len(ch.Outcome.KeyTakeaways)
			st.ByCategory[ch.Outcome.Category()]++
		}
	}
	return st
}
