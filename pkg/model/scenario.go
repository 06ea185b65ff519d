// Package model defines the content types of a Medicare adventure: scenarios,
// the choices they offer, and the canned outcome behind each choice.
//
// Values of these types are treated as immutable once a catalog has been
// built from them. Ordering of Scenario.Choices is significant: it controls
// the order choice buttons are laid out in.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors. Callers match them with errors.Is.
var (
	ErrInvalidScenarioID = errors.New("scenario id must be a positive integer")
	ErrEmptyTitle        = errors.New("title is required")
	ErrNoChoices         = errors.New("scenario has no choices")
	ErrDuplicateChoiceID = errors.New("duplicate choice id")
	ErrEmptyResult       = errors.New("outcome result is required")
)

// Outcome is the explanation shown after a choice is made.
type Outcome struct {
	Result        string   `json:"result" yaml:"result"`
	Clarification string   `json:"clarification" yaml:"clarification"`
	KeyTakeaways  []string `json:"keyTakeaways" yaml:"keyTakeaways"` // rich text, see pkg/richtext
}

// Choice is one of the options offered by a scenario. IDs are unique within
// the owning scenario only.
type Choice struct {
	ID       int     `json:"id" yaml:"id"`
	Title    string  `json:"title" yaml:"title"`
	Subtitle string  `json:"subtitle" yaml:"subtitle"`
	Outcome  Outcome `json:"outcome" yaml:"outcome"`
}

// Scenario is a short narrative with an ordered set of choices.
type Scenario struct {
	ID        int      `json:"id" yaml:"id"`
	Title     string   `json:"title" yaml:"title"`
	Subtitle  string   `json:"subtitle" yaml:"subtitle"`
	Character string   `json:"character" yaml:"character"`
	Intro     string   `json:"intro" yaml:"intro"`
	Choices   []Choice `json:"choices" yaml:"choices"`
}

// Category returns the display category of the outcome's result headline.
func (o Outcome) Category() Category {
	return Classify(o.Result)
}

// Validate checks that the outcome has a headline.
func (o Outcome) Validate() error {
	if strings.TrimSpace(o.Result) == "" {
		return ErrEmptyResult
	}
	return nil
}

// Validate checks a single choice, including its outcome.
func (c Choice) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("choice %d: %w", c.ID, ErrEmptyTitle)
	}
	if err := c.Outcome.Validate(); err != nil {
		return fmt.Errorf("choice %d: %w", c.ID, err)
	}
	return nil
}

// Validate checks the scenario and every choice it owns.
func (s Scenario) Validate() error {
	if s.ID <= 0 {
		return fmt.Errorf("scenario %d: %w", s.ID, ErrInvalidScenarioID)
	}
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("scenario %d: %w", s.ID, ErrEmptyTitle)
	}
	if len(s.Choices) == 0 {
		return fmt.Errorf("scenario %d: %w", s.ID, ErrNoChoices)
	}
	seen := make(map[int]bool, len(s.Choices))
	for _, c := range s.Choices {
		if seen[c.ID] {
			return fmt.Errorf("scenario %d: %w: %d", s.ID, ErrDuplicateChoiceID, c.ID)
		}
		seen[c.ID] = true
		if err := c.Validate(); err != nil {
			return fmt.Errorf("scenario %d: %w", s.ID, err)
		}
	}
	return nil
}

// Choice returns the choice with the given id, scoped to this scenario.
func (s *Scenario) Choice(id int) (*Choice, bool) {
	for i := range s.Choices {
		if s.Choices[i].ID == id {
			return &s.Choices[i], true
		}
	}
	return nil, false
}

// Prompt is the question shown above the choice buttons.
func (s Scenario) Prompt() string {
	return fmt.Sprintf("What should %s do?", s.Character)
}

// Clone returns a deep copy of the scenario.
func (s Scenario) Clone() Scenario {
	out := s
	out.Choices = make([]Choice, len(s.Choices))
	for i, c := range s.Choices {
		out.Choices[i] = c
		out.Choices[i].Outcome.KeyTakeaways = append([]string(nil), c.Outcome.KeyTakeaways...)
	}
	return out
}
