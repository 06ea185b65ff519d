package ui

import (
	"strconv"
	"strings"

	"github.com/vanderheijden86/medadventure/pkg/model"
	"github.com/vanderheijden86/medadventure/pkg/richtext"
)

// ScenarioItem wraps model.Scenario to implement list.Item
type ScenarioItem struct {
	Scenario model.Scenario
}

func (i ScenarioItem) Title() string {
	return i.Scenario.Title
}

func (i ScenarioItem) Description() string {
	return i.Scenario.Subtitle
}

func (i ScenarioItem) FilterValue() string {
	var sb strings.Builder
	sb.WriteString(i.Scenario.Title)
	sb.WriteString(" ")
	sb.WriteString(i.Scenario.Subtitle)
	sb.WriteString(" ")
	sb.WriteString(i.Scenario.Character)
	sb.WriteString(" ")
	sb.WriteString(strconv.Itoa(i.Scenario.ID))
	return sb.String()
}

// Intro returns the plain-text intro for single-line rendering.
func (i ScenarioItem) Intro() string {
	return richtext.Plain(i.Scenario.Intro)
}

func scenarioItems(scenarios []model.Scenario) []ScenarioItem {
	items := make([]ScenarioItem, len(scenarios))
	for i, s := range scenarios {
		items[i] = ScenarioItem{Scenario: s}
	}
	return items
}
