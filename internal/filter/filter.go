// Package filter derives the displayed list of buildings or properties from
// the stored list and the active criteria. Every function is pure.
package filter

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"building-registry/internal/model"
)

// BuildingCriteria are the active building filters. Filters combine with AND.
type BuildingCriteria struct {
	Location Option[string] `json:"location"`
	Type     Option[string] `json:"type"`
	Search   string         `json:"search"`
}

// PropertyCriteria are the active property filters. Building scopes the list
// to properties linked to one building.
type PropertyCriteria struct {
	Building Option[string] `json:"building"`
	Location Option[string] `json:"location"`
	Type     Option[string] `json:"type"`
	Search   string         `json:"search"`
}

// Buildings returns the buildings matching c, ordered by name in Korean
// collation order. The input slice is not modified.
func Buildings(items []model.Building, c BuildingCriteria) []model.Building {
	out := make([]model.Building, 0, len(items))
	for _, b := range items {
		if !c.Location.Matches(b.Location) || !c.Type.Matches(b.Type) {
			continue
		}
		if !matchesSearch(b.Name, c.Search) {
			continue
		}
		out = append(out, b)
	}

	col := collate.New(language.Korean)
	sort.SliceStable(out, func(i, j int) bool {
		return col.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out
}

// Properties returns the properties matching c, most recently received
// first. Properties without a valid receivedDate sort last.
func Properties(items []model.Property, c PropertyCriteria) []model.Property {
	out := make([]model.Property, 0, len(items))
	for _, p := range items {
		if id, ok := c.Building.Get(); ok {
			ref, linked := p.BuildingRef()
			if !linked || ref != id {
				continue
			}
		}
		if !c.Location.Matches(p.Location) || !c.Type.Matches(p.Type) {
			continue
		}
		if !matchesSearch(p.PropertyName, c.Search) {
			continue
		}
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return receivedAt(out[i]).After(receivedAt(out[j]))
	})
	return out
}

// matchesSearch is a case-insensitive substring test. A blank query matches
// everything; otherwise the query is used untrimmed.
func matchesSearch(field, query string) bool {
	if strings.TrimSpace(query) == "" {
		return true
	}
	return strings.Contains(strings.ToLower(field), strings.ToLower(query))
}

func receivedAt(p model.Property) time.Time {
	t, err := time.Parse(time.DateOnly, p.ReceivedDate)
	if err != nil {
		return time.Time{}
	}
	return t
}
