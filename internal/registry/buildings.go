package registry

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"building-registry/internal/filter"
	"building-registry/internal/model"
)

// BuildingState is a snapshot of the building store.
type BuildingState = State[model.Building, filter.BuildingCriteria]

// BuildingLookup is the read-only view of buildings that property code
// depends on.
type BuildingLookup interface {
	BuildingByID(id string) (model.Building, bool)
	BuildingByName(name string) (model.Building, bool)
	SearchBuildings(query string) []model.Building
}

// BuildingStore is the source of truth for buildings.
type BuildingStore struct {
	e *entities[model.Building, filter.BuildingCriteria]
}

// NewBuildingStore builds an empty store over table. Call Load to fill it.
func NewBuildingStore(table Table[model.Building], logger *zap.Logger) *BuildingStore {
	return &BuildingStore{
		e: newEntities(table, logger.Named("buildings"), "건물",
			func(b model.Building) string { return b.ID },
			filter.Buildings),
	}
}

// Load replaces the in-memory list with the stored one.
func (s *BuildingStore) Load(ctx context.Context) error {
	return s.e.load(ctx)
}

// State returns a copy of the current state.
func (s *BuildingStore) State() BuildingState {
	return s.e.state()
}

// Items returns a copy of the stored list, unfiltered.
func (s *BuildingStore) Items() []model.Building {
	return s.e.snapshot()
}

// ChangeLocationFilter selects a location, or clears it when it is already
// selected. An empty value clears it.
func (s *BuildingStore) ChangeLocationFilter(location string) BuildingState {
	return s.e.setCriteria(func(c filter.BuildingCriteria) filter.BuildingCriteria {
		c.Location = toggle(c.Location, location)
		return c
	})
}

// ChangeTypeFilter behaves like ChangeLocationFilter for the type.
func (s *BuildingStore) ChangeTypeFilter(typ string) BuildingState {
	return s.e.setCriteria(func(c filter.BuildingCriteria) filter.BuildingCriteria {
		c.Type = toggle(c.Type, typ)
		return c
	})
}

// ChangeSearchQuery sets the name search text. A blank query matches everything.
func (s *BuildingStore) ChangeSearchQuery(query string) BuildingState {
	return s.e.setCriteria(func(c filter.BuildingCriteria) filter.BuildingCriteria {
		c.Search = query
		return c
	})
}

// Add stores a new building and appends it to the list.
func (s *BuildingStore) Add(ctx context.Context, b model.Building) (model.Building, error) {
	return s.e.add(ctx, b)
}

// Update replaces the building with the same id, in storage and in the list.
func (s *BuildingStore) Update(ctx context.Context, b model.Building) (model.Building, error) {
	return s.e.update(ctx, b)
}

// Remove deletes a building. Properties that reference it keep the reference.
func (s *BuildingStore) Remove(ctx context.Context, id string) error {
	return s.e.remove(ctx, id)
}

// AddMultiple stores a batch in one transaction and appends it to the list.
func (s *BuildingStore) AddMultiple(ctx context.Context, bs []model.Building) ([]model.Building, error) {
	return s.e.addMultiple(ctx, bs)
}

// ReplaceAll atomically swaps every stored building for bs and resets the
// filters.
func (s *BuildingStore) ReplaceAll(ctx context.Context, bs []model.Building) ([]model.Building, error) {
	return s.e.replaceAll(ctx, bs)
}

// ClearAll deletes every building and resets the filters.
func (s *BuildingStore) ClearAll(ctx context.Context) error {
	return s.e.clearAll(ctx)
}

// Fetch queries storage directly by the indexed location and type columns.
// Empty values are not constrained.
func (s *BuildingStore) Fetch(ctx context.Context, location, typ string) ([]model.Building, error) {
	eq := map[string]any{}
	if location != "" {
		eq["location"] = location
	}
	if typ != "" {
		eq["type"] = typ
	}
	return s.e.table.Query(ctx, eq)
}

// BuildingByID returns the building with the given id from the list.
func (s *BuildingStore) BuildingByID(id string) (model.Building, bool) {
	for _, b := range s.e.snapshot() {
		if b.ID == id {
			return b, true
		}
	}
	return model.Building{}, false
}

// BuildingByName returns the first building with exactly this name.
func (s *BuildingStore) BuildingByName(name string) (model.Building, bool) {
	for _, b := range s.e.snapshot() {
		if b.Name == name {
			return b, true
		}
	}
	return model.Building{}, false
}

// SearchBuildings returns buildings whose name contains the trimmed query,
// in name order. A blank query returns every building.
func (s *BuildingStore) SearchBuildings(query string) []model.Building {
	q := strings.TrimSpace(query)
	all := filter.Buildings(s.e.snapshot(), filter.BuildingCriteria{})
	if q == "" {
		return all
	}
	out := make([]model.Building, 0, len(all))
	for _, b := range all {
		if strings.Contains(b.Name, q) {
			out = append(out, b)
		}
	}
	return out
}

func toggle(o filter.Option[string], v string) filter.Option[string] {
	if v == "" {
		return filter.None[string]()
	}
	return o.Toggle(v)
}
