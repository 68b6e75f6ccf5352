package registry

import (
	"context"

	"go.uber.org/zap"

	"building-registry/internal/filter"
	"building-registry/internal/model"
)

// PropertyState is a snapshot of the property store.
type PropertyState = State[model.Property, filter.PropertyCriteria]

// PropertyStore is the source of truth for properties. It reads buildings
// through a BuildingLookup and never writes them.
type PropertyStore struct {
	e         *entities[model.Property, filter.PropertyCriteria]
	buildings BuildingLookup
}

// NewPropertyStore builds an empty store over table. buildings resolves building links.
func NewPropertyStore(table Table[model.Property], buildings BuildingLookup, logger *zap.Logger) *PropertyStore {
	return &PropertyStore{
		e: newEntities(table, logger.Named("properties"), "매물",
			func(p model.Property) string { return p.ID },
			filter.Properties),
		buildings: buildings,
	}
}

// Load replaces the in-memory list with the stored one.
func (s *PropertyStore) Load(ctx context.Context) error {
	return s.e.load(ctx)
}

// State returns a copy of the current state.
func (s *PropertyStore) State() PropertyState {
	return s.e.state()
}

// Buildings returns the lookup the store resolves building links with.
func (s *PropertyStore) Buildings() BuildingLookup {
	return s.buildings
}

// ChangeLocationFilter toggles the location filter. An empty value clears it.
func (s *PropertyStore) ChangeLocationFilter(location string) PropertyState {
	return s.e.setCriteria(func(c filter.PropertyCriteria) filter.PropertyCriteria {
		c.Location = toggle(c.Location, location)
		return c
	})
}

// ChangeTypeFilter toggles the property type filter.
func (s *PropertyStore) ChangeTypeFilter(typ string) PropertyState {
	return s.e.setCriteria(func(c filter.PropertyCriteria) filter.PropertyCriteria {
		c.Type = toggle(c.Type, typ)
		return c
	})
}

// ChangeSearchQuery sets the property name search text.
func (s *PropertyStore) ChangeSearchQuery(query string) PropertyState {
	return s.e.setCriteria(func(c filter.PropertyCriteria) filter.PropertyCriteria {
		c.Search = query
		return c
	})
}

// ChangeSelectedBuilding scopes the list to one building, or unscopes it
// when building is unset. It does not toggle.
func (s *PropertyStore) ChangeSelectedBuilding(building filter.Option[string]) PropertyState {
	if id, ok := building.Get(); ok && id == "" {
		building = filter.None[string]()
	}
	return s.e.setCriteria(func(c filter.PropertyCriteria) filter.PropertyCriteria {
		c.Building = building
		return c
	})
}

// SelectedBuilding resolves the building scope. A scope pointing at a
// deleted building resolves to false.
func (s *PropertyStore) SelectedBuilding() (model.Building, bool) {
	id, ok := s.State().Criteria.Building.Get()
	if !ok {
		return model.Building{}, false
	}
	return s.buildings.BuildingByID(id)
}

// PropertyByID returns the stored property with the given id.
func (s *PropertyStore) PropertyByID(id string) (model.Property, bool) {
	for _, p := range s.e.snapshot() {
		if p.ID == id {
			return p, true
		}
	}
	return model.Property{}, false
}

// PropertiesOf returns the properties linked to a building, most recently
// received first, regardless of the active filters.
func (s *PropertyStore) PropertiesOf(buildingID string) []model.Property {
	return filter.Properties(s.e.snapshot(), filter.PropertyCriteria{Building: filter.Some(buildingID)})
}

// Add stores a new property and appends it to the list.
func (s *PropertyStore) Add(ctx context.Context, p model.Property) (model.Property, error) {
	return s.e.add(ctx, p)
}

// Update replaces the property with the same id, in storage and in the list.
func (s *PropertyStore) Update(ctx context.Context, p model.Property) (model.Property, error) {
	return s.e.update(ctx, p)
}

// Remove deletes a property. Removing an unknown id succeeds.
func (s *PropertyStore) Remove(ctx context.Context, id string) error {
	return s.e.remove(ctx, id)
}

// AddMultiple stores a batch in one transaction and appends it to the list.
func (s *PropertyStore) AddMultiple(ctx context.Context, ps []model.Property) ([]model.Property, error) {
	return s.e.addMultiple(ctx, ps)
}

// ReplaceAll swaps every stored property for ps and clears the filters.
func (s *PropertyStore) ReplaceAll(ctx context.Context, ps []model.Property) ([]model.Property, error) {
	return s.e.replaceAll(ctx, ps)
}

// ClearAll deletes every property and clears the filters.
func (s *PropertyStore) ClearAll(ctx context.Context) error {
	return s.e.clearAll(ctx)
}

// Fetch queries storage directly by the indexed building and category
// columns. Empty values are not constrained.
func (s *PropertyStore) Fetch(ctx context.Context, buildingID, category string) ([]model.Property, error) {
	eq := map[string]any{}
	if buildingID != "" {
		eq["building_id"] = buildingID
	}
	if category != "" {
		eq["category"] = category
	}
	return s.e.table.Query(ctx, eq)
}
