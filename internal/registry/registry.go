// Package registry holds the in-memory state of buildings and properties:
// the stored list, the active filters and the derived list shown to users.
// Every mutation goes through the storage table and re-derives the filtered
// list once it succeeds.
package registry

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"building-registry/internal/store"
)

// Registry owns both entity stores over one database.
type Registry struct {
	db         *store.Database
	Buildings  *BuildingStore
	Properties *PropertyStore

	loaded atomic.Bool
}

// New builds both stores. The property store reads buildings through the
// building store.
func New(db *store.Database, logger *zap.Logger) *Registry {
	buildings := NewBuildingStore(db.Buildings(), logger)
	return &Registry{
		db:         db,
		Buildings:  buildings,
		Properties: NewPropertyStore(db.Properties(), buildings, logger),
	}
}

// Load waits for the database and loads both stores.
func (r *Registry) Load(ctx context.Context) error {
	if err := r.db.WaitReady(ctx); err != nil {
		return err
	}
	if err := r.Buildings.Load(ctx); err != nil {
		return err
	}
	if err := r.Properties.Load(ctx); err != nil {
		return err
	}
	r.loaded.Store(true)
	return nil
}

// Loaded reports whether Load has completed successfully.
func (r *Registry) Loaded() bool {
	return r.loaded.Load()
}
