package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"building-registry/internal/model"
)

// SchemaVersion is the layout version written to registry_meta. Opening a
// database with an older version runs the upgrade step.
const SchemaVersion = 2

const (
	stateOpening int32 = iota
	stateReady
	stateUnavailable
)

// BuildingTable and PropertyTable are the two tables of the registry.
type (
	BuildingTable = Table[model.Building, *model.Building]
	PropertyTable = Table[model.Property, *model.Property]
)

// Database owns the connection and the readiness of both tables.
type Database struct {
	gorm   *gorm.DB
	logger *zap.Logger
	clock  *clock

	state    atomic.Int32
	openOnce sync.Once
	done     chan struct{}

	mu      sync.Mutex
	openErr error

	buildings  *BuildingTable
	properties *PropertyTable
}

// New wraps an opened gorm connection. Tables reject every operation with
// ErrNotReady until Open has completed.
func New(db *gorm.DB, logger *zap.Logger) *Database {
	d := &Database{
		gorm:   db,
		logger: logger.Named("store"),
		clock:  newClock(),
		done:   make(chan struct{}),
	}
	d.buildings = newTable[model.Building](d, "buildings", []string{"name", "location", "type"}, "name")
	d.properties = newTable[model.Property](d, "properties", []string{"building_id", "category", "received_date"}, "received_date DESC")
	return d
}

// Buildings returns the buildings table.
func (d *Database) Buildings() *BuildingTable {
	return d.buildings
}

// Properties returns the properties table.
func (d *Database) Properties() *PropertyTable {
	return d.properties
}

// Gorm exposes the underlying connection for health checks.
func (d *Database) Gorm() *gorm.DB {
	return d.gorm
}

// Open runs the schema step and marks the database ready. A failure marks it
// unavailable for the rest of the session. Calling Open again returns the
// first outcome.
func (d *Database) Open(ctx context.Context) error {
	d.openOnce.Do(func() {
		err := d.migrate(ctx)
		if err != nil {
			d.setFailure(err)
			d.logger.Error("failed to open database", zap.Error(err))
		} else {
			d.state.Store(stateReady)
			d.logger.Info("database ready", zap.Int("schema_version", SchemaVersion))
		}
		close(d.done)
	})
	if d.state.Load() == stateUnavailable {
		return d.check()
	}
	return nil
}

// Ready reports whether Open has completed successfully.
func (d *Database) Ready() bool {
	return d.state.Load() == stateReady
}

// Status names the readiness state: opening, ready or unavailable.
func (d *Database) Status() string {
	switch d.state.Load() {
	case stateReady:
		return "ready"
	case stateUnavailable:
		return "unavailable"
	default:
		return "opening"
	}
}

// WaitReady blocks until Open has finished and returns its outcome.
func (d *Database) WaitReady(ctx context.Context) error {
	select {
	case <-d.done:
		return d.check()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close closes the underlying connection. Later operations fail with
// ErrStorageUnavailable.
func (d *Database) Close() error {
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	d.setFailure(errors.New("database closed"))
	return sqlDB.Close()
}

func (d *Database) setFailure(err error) {
	d.mu.Lock()
	if d.openErr == nil {
		d.openErr = err
	}
	d.mu.Unlock()
	d.state.Store(stateUnavailable)
}

func (d *Database) check() error {
	switch d.state.Load() {
	case stateReady:
		return nil
	case stateUnavailable:
		d.mu.Lock()
		defer d.mu.Unlock()
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, d.openErr)
	default:
		return ErrNotReady
	}
}

// migrate creates missing tables and indexes when the stored schema version
// is older than SchemaVersion. Every step skips what already exists.
func (d *Database) migrate(ctx context.Context) error {
	db := d.gorm.WithContext(ctx)
	m := db.Migrator()

	if !m.HasTable(&model.SchemaMeta{}) {
		if err := m.CreateTable(&model.SchemaMeta{}); err != nil {
			return fmt.Errorf("create registry_meta: %w", err)
		}
	}

	current, err := d.storedVersion(db)
	if err != nil {
		return err
	}
	if current > SchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", current, SchemaVersion)
	}
	if current == SchemaVersion {
		return nil
	}

	d.logger.Info("upgrading schema", zap.Int("from", current), zap.Int("to", SchemaVersion))
	return db.Transaction(func(tx *gorm.DB) error {
		tm := tx.Migrator()
		for _, t := range []struct {
			model   any
			indexes []string
		}{
			{&model.Building{}, []string{"idx_buildings_name", "idx_buildings_location", "idx_buildings_type"}},
			{&model.Property{}, []string{"idx_properties_building_id", "idx_properties_category", "idx_properties_received_date"}},
		} {
			if !tm.HasTable(t.model) {
				if err := tm.CreateTable(t.model); err != nil {
					return fmt.Errorf("create table: %w", err)
				}
			}
			for _, idx := range t.indexes {
				if tm.HasIndex(t.model, idx) {
					continue
				}
				if err := tm.CreateIndex(t.model, idx); err != nil {
					return fmt.Errorf("create index %s: %w", idx, err)
				}
			}
		}

		meta := model.SchemaMeta{Key: "schema_version", Value: strconv.Itoa(SchemaVersion)}
		if err := tx.Save(&meta).Error; err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return nil
	})
}

func (d *Database) storedVersion(db *gorm.DB) (int, error) {
	var meta model.SchemaMeta
	err := db.Where("key = ?", "schema_version").Take(&meta).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	v, err := strconv.Atoi(meta.Value)
	if err != nil {
		return 0, fmt.Errorf("invalid schema version %q: %w", meta.Value, err)
	}
	return v, nil
}
