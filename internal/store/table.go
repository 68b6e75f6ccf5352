package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"building-registry/internal/model"
)

// Table is the storage adapter for one entity kind, keyed by id.
type Table[T any, P interface {
	*T
	Meta() *model.Record
}] struct {
	db      *Database
	name    string
	indexed []string
	order   string
}

func newTable[T any, P interface {
	*T
	Meta() *model.Record
}](db *Database, name string, indexed []string, order string) *Table[T, P] {
	return &Table[T, P]{db: db, name: name, indexed: indexed, order: order}
}

// Name returns the backing table name.
func (t *Table[T, P]) Name() string {
	return t.name
}

// GetAll returns every stored record. An empty table yields an empty slice.
func (t *Table[T, P]) GetAll(ctx context.Context) (items []T, err error) {
	defer observe(t.name, "get_all", time.Now(), &err)
	if err = t.db.check(); err != nil {
		return nil, err
	}

	items = []T{}
	if err = t.db.gorm.WithContext(ctx).Order("id").Find(&items).Error; err != nil {
		err = t.fail("get_all", "", ErrOperationFailed, err)
		return nil, err
	}
	return items, nil
}

// GetByID returns the record with the given id. A missing record is reported
// through ok, not as an error.
func (t *Table[T, P]) GetByID(ctx context.Context, id string) (item T, ok bool, err error) {
	defer observe(t.name, "get_by_id", time.Now(), &err)
	if err = t.db.check(); err != nil {
		return item, false, err
	}

	err = t.db.gorm.WithContext(ctx).Where("id = ?", id).Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		var zero T
		return zero, false, nil
	}
	if err != nil {
		err = t.fail("get_by_id", id, ErrOperationFailed, err)
		return item, false, err
	}
	return item, true, nil
}

// Add stores a new record. A missing id or createdAt is generated; updatedAt
// is always stamped. A colliding id fails with ErrDuplicateKey.
func (t *Table[T, P]) Add(ctx context.Context, item T) (stored T, err error) {
	defer observe(t.name, "add", time.Now(), &err)
	if err = t.db.check(); err != nil {
		return stored, err
	}

	meta := P(&item).Meta()
	prepare(meta, t.db.clock.stamp())

	err = t.db.gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(new(T)).Where("id = ?", meta.ID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicateKey
		}
		return tx.Create(P(&item)).Error
	})
	if errors.Is(err, ErrDuplicateKey) {
		err = t.fail("add", meta.ID, ErrDuplicateKey, fmt.Errorf("id %s already stored", meta.ID))
		return stored, err
	}
	if err != nil {
		err = t.fail("add", meta.ID, ErrOperationFailed, err)
		return stored, err
	}
	return item, nil
}

// Update replaces the stored record with the same id, inserting it when
// absent. A stored record keeps its createdAt whatever the caller sends; an
// inserted one keeps the caller's createdAt or gets the new stamp.
func (t *Table[T, P]) Update(ctx context.Context, item T) (stored T, err error) {
	defer observe(t.name, "update", time.Now(), &err)
	if err = t.db.check(); err != nil {
		return stored, err
	}

	meta := P(&item).Meta()
	if meta.ID == "" {
		err = fmt.Errorf("%w: %s update: missing id", ErrOperationFailed, t.name)
		return stored, err
	}
	meta.UpdatedAt = t.db.clock.stamp()

	err = t.db.gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prev T
		err := tx.Where("id = ?", meta.ID).Take(&prev).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if meta.CreatedAt == "" {
				meta.CreatedAt = meta.UpdatedAt
			}
		case err != nil:
			return err
		default:
			meta.CreatedAt = P(&prev).Meta().CreatedAt
		}
		return tx.Save(P(&item)).Error
	})
	if err != nil {
		err = t.fail("update", meta.ID, ErrOperationFailed, err)
		return stored, err
	}
	return item, nil
}

// Remove deletes the record with the given id. Removing an absent id succeeds.
func (t *Table[T, P]) Remove(ctx context.Context, id string) (err error) {
	defer observe(t.name, "remove", time.Now(), &err)
	if err = t.db.check(); err != nil {
		return err
	}

	if err = t.db.gorm.WithContext(ctx).Where("id = ?", id).Delete(new(T)).Error; err != nil {
		err = t.fail("remove", id, ErrOperationFailed, err)
		return err
	}
	return nil
}

// AddMultiple stores every record in one transaction. Either the whole batch
// is committed or nothing is.
func (t *Table[T, P]) AddMultiple(ctx context.Context, items []T) (stored []T, err error) {
	defer observe(t.name, "add_multiple", time.Now(), &err)
	if err = t.db.check(); err != nil {
		return nil, err
	}

	stored = t.prepareBatch(items)
	if len(stored) == 0 {
		return stored, nil
	}
	err = t.db.gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return t.insertAll(tx, "add_multiple", stored)
	})
	if err != nil {
		err = t.fail("add_multiple", "", ErrTransactionFailed, err)
		return nil, err
	}
	return stored, nil
}

// ReplaceAll deletes every stored record and inserts items in one
// transaction. A failure leaves the previous contents in place.
func (t *Table[T, P]) ReplaceAll(ctx context.Context, items []T) (stored []T, err error) {
	defer observe(t.name, "replace_all", time.Now(), &err)
	if err = t.db.check(); err != nil {
		return nil, err
	}

	stored = t.prepareBatch(items)
	err = t.db.gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(new(T)).Error; err != nil {
			return fmt.Errorf("delete phase: %w", err)
		}
		return t.insertAll(tx, "replace_all", stored)
	})
	if err != nil {
		err = t.fail("replace_all", "", ErrTransactionFailed, err)
		return nil, err
	}
	return stored, nil
}

// ClearAll empties the table.
func (t *Table[T, P]) ClearAll(ctx context.Context) (err error) {
	defer observe(t.name, "clear_all", time.Now(), &err)
	if err = t.db.check(); err != nil {
		return err
	}

	if err = t.db.gorm.WithContext(ctx).Where("1 = 1").Delete(new(T)).Error; err != nil {
		err = t.fail("clear_all", "", ErrOperationFailed, err)
		return err
	}
	return nil
}

// Query returns records whose indexed columns equal the given values. Only
// columns backed by a secondary index are accepted.
func (t *Table[T, P]) Query(ctx context.Context, eq map[string]any) (items []T, err error) {
	defer observe(t.name, "query", time.Now(), &err)
	if err = t.db.check(); err != nil {
		return nil, err
	}

	cols := make([]string, 0, len(eq))
	for col := range eq {
		if !slices.Contains(t.indexed, col) {
			err = fmt.Errorf("%w: %s query: column %q is not indexed", ErrOperationFailed, t.name, col)
			return nil, err
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)

	q := t.db.gorm.WithContext(ctx).Model(new(T))
	for _, col := range cols {
		q = q.Where(col+" = ?", eq[col])
	}
	items = []T{}
	if err = q.Order(t.order).Order("id").Find(&items).Error; err != nil {
		err = t.fail("query", "", ErrOperationFailed, err)
		return nil, err
	}
	return items, nil
}

func (t *Table[T, P]) prepareBatch(items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	now := t.db.clock.stamp()
	for i := range out {
		prepare(P(&out[i]).Meta(), now)
	}
	return out
}

func (t *Table[T, P]) insertAll(tx *gorm.DB, op string, items []T) error {
	for i := range items {
		if err := tx.Create(P(&items[i])).Error; err != nil {
			t.db.logger.Error("batch item rejected",
				zap.String("table", t.name),
				zap.String("op", op),
				zap.Int("index", i),
				zap.String("id", P(&items[i]).Meta().ID),
				zap.Error(err))
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

func (t *Table[T, P]) fail(op, id string, kind, cause error) error {
	t.db.logger.Error("storage operation failed",
		zap.String("table", t.name),
		zap.String("op", op),
		zap.String("id", id),
		zap.Error(cause))
	return fmt.Errorf("%w: %s %s: %w", kind, t.name, op, cause)
}

func prepare(m *model.Record, now string) {
	if m.ID == "" {
		m.ID = NewID()
	}
	if m.CreatedAt == "" {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
}
