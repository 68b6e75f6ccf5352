package registry

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// Table is the storage adapter a store mutates through.
type Table[T any] interface {
	GetAll(ctx context.Context) ([]T, error)
	Add(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, item T) (T, error)
	Remove(ctx context.Context, id string) error
	AddMultiple(ctx context.Context, items []T) ([]T, error)
	ReplaceAll(ctx context.Context, items []T) ([]T, error)
	ClearAll(ctx context.Context) error
	Query(ctx context.Context, eq map[string]any) ([]T, error)
}

// State is a snapshot of a store. Slices are copies owned by the caller.
type State[T any, C any] struct {
	Items    []T    `json:"items"`
	Filtered []T    `json:"filtered"`
	Criteria C      `json:"criteria"`
	Loading  bool   `json:"loading"`
	Error    string `json:"error,omitempty"`
}

// entities is the state machine shared by both stores. opMu serializes
// mutations so each one patches the list left by the previous one; mu guards
// the fields read by State and the filter setters.
type entities[T any, C any] struct {
	table  Table[T]
	logger *zap.Logger
	label  string
	idOf   func(T) string
	derive func([]T, C) []T

	opMu sync.Mutex

	mu       sync.RWMutex
	items    []T
	filtered []T
	criteria C
	loading  bool
	err      string
}

func newEntities[T any, C any](table Table[T], logger *zap.Logger, label string, idOf func(T) string, derive func([]T, C) []T) *entities[T, C] {
	return &entities[T, C]{
		table:    table,
		logger:   logger,
		label:    label,
		idOf:     idOf,
		derive:   derive,
		items:    []T{},
		filtered: []T{},
	}
}

func (e *entities[T, C]) state() State[T, C] {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return State[T, C]{
		Items:    slices.Clone(e.items),
		Filtered: slices.Clone(e.filtered),
		Criteria: e.criteria,
		Loading:  e.loading,
		Error:    e.err,
	}
}

func (e *entities[T, C]) snapshot() []T {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.items)
}

// mutate runs fn with the loading flag raised. A failure is kept as the
// user-facing error and returned unchanged.
func (e *entities[T, C]) mutate(action string, fn func() error) error {
	e.opMu.Lock()
	defer e.opMu.Unlock()

	e.mu.Lock()
	e.loading = true
	e.err = ""
	e.mu.Unlock()

	err := fn()

	e.mu.Lock()
	e.loading = false
	if err != nil {
		e.err = fmt.Sprintf("%s %s에 실패했습니다", e.label, action)
	}
	e.mu.Unlock()

	if err != nil {
		e.logger.Warn("mutation failed", zap.String("action", action), zap.Error(err))
	}
	return err
}

// apply replaces the stored list with patch(items) and re-derives. reset
// clears the criteria first.
func (e *entities[T, C]) apply(reset bool, patch func([]T) []T) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if reset {
		var zero C
		e.criteria = zero
	}
	e.items = patch(slices.Clone(e.items))
	e.filtered = e.derive(e.items, e.criteria)
}

func (e *entities[T, C]) setCriteria(change func(C) C) State[T, C] {
	e.mu.Lock()
	e.criteria = change(e.criteria)
	e.filtered = e.derive(e.items, e.criteria)
	e.mu.Unlock()
	return e.state()
}

func (e *entities[T, C]) load(ctx context.Context) error {
	return e.mutate("목록 불러오기", func() error {
		all, err := e.table.GetAll(ctx)
		if err != nil {
			return err
		}
		e.apply(false, func([]T) []T { return all })
		return nil
	})
}

func (e *entities[T, C]) add(ctx context.Context, item T) (T, error) {
	var stored T
	err := e.mutate("추가", func() error {
		s, err := e.table.Add(ctx, item)
		if err != nil {
			return err
		}
		stored = s
		e.apply(false, func(items []T) []T { return append(items, s) })
		return nil
	})
	return stored, err
}

func (e *entities[T, C]) update(ctx context.Context, item T) (T, error) {
	var stored T
	err := e.mutate("수정", func() error {
		s, err := e.table.Update(ctx, item)
		if err != nil {
			return err
		}
		stored = s
		e.apply(false, func(items []T) []T {
			id := e.idOf(s)
			i := slices.IndexFunc(items, func(x T) bool { return e.idOf(x) == id })
			if i < 0 {
				return append(items, s)
			}
			items[i] = s
			return items
		})
		return nil
	})
	return stored, err
}

func (e *entities[T, C]) remove(ctx context.Context, id string) error {
	return e.mutate("삭제", func() error {
		if err := e.table.Remove(ctx, id); err != nil {
			return err
		}
		e.apply(false, func(items []T) []T {
			return slices.DeleteFunc(items, func(x T) bool { return e.idOf(x) == id })
		})
		return nil
	})
}

func (e *entities[T, C]) addMultiple(ctx context.Context, batch []T) ([]T, error) {
	var stored []T
	err := e.mutate("일괄 추가", func() error {
		s, err := e.table.AddMultiple(ctx, batch)
		if err != nil {
			return err
		}
		stored = s
		e.apply(false, func(items []T) []T { return append(items, s...) })
		return nil
	})
	return stored, err
}

func (e *entities[T, C]) replaceAll(ctx context.Context, batch []T) ([]T, error) {
	var stored []T
	err := e.mutate("데이터 교체", func() error {
		s, err := e.table.ReplaceAll(ctx, batch)
		if err != nil {
			return err
		}
		stored = s
		e.apply(true, func([]T) []T { return slices.Clone(s) })
		return nil
	})
	return stored, err
}

func (e *entities[T, C]) clearAll(ctx context.Context) error {
	return e.mutate("데이터 초기화", func() error {
		if err := e.table.ClearAll(ctx); err != nil {
			return err
		}
		e.apply(true, func([]T) []T { return []T{} })
		return nil
	})
}
