package backup

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"building-registry/internal/importer"
	"building-registry/internal/model"
)

// Mode selects how a restore is applied.
type Mode string

const (
	// ModeMerge adds the buildings whose name is not stored yet.
	ModeMerge Mode = "merge"
	// ModeReplace swaps every stored building for the backup's.
	ModeReplace Mode = "replace"
)

// ParseMode reads a mode name. An empty name means ModeMerge.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeMerge:
		return ModeMerge, nil
	case ModeReplace:
		return ModeReplace, nil
	default:
		return "", &importer.ValidationError{Errors: []string{fmt.Sprintf("알 수 없는 복원 방식입니다: %s", s)}}
	}
}

// Store is the building store a backup is taken from and restored into.
type Store interface {
	Items() []model.Building
	AddMultiple(ctx context.Context, items []model.Building) ([]model.Building, error)
	ReplaceAll(ctx context.Context, items []model.Building) ([]model.Building, error)
}

// RestoreResult describes a completed restore.
type RestoreResult struct {
	Mode         Mode `json:"mode"`
	Total        int  `json:"total"`
	AddedCount   int  `json:"addedCount"`
	SkippedCount int  `json:"skippedCount"`
}

type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger.Named("backup"), now: time.Now}
}

// Write renders a backup of the current buildings and returns its file name.
func (s *Service) Write(w io.Writer) (string, error) {
	now := s.now()
	data, err := Create(s.store.Items(), now)
	if err != nil {
		return "", fmt.Errorf("failed to render backup: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	return FileName(now), nil
}

// Check parses and validates a backup without applying it.
func (s *Service) Check(r io.Reader) (Report, error) {
	f, err := Parse(r)
	if err != nil {
		return Report{}, err
	}
	return Validate(f), nil
}

// Restore parses, validates and applies a backup. An invalid backup changes
// nothing and returns a validation error carrying the report's messages.
func (s *Service) Restore(ctx context.Context, r io.Reader, mode Mode) (RestoreResult, error) {
	f, err := Parse(r)
	if err != nil {
		return RestoreResult{}, err
	}
	report := Validate(f)
	if !report.IsValid {
		return RestoreResult{}, &importer.ValidationError{Errors: report.Errors}
	}

	res := RestoreResult{Mode: mode, Total: len(f.Buildings)}
	switch mode {
	case ModeReplace:
		stored, err := s.store.ReplaceAll(ctx, f.Buildings)
		if err != nil {
			return RestoreResult{}, err
		}
		res.AddedCount = len(stored)
	default:
		m := Merge(s.store.Items(), f.Buildings)
		if len(m.ToAdd) > 0 {
			if _, err := s.store.AddMultiple(ctx, m.ToAdd); err != nil {
				return RestoreResult{}, err
			}
		}
		res.AddedCount = m.AddedCount
		res.SkippedCount = m.SkippedCount
	}

	s.logger.Info("backup restored",
		zap.String("mode", string(res.Mode)),
		zap.Int("total", res.Total),
		zap.Int("added", res.AddedCount),
		zap.Int("skipped", res.SkippedCount))
	return res, nil
}
