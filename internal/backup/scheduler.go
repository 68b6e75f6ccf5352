package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"building-registry/config"
)

const autoPrefix = "buildings-auto-"

// Scheduler writes a backup file into a directory on a fixed interval and
// keeps only the newest files.
type Scheduler struct {
	cfg     config.BackupConfig
	service *Service
	logger  *zap.Logger
}

func NewScheduler(cfg config.BackupConfig, service *Service, logger *zap.Logger) *Scheduler {
	return &Scheduler{cfg: cfg, service: service, logger: logger.Named("backup_scheduler")}
}

// Run writes one backup immediately and then one per interval until ctx is
// done. It returns at once when backups are disabled.
func (s *Scheduler) Run(ctx context.Context) {
	if !s.cfg.Enabled {
		s.logger.Info("automatic backup is disabled")
		return
	}
	s.logger.Info("starting automatic backup",
		zap.String("directory", s.cfg.Directory),
		zap.Duration("interval", s.cfg.Interval))

	s.runOnce()

	timer := time.NewTimer(s.cfg.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("automatic backup shutting down")
			return
		case <-timer.C:
			s.runOnce()
			timer.Reset(s.cfg.Interval)
		}
	}
}

func (s *Scheduler) runOnce() {
	path, err := s.WriteOnce()
	if err != nil {
		s.logger.Error("automatic backup failed", zap.Error(err))
		return
	}
	s.logger.Info("automatic backup written", zap.String("path", path))

	removed, err := s.Prune()
	if err != nil {
		s.logger.Warn("failed to prune old backups", zap.Error(err))
	}
	if len(removed) > 0 {
		s.logger.Info("old backups removed", zap.Strings("files", removed))
	}
}

// WriteOnce writes a backup file and returns its path. The file appears
// under its final name only once it is complete.
func (s *Scheduler) WriteOnce() (string, error) {
	if err := os.MkdirAll(s.cfg.Directory, 0o750); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	now := s.service.now()
	name := autoPrefix + now.UTC().Format("20060102T150405.000") + ".json"
	path := filepath.Join(s.cfg.Directory, name)

	tmp, err := os.CreateTemp(s.cfg.Directory, ".backup-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := s.service.Write(tmp); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("rename backup: %w", err)
	}
	return path, nil
}

// Prune deletes automatic backups beyond the newest cfg.Keep and returns the
// removed file names.
func (s *Scheduler) Prune() ([]string, error) {
	entries, err := os.ReadDir(s.cfg.Directory)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), autoPrefix) && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	if len(names) <= s.cfg.Keep {
		return nil, nil
	}

	// names embed a sortable UTC timestamp
	slices.Sort(names)
	stale := names[:len(names)-s.cfg.Keep]
	for _, n := range stale {
		if err := os.Remove(filepath.Join(s.cfg.Directory, n)); err != nil {
			return nil, fmt.Errorf("remove %s: %w", n, err)
		}
	}
	return stale, nil
}
