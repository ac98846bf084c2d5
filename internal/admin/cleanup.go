package admin

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/Spok95/showcase-judging/internal/storage"
)

type CleanupError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

type CleanupReport struct {
	DryRun     bool               `json:"dry_run"`
	Scanned    int                `json:"scanned"`
	Orphans    []storage.FileInfo `json:"orphans"`
	TotalBytes int64              `json:"total_bytes"`
	TotalSize  string             `json:"total_size"`
	Deleted    []string           `json:"deleted"`
	Errors     []CleanupError     `json:"errors"`
}

// Summary is a one-line human description, used in logs and notifications.
func (r *CleanupReport) Summary() string {
	verb := "found"
	if !r.DryRun {
		verb = "deleted"
	}
	n := len(r.Orphans)
	if !r.DryRun {
		n = len(r.Deleted)
	}
	return fmt.Sprintf("orphaned storage files %s: %d of %d scanned (%s), errors: %d",
		verb, n, r.Scanned, r.TotalSize, len(r.Errors))
}

// CleanupOrphans ищет файлы в бакетах, на которые не ссылается ни одна строка БД.
// В режиме dryRun ничего не удаляет.
func (s *Service) CleanupOrphans(ctx context.Context, dryRun bool) (*CleanupReport, error) {
	refs, err := s.store.ReferencedFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("referenced files: %w", err)
	}
	// ссылки могут быть абсолютными URL: сравниваем по bucket/name
	referenced := make(map[string]bool, len(refs))
	for ref := range refs {
		if b, n, ok := storage.ParsePublicPath(ref); ok {
			referenced[storage.PublicPath(b, n)] = true
		}
	}

	rep := &CleanupReport{
		DryRun:  dryRun,
		Orphans: []storage.FileInfo{},
		Deleted: []string{},
		Errors:  []CleanupError{},
	}
	for _, bucket := range storage.Buckets {
		files, err := s.files.List(bucket)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", bucket, err)
		}
		for _, f := range files {
			rep.Scanned++
			if referenced[f.PublicPath] {
				continue
			}
			rep.Orphans = append(rep.Orphans, f)
			rep.TotalBytes += f.Size
		}
	}

	if !dryRun {
		for _, f := range rep.Orphans {
			if err := ctx.Err(); err != nil {
				rep.Errors = append(rep.Errors, CleanupError{Path: f.PublicPath, Error: err.Error()})
				continue
			}
			if err := s.files.Delete(f.Bucket, f.Name); err != nil {
				rep.Errors = append(rep.Errors, CleanupError{Path: f.PublicPath, Error: err.Error()})
				continue
			}
			rep.Deleted = append(rep.Deleted, f.PublicPath)
		}
	}
	if rep.TotalBytes < 0 {
		rep.TotalBytes = 0
	}
	rep.TotalSize = humanize.Bytes(uint64(rep.TotalBytes))

	s.log.Info("storage cleanup",
		zap.Bool("dry_run", dryRun),
		zap.Int("scanned", rep.Scanned),
		zap.Int("orphans", len(rep.Orphans)),
		zap.Int("deleted", len(rep.Deleted)),
		zap.String("size", rep.TotalSize))
	return rep, nil
}
