package admin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Spok95/showcase-judging/internal/storage"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

type Check struct {
	Name      string `json:"name"`
	OK        bool   `json:"ok"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

type HealthReport struct {
	Status    Status    `json:"status"`
	Checks    []Check   `json:"checks"`
	CheckedAt time.Time `json:"checked_at"`
}

const (
	checkDatabase  = "database"
	checkAuth      = "auth"
	checkStorage   = "storage"
	checkFunctions = "functions"
)

// Health проверяет БД, выпуск токенов, хранилище и сам сервис администрирования.
// Недоступная БД: unhealthy, любой другой сбой, degraded.
func (s *Service) Health(ctx context.Context) *HealthReport {
	rep := &HealthReport{CheckedAt: time.Now().UTC()}
	probes := []struct {
		name string
		fn   func(context.Context) error
	}{
		{checkDatabase, s.probeDatabase},
		{checkAuth, func(context.Context) error { return s.tokens.Probe() }},
		{checkStorage, s.probeStorage},
		{checkFunctions, func(ctx context.Context) error { return ctx.Err() }},
	}
	for _, p := range probes {
		start := time.Now()
		err := p.fn(ctx)
		c := Check{Name: p.name, OK: err == nil, LatencyMS: time.Since(start).Milliseconds()}
		if err != nil {
			c.Error = err.Error()
		}
		rep.Checks = append(rep.Checks, c)
	}
	rep.Status = aggregate(rep.Checks)
	return rep
}

func aggregate(checks []Check) Status {
	status := StatusHealthy
	for _, c := range checks {
		if c.OK {
			continue
		}
		if c.Name == checkDatabase {
			return StatusUnhealthy
		}
		status = StatusDegraded
	}
	return status
}

func (s *Service) probeDatabase(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return err
	}
	_, err := s.store.ListUsersPage(ctx, 1, 1, "")
	return err
}

func (s *Service) probeStorage(context.Context) error {
	name := "healthcheck-" + uuid.NewString()
	payload := []byte("ok")
	if _, err := s.files.Put(storage.BucketProductImages, name, bytes.NewReader(payload)); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	got, err := s.files.Get(storage.BucketProductImages, name)
	delErr := s.files.Delete(storage.BucketProductImages, name)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	if !bytes.Equal(got, payload) {
		return errors.New("read back mismatch")
	}
	if delErr != nil {
		return fmt.Errorf("delete: %w", delErr)
	}
	return nil
}
