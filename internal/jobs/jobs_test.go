package jobs

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/showcase-judging/internal/admin"
	"github.com/Spok95/showcase-judging/internal/storage"
)

func TestRunnerEverySurvivesPanics(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := New(ctx, nil)
	var calls atomic.Int32
	r.Every(5*time.Millisecond, "flaky", func(context.Context) error {
		if calls.Add(1) == 1 {
			panic("boom")
		}
		return nil
	})
	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	r.Wait()
	if calls.Load() < 3 {
		t.Fatalf("job ran %d times", calls.Load())
	}
}

func TestRunnerDisabledInterval(t *testing.T) {
	r := New(context.Background(), nil)
	r.Every(0, "off", func(context.Context) error { t.Fatal("must not run"); return nil })
	r.Wait()
}

type scannerFunc func(ctx context.Context, dryRun bool) (*admin.CleanupReport, error)

func (f scannerFunc) CleanupOrphans(ctx context.Context, dryRun bool) (*admin.CleanupReport, error) {
	return f(ctx, dryRun)
}

type recordingNotifier struct{ texts []string }

func (n *recordingNotifier) NotifyAdmins(_ context.Context, text string) { n.texts = append(n.texts, text) }
func (n *recordingNotifier) SendDocumentToAdmins(context.Context, string, []byte, string) error {
	return nil
}

func TestOrphanReport(t *testing.T) {
	n := &recordingNotifier{}
	var gotDry bool
	job := OrphanReport(scannerFunc(func(_ context.Context, dryRun bool) (*admin.CleanupReport, error) {
		gotDry = dryRun
		return &admin.CleanupReport{
			DryRun:    true,
			Scanned:   4,
			Orphans:   []storage.FileInfo{{Name: "a.png", Size: 2048}},
			TotalSize: "2.0 kB",
		}, nil
	}), n, zap.NewNop())

	if err := job(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !gotDry {
		t.Fatal("scheduled cleanup must be a dry run")
	}
	if len(n.texts) != 1 || !strings.Contains(n.texts[0], "1 of 4 scanned (2.0 kB)") {
		t.Fatalf("texts = %q", n.texts)
	}

	t.Run("nothing_to_report", func(t *testing.T) {
		n := &recordingNotifier{}
		job := OrphanReport(scannerFunc(func(context.Context, bool) (*admin.CleanupReport, error) {
			return &admin.CleanupReport{DryRun: true}, nil
		}), n, zap.NewNop())
		if err := job(context.Background()); err != nil || len(n.texts) != 0 {
			t.Fatalf("err=%v texts=%q", err, n.texts)
		}
	})
	t.Run("scan_error", func(t *testing.T) {
		job := OrphanReport(scannerFunc(func(context.Context, bool) (*admin.CleanupReport, error) {
			return nil, errors.New("db down")
		}), &recordingNotifier{}, zap.NewNop())
		if err := job(context.Background()); err == nil {
			t.Fatal("expected error")
		}
	})
}
