package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/Spok95/showcase-judging/internal/models"
)

func newTestCache(t *testing.T) (*SummaryCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(rdb, time.Minute, nil), mr
}

func TestSummaryCache_RoundTripAndInvalidate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	if _, ok := c.GetSummary(ctx, "p1"); ok {
		t.Fatal("empty cache must miss")
	}
	avg := 7.5
	c.PutSummary(ctx, "p1", []models.CriterionSummary{{Name: "Innovation", Type: models.CriteriaRating, AvgRating: &avg, Weight: 2}})

	rows, ok := c.GetSummary(ctx, "p1")
	if !ok || len(rows) != 1 || rows[0].AvgRating == nil || *rows[0].AvgRating != 7.5 {
		t.Fatalf("unexpected cached rows: %+v %v", rows, ok)
	}

	c.Invalidate(ctx, "p1")
	if _, ok := c.GetSummary(ctx, "p1"); ok {
		t.Fatal("invalidated entry must miss")
	}
}

func TestSummaryCache_InvalidateAll(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	for _, id := range []string{"p1", "p2", "p3"} {
		c.PutSummary(ctx, id, []models.CriterionSummary{})
	}
	if err := mr.Set("other:key", "keep"); err != nil {
		t.Fatal(err)
	}

	c.InvalidateAll(ctx)
	for _, id := range []string{"p1", "p2", "p3"} {
		if _, ok := c.GetSummary(ctx, id); ok {
			t.Fatalf("%s must miss after InvalidateAll", id)
		}
	}
	if !mr.Exists("other:key") {
		t.Fatal("keys outside the summary prefix must survive")
	}
}

func TestSummaryCache_TTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	c.PutSummary(ctx, "p1", []models.CriterionSummary{})
	mr.FastForward(2 * time.Minute)
	if _, ok := c.GetSummary(ctx, "p1"); ok {
		t.Fatal("expired entry must miss")
	}
}

func TestSummaryCache_RedisDown(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()
	if _, ok := c.GetSummary(context.Background(), "p1"); ok {
		t.Fatal("unreachable redis must behave as a miss")
	}
}
