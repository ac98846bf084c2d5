package ctxutil

import (
	"context"
	"testing"
	"time"
)

func TestProfileAndRole(t *testing.T) {
	ctx := WithRole(WithProfileID(context.Background(), "p1"), "admin")
	if id, ok := ProfileID(ctx); !ok || id != "p1" {
		t.Fatalf("profile id: %q %v", id, ok)
	}
	if r, ok := Role(ctx); !ok || r != "admin" {
		t.Fatalf("role: %q %v", r, ok)
	}
	if _, ok := ProfileID(context.Background()); ok {
		t.Fatal("empty context must not carry a profile id")
	}
}

func TestWithDBTimeout_UsesShorterParentDeadline(t *testing.T) {
	parent, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	ctx, c2 := WithDBTimeout(parent)
	defer c2()
	dl, ok := ctx.Deadline()
	if !ok {
		t.Fatal("expected deadline")
	}
	if time.Until(dl) > time.Second {
		t.Fatalf("deadline too far: %v", time.Until(dl))
	}
}

func TestWithTimeout_ZeroMeansNoDeadline(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), 0)
	defer cancel()
	if _, ok := ctx.Deadline(); ok {
		t.Fatal("zero timeout must not set a deadline")
	}
}
