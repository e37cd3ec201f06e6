package memengine

import (
	"context"
	"testing"
	"time"

	"github.com/ilkerhalil/kvlite"
	"github.com/ilkerhalil/kvlite/clock"
	"github.com/ilkerhalil/kvlite/settings"
)

// Kept in bare-testing style (no testify) rather than table-driven
// assertions, matching this package's plain map-and-mutex shape.

func newTestEngine(t *testing.T) (*Engine, *clock.Fake) {
	t.Helper()
	fake := clock.NewFake(time.Unix(1_700_000_000, 0))
	st := settings.New()
	e := New(st, WithClock(fake))
	t.Cleanup(func() { e.Close() })
	return e, fake
}

func TestAddTimedAndGet(t *testing.T) {
	ctx := context.Background()
	e, fake := newTestEngine(t)

	if err := e.AddTimed(ctx, "", "greeting", []byte("hello"), fake.NowUnix()+10); err != nil {
		t.Fatalf("AddTimed: %v", err)
	}

	v, ok, err := e.Get(ctx, "", "greeting")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected hit")
	}
	if string(v.Value) != "hello" {
		t.Fatalf("value = %q, want %q", v.Value, "hello")
	}
}

func TestTimedExpires(t *testing.T) {
	ctx := context.Background()
	e, fake := newTestEngine(t)

	if err := e.AddTimed(ctx, "", "k", []byte("v"), fake.NowUnix()+5); err != nil {
		t.Fatalf("AddTimed: %v", err)
	}
	fake.Advance(6 * time.Second)

	if _, ok, err := e.Get(ctx, "", "k"); err != nil {
		t.Fatalf("Get: %v", err)
	} else if ok {
		t.Fatal("expected expired entry to be absent")
	}
}

func TestSlidingBumpExtendsExpiry(t *testing.T) {
	ctx := context.Background()
	e, fake := newTestEngine(t)

	if err := e.AddSliding(ctx, "", "k", []byte("v"), 5); err != nil {
		t.Fatalf("AddSliding: %v", err)
	}
	fake.Advance(3 * time.Second)
	if _, ok, err := e.Get(ctx, "", "k"); err != nil || !ok {
		t.Fatalf("Get at t+3: ok=%v err=%v", ok, err)
	}
	// The bump is fire-and-forget on the executor; give its goroutine a
	// moment to land before relying on its effect.
	time.Sleep(50 * time.Millisecond)
	fake.Advance(3 * time.Second) // t+6, past the original 5s window
	if _, ok, err := e.Get(ctx, "", "k"); err != nil || !ok {
		t.Fatalf("Get at t+6 after bump: ok=%v err=%v, want still alive", ok, err)
	}
}

func TestParentCascadeRemovesChildren(t *testing.T) {
	ctx := context.Background()
	e, fake := newTestEngine(t)

	if err := e.AddTimed(ctx, "", "parent", []byte("p"), fake.NowUnix()+60); err != nil {
		t.Fatalf("AddTimed parent: %v", err)
	}
	parent := kvlite.ParentRef{Key: "parent"}
	if err := e.AddTimed(ctx, "", "child", []byte("c"), fake.NowUnix()+60, parent); err != nil {
		t.Fatalf("AddTimed child: %v", err)
	}

	if err := e.Remove(ctx, "", "parent"); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	if ok, err := e.Contains(ctx, "", "child"); err != nil {
		t.Fatalf("Contains: %v", err)
	} else if ok {
		t.Fatal("expected child to cascade-delete with its parent")
	}
}

func TestClearConsiderExpiryOnlyRemovesExpired(t *testing.T) {
	ctx := context.Background()
	e, fake := newTestEngine(t)

	if err := e.AddTimed(ctx, "", "expired", []byte("v"), fake.NowUnix()-1); err != nil {
		t.Fatalf("AddTimed expired: %v", err)
	}
	if err := e.AddTimed(ctx, "", "alive", []byte("v"), fake.NowUnix()+60); err != nil {
		t.Fatalf("AddTimed alive: %v", err)
	}

	n, err := e.Clear(ctx, "", kvlite.ConsiderExpiry)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 1 {
		t.Fatalf("Clear removed %d, want 1", n)
	}
	if ok, _ := e.Contains(ctx, "", "alive"); !ok {
		t.Fatal("Clear(ConsiderExpiry) should not have removed the live entry")
	}
}

func TestGetItemsScopedToPartition(t *testing.T) {
	ctx := context.Background()
	e, fake := newTestEngine(t)

	if err := e.AddTimed(ctx, "p1", "a", []byte("1"), fake.NowUnix()+60); err != nil {
		t.Fatalf("AddTimed: %v", err)
	}
	if err := e.AddTimed(ctx, "p2", "b", []byte("2"), fake.NowUnix()+60); err != nil {
		t.Fatalf("AddTimed: %v", err)
	}

	items, err := e.GetItems(ctx, "p1")
	if err != nil {
		t.Fatalf("GetItems: %v", err)
	}
	if len(items) != 1 || items[0].Key != "a" {
		t.Fatalf("GetItems(p1) = %+v, want exactly [a]", items)
	}
}

func TestStatsTracksHitsAndMisses(t *testing.T) {
	ctx := context.Background()
	e, fake := newTestEngine(t)

	if err := e.AddTimed(ctx, "", "k", []byte("v"), fake.NowUnix()+60); err != nil {
		t.Fatalf("AddTimed: %v", err)
	}
	if _, _, err := e.Get(ctx, "", "k"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if _, _, err := e.Get(ctx, "", "missing"); err != nil {
		t.Fatalf("Get: %v", err)
	}

	s := e.Stats()
	if s.Hits != 1 || s.Misses != 1 {
		t.Fatalf("Stats = %+v, want Hits=1 Misses=1", s)
	}
}
