package greeting

import (
	"testing"
	"time"
)

func TestGreeterTimeNowReadsClockOnce(t *testing.T) {
	calls := 0
	g := NewGreeter(ClockFunc(func() time.Time {
		calls++
		return at(16, 30, 0, 0)
	}))

	now, period, msg := g.TimeNow()
	if calls != 1 {
		t.Fatalf("expected one clock read, got %d", calls)
	}
	if !now.Equal(at(16, 30, 0, 0)) {
		t.Fatalf("unexpected instant %s", now)
	}
	if period != Evening {
		t.Fatalf("expected Evening, got %q", period)
	}
	if msg != "It's 16:30 Good Evening" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestGreeterWelcome(t *testing.T) {
	g := NewGreeter(FixedClock{Time: at(3, 0, 0, 0)})
	if g.Welcome() != Welcome {
		t.Fatalf("expected %q, got %q", Welcome, g.Welcome())
	}
}

func TestNewGreeterDefaultsToSystemClock(t *testing.T) {
	g := NewGreeter(nil)
	if _, ok := g.clock.(SystemClock); !ok {
		t.Fatalf("expected SystemClock, got %T", g.clock)
	}
}

func TestSystemClockLocation(t *testing.T) {
	loc := time.FixedZone("test", -3*60*60)
	now := SystemClock{Location: loc}.Now()
	if now.Location() != loc {
		t.Fatalf("expected location %v, got %v", loc, now.Location())
	}
}
