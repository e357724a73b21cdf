package http

import (
	"testing"
	"time"
)

func TestRateLimiterWindow(t *testing.T) {
	rl := newRateLimiter(2)
	clock := time.Unix(1000, 0)
	rl.now = func() time.Time { return clock }

	if !rl.allow() || !rl.allow() {
		t.Fatal("first two messages must pass")
	}
	if rl.allow() {
		t.Fatal("third message in window must be rejected")
	}

	clock = clock.Add(time.Minute)
	if !rl.allow() {
		t.Fatal("counter must reset after the window")
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := newRateLimiter(0)
	for range 1000 {
		if !rl.allow() {
			t.Fatal("disabled limiter must allow everything")
		}
	}
	var nilLimiter *rateLimiter
	if !nilLimiter.allow() {
		t.Fatal("nil limiter must allow")
	}
}
