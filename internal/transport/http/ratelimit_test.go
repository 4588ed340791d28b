package http

import (
	"testing"
	"time"
)

func TestFrameLimiterWindow(t *testing.T) {
	l := newFrameLimiter(2)
	now := time.Now()

	if !l.allow(now) || !l.allow(now) {
		t.Fatal("expected first two frames allowed")
	}
	if l.allow(now) {
		t.Fatal("expected third frame rejected")
	}

	// A new window resets the budget.
	later := now.Add(time.Minute)
	if !l.allow(later) {
		t.Fatal("expected frame allowed after window reset")
	}
}

func TestFrameLimiterDisabled(t *testing.T) {
	l := newFrameLimiter(0)
	now := time.Now()

	for i := 0; i < 1000; i++ {
		if !l.allow(now) {
			t.Fatal("limit 0 must never reject")
		}
	}
}
