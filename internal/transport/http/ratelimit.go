package http

import "time"

// frameLimiter caps inbound frames per rolling minute for one connection.
// It is only touched from that connection's read loop, so no locking.
type frameLimiter struct {
	limit       int
	count       int
	windowStart time.Time
}

func newFrameLimiter(limit int) *frameLimiter {
	return &frameLimiter{limit: limit}
}

func (l *frameLimiter) allow(now time.Time) bool {
	if l.limit <= 0 {
		return true
	}
	if now.Sub(l.windowStart) >= time.Minute {
		l.windowStart = now
		l.count = 0
	}
	l.count++
	return l.count <= l.limit
}
