// Package age computes how long tickets have been around.
package age

import "time"

// Since returns the time elapsed from t to now, clamped at zero. It reports
// false when t is unset.
func Since(t time.Time, now time.Time) (time.Duration, bool) {
	if t.IsZero() {
		return 0, false
	}
	return clamp(now.Sub(t)), true
}

// OpenFor returns how long a ticket has been open. Open tickets are measured
// against now and closed ones against closedAt.
func OpenFor(createdAt time.Time, closedAt time.Time, open bool, now time.Time) (time.Duration, bool) {
	if open {
		return Since(createdAt, now)
	}
	if createdAt.IsZero() || closedAt.IsZero() {
		return 0, false
	}
	return clamp(closedAt.Sub(createdAt)), true
}

func clamp(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
