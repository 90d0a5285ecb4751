package netutil

import "time"

// ClampTimeout returns fallback for an unset (zero or negative) timeout and
// raises anything shorter than floor to floor.
func ClampTimeout(d, floor, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	if floor > 0 && d < floor {
		return floor
	}
	return d
}
