package fingerprint

import "time"

// NewStoreWithClock creates a Store with a fixed clock.
func NewStoreWithClock(now func() time.Time) *Store {
	return &Store{now: now}
}
