package domain

import "time"

// Fingerprint is the persisted subset of configure state that decides whether a
// reconfiguration is required.
type Fingerprint struct {
	Target       Target    `json:"target"`
	Dynamic      bool      `json:"dynamic"`
	ConfiguredAt time.Time `json:"configured_at,omitzero"`
}

// Matches reports whether f describes the same build shape as other.
// Only the target and the linkage mode take part in the comparison.
func (f Fingerprint) Matches(other Fingerprint) bool {
	return f.Target == other.Target && f.Dynamic == other.Dynamic
}
