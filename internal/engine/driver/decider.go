package driver

import (
	"go.trai.ch/stratum/internal/core/domain"
	"go.trai.ch/stratum/internal/core/ports"
)

// Decider decides whether a build directory must be reconfigured.
type Decider struct {
	store ports.FingerprintStore
}

// NewDecider creates a Decider backed by store.
func NewDecider(store ports.FingerprintStore) *Decider {
	return &Decider{store: store}
}

// NeedsReconfigure reports whether the configure step must run for want in buildDir.
// It is true when forced, when no fingerprint is recorded, or when the recorded
// target or linkage differs. A store error also reports true alongside the error.
func (d *Decider) NeedsReconfigure(buildDir string, want domain.Fingerprint, force bool) (bool, error) {
	if force {
		return true, nil
	}
	stored, err := d.store.Get(buildDir)
	if err != nil {
		return true, err
	}
	if stored == nil {
		return true, nil
	}
	return !stored.Matches(want), nil
}
