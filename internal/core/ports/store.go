package ports

import "go.trai.ch/stratum/internal/core/domain"

// FingerprintStore persists the configuration fingerprint of a build directory.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type FingerprintStore interface {
	// Get returns the fingerprint the build directory was last configured with.
	// Returns nil, nil if the directory is not configured.
	Get(buildDir string) (*domain.Fingerprint, error)

	// Put records the fingerprint after a successful configure.
	Put(buildDir string, fp domain.Fingerprint) error

	// Remove forgets the fingerprint. Removing a missing record is not an error.
	Remove(buildDir string) error
}
