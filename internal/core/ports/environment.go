package ports

import (
	"context"

	"go.trai.ch/stratum/internal/core/domain"
)

// EnvironmentResolver derives the execution context of a build target.
//
// Implementations are responsible for:
//   - Validating that the toolchain of the target is installed
//   - Selecting the CMake generator
//   - Producing the environment variables the toolchain needs
//
//go:generate go run go.uber.org/mock/mockgen -source=environment.go -destination=mocks/mock_environment.go -package=mocks
type EnvironmentResolver interface {
	// Resolve returns the build environment for target.
	//
	// It fails with domain.ErrMissingToolchain before spawning any process when a
	// required toolchain path does not exist.
	Resolve(ctx context.Context, target domain.Target, settings *domain.Settings) (*domain.BuildEnvironment, error)
}
