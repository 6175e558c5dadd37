package ports

import "context"

// AssetStep is one asset preparation step run before every build.
//
//go:generate go run go.uber.org/mock/mockgen -source=assets.go -destination=mocks/mock_assets.go -package=mocks
type AssetStep interface {
	// Name identifies the step in logs and errors.
	Name() string

	// Run regenerates the step's outputs. With cacheBypass the step must not
	// reuse previous outputs.
	Run(ctx context.Context, cacheBypass bool) error
}
