package ports

import "go.trai.ch/stratum/internal/core/domain"

// ConfigLoader defines the interface for loading the project settings.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load walks up from cwd to find stratum.yaml and returns the resolved settings.
	// Without a config file the defaults are rooted at cwd.
	Load(cwd string) (*domain.Settings, error)
}
