// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/stratum/internal/adapters/config"
	_ "go.trai.ch/stratum/internal/adapters/fingerprint"
	_ "go.trai.ch/stratum/internal/adapters/logger"
	_ "go.trai.ch/stratum/internal/adapters/metrics"
	_ "go.trai.ch/stratum/internal/adapters/shell"
	_ "go.trai.ch/stratum/internal/adapters/telemetry"
	_ "go.trai.ch/stratum/internal/adapters/toolchain"
	_ "go.trai.ch/stratum/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/stratum/internal/app"
)
