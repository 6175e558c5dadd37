package ports

import "go.trai.ch/stratum/internal/core/domain"

// Logger defines the interface for logging.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	Info(msg string)
	Warn(msg string)
	Error(err error)
}

// ScopedLogger is a Logger that can tag its lines with the build they belong to.
type ScopedLogger interface {
	Logger
	// Scope returns a Logger for target; phase may be empty.
	Scope(target domain.Target, phase string) Logger
}
