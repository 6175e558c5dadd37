// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/stratum/internal/core/domain"
)

// Executor defines the interface for running external processes.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Run executes cmd and streams its output to the logger.
	//
	// The command's Env is layered over the daemon's environment; Dir is the working directory.
	// It returns an error carrying the exit code if the process fails.
	Run(ctx context.Context, cmd domain.Command) error

	// Output executes cmd and returns its standard output.
	Output(ctx context.Context, cmd domain.Command) ([]byte, error)
}
