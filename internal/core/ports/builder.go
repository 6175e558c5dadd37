package ports

import (
	"context"

	"go.trai.ch/stratum/internal/core/domain"
)

// Builder runs one build request to completion.
//
//go:generate mockgen -source=builder.go -destination=mocks/mock_builder.go -package=mocks
type Builder interface {
	// Build executes the request and reports the outcome. A failed build returns a
	// non-nil error and a Result with Success set to false.
	Build(ctx context.Context, req domain.BuildRequest) (*domain.Result, error)
}
