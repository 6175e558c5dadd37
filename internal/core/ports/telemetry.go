package ports

import (
	"context"
	"net/http"
	"time"

	"go.trai.ch/stratum/internal/core/domain"
)

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Tracer is the entry point for creating spans.
type Tracer interface {
	// Start creates a new span.
	Start(ctx context.Context, name string) (context.Context, Span)
}

// Span represents a unit of work.
type Span interface {
	// End completes the span.
	End()
	// RecordError records an error for the span.
	RecordError(err error)
	// SetAttribute adds a key-value pair to the span.
	SetAttribute(key string, value any)
}

// Metrics records build and phase outcomes.
type Metrics interface {
	// ObservePhase records the duration and outcome of one build phase.
	ObservePhase(target domain.Target, phase string, d time.Duration, err error)
	// ObserveBuild records the duration and outcome of a whole build.
	ObserveBuild(target domain.Target, d time.Duration, err error)
	// InFlight adjusts the number of builds currently running.
	InFlight(delta int)
	// Handler exposes the collected metrics over HTTP.
	Handler() http.Handler
}
