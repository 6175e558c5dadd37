// Package app implements the application layer for stratumd.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.trai.ch/stratum/internal/adapters/assets"
	"go.trai.ch/stratum/internal/adapters/server"
	"go.trai.ch/stratum/internal/core/domain"
	"go.trai.ch/stratum/internal/core/ports"
	"go.trai.ch/stratum/internal/engine/driver"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const metricsShutdownTimeout = 5 * time.Second

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	executor     ports.Executor
	logger       ports.Logger
	store        ports.FingerprintStore
	resolver     ports.EnvironmentResolver
	tracer       ports.Tracer
	metrics      ports.Metrics
	watcher      ports.Watcher
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	executor ports.Executor,
	log ports.Logger,
	store ports.FingerprintStore,
	resolver ports.EnvironmentResolver,
	tracer ports.Tracer,
	metrics ports.Metrics,
	watcher ports.Watcher,
) *App {
	return &App{
		configLoader: loader,
		executor:     executor,
		logger:       log,
		store:        store,
		resolver:     resolver,
		tracer:       tracer,
		metrics:      metrics,
		watcher:      watcher,
	}
}

// Build runs one build of the project in projectDir.
func (a *App) Build(ctx context.Context, projectDir string, req domain.BuildRequest) (*domain.Result, error) {
	settings, err := a.load(projectDir)
	if err != nil {
		return nil, err
	}

	result, err := a.newDriver(settings).Build(ctx, req)
	if err != nil {
		a.logger.Error(err)
		return result, errors.Join(domain.ErrBuildExecutionFailed, err)
	}
	return result, nil
}

// ServeOptions configures the request service.
type ServeOptions struct {
	// Addr overrides the configured listen address.
	Addr string
	// MetricsAddr overrides the configured metrics address. Metrics are not served
	// when both are empty.
	MetricsAddr string
}

// Serve runs the build request service until ctx is cancelled.
func (a *App) Serve(ctx context.Context, projectDir string, opts ServeOptions) error {
	settings, err := a.load(projectDir)
	if err != nil {
		return err
	}
	defer a.shutdownTracer(context.WithoutCancel(ctx))

	addr := firstNonEmpty(opts.Addr, settings.Server.Addr)
	metricsAddr := firstNonEmpty(opts.MetricsAddr, settings.Server.MetricsAddr)

	srv := server.NewServer(a.newDriver(settings), a.logger, settings.Server.ReadTimeout)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(ctx, addr)
	})

	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", a.metrics.Handler())
		httpSrv := &http.Server{
			Addr:              metricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: settings.Server.ReadTimeout,
		}

		g.Go(func() error {
			a.logger.Info(fmt.Sprintf("metrics listening on %s", metricsAddr))
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return zerr.With(zerr.Wrap(err, "metrics server failed"), "addr", metricsAddr)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), metricsShutdownTimeout)
			defer cancel()
			return httpSrv.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	Targets []domain.Target
	Tools   bool
}

// Clean removes build directories and the captured toolchain environments.
func (a *App) Clean(ctx context.Context, projectDir string, opts CleanOptions) error {
	settings, err := a.load(projectDir)
	if err != nil {
		return err
	}

	var errs error
	drv := a.newDriver(settings)
	for _, target := range opts.Targets {
		a.logger.Info(fmt.Sprintf("removing %s build directory...", target))
		if err := drv.Clean(ctx, target); err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		a.logger.Info(fmt.Sprintf("removed %s", settings.BuildDir(target)))
	}

	if opts.Tools {
		dir := settings.EnvCacheDir()
		a.logger.Info("removing environment cache...")
		if err := os.RemoveAll(dir); err != nil {
			errs = errors.Join(errs, zerr.With(zerr.Wrap(err, "failed to remove environment cache"), "path", dir))
		} else {
			a.logger.Info(fmt.Sprintf("removed %s", dir))
		}
	}

	return errs
}

// Request sends req to a running build server. An empty addr selects the configured one.
func (a *App) Request(ctx context.Context, projectDir, addr string, req domain.BuildRequest) (*server.Response, error) {
	if addr == "" {
		settings, err := a.load(projectDir)
		if err != nil {
			return nil, err
		}
		addr = settings.Server.Addr
	}

	resp, err := server.NewClient(addr).Send(ctx, req)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		err := zerr.With(zerr.New(resp.Error), "kind", resp.Kind)
		a.logger.Error(err)
		return resp, errors.Join(domain.ErrBuildExecutionFailed, err)
	}

	result := domain.Result{
		Success:      true,
		ArtifactPath: resp.ArtifactPath,
		Elapsed:      time.Duration(resp.ElapsedMS) * time.Millisecond,
	}
	a.logger.Info(result.Summary())
	return resp, nil
}

func (a *App) load(projectDir string) (*domain.Settings, error) {
	settings, err := a.configLoader.Load(projectDir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	return settings, nil
}

func (a *App) newDriver(settings *domain.Settings) *driver.Driver {
	return driver.New(
		settings,
		a.executor,
		a.resolver,
		assets.NewSteps(settings, a.executor, a.logger),
		a.store,
		a.tracer,
		a.metrics,
		a.logger,
	)
}

// shutdownTracer flushes span processors when the tracer owns a provider.
func (a *App) shutdownTracer(ctx context.Context) {
	s, ok := a.tracer.(interface{ Shutdown(context.Context) error })
	if !ok {
		return
	}
	if err := s.Shutdown(ctx); err != nil {
		a.logger.Warn(fmt.Sprintf("failed to shut down tracer: %v", err))
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
