// Package driver runs one build of the library through its fixed phases.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"time"

	"go.trai.ch/zerr"
	"golang.org/x/sync/semaphore"

	"go.trai.ch/stratum/internal/core/domain"
	"go.trai.ch/stratum/internal/core/ports"
)

// Phase names used for spans, metrics and log lines.
const (
	PhasePreflight = "preflight"
	PhaseAssets    = "assets"
	PhasePrepare   = "prepare"
	PhaseConfigure = "configure"
	PhaseCompile   = "compile"
	PhasePromote   = "promote"
)

var _ ports.Builder = (*Driver)(nil)

// Driver executes build requests. Builds of the same target are serialized; builds
// of different targets run in parallel.
type Driver struct {
	settings *domain.Settings
	executor ports.Executor
	resolver ports.EnvironmentResolver
	steps    []ports.AssetStep
	store    ports.FingerprintStore
	decider  *Decider
	tracer   ports.Tracer
	metrics  ports.Metrics
	logger   ports.Logger

	goos string
	jobs int
	now  func() time.Time

	assetsLock  *semaphore.Weighted
	targetLocks map[domain.Target]*semaphore.Weighted
}

// New creates a Driver for the project described by settings.
func New(
	settings *domain.Settings,
	executor ports.Executor,
	resolver ports.EnvironmentResolver,
	steps []ports.AssetStep,
	store ports.FingerprintStore,
	tracer ports.Tracer,
	metrics ports.Metrics,
	logger ports.Logger,
) *Driver {
	locks := make(map[domain.Target]*semaphore.Weighted, len(domain.Targets))
	for _, t := range domain.Targets {
		locks[t] = semaphore.NewWeighted(1)
	}
	return &Driver{
		settings:    settings,
		executor:    executor,
		resolver:    resolver,
		steps:       steps,
		store:       store,
		decider:     NewDecider(store),
		tracer:      tracer,
		metrics:     metrics,
		logger:      logger,
		goos:        runtime.GOOS,
		jobs:        runtime.NumCPU(),
		now:         time.Now,
		assetsLock:  semaphore.NewWeighted(1),
		targetLocks: locks,
	}
}

// Build runs every phase of req in order and stops at the first failure.
func (d *Driver) Build(ctx context.Context, req domain.BuildRequest) (*domain.Result, error) {
	req = req.Normalize()
	result := &domain.Result{Target: req.Target}
	if err := req.Validate(); err != nil {
		return result, err
	}

	if timeout := d.settings.Server.BuildTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	d.metrics.InFlight(1)
	defer d.metrics.InFlight(-1)

	ctx, span := d.tracer.Start(ctx, "build")
	defer span.End()
	span.SetAttribute("stratum.target", req.Target)
	span.SetAttribute("stratum.dynamic", req.Dynamic)
	span.SetAttribute("stratum.release", req.Release)
	span.SetAttribute("stratum.nocache", req.NoCache)
	span.SetAttribute("stratum.output_name", req.OutputName)

	start := d.now()
	artifact, configured, err := d.run(ctx, req)
	result.Elapsed = d.now().Sub(start)
	result.Configured = configured
	d.metrics.ObserveBuild(req.Target, result.Elapsed, err)

	if err != nil {
		span.RecordError(err)
		return result, err
	}

	result.Success = true
	result.ArtifactPath = artifact
	d.scope(req.Target, "").Info(result.Summary())
	return result, nil
}

func (d *Driver) run(ctx context.Context, req domain.BuildRequest) (artifact string, configured bool, err error) {
	var env *domain.BuildEnvironment
	err = d.phase(ctx, req.Target, PhasePreflight, func(ctx context.Context, _ ports.Logger) error {
		var resolveErr error
		env, resolveErr = d.resolver.Resolve(ctx, req.Target, d.settings)
		return resolveErr
	})
	if err != nil {
		return "", false, err
	}

	if err = d.phase(ctx, req.Target, PhaseAssets, func(ctx context.Context, log ports.Logger) error {
		return d.prepareAssets(ctx, log, req.NoCache)
	}); err != nil {
		return "", false, err
	}

	lock := d.targetLocks[req.Target]
	if !lock.TryAcquire(1) {
		d.scope(req.Target, "").Info(fmt.Sprintf("Waiting for the running %s build to finish...", req.Target))
		if err = lock.Acquire(ctx, 1); err != nil {
			return "", false, zerr.With(zerr.Wrap(err, "gave up waiting for build lock"), "target", req.Target.String())
		}
	}
	defer lock.Release(1)

	buildDir := d.settings.BuildDir(req.Target)
	handle := domain.NewArtifactHandle(buildDir, req.OutputName, req.Dynamic, d.goos)

	if err = d.phase(ctx, req.Target, PhasePrepare, func(_ context.Context, log ports.Logger) error {
		return prepareBuildDir(log, buildDir, handle, req.NoCache)
	}); err != nil {
		return "", false, err
	}

	if err = d.phase(ctx, req.Target, PhaseConfigure, func(ctx context.Context, log ports.Logger) error {
		var configureErr error
		configured, configureErr = d.configure(ctx, log, req, env, buildDir)
		return configureErr
	}); err != nil {
		return "", configured, err
	}

	if err = d.phase(ctx, req.Target, PhaseCompile, func(ctx context.Context, log ports.Logger) error {
		log.Info(fmt.Sprintf("Building (%s/%s/%s)...", req.Target, req.BuildType(), req.Linkage()))
		cmd := env.Command(buildDir, d.settings.CMake, CompileArgs(d.jobs)...)
		if runErr := d.executor.Run(ctx, cmd); runErr != nil {
			return domain.PhaseError(domain.ErrCompileFailed, runErr)
		}
		return nil
	}); err != nil {
		return "", configured, err
	}

	if err = d.phase(ctx, req.Target, PhasePromote, func(_ context.Context, log ports.Logger) error {
		return promote(handle, log)
	}); err != nil {
		return "", configured, err
	}

	return handle.Final, configured, nil
}

// phase runs fn inside its own span and records its duration. fn logs through a
// logger scoped to the target and phase.
func (d *Driver) phase(
	ctx context.Context,
	target domain.Target,
	name string,
	fn func(context.Context, ports.Logger) error,
) error {
	ctx, span := d.tracer.Start(ctx, name)
	defer span.End()

	start := d.now()
	err := fn(ctx, d.scope(target, name))
	d.metrics.ObservePhase(target, name, d.now().Sub(start), err)
	if err != nil {
		span.RecordError(err)
	}
	return err
}

// scope tags log lines with target and phase when the logger supports it.
func (d *Driver) scope(target domain.Target, phase string) ports.Logger {
	if s, ok := d.logger.(ports.ScopedLogger); ok {
		return s.Scope(target, phase)
	}
	return d.logger
}

func (d *Driver) prepareAssets(ctx context.Context, log ports.Logger, cacheBypass bool) error {
	if err := d.assetsLock.Acquire(ctx, 1); err != nil {
		return zerr.Wrap(err, "gave up waiting for assets lock")
	}
	defer d.assetsLock.Release(1)

	for _, step := range d.steps {
		log.Info(fmt.Sprintf("Running %s...", step.Name()))
		if err := step.Run(ctx, cacheBypass); err != nil {
			return domain.PhaseError(domain.ErrAssetGenerationFailed,
				zerr.With(zerr.Wrap(err, step.Name()+" failed"), "step", step.Name()))
		}
	}
	return nil
}

func prepareBuildDir(log ports.Logger, buildDir string, handle domain.ArtifactHandle, reset bool) error {
	if reset {
		if _, err := os.Stat(buildDir); err == nil {
			log.Info(fmt.Sprintf("Cleaning build dir %s", buildDir))
			if err := os.RemoveAll(buildDir); err != nil {
				return domain.PhaseError(domain.ErrBuildDirFailed, zerr.With(err, "path", buildDir))
			}
		}
	}
	if err := os.MkdirAll(buildDir, domain.DirPerm); err != nil {
		return domain.PhaseError(domain.ErrBuildDirFailed, zerr.With(err, "path", buildDir))
	}
	if err := os.Remove(handle.Intermediary); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return domain.PhaseError(domain.ErrBuildDirFailed, zerr.With(err, "path", handle.Intermediary))
	}
	return nil
}

func (d *Driver) configure(
	ctx context.Context,
	log ports.Logger,
	req domain.BuildRequest,
	env *domain.BuildEnvironment,
	buildDir string,
) (bool, error) {
	want := req.Fingerprint()
	need, err := d.decider.NeedsReconfigure(buildDir, want, req.NoCache)
	if err != nil {
		log.Warn(fmt.Sprintf("reconfiguring, stored fingerprint is unusable: %s", domain.OneLine(err)))
	}
	if !need {
		log.Info("Skipping CMake configure")
		return false, nil
	}

	log.Info(fmt.Sprintf("Running CMake configure (%s)...", req.Target))
	cmd := env.Command(buildDir, d.settings.CMake, ConfigureArgs(req, env, d.settings)...)
	if err := d.executor.Run(ctx, cmd); err != nil {
		if rmErr := d.store.Remove(buildDir); rmErr != nil {
			log.Warn(fmt.Sprintf("failed to clear configuration fingerprint: %s", domain.OneLine(rmErr)))
		}
		return false, domain.PhaseError(domain.ErrConfigureFailed, err)
	}

	if err := d.store.Put(buildDir, want); err != nil {
		log.Warn(fmt.Sprintf("failed to record configuration fingerprint: %s", domain.OneLine(err)))
	}
	return true, nil
}

// Clean removes the build directory of target once no build of it is running.
func (d *Driver) Clean(ctx context.Context, target domain.Target) error {
	lock, ok := d.targetLocks[target]
	if !ok {
		return domain.Annotate(domain.ErrInvalidTarget, "target", target.String())
	}
	if err := lock.Acquire(ctx, 1); err != nil {
		return zerr.With(zerr.Wrap(err, "gave up waiting for build lock"), "target", target.String())
	}
	defer lock.Release(1)

	dir := d.settings.BuildDir(target)
	if err := os.RemoveAll(dir); err != nil {
		return domain.PhaseError(domain.ErrBuildDirFailed, zerr.With(err, "path", dir))
	}
	return nil
}
