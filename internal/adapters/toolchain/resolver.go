// Package toolchain resolves the execution environment of each build target.
package toolchain

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"go.trai.ch/stratum/internal/core/domain"
	"go.trai.ch/stratum/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

var _ ports.EnvironmentResolver = (*Resolver)(nil)

// Resolver implements ports.EnvironmentResolver.
type Resolver struct {
	executor ports.Executor
	logger   ports.Logger

	lookPath func(string) (string, error)
	goos     string

	requestGroup singleflight.Group
}

// NewResolver creates a new Resolver that captures toolchain environments through executor.
func NewResolver(executor ports.Executor, logger ports.Logger) *Resolver {
	return &Resolver{
		executor: executor,
		logger:   logger,
		lookPath: exec.LookPath,
		goos:     runtime.GOOS,
	}
}

// Resolve returns the build environment for target.
func (r *Resolver) Resolve(
	ctx context.Context,
	target domain.Target,
	settings *domain.Settings,
) (*domain.BuildEnvironment, error) {
	switch target {
	case domain.TargetDesktop:
		return &domain.BuildEnvironment{
			Target:    target,
			Generator: r.selectGenerator(settings.Desktop),
		}, nil
	case domain.TargetFirmware:
		return r.resolveFirmware(ctx, settings.Firmware, settings.EnvCacheDir())
	default:
		return nil, domain.Annotate(domain.ErrInvalidTarget, "target", string(target))
	}
}

// selectGenerator picks the forced generator, else the preferred one when its tool is
// installed, else the fallback.
func (r *Resolver) selectGenerator(s domain.DesktopSettings) string {
	if s.Generator != "" {
		return s.Generator
	}
	if s.PreferredTool != "" && s.PreferredGenerator != "" {
		if _, err := r.lookPath(s.PreferredTool); err == nil {
			return s.PreferredGenerator
		}
	}
	if s.FallbackGenerator != "" {
		return s.FallbackGenerator
	}
	return domain.DefaultFallbackGenerator(r.goos)
}

func (r *Resolver) resolveFirmware(
	ctx context.Context,
	s domain.FirmwareSettings,
	cacheDir string,
) (*domain.BuildEnvironment, error) {
	required := []string{s.ToolchainFile}
	if s.EnvFile != "" {
		required = append(required, s.EnvFile)
	} else {
		required = append(required, s.ActivationScript)
	}
	for _, path := range required {
		if err := checkExists(path); err != nil {
			return nil, err
		}
	}

	env := &domain.BuildEnvironment{
		Target:        domain.TargetFirmware,
		ToolchainFile: s.ToolchainFile,
		Chip:          s.Chip,
	}

	switch {
	case s.EnvFile != "":
		vars, err := loadEnvFile(s.EnvFile)
		if err != nil {
			return nil, err
		}
		env.Env = withIDFPath(vars, s.IDFPath)
	case s.Activation == domain.ActivationShell:
		env.Env = []string{"IDF_PATH=" + s.IDFPath}
		env.Activation = &domain.Activation{
			Shell:   s.Shell,
			IDFPath: s.IDFPath,
			Script:  s.ActivationScript,
		}
	default:
		vars, err := r.capture(ctx, s, cacheDir)
		if err != nil {
			return nil, err
		}
		env.Env = withIDFPath(vars, s.IDFPath)
	}

	return env, nil
}

func checkExists(path string) error {
	if path == "" {
		return domain.Annotate(domain.ErrMissingToolchain, "path", path)
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errors.Join(domain.ErrMissingToolchain,
				zerr.With(zerr.New("not found: "+path), "path", path))
		}
		return errors.Join(domain.ErrMissingToolchain, zerr.With(zerr.Wrap(err, "stat failed"), "path", path))
	}
	return nil
}

// withIDFPath returns vars with IDF_PATH set to idfPath.
func withIDFPath(vars []string, idfPath string) []string {
	out := make([]string, 0, len(vars)+1)
	for _, v := range vars {
		if strings.HasPrefix(v, "IDF_PATH=") {
			continue
		}
		out = append(out, v)
	}
	return append(out, "IDF_PATH="+idfPath)
}
