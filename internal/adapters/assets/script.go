// Package assets implements the asset preparation steps that run before every build.
package assets

import (
	"context"
	"slices"

	"go.trai.ch/stratum/internal/core/domain"
	"go.trai.ch/stratum/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.AssetStep = (*ScriptStep)(nil)

// ScriptStep runs an external generator script from the project root.
type ScriptStep struct {
	name        string
	cmd         []string
	noCacheFlag string
	dir         string
	executor    ports.Executor
}

// NewScriptStep creates a step running cmd in dir. With cache bypass noCacheFlag is appended.
func NewScriptStep(cfg domain.AssetSettings, dir string, executor ports.Executor) *ScriptStep {
	return &ScriptStep{
		name:        cfg.Name,
		cmd:         slices.Clone(cfg.Cmd),
		noCacheFlag: cfg.NoCacheFlag,
		dir:         dir,
		executor:    executor,
	}
}

// Name returns the step name.
func (s *ScriptStep) Name() string {
	return s.name
}

// Run executes the script and waits for it to finish.
func (s *ScriptStep) Run(ctx context.Context, cacheBypass bool) error {
	if len(s.cmd) == 0 {
		return zerr.With(zerr.New("asset step has no command"), "step", s.name)
	}

	args := slices.Clone(s.cmd[1:])
	if cacheBypass && s.noCacheFlag != "" {
		args = append(args, s.noCacheFlag)
	}

	return s.executor.Run(ctx, domain.Command{
		Name: s.cmd[0],
		Args: args,
		Dir:  s.dir,
	})
}

// NewSteps builds the asset steps in their fixed order: the native font generator
// when faces are configured, then the configured scripts.
func NewSteps(settings *domain.Settings, executor ports.Executor, logger ports.Logger) []ports.AssetStep {
	steps := make([]ports.AssetStep, 0, len(settings.Assets)+1)
	if len(settings.Fonts.Faces) > 0 {
		steps = append(steps, NewFontStep(settings.Fonts, settings.ProjectRoot, executor, logger))
	}
	for _, a := range settings.Assets {
		steps = append(steps, NewScriptStep(a, settings.ProjectRoot, executor))
	}
	return steps
}
