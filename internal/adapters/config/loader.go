// Package config provides the configuration loader for stratum.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"go.trai.ch/stratum/internal/core/domain"
	"go.trai.ch/stratum/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

var validBPP = []int{1, 2, 3, 4, 8}

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger

	home func() (string, error)
	goos string
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{
		Logger: logger,
		home:   os.UserHomeDir,
		goos:   runtime.GOOS,
	}
}

// Load finds stratum.yaml in cwd or one of its parents and resolves it into settings.
// Without a config file the defaults are rooted at cwd.
func (l *Loader) Load(cwd string) (*domain.Settings, error) {
	cwd, err := filepath.Abs(cwd)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "cwd", cwd)
	}

	configPath, found := findConfiguration(cwd)
	if !found {
		settings := domain.DefaultSettings(cwd, l.goos)
		if err := l.resolvePaths(settings); err != nil {
			return nil, err
		}
		return settings, nil
	}

	var file Stratumfile
	if err := readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	settings, err := l.apply(resolveRoot(configPath, file.Root), &file)
	if err != nil {
		return nil, zerr.With(err, "path", configPath)
	}
	return settings, nil
}

// findConfiguration walks up from cwd to the first directory holding stratum.yaml.
func findConfiguration(cwd string) (string, bool) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", false
		}
		currentDir = parentDir
	}
}

//nolint:cyclop,funlen // flat field-by-field overlay of the file onto the defaults
func (l *Loader) apply(root string, file *Stratumfile) (*domain.Settings, error) {
	s := domain.DefaultSettings(root, l.goos)

	setString(&s.BuildRoot, file.BuildDir)
	setString(&s.CMake, file.CMake)
	setString(&s.CompilerLauncher, file.CompilerLauncher)

	if srv := file.Server; srv != nil {
		setString(&s.Server.Addr, srv.Addr)
		setString(&s.Server.MetricsAddr, srv.MetricsAddr)
		if err := setDuration(&s.Server.BuildTimeout, srv.BuildTimeout, "server.build_timeout"); err != nil {
			return nil, err
		}
		if err := setDuration(&s.Server.ReadTimeout, srv.ReadTimeout, "server.read_timeout"); err != nil {
			return nil, err
		}
	}

	if d := file.Desktop; d != nil {
		setString(&s.Desktop.Generator, d.Generator)
		setString(&s.Desktop.PreferredGenerator, d.PreferredGenerator)
		setString(&s.Desktop.PreferredTool, d.PreferredTool)
		setString(&s.Desktop.FallbackGenerator, d.FallbackGenerator)
	}

	if fw := file.Firmware; fw != nil {
		setString(&s.Firmware.IDFPath, fw.IDFPath)
		setString(&s.Firmware.ToolchainFile, fw.ToolchainFile)
		setString(&s.Firmware.ActivationScript, fw.ActivationScript)
		setString(&s.Firmware.Chip, fw.Chip)
		setString(&s.Firmware.Activation, fw.Activation)
		setString(&s.Firmware.EnvFile, fw.EnvFile)
		setString(&s.Firmware.Shell, fw.Shell)
	}

	if file.Assets != nil {
		s.Assets = make([]domain.AssetSettings, 0, len(file.Assets))
		for _, a := range file.Assets {
			flag := domain.DefaultNoCacheFlag
			if a.NoCacheFlag != nil {
				flag = *a.NoCacheFlag
			}
			s.Assets = append(s.Assets, domain.AssetSettings{Name: a.Name, Cmd: a.Cmd, NoCacheFlag: flag})
		}
	}

	if f := file.Fonts; f != nil {
		setString(&s.Fonts.Converter, f.Converter)
		setString(&s.Fonts.SourceDir, f.SourceDir)
		setString(&s.Fonts.COutDir, f.COutDir)
		setString(&s.Fonts.HOutDir, f.HOutDir)
		setString(&s.Fonts.Range, f.Range)
		if f.BPP != 0 {
			s.Fonts.BPP = f.BPP
		}
		for _, face := range f.Faces {
			s.Fonts.Faces = append(s.Fonts.Faces, domain.FontFace{File: face.File, Prefix: face.Prefix, Sizes: face.Sizes})
		}
	}

	if w := file.Watch; w != nil {
		if w.Paths != nil {
			s.Watch.Paths = w.Paths
		}
		s.Watch.Ignore = w.Ignore
		if err := setDuration(&s.Watch.Debounce, w.Debounce, "watch.debounce"); err != nil {
			return nil, err
		}
	}

	if err := l.validate(s); err != nil {
		return nil, err
	}
	if err := l.resolvePaths(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (l *Loader) validate(s *domain.Settings) error {
	if s.Server.Addr == "" {
		return invalid("server.addr", "must not be empty")
	}
	if s.Firmware.Activation != domain.ActivationCapture && s.Firmware.Activation != domain.ActivationShell {
		return invalid("firmware.activation", "expected 'capture' or 'shell', got '"+s.Firmware.Activation+"'")
	}
	if s.Firmware.EnvFile != "" && s.Firmware.Activation == domain.ActivationShell {
		l.Logger.Warn("firmware.env_file is set, firmware.activation 'shell' has no effect")
	}
	for i, a := range s.Assets {
		if a.Name == "" || len(a.Cmd) == 0 {
			return zerr.With(invalid("assets", "every asset needs a name and a cmd"), "index", i)
		}
	}
	if !slices.Contains(validBPP, s.Fonts.BPP) {
		return invalid("fonts.bpp", "expected one of 1, 2, 3, 4, 8")
	}
	for _, face := range s.Fonts.Faces {
		if face.File == "" || face.Prefix == "" || len(face.Sizes) == 0 {
			return zerr.With(invalid("fonts.faces", "every face needs a file, a prefix and sizes"), "file", face.File)
		}
	}
	return nil
}

// resolvePaths makes every path setting absolute. The toolchain file is relative to
// the IDF path, every other path to the project root.
func (l *Loader) resolvePaths(s *domain.Settings) error {
	var err error
	abs := func(base, p string) string {
		if p == "" || err != nil {
			return p
		}
		var expanded string
		expanded, err = l.expandHome(p)
		if filepath.IsAbs(expanded) {
			return filepath.Clean(expanded)
		}
		return filepath.Join(base, expanded)
	}

	s.BuildRoot = abs(s.ProjectRoot, s.BuildRoot)
	s.Firmware.IDFPath = abs(s.ProjectRoot, s.Firmware.IDFPath)
	s.Firmware.ToolchainFile = abs(s.Firmware.IDFPath, s.Firmware.ToolchainFile)
	s.Firmware.ActivationScript = abs(s.ProjectRoot, s.Firmware.ActivationScript)
	s.Firmware.EnvFile = abs(s.ProjectRoot, s.Firmware.EnvFile)

	return err
}

func (l *Loader) expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := l.home()
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to resolve home directory"), "path", p)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}

func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if configuredRoot == "" {
		return filepath.Clean(configDir)
	}
	if filepath.IsAbs(configuredRoot) {
		return filepath.Clean(configuredRoot)
	}
	return filepath.Clean(filepath.Join(configDir, configuredRoot))
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is discovered by walking up from the project directory
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v, key string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return zerr.With(invalid(key, "not a duration: "+v), "value", v)
	}
	if d < 0 {
		return invalid(key, "must not be negative")
	}
	*dst = d
	return nil
}

func invalid(key, reason string) error {
	return zerr.With(zerr.Wrap(domain.ErrConfigInvalid, key+": "+reason), "key", key)
}
