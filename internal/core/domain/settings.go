package domain

import (
	"path/filepath"
	"time"
)

// Firmware activation modes.
const (
	// ActivationCapture sources the activation script once and reuses the captured environment.
	ActivationCapture = "capture"
	// ActivationShell wraps every toolchain command in a shell that sources the script.
	ActivationShell = "shell"
)

// Settings is the resolved project configuration.
type Settings struct {
	// ProjectRoot is the absolute path of the library source tree handed to the configure step.
	ProjectRoot string
	// BuildRoot holds one build directory per target.
	BuildRoot        string
	CMake            string
	CompilerLauncher string

	Server   ServerSettings
	Desktop  DesktopSettings
	Firmware FirmwareSettings
	Assets   []AssetSettings
	Fonts    FontSettings
	Watch    WatchSettings
}

// ServerSettings configures the request service.
type ServerSettings struct {
	Addr        string
	MetricsAddr string
	// BuildTimeout bounds a whole build. Zero disables the bound.
	BuildTimeout time.Duration
	// ReadTimeout bounds reading one request from a connection.
	ReadTimeout time.Duration
}

// DesktopSettings configures generator selection for the desktop target.
type DesktopSettings struct {
	// Generator forces a generator and skips probing when set.
	Generator          string
	PreferredGenerator string
	PreferredTool      string
	FallbackGenerator  string
}

// FirmwareSettings locates the cross toolchain.
type FirmwareSettings struct {
	IDFPath          string
	ToolchainFile    string
	ActivationScript string
	Chip             string
	Activation       string
	// EnvFile is a dotenv file that replaces sourcing the activation script.
	EnvFile string
	Shell   string
}

// AssetSettings is one external asset preparation command.
type AssetSettings struct {
	Name        string
	Cmd         []string
	NoCacheFlag string
}

// FontSettings configures the native bitmap font generator.
type FontSettings struct {
	Converter string
	SourceDir string
	COutDir   string
	HOutDir   string
	BPP       int
	Range     string
	Faces     []FontFace
}

// FontFace is one source font rendered at a set of pixel sizes.
type FontFace struct {
	File   string
	Prefix string
	Sizes  []int
}

// WatchSettings configures the hot-reload watcher.
type WatchSettings struct {
	Paths    []string
	Ignore   []string
	Debounce time.Duration
}

// Defaults for settings that are not present in the config file.
const (
	DefaultServerAddr         = "127.0.0.1:9123"
	DefaultReadTimeout        = 30 * time.Second
	DefaultCMake              = "cmake"
	DefaultPreferredGenerator = "Ninja"
	DefaultPreferredTool      = "ninja"
	DefaultIDFPath            = "~/esp/esp-idf"
	DefaultToolchainFile      = "tools/cmake/toolchain-esp32.cmake"
	DefaultActivationScript   = "~/export-esp.sh"
	DefaultChip               = "esp32"
	DefaultShell              = "/bin/bash"
	DefaultNoCacheFlag        = "--no-cache"
	DefaultFontConverter      = "lv_font_conv"
	DefaultFontBPP            = 4
	DefaultFontRange          = "32-127,160-255"
	DefaultWatchDebounce      = 300 * time.Millisecond
)

// DefaultFallbackGenerator returns the generator used when the preferred tool is missing.
func DefaultFallbackGenerator(goos string) string {
	if goos == "windows" {
		return "MinGW Makefiles"
	}
	return "Unix Makefiles"
}

// DefaultSettings returns the settings used when no config file exists.
// Paths are left relative; the config loader resolves them against root.
func DefaultSettings(root, goos string) *Settings {
	return &Settings{
		ProjectRoot: root,
		BuildRoot:   DefaultBuildRoot,
		CMake:       DefaultCMake,
		Server: ServerSettings{
			Addr:        DefaultServerAddr,
			ReadTimeout: DefaultReadTimeout,
		},
		Desktop: DesktopSettings{
			PreferredGenerator: DefaultPreferredGenerator,
			PreferredTool:      DefaultPreferredTool,
			FallbackGenerator:  DefaultFallbackGenerator(goos),
		},
		Firmware: FirmwareSettings{
			IDFPath:          DefaultIDFPath,
			ToolchainFile:    DefaultToolchainFile,
			ActivationScript: DefaultActivationScript,
			Chip:             DefaultChip,
			Activation:       ActivationCapture,
			Shell:            DefaultShell,
		},
		Assets: []AssetSettings{
			{Name: "fonts", Cmd: []string{"python3", "tools/generate_fonts.py"}, NoCacheFlag: DefaultNoCacheFlag},
			{Name: "shims", Cmd: []string{"python3", "tools/generate_shims.py"}, NoCacheFlag: DefaultNoCacheFlag},
		},
		Fonts: FontSettings{
			Converter: DefaultFontConverter,
			SourceDir: "fonts",
			COutDir:   "src/fonts",
			HOutDir:   "include/fonts",
			BPP:       DefaultFontBPP,
			Range:     DefaultFontRange,
		},
		Watch: WatchSettings{
			Paths:    []string{"src", "include", "fonts", "CMakeLists.txt"},
			Debounce: DefaultWatchDebounce,
		},
	}
}

// BuildDir returns the build directory of target.
func (s *Settings) BuildDir(target Target) string {
	return filepath.Join(s.BuildRoot, string(target))
}

// EnvCacheDir returns the directory holding captured toolchain environments.
func (s *Settings) EnvCacheDir() string {
	return filepath.Join(s.ProjectRoot, DefaultEnvCachePath())
}
