package config

// Stratumfile represents the structure of the stratum.yaml configuration file.
type Stratumfile struct {
	Version          string       `yaml:"version"`
	Root             string       `yaml:"root"`
	BuildDir         string       `yaml:"build_dir"`
	CMake            string       `yaml:"cmake"`
	CompilerLauncher string       `yaml:"compiler_launcher"`
	Server           *ServerDTO   `yaml:"server"`
	Desktop          *DesktopDTO  `yaml:"desktop"`
	Firmware         *FirmwareDTO `yaml:"firmware"`
	Assets           []AssetDTO   `yaml:"assets"`
	Fonts            *FontsDTO    `yaml:"fonts"`
	Watch            *WatchDTO    `yaml:"watch"`
}

// ServerDTO configures the request service.
type ServerDTO struct {
	Addr         string `yaml:"addr"`
	MetricsAddr  string `yaml:"metrics_addr"`
	BuildTimeout string `yaml:"build_timeout"`
	ReadTimeout  string `yaml:"read_timeout"`
}

// DesktopDTO configures generator selection.
type DesktopDTO struct {
	Generator          string `yaml:"generator"`
	PreferredGenerator string `yaml:"preferred_generator"`
	PreferredTool      string `yaml:"preferred_tool"`
	FallbackGenerator  string `yaml:"fallback_generator"`
}

// FirmwareDTO locates the cross toolchain.
type FirmwareDTO struct {
	IDFPath          string `yaml:"idf_path"`
	ToolchainFile    string `yaml:"toolchain_file"`
	ActivationScript string `yaml:"activation_script"`
	Chip             string `yaml:"chip"`
	Activation       string `yaml:"activation"`
	EnvFile          string `yaml:"env_file"`
	Shell            string `yaml:"shell"`
}

// AssetDTO is one asset preparation command.
type AssetDTO struct {
	Name        string   `yaml:"name"`
	Cmd         []string `yaml:"cmd"`
	NoCacheFlag *string  `yaml:"no_cache_flag"`
}

// FontsDTO configures the native font generator.
type FontsDTO struct {
	Converter string        `yaml:"converter"`
	SourceDir string        `yaml:"source_dir"`
	COutDir   string        `yaml:"c_out_dir"`
	HOutDir   string        `yaml:"h_out_dir"`
	BPP       int           `yaml:"bpp"`
	Range     string        `yaml:"range"`
	Faces     []FontFaceDTO `yaml:"faces"`
}

// FontFaceDTO is one font source rendered at several sizes.
type FontFaceDTO struct {
	File   string `yaml:"file"`
	Prefix string `yaml:"prefix"`
	Sizes  []int  `yaml:"sizes"`
}

// WatchDTO configures the hot-reload watcher.
type WatchDTO struct {
	Paths    []string `yaml:"paths"`
	Ignore   []string `yaml:"ignore"`
	Debounce string   `yaml:"debounce"`
}
