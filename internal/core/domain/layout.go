package domain

import "path/filepath"

const (
	// StateDirName is the name of the orchestrator's workspace directory.
	StateDirName = ".stratum"

	// CacheDirName is the name of the cache directory.
	CacheDirName = "cache"

	// EnvDirName is the name of the captured toolchain environment cache directory.
	EnvDirName = "environments"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "stratum.yaml"

	// FingerprintFileName is the configuration fingerprint record inside a build directory.
	FingerprintFileName = ".stratum-fingerprint.json"

	// CMakeCacheFile is the build tool's own configuration cache.
	CMakeCacheFile = "CMakeCache.txt"

	// DefaultBuildRoot is the directory holding one build directory per target.
	DefaultBuildRoot = "build"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultStatePath returns the default root directory for orchestrator metadata.
func DefaultStatePath() string {
	return StateDirName
}

// DefaultEnvCachePath returns the default path for the environment cache.
// It joins .stratum, cache, and environments.
func DefaultEnvCachePath() string {
	return filepath.Join(StateDirName, CacheDirName, EnvDirName)
}
