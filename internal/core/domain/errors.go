package domain

import (
	"errors"
	"strings"

	"go.trai.ch/zerr"
)

var (
	// ErrMissingToolchain is returned when a firmware build is requested but the cross-toolchain
	// descriptor, the activation script or the configured env file is absent.
	ErrMissingToolchain = zerr.New("missing toolchain")

	// ErrAssetGenerationFailed is returned when an asset preparation step exits unsuccessfully.
	ErrAssetGenerationFailed = zerr.New("asset generation failed")

	// ErrConfigureFailed is returned when the configure step of the build tool fails.
	ErrConfigureFailed = zerr.New("configure failed")

	// ErrCompileFailed is returned when the compile step of the build tool fails.
	ErrCompileFailed = zerr.New("compile failed")

	// ErrArtifactMissing is returned when the intermediary artifact is absent after a successful compile.
	ErrArtifactMissing = zerr.New("intermediary artifact missing")

	// ErrMalformedRequest is returned when a network request payload cannot be decoded or validated.
	ErrMalformedRequest = zerr.New("malformed request")

	// ErrInvalidTarget is returned when a target identifier is neither desktop nor firmware.
	ErrInvalidTarget = zerr.New("invalid target, expected 'desktop' or 'firmware'")

	// ErrInvalidOutputName is returned when an output name is not a plain file name component.
	ErrInvalidOutputName = zerr.New("invalid output name")

	// ErrBuildDirFailed is returned when the per-target build directory cannot be prepared.
	ErrBuildDirFailed = zerr.New("failed to prepare build directory")

	// ErrPromotionFailed is returned when the intermediary artifact cannot be renamed to its final name.
	ErrPromotionFailed = zerr.New("failed to promote artifact")

	// ErrStoreReadFailed is returned when the configuration fingerprint cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read configuration fingerprint")

	// ErrStoreWriteFailed is returned when the configuration fingerprint cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write configuration fingerprint")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigInvalid is returned when the config file contains invalid values.
	ErrConfigInvalid = zerr.New("invalid configuration")

	// ErrEnvCaptureFailed is returned when the toolchain activation environment cannot be captured.
	ErrEnvCaptureFailed = zerr.New("failed to capture toolchain environment")

	// ErrCacheMiss is returned when a requested item is not found in the cache.
	ErrCacheMiss = zerr.New("cache miss")

	// ErrBuildExecutionFailed is returned to the CLI when a build finished unsuccessfully.
	ErrBuildExecutionFailed = zerr.New("build execution failed")
)

// ErrorKind classifies build failures for callers that report them over the wire.
type ErrorKind string

const (
	KindMissingToolchain      ErrorKind = "missing_toolchain"
	KindAssetGenerationFailed ErrorKind = "asset_generation_failed"
	KindConfigureFailed       ErrorKind = "configure_failed"
	KindCompileFailed         ErrorKind = "compile_failed"
	KindArtifactMissing       ErrorKind = "artifact_missing"
	KindMalformedRequest      ErrorKind = "malformed_request"
	KindInternal              ErrorKind = "internal"
)

var kinds = []struct {
	sentinel error
	kind     ErrorKind
}{
	{ErrMissingToolchain, KindMissingToolchain},
	{ErrAssetGenerationFailed, KindAssetGenerationFailed},
	{ErrConfigureFailed, KindConfigureFailed},
	{ErrCompileFailed, KindCompileFailed},
	{ErrArtifactMissing, KindArtifactMissing},
	{ErrMalformedRequest, KindMalformedRequest},
}

// KindOf returns the most specific ErrorKind for err, or KindInternal.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.sentinel) {
			return k.kind
		}
	}
	return KindInternal
}

// PhaseError attaches a failure kind to its cause so that errors.Is matches the kind
// while the cause keeps its own chain and metadata.
func PhaseError(kind, cause error) error {
	if cause == nil {
		return kind
	}
	return errors.Join(kind, cause)
}

// OneLine flattens a joined error chain into a single line for wire responses.
func OneLine(err error) string {
	if err == nil {
		return ""
	}
	return strings.ReplaceAll(err.Error(), "\n", ": ")
}

// Annotate attaches a key-value pair to a sentinel without losing its identity.
// zerr.With copies a bare *zerr.Error, which would break errors.Is on the result.
func Annotate(sentinel error, key string, value any) error {
	return zerr.With(zerr.Wrap(sentinel, ""), key, value)
}
