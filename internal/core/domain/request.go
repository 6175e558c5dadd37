// Package domain holds the core types of the stratum build orchestrator.
package domain

import (
	"regexp"
	"strings"
)

// Target is the deployment environment a build compiles for.
type Target string

const (
	// TargetDesktop is the native development build used by the desktop runner.
	TargetDesktop Target = "desktop"
	// TargetFirmware is the ESP32 cross-build.
	TargetFirmware Target = "firmware"
)

// Targets lists every supported target in a stable order.
var Targets = []Target{TargetDesktop, TargetFirmware}

// ParseTarget converts a user supplied identifier into a Target.
// An empty string selects the desktop target.
func ParseTarget(s string) (Target, error) {
	switch Target(strings.ToLower(strings.TrimSpace(s))) {
	case "", TargetDesktop:
		return TargetDesktop, nil
	case TargetFirmware:
		return TargetFirmware, nil
	default:
		return "", Annotate(ErrInvalidTarget, "target", s)
	}
}

func (t Target) String() string {
	return string(t)
}

// Valid reports whether t is one of the supported targets.
func (t Target) Valid() bool {
	return t == TargetDesktop || t == TargetFirmware
}

// DefaultOutputName is the library base name used when the caller does not choose one.
const DefaultOutputName = "stratum-ui"

var validOutputNameRegex = regexp.MustCompile(`^[A-Za-z0-9._+-]+$`)

// BuildRequest is the input to every build.
type BuildRequest struct {
	Dynamic    bool
	NoCache    bool
	Target     Target
	Release    bool
	OutputName string
}

// Normalize returns a copy of r with defaults applied.
func (r BuildRequest) Normalize() BuildRequest {
	if r.Target == "" {
		r.Target = TargetDesktop
	}
	r.OutputName = strings.TrimSpace(r.OutputName)
	if r.OutputName == "" {
		r.OutputName = DefaultOutputName
	}
	return r
}

// Validate checks that the request can be turned into filesystem paths safely.
func (r BuildRequest) Validate() error {
	if !r.Target.Valid() {
		return Annotate(ErrInvalidTarget, "target", string(r.Target))
	}
	name := r.OutputName
	if name == "" || name == "." || name == ".." || !validOutputNameRegex.MatchString(name) {
		return Annotate(ErrInvalidOutputName, "output_name", name)
	}
	return nil
}

// BuildType returns the CMake build type for the request.
func (r BuildRequest) BuildType() string {
	if r.Release {
		return "Release"
	}
	return "Debug"
}

// LinkageToggle returns the CMake boolean for the dynamic linkage option.
func (r BuildRequest) LinkageToggle() string {
	return onOff(r.Dynamic)
}

// Linkage returns a short human readable label for the linkage mode.
func (r BuildRequest) Linkage() string {
	if r.Dynamic {
		return "DYN"
	}
	return "STATIC"
}

// Fingerprint returns the configuration fingerprint requested by r.
func (r BuildRequest) Fingerprint() Fingerprint {
	return Fingerprint{Target: r.Target, Dynamic: r.Dynamic}
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}
