package domain

import "path/filepath"

// IntermediaryName is the fixed output name handed to the build tool. Keeping it stable
// keeps the build tool's own incremental cache valid across renames of the final artifact.
const IntermediaryName = "stratum-ui-intermediary"

// LibraryExtension returns the library file extension for the host OS and linkage mode.
func LibraryExtension(goos string, dynamic bool) string {
	if !dynamic {
		return "a"
	}
	switch goos {
	case "windows":
		return "dll"
	case "darwin":
		return "dylib"
	default:
		return "so"
	}
}

// LibraryFileName returns lib<name>.<ext>.
func LibraryFileName(name, ext string) string {
	return "lib" + name + "." + ext
}

// ArtifactHandle names the produced library across its lifecycle.
type ArtifactHandle struct {
	// Intermediary is the path the build tool writes.
	Intermediary string
	// Final is the path the intermediary is promoted to.
	Final string
	// ImportLibraries are build tool side effects removed after promotion.
	// Only populated for dynamic builds on Windows.
	ImportLibraries []string
}

// NewArtifactHandle computes the artifact paths inside buildDir.
func NewArtifactHandle(buildDir, finalName string, dynamic bool, goos string) ArtifactHandle {
	ext := LibraryExtension(goos, dynamic)
	h := ArtifactHandle{
		Intermediary: filepath.Join(buildDir, LibraryFileName(IntermediaryName, ext)),
		Final:        filepath.Join(buildDir, LibraryFileName(finalName, ext)),
	}
	if dynamic && goos == "windows" {
		h.ImportLibraries = []string{
			filepath.Join(buildDir, LibraryFileName(finalName, "dll.a")),
			filepath.Join(buildDir, LibraryFileName(IntermediaryName, "dll.a")),
		}
	}
	return h
}
