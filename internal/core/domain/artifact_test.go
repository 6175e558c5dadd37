package domain_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/stratum/internal/core/domain"
)

func TestLibraryExtension(t *testing.T) {
	tests := []struct {
		goos    string
		dynamic bool
		want    string
	}{
		{goos: "linux", dynamic: false, want: "a"},
		{goos: "windows", dynamic: false, want: "a"},
		{goos: "linux", dynamic: true, want: "so"},
		{goos: "darwin", dynamic: true, want: "dylib"},
		{goos: "windows", dynamic: true, want: "dll"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.LibraryExtension(tt.goos, tt.dynamic), "%s dynamic=%v", tt.goos, tt.dynamic)
	}
}

func TestNewArtifactHandle(t *testing.T) {
	dir := filepath.Join("build", "desktop")

	h := domain.NewArtifactHandle(dir, "stratum-ui", false, "linux")
	assert.Equal(t, filepath.Join(dir, "libstratum-ui-intermediary.a"), h.Intermediary)
	assert.Equal(t, filepath.Join(dir, "libstratum-ui.a"), h.Final)
	assert.Empty(t, h.ImportLibraries)

	h = domain.NewArtifactHandle(dir, "app", true, "windows")
	assert.Equal(t, filepath.Join(dir, "libstratum-ui-intermediary.dll"), h.Intermediary)
	assert.Equal(t, filepath.Join(dir, "libapp.dll"), h.Final)
	assert.Equal(t, []string{
		filepath.Join(dir, "libapp.dll.a"),
		filepath.Join(dir, "libstratum-ui-intermediary.dll.a"),
	}, h.ImportLibraries)
}

func TestResult_Summary(t *testing.T) {
	r := &domain.Result{
		ArtifactPath: filepath.Join("build", "desktop", "libstratum-ui.a"),
		Elapsed:      61*time.Second + 234*time.Millisecond,
	}
	assert.Equal(t, "Built libstratum-ui.a in 1m 1.234s", r.Summary())
	assert.Equal(t, "0m 0.500s", domain.FormatElapsed(500*time.Millisecond))
}
