package domain_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/stratum/internal/core/domain"
)

func TestDefaultSettings(t *testing.T) {
	s := domain.DefaultSettings("/work/stratum-ui", "linux")

	assert.Equal(t, "/work/stratum-ui", s.ProjectRoot)
	assert.Equal(t, "127.0.0.1:9123", s.Server.Addr)
	assert.Equal(t, "Ninja", s.Desktop.PreferredGenerator)
	assert.Equal(t, "Unix Makefiles", s.Desktop.FallbackGenerator)
	assert.Equal(t, domain.ActivationCapture, s.Firmware.Activation)
	assert.Len(t, s.Assets, 2)
	assert.Equal(t, []string{"python3", "tools/generate_fonts.py"}, s.Assets[0].Cmd)

	assert.Equal(t, "MinGW Makefiles", domain.DefaultSettings("C:/w", "windows").Desktop.FallbackGenerator)
}

func TestSettings_Paths(t *testing.T) {
	s := &domain.Settings{ProjectRoot: "/w", BuildRoot: filepath.Join("/w", "build")}

	assert.Equal(t, filepath.Join("/w", "build", "firmware"), s.BuildDir(domain.TargetFirmware))
	assert.Equal(t, filepath.Join("/w", ".stratum", "cache", "environments"), s.EnvCacheDir())
}

func TestLayoutPaths(t *testing.T) {
	assert.Equal(t, ".stratum", domain.DefaultStatePath())
	assert.Equal(t, filepath.Join(".stratum", "cache", "environments"), domain.DefaultEnvCachePath())
}
