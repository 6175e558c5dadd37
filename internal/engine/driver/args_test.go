package driver_test

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/stratum/internal/core/domain"
	"go.trai.ch/stratum/internal/engine/driver"
)

func TestConfigureArgs(t *testing.T) {
	tests := []struct {
		name       string
		req        domain.BuildRequest
		env        *domain.BuildEnvironment
		launcher   string
		goldenName string
	}{
		{
			name:       "desktop static debug",
			req:        domain.BuildRequest{Target: domain.TargetDesktop},
			env:        &domain.BuildEnvironment{Target: domain.TargetDesktop, Generator: "Ninja"},
			launcher:   "ccache",
			goldenName: "configure_desktop_static",
		},
		{
			name:       "desktop dynamic release without launcher",
			req:        domain.BuildRequest{Target: domain.TargetDesktop, Dynamic: true, Release: true},
			env:        &domain.BuildEnvironment{Target: domain.TargetDesktop, Generator: "Unix Makefiles"},
			goldenName: "configure_desktop_dynamic_release",
		},
		{
			name: "firmware",
			req:  domain.BuildRequest{Target: domain.TargetFirmware, Release: true},
			env: &domain.BuildEnvironment{
				Target:        domain.TargetFirmware,
				ToolchainFile: "/home/dev/esp/esp-idf/tools/cmake/toolchain-esp32.cmake",
				Chip:          "esp32",
			},
			launcher:   "ccache",
			goldenName: "configure_firmware",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := &domain.Settings{ProjectRoot: "/work/stratum-ui", CompilerLauncher: tt.launcher}
			args := driver.ConfigureArgs(tt.req, tt.env, settings)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, []byte(strings.Join(args, "\n")+"\n"))
		})
	}
}

func TestCompileArgs(t *testing.T) {
	assert.Equal(t, []string{"--build", ".", "--", "-j8"}, driver.CompileArgs(8))
	assert.Equal(t, []string{"--build", ".", "--", "-j1"}, driver.CompileArgs(0))
}
