package driver

import (
	"strconv"

	"go.trai.ch/stratum/internal/core/domain"
)

// ConfigureArgs composes the configure invocation of the build tool for req.
func ConfigureArgs(req domain.BuildRequest, env *domain.BuildEnvironment, s *domain.Settings) []string {
	args := make([]string, 0, 10)
	if req.Target == domain.TargetFirmware {
		args = append(args,
			"-DCMAKE_TOOLCHAIN_FILE="+env.ToolchainFile,
			"-DIDF_TARGET="+env.Chip,
		)
	} else {
		args = append(args, "-G", env.Generator)
	}

	args = append(args,
		"-DCMAKE_BUILD_TYPE="+req.BuildType(),
		"-DSTRATUM_TARGET="+req.Target.String(),
		"-DSTRATUM_BUILD_DYNAMIC="+req.LinkageToggle(),
		"-DSTRATUM_OUTPUT_NAME="+domain.IntermediaryName,
	)
	if launcher := s.CompilerLauncher; launcher != "" {
		args = append(args,
			"-DCMAKE_C_COMPILER_LAUNCHER="+launcher,
			"-DCMAKE_CXX_COMPILER_LAUNCHER="+launcher,
		)
	}
	return append(args, s.ProjectRoot)
}

// CompileArgs composes the compile invocation of the build tool.
func CompileArgs(jobs int) []string {
	if jobs < 1 {
		jobs = 1
	}
	return []string{"--build", ".", "--", "-j" + strconv.Itoa(jobs)}
}
