package shell_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stratum/internal/adapters/shell"
	"go.trai.ch/stratum/internal/core/domain"
	"go.trai.ch/stratum/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func TestExecutor_Run_StreamsOutput(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	gomock.InOrder(
		log.EXPECT().Info("line1"),
		log.EXPECT().Info("line2"),
	)
	log.EXPECT().Warn("oops")

	executor := shell.NewExecutor(log)
	err := executor.Run(context.Background(), domain.Command{
		Name: "sh",
		Args: []string{"-c", "echo line1; echo oops >&2; printf line2"},
		Dir:  t.TempDir(),
	})
	require.NoError(t, err)
}

func TestExecutor_Run_WorkingDirectory(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	dir := t.TempDir()
	executor := shell.NewExecutor(log)

	err := executor.Run(context.Background(), domain.Command{
		Name: "sh",
		Args: []string{"-c", "touch marker"},
		Dir:  dir,
	})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "marker"))
}

func TestExecutor_Run_ExitCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	executor := shell.NewExecutor(log)
	err := executor.Run(context.Background(), domain.Command{
		Name: "sh",
		Args: []string{"-c", "exit 3"},
		Dir:  t.TempDir(),
	})
	require.Error(t, err)

	var z *zerr.Error
	require.True(t, errors.As(err, &z))
	assert.Equal(t, 3, z.Metadata()["exit_code"])
	assert.Equal(t, "sh -c exit 3", z.Metadata()["command"])
}

func TestExecutor_Run_MissingBinary(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	executor := shell.NewExecutor(log)
	err := executor.Run(context.Background(), domain.Command{Name: "definitely-not-a-real-binary-xyz"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "command failed")
}

func TestExecutor_Run_EmptyCommand(t *testing.T) {
	executor := shell.NewExecutor(mocks.NewMockLogger(gomock.NewController(t)))
	require.Error(t, executor.Run(context.Background(), domain.Command{}))
}

func TestExecutor_Run_ContextCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	executor := shell.NewExecutor(log)
	err := executor.Run(ctx, domain.Command{Name: "sleep", Args: []string{"5"}})
	require.Error(t, err)
}

func TestExecutor_Output_UsesOverlay(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	executor := shell.NewExecutor(log)
	executor.SetEnviron(func() []string {
		return []string{"PATH=" + os.Getenv("PATH"), "KEEP=1", "STRATUM_TEST=old"}
	})

	out, err := executor.Output(context.Background(), domain.Command{
		Name: "sh",
		Args: []string{"-c", `printf "%s %s" "$KEEP" "$STRATUM_TEST"`},
		Env:  []string{"STRATUM_TEST=new"},
	})
	require.NoError(t, err)
	assert.Equal(t, "1 new", string(out))
}

func TestResolveEnvironment(t *testing.T) {
	sep := string(os.PathListSeparator)

	tests := []struct {
		name    string
		sys     []string
		overlay []string
		want    []string
	}{
		{
			name:    "overlay wins",
			sys:     []string{"A=1", "B=2"},
			overlay: []string{"B=3"},
			want:    []string{"A=1", "B=3"},
		},
		{
			name:    "path prepended",
			sys:     []string{"PATH=/usr/bin"},
			overlay: []string{"PATH=/opt/esp/bin"},
			want:    []string{"PATH=/opt/esp/bin" + sep + "/usr/bin"},
		},
		{
			name:    "captured path kept",
			sys:     []string{"PATH=/usr/bin"},
			overlay: []string{"PATH=/opt/esp/bin" + sep + "/usr/bin"},
			want:    []string{"PATH=/opt/esp/bin" + sep + "/usr/bin"},
		},
		{
			name:    "malformed entries skipped",
			sys:     []string{"NOEQUALS", "Z=26"},
			overlay: []string{"ALSO_BAD"},
			want:    []string{"Z=26"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shell.ResolveEnvironment(tt.sys, tt.overlay)
			assert.Equal(t, tt.want, got, strings.Join(got, ","))
		})
	}
}
