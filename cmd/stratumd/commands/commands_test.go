package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stratum/cmd/stratumd/commands"
	"go.trai.ch/stratum/internal/adapters/server"
	"go.trai.ch/stratum/internal/app"
	"go.trai.ch/stratum/internal/build"
	"go.trai.ch/stratum/internal/core/domain"
)

type mockApp struct {
	projectDir string
	req        domain.BuildRequest
	serveOpts  app.ServeOptions
	cleanOpts  app.CleanOptions
	addr       string
	called     string
	err        error
}

func (m *mockApp) Build(_ context.Context, projectDir string, req domain.BuildRequest) (*domain.Result, error) {
	m.called, m.projectDir, m.req = "build", projectDir, req
	return &domain.Result{Success: m.err == nil}, m.err
}

func (m *mockApp) Serve(_ context.Context, projectDir string, opts app.ServeOptions) error {
	m.called, m.projectDir, m.serveOpts = "serve", projectDir, opts
	return m.err
}

func (m *mockApp) Watch(_ context.Context, projectDir string, req domain.BuildRequest) error {
	m.called, m.projectDir, m.req = "watch", projectDir, req
	return m.err
}

func (m *mockApp) Clean(_ context.Context, projectDir string, opts app.CleanOptions) error {
	m.called, m.projectDir, m.cleanOpts = "clean", projectDir, opts
	return m.err
}

func (m *mockApp) Request(_ context.Context, projectDir, addr string, req domain.BuildRequest) (*server.Response, error) {
	m.called, m.projectDir, m.addr, m.req = "request", projectDir, addr, req
	return &server.Response{Success: m.err == nil}, m.err
}

type jsonLogger struct {
	json bool
}

func (l *jsonLogger) Info(string) {}

func (l *jsonLogger) Warn(string) {}

func (l *jsonLogger) Error(error) {}

func (l *jsonLogger) SetJSON(on bool) { l.json = on }

func execute(t *testing.T, m *mockApp, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(m, &jsonLogger{})
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_Build(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "build")
		require.NoError(t, err)

		assert.Equal(t, "build", m.called)
		assert.Equal(t, ".", m.projectDir)
		assert.Equal(t, domain.BuildRequest{
			Target:     domain.TargetDesktop,
			OutputName: domain.DefaultOutputName,
		}, m.req)
	})

	t.Run("wires flags correctly", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "build", "-C", "/work/ui", "--dynamic", "--release",
			"--target", "firmware", "--output-name", "widgets", "--no-cache")
		require.NoError(t, err)

		assert.Equal(t, "/work/ui", m.projectDir)
		assert.Equal(t, domain.BuildRequest{
			Dynamic:    true,
			NoCache:    true,
			Target:     domain.TargetFirmware,
			Release:    true,
			OutputName: "widgets",
		}, m.req)
	})

	t.Run("accepts nocache spelling", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "build", "--nocache")
		require.NoError(t, err)
		assert.True(t, m.req.NoCache)
	})

	t.Run("rejects unknown target", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "build", "--target", "wasm")
		require.ErrorIs(t, err, domain.ErrInvalidTarget)
		assert.Empty(t, m.called)
	})

	t.Run("rejects path-like output names", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "build", "--output-name", "../evil")
		require.ErrorIs(t, err, domain.ErrInvalidOutputName)
		assert.Empty(t, m.called)
	})

	t.Run("returns error on build failure", func(t *testing.T) {
		m := &mockApp{err: errors.New("simulated error")}
		_, err := execute(t, m, "build")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})
}

func TestCommands_Serve(t *testing.T) {
	m := &mockApp{}
	_, err := execute(t, m, "serve", "--addr", "0.0.0.0:9000", "--metrics-addr", ":9100")
	require.NoError(t, err)

	assert.Equal(t, "serve", m.called)
	assert.Equal(t, app.ServeOptions{Addr: "0.0.0.0:9000", MetricsAddr: ":9100"}, m.serveOpts)
}

func TestCommands_Request(t *testing.T) {
	m := &mockApp{}
	_, err := execute(t, m, "request", "--addr", "127.0.0.1:9123", "--dynamic")
	require.NoError(t, err)

	assert.Equal(t, "request", m.called)
	assert.Equal(t, "127.0.0.1:9123", m.addr)
	assert.True(t, m.req.Dynamic)
}

func TestCommands_Watch(t *testing.T) {
	m := &mockApp{}
	_, err := execute(t, m, "watch", "--release")
	require.NoError(t, err)

	assert.Equal(t, "watch", m.called)
	assert.True(t, m.req.Release)
}

func TestCommands_Clean(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want app.CleanOptions
	}{
		{
			name: "default cleans every build directory",
			args: nil,
			want: app.CleanOptions{Targets: domain.Targets},
		},
		{
			name: "single target",
			args: []string{"--target", "firmware"},
			want: app.CleanOptions{Targets: []domain.Target{domain.TargetFirmware}},
		},
		{
			name: "target and tools",
			args: []string{"-t", "desktop", "--tools"},
			want: app.CleanOptions{Targets: []domain.Target{domain.TargetDesktop}, Tools: true},
		},
		{
			name: "tools only",
			args: []string{"--tools"},
			want: app.CleanOptions{Tools: true},
		},
		{
			name: "all",
			args: []string{"--all"},
			want: app.CleanOptions{Targets: domain.Targets, Tools: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockApp{}
			_, err := execute(t, m, append([]string{"clean"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.cleanOpts)
		})
	}

	t.Run("rejects unknown target", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "clean", "--target", "wasm")
		require.ErrorIs(t, err, domain.ErrInvalidTarget)
	})
}

func TestCommands_JSONLogs(t *testing.T) {
	log := &jsonLogger{}
	cli := commands.New(&mockApp{}, log)
	cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
	cli.SetArgs([]string{"build", "--json"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.True(t, log.json)
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)

	assert.Contains(t, out, "stratumd version "+build.Version)
}
