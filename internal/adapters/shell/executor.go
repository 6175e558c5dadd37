// Package shell provides a process executor for running build tool commands.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"slices"
	"strings"
	"sync"
	"time"

	"go.trai.ch/stratum/internal/core/domain"
	"go.trai.ch/stratum/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// waitDelay bounds how long Run waits for output pipes after the process group is killed.
const waitDelay = 2 * time.Second

// Executor implements ports.Executor using os/exec.
// Standard output is streamed to the logger at info level, standard error at warn level.
type Executor struct {
	logger  ports.Logger
	environ func() []string
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger:  logger,
		environ: os.Environ,
	}
}

// Run executes the command and waits for it to complete.
func (e *Executor) Run(ctx context.Context, c domain.Command) error {
	stdoutLog := &logWriter{logger: e.logger, level: levelInfo}
	stderrLog := &logWriter{logger: e.logger, level: levelWarn}
	defer func() {
		_ = stdoutLog.Close()
		_ = stderrLog.Close()
	}()

	return e.run(ctx, c, stdoutLog, stderrLog)
}

// Output executes the command and returns its standard output.
// Standard error is still streamed to the logger.
func (e *Executor) Output(ctx context.Context, c domain.Command) ([]byte, error) {
	var stdout bytes.Buffer
	stderrLog := &logWriter{logger: e.logger, level: levelWarn}
	defer func() { _ = stderrLog.Close() }()

	if err := e.run(ctx, c, &stdout, stderrLog); err != nil {
		return nil, err
	}
	return stdout.Bytes(), nil
}

func (e *Executor) run(ctx context.Context, c domain.Command, stdout, stderr io.Writer) error {
	if c.Name == "" {
		return zerr.New("empty command")
	}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...) //nolint:gosec // commands are composed by the driver
	cmd.Dir = c.Dir
	cmd.Env = resolveEnvironment(e.environ(), c.Env)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay
	configureProcessGroup(cmd)

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		err = zerr.With(zerr.Wrap(err, "command failed"), "exit_code", exitCode)
		return zerr.With(err, "command", c.String())
	}
	return nil
}

type logLevel uint8

const (
	levelInfo logLevel = iota
	levelWarn
)

type logWriter struct {
	mu     sync.Mutex
	logger ports.Logger
	level  logLevel
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}

		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

func (w *logWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	msg := strings.TrimSuffix(string(line), "\r")
	if msg == "" {
		return
	}

	if w.level == levelInfo {
		w.logger.Info(msg)
	} else {
		w.logger.Warn(msg)
	}
}

// resolveEnvironment layers the command overlay over the inherited environment.
// An overlay PATH is prepended to the inherited one unless it already contains it.
func resolveEnvironment(sysEnv, overlay []string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(overlay))
	for _, entry := range sysEnv {
		if k, v, ok := strings.Cut(entry, "="); ok {
			envMap[k] = v
		}
	}

	for _, entry := range overlay {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if k == "PATH" {
			if sysPath := envMap["PATH"]; sysPath != "" && !strings.Contains(v, sysPath) {
				v = v + string(os.PathListSeparator) + sysPath
			}
		}
		envMap[k] = v
	}

	keys := make([]string, 0, len(envMap))
	for k := range envMap {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	result := make([]string, 0, len(keys))
	for _, k := range keys {
		result = append(result, k+"="+envMap[k])
	}
	return result
}
