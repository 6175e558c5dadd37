package toolchain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/stratum/internal/core/domain"
	"go.trai.ch/zerr"
)

// excludedVars are interactive or per-invocation variables that must not leak from
// the activation shell into build commands.
var excludedVars = []string{
	"TERM",
	"SHELL",
	"EDITOR",
	"VISUAL",
	"PAGER",
	"LESS",
	"HOME",
	"USER",
	"LOGNAME",
	"PS1",
	"PS2",
	"SHLVL",
	"PWD",
	"OLDPWD",
	"_",
	"TMPDIR",
	"TEMP",
	"TMP",
}

// ShouldIncludeVar determines if a captured variable is kept.
func ShouldIncludeVar(key string) bool {
	return key != "" && !slices.Contains(excludedVars, key)
}

// captureTimeout bounds a shared capture once it no longer follows any single caller.
const captureTimeout = 5 * time.Minute

// capture sources the activation script once and returns the resulting environment.
// Results are cached on disk keyed by the script's identity and deduplicated in flight.
// The shared capture outlives a cancelled caller; each caller stops waiting on its own ctx.
func (r *Resolver) capture(ctx context.Context, s domain.FirmwareSettings, cacheDir string) ([]string, error) {
	info, err := os.Stat(s.ActivationScript)
	if err != nil {
		return nil, errors.Join(domain.ErrMissingToolchain, zerr.With(zerr.Wrap(err, "stat failed"), "path", s.ActivationScript))
	}
	key := CacheKey(s.IDFPath, s.ActivationScript, info.ModTime().UnixNano())
	cachePath := filepath.Join(cacheDir, key+".json")

	ch := r.requestGroup.DoChan(key, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), captureTimeout)
		defer cancel()

		if env, err := LoadEnvFromCache(cachePath); err == nil {
			return env, nil
		}

		r.logger.Info("capturing toolchain environment from " + s.ActivationScript)

		script := "export IDF_PATH=" + domain.ShellQuote(s.IDFPath) +
			" && . " + domain.ShellQuote(s.ActivationScript) + " >/dev/null 2>&1 && env -0"
		out, err := r.executor.Output(ctx, domain.Command{
			Name: s.Shell,
			Args: []string{"-c", script},
		})
		if err != nil {
			return nil, zerr.With(errors.Join(domain.ErrEnvCaptureFailed, err), "script", s.ActivationScript)
		}

		env := ParseEnv(out)
		if len(env) == 0 {
			return nil, zerr.With(domain.Annotate(domain.ErrEnvCaptureFailed, "script", s.ActivationScript), "reason", "empty environment")
		}

		if err := SaveEnvToCache(cachePath, env); err != nil {
			r.logger.Warn("failed to cache toolchain environment: " + err.Error())
		}
		return env, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return slices.Clone(res.Val.([]string)), nil
	}
}

// CacheKey derives the cache file name of a captured environment.
func CacheKey(idfPath, script string, modTime int64) string {
	d := xxhash.New()
	_, _ = d.WriteString(idfPath)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(script)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(strconv.FormatInt(modTime, 10))
	return strconv.FormatUint(d.Sum64(), 16)
}

// ParseEnv parses NUL-separated KEY=VALUE output of `env -0`.
func ParseEnv(data []byte) []string {
	var env []string
	for _, entry := range bytes.Split(data, []byte{0}) {
		k, _, ok := strings.Cut(string(entry), "=")
		if !ok || !ShouldIncludeVar(k) {
			continue
		}
		env = append(env, string(entry))
	}
	slices.Sort(env)
	return env
}

// LoadEnvFromCache attempts to load a cached environment.
func LoadEnvFromCache(path string) ([]string, error) {
	//nolint:gosec // Path is constructed from trusted cache directory
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrCacheMiss
		}
		return nil, zerr.Wrap(err, "failed to read cache file")
	}

	var env []string
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, zerr.Wrap(err, "failed to unmarshal cache")
	}

	return env, nil
}

// SaveEnvToCache saves an environment to the cache atomically.
func SaveEnvToCache(path string, env []string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create cache directory")
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal environment")
	}

	tmpFile, err := os.CreateTemp(dir, "env-cache-*.json")
	if err != nil {
		return zerr.Wrap(err, "failed to create temp cache file")
	}
	tmpName := tmpFile.Name()

	defer func() {
		if _, err := os.Stat(tmpName); err == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return zerr.Wrap(err, "failed to write cache file")
	}

	if err := tmpFile.Close(); err != nil {
		return zerr.Wrap(err, "failed to close temp cache file")
	}

	// The captured environment may contain credentials.
	if err := os.Chmod(tmpName, domain.PrivateFilePerm); err != nil {
		return zerr.Wrap(err, "failed to chmod cache file")
	}

	if err := os.Rename(tmpName, path); err != nil {
		return zerr.Wrap(err, "failed to rename temp cache file")
	}

	return nil
}
