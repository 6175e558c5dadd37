// Package fingerprint persists the configuration fingerprint of build directories.
package fingerprint

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/stratum/internal/core/domain"
	"go.trai.ch/stratum/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FingerprintStore = (*Store)(nil)

const (
	cacheTargetKey  = "STRATUM_TARGET:STRING="
	cacheDynamicKey = "STRATUM_BUILD_DYNAMIC:BOOL="
)

// Store implements ports.FingerprintStore with one JSON record per build directory.
// Directories configured before the record existed are read from CMakeCache.txt.
type Store struct {
	now func() time.Time
}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{now: time.Now}
}

// Get returns the fingerprint of buildDir, or nil if the directory is not configured.
func (s *Store) Get(buildDir string) (*domain.Fingerprint, error) {
	cache, err := os.ReadFile(filepath.Join(buildDir, domain.CMakeCacheFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// The build tool's state is gone, so any record is stale.
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "build_dir", buildDir)
	}

	record := filepath.Join(buildDir, domain.FingerprintFileName)
	//nolint:gosec // Path is constructed from the configured build root
	data, err := os.ReadFile(record)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return parseCMakeCache(cache), nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "path", record)
	}

	var fp domain.Fingerprint
	if err := json.Unmarshal(data, &fp); err != nil {
		err = zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
		return nil, zerr.With(err, "path", record)
	}
	return &fp, nil
}

// Put records fp as the configuration of buildDir.
func (s *Store) Put(buildDir string, fp domain.Fingerprint) error {
	if fp.ConfiguredAt.IsZero() {
		fp.ConfiguredAt = s.now().UTC()
	}

	data, err := json.MarshalIndent(fp, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}

	if err := os.MkdirAll(buildDir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}

	record := filepath.Join(buildDir, domain.FingerprintFileName)
	if err := os.WriteFile(record, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", record)
	}
	return nil
}

// Remove deletes the record of buildDir.
func (s *Store) Remove(buildDir string) error {
	record := filepath.Join(buildDir, domain.FingerprintFileName)
	if err := os.Remove(record); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", record)
	}
	return nil
}

// parseCMakeCache reads the target and linkage entries written by the configure step.
// A missing entry means the configuration is unknown.
func parseCMakeCache(data []byte) *domain.Fingerprint {
	var target, dynamic string
	var haveTarget, haveDynamic bool

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, cacheTargetKey):
			target, haveTarget = strings.TrimPrefix(line, cacheTargetKey), true
		case strings.HasPrefix(line, cacheDynamicKey):
			dynamic, haveDynamic = strings.TrimPrefix(line, cacheDynamicKey), true
		}
	}

	if !haveTarget || !haveDynamic {
		return nil
	}

	t := domain.Target(target)
	if !t.Valid() {
		return nil
	}

	return &domain.Fingerprint{Target: t, Dynamic: cmakeTruthy(dynamic)}
}

func cmakeTruthy(v string) bool {
	switch strings.ToUpper(v) {
	case "1", "ON", "YES", "TRUE", "Y":
		return true
	default:
		return false
	}
}
