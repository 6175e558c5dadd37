package fingerprint_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stratum/internal/adapters/fingerprint"
	"go.trai.ch/stratum/internal/core/domain"
)

func writeCMakeCache(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.CMakeCacheFile), []byte(content), domain.FilePerm))
}

func TestStore_PutGet(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := fingerprint.NewStoreWithClock(func() time.Time { return now })

	writeCMakeCache(t, dir, "# empty\n")
	require.NoError(t, store.Put(dir, domain.Fingerprint{Target: domain.TargetFirmware, Dynamic: true}))

	got, err := store.Get(dir)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.Fingerprint{Target: domain.TargetFirmware, Dynamic: true, ConfiguredAt: now}, *got)
}

func TestStore_Get(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cache  string // empty means no CMakeCache.txt
		record bool
		want   *domain.Fingerprint
	}{
		{
			name: "fresh directory",
			want: nil,
		},
		{
			name:   "record without build tool cache",
			record: true,
			want:   nil,
		},
		{
			name:  "legacy cache with both keys",
			cache: "CMAKE_BUILD_TYPE:STRING=Debug\nSTRATUM_BUILD_DYNAMIC:BOOL=ON\nSTRATUM_TARGET:STRING=desktop\n",
			want:  &domain.Fingerprint{Target: domain.TargetDesktop, Dynamic: true},
		},
		{
			name:  "legacy cache static",
			cache: "STRATUM_TARGET:STRING=firmware\nSTRATUM_BUILD_DYNAMIC:BOOL=OFF\n",
			want:  &domain.Fingerprint{Target: domain.TargetFirmware, Dynamic: false},
		},
		{
			name:  "legacy cache missing linkage",
			cache: "STRATUM_TARGET:STRING=desktop\n",
			want:  nil,
		},
		{
			name:  "legacy cache missing target",
			cache: "STRATUM_BUILD_DYNAMIC:BOOL=OFF\n",
			want:  nil,
		},
		{
			name:  "legacy cache unknown target",
			cache: "STRATUM_TARGET:STRING=wasm\nSTRATUM_BUILD_DYNAMIC:BOOL=OFF\n",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			store := fingerprint.NewStore()

			if tt.record {
				require.NoError(t, store.Put(dir, domain.Fingerprint{Target: domain.TargetDesktop}))
			}
			if tt.cache != "" {
				writeCMakeCache(t, dir, tt.cache)
			}

			got, err := store.Get(dir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStore_GetCorrupt(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeCMakeCache(t, dir, "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.FingerprintFileName), []byte("{not json"), domain.FilePerm))

	_, err := fingerprint.NewStore().Get(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrStoreReadFailed.Error())
}

func TestStore_Remove(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := fingerprint.NewStore()

	require.NoError(t, store.Remove(dir), "removing a missing record is not an error")

	writeCMakeCache(t, dir, "")
	require.NoError(t, store.Put(dir, domain.Fingerprint{Target: domain.TargetDesktop}))
	require.NoError(t, store.Remove(dir))

	got, err := store.Get(dir)
	require.NoError(t, err)
	assert.Nil(t, got, "an empty legacy cache has no fingerprint")
}

func TestStore_PutCreatesDirectory(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "build", "desktop")
	require.NoError(t, fingerprint.NewStore().Put(dir, domain.Fingerprint{Target: domain.TargetDesktop}))
	assert.FileExists(t, filepath.Join(dir, domain.FingerprintFileName))
}
