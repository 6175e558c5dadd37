package driver_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stratum/internal/core/domain"
	"go.trai.ch/stratum/internal/core/ports/mocks"
	"go.trai.ch/stratum/internal/engine/driver"
	"go.uber.org/mock/gomock"
)

func TestPromote_SameNameKeepsArtifact(t *testing.T) {
	dir := t.TempDir()
	h := domain.NewArtifactHandle(dir, domain.IntermediaryName, false, "linux")
	require.NoError(t, os.WriteFile(h.Intermediary, []byte("lib"), 0o600))

	require.NoError(t, driver.Promote(h, nil))
	assert.FileExists(t, h.Final)
}

func TestPromote_ImportLibraryFailureIsOnlyAWarning(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Warn(gomock.Any()).Times(1)

	dir := t.TempDir()
	h := domain.NewArtifactHandle(dir, "ui", true, "windows")
	require.NoError(t, os.WriteFile(h.Intermediary, []byte("dll"), 0o600))

	// A non-empty directory in place of an import library cannot be removed.
	blocked := h.ImportLibraries[0]
	require.NoError(t, os.MkdirAll(filepath.Join(blocked, "child"), 0o750))

	require.NoError(t, driver.Promote(h, logger))
	assert.FileExists(t, h.Final)
}
