package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.trai.ch/zerr"

	"go.trai.ch/stratum/internal/core/domain"
	"go.trai.ch/stratum/internal/core/ports"
)

// promote renames the intermediary artifact to its final name. Leftover import
// libraries are removed on a best-effort basis.
func promote(h domain.ArtifactHandle, logger ports.Logger) error {
	if _, err := os.Stat(h.Intermediary); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Annotate(domain.ErrArtifactMissing, "path", h.Intermediary)
		}
		return domain.PhaseError(domain.ErrPromotionFailed, zerr.With(err, "path", h.Intermediary))
	}

	if h.Final != h.Intermediary {
		if err := removeIfExists(h.Final); err != nil {
			return domain.PhaseError(domain.ErrPromotionFailed, zerr.With(err, "path", h.Final))
		}
		if err := os.Rename(h.Intermediary, h.Final); err != nil {
			return domain.PhaseError(domain.ErrPromotionFailed, zerr.With(err, "path", h.Final))
		}
	}

	for _, lib := range h.ImportLibraries {
		if err := removeIfExists(lib); err != nil {
			logger.Warn(fmt.Sprintf("failed to remove import library %s: %v", lib, err))
		}
	}
	return nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
