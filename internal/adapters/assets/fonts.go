package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"go.trai.ch/stratum/internal/core/domain"
	"go.trai.ch/stratum/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.AssetStep = (*FontStep)(nil)

const headerTemplate = `#pragma once

#include "lvgl.h"

extern const lv_font_t %s;
`

// FontStep renders bitmap font sources and their headers with an LVGL font converter.
// Outputs newer than their inputs are reused unless the cache is bypassed.
type FontStep struct {
	cfg      domain.FontSettings
	root     string
	executor ports.Executor
	logger   ports.Logger
}

// NewFontStep creates a FontStep. Relative directories are resolved against root.
func NewFontStep(cfg domain.FontSettings, root string, executor ports.Executor, logger ports.Logger) *FontStep {
	return &FontStep{cfg: cfg, root: root, executor: executor, logger: logger}
}

// Name returns the step name.
func (s *FontStep) Name() string {
	return "fonts"
}

// Run regenerates every stale font source and header.
func (s *FontStep) Run(ctx context.Context, cacheBypass bool) error {
	cDir := s.path(s.cfg.COutDir)
	hDir := s.path(s.cfg.HOutDir)
	for _, dir := range []string{cDir, hDir} {
		if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to create font output directory"), "path", dir)
		}
	}

	for _, face := range s.cfg.Faces {
		src := filepath.Join(s.path(s.cfg.SourceDir), face.File)

		for _, size := range face.Sizes {
			base := face.Prefix + "_" + strconv.Itoa(size)
			cFile := filepath.Join(cDir, base+".c")
			hFile := filepath.Join(hDir, base+".h")

			regenC, err := outdated(src, cFile)
			if err != nil {
				return err
			}
			if cacheBypass || regenC {
				s.logger.Info("generating " + filepath.Base(cFile))
				if err := s.executor.Run(ctx, s.convertCommand(src, size, cFile)); err != nil {
					return zerr.With(err, "font", base)
				}
			} else {
				s.logger.Info("skipping " + filepath.Base(cFile) + " (cached)")
			}

			regenH, err := outdated(cFile, hFile)
			if err != nil {
				return err
			}
			if cacheBypass || regenH {
				if err := os.WriteFile(hFile, []byte(fmt.Sprintf(headerTemplate, base)), domain.FilePerm); err != nil {
					return zerr.With(zerr.Wrap(err, "failed to write font header"), "path", hFile)
				}
			}
		}
	}

	return nil
}

func (s *FontStep) convertCommand(src string, size int, out string) domain.Command {
	bpp := s.cfg.BPP
	if bpp == 0 {
		bpp = domain.DefaultFontBPP
	}
	fontRange := s.cfg.Range
	if fontRange == "" {
		fontRange = domain.DefaultFontRange
	}

	return domain.Command{
		Name: s.cfg.Converter,
		Args: []string{
			"--font", src,
			"--size", strconv.Itoa(size),
			"--bpp", strconv.Itoa(bpp),
			"--format", "lvgl",
			"--range", fontRange,
			"--no-compress",
			"--output", out,
		},
		Dir: s.root,
	}
}

func (s *FontStep) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.root, p)
}

// outdated reports whether target is missing or older than source.
func outdated(source, target string) (bool, error) {
	tInfo, err := os.Stat(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return true, nil
		}
		return false, zerr.With(zerr.Wrap(err, "failed to stat font output"), "path", target)
	}

	sInfo, err := os.Stat(source)
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, "font source not readable"), "path", source)
	}

	return sInfo.ModTime().After(tInfo.ModTime()), nil
}
