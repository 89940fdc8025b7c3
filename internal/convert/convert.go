// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns an exponent table into a basis-set file. It reads the
// whole table, writes the basis file, and reports the output path once the
// file has been flushed and closed.
package convert

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/pdiddy/risbas/internal/basis"
	"github.com/pdiddy/risbas/internal/exponent"
	"github.com/pdiddy/risbas/pkg/types"
)

// Result holds the outcome of a conversion run.
type Result struct {
	OutputPath string
	Blocks     int
	Comments   int
}

// Converter writes basis files for one configuration.
type Converter struct {
	cfg    types.ConversionConfig
	logger *zap.Logger
}

// New returns a Converter for cfg. A nil logger discards diagnostics.
func New(cfg types.ConversionConfig, logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{cfg: cfg, logger: logger}
}

// Run converts cfg.InputPath into cfg.OutputPath() and prints the completion
// line to w.
func Run(cfg types.ConversionConfig, logger *zap.Logger, w io.Writer) (Result, error) {
	return New(cfg, logger).Convert(w)
}

// Convert reads the exponent table, writes the basis file, and prints
// "Output written to <path>" to w. On failure the partially written output
// file is removed and nothing is printed.
func (c *Converter) Convert(w io.Writer) (Result, error) {
	outPath := c.cfg.OutputPath()
	log := c.logger.With(zap.String("input", c.cfg.InputPath), zap.String("output", outPath))

	table, err := exponent.ReadFile(c.cfg.InputPath)
	if err != nil {
		return Result{}, err
	}
	log.Debug("read exponent table",
		zap.Int("records", len(table.Records)),
		zap.Int("comments", table.Comments))
	if table.Blank > 0 {
		log.Warn("skipped blank lines in exponent table", zap.Int("blank", table.Blank))
	}

	if err := writeBasisFile(outPath, table.Records, c.cfg.PFunction, log); err != nil {
		return Result{}, err
	}

	res := Result{
		OutputPath: outPath,
		Blocks:     len(table.Records),
		Comments:   table.Comments,
	}
	log.Debug("wrote basis file", zap.Int("blocks", res.Blocks), zap.Bool("pfunc", c.cfg.PFunction))

	fmt.Fprintf(w, "Output written to %s\n", outPath)
	return res, nil
}

// createOutput opens the output for writing. Tests replace it to inject
// write failures.
var createOutput = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// writeBasisFile creates or truncates path and writes the complete file.
// The file is closed before returning so a nil error means it is on disk.
// Once path has been opened, any later failure removes it again if it is a
// regular file.
func writeBasisFile(path string, records []types.ExponentRecord, pfunc bool, log *zap.Logger) (err error) {
	f, err := createOutput(path)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer func() {
		if err != nil {
			removePartial(path, log)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := basis.Write(bw, records, pfunc); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

// removePartial deletes a half-written output. Symlinks, devices and pipes
// are left alone: they were not created by this run.
func removePartial(path string, log *zap.Logger) {
	fi, err := os.Lstat(path)
	if err != nil {
		return
	}
	if !fi.Mode().IsRegular() {
		log.Debug("leaving non-regular output in place", zap.Stringer("mode", fi.Mode()))
		return
	}
	log.Debug("removing partial output")
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("could not remove partial output", zap.Error(err))
	}
}
