// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/ik5/scoreport"
	"github.com/ik5/scoreport/composition"
	"github.com/ik5/scoreport/internal/config"
)

var errNoMatch = errors.New("pattern matched no files")

// batch exports composition files to one format under outDir.
type batch struct {
	exporter *scoreport.Exporter
	format   scoreport.Format
	outDir   string
	logger   *slog.Logger
}

// newBatch builds the exporter from cfg. renderPath names a pre-rendered
// audio file used for every WAV and MP3 export; outDir overrides
// cfg.OutputDir when set.
func newBatch(c config.Config, f scoreport.Format, renderPath, outDir string, logger *slog.Logger) *batch {
	opts := []scoreport.Option{
		scoreport.WithLogger(logger),
		scoreport.WithSampleRate(c.SampleRate),
		scoreport.WithChannels(c.Channels),
		scoreport.WithBitrate(c.Bitrate),
		scoreport.WithTicksPerBeat(c.TicksPerBeat),
		scoreport.WithRenderTail(c.RenderTail),
	}
	if renderPath != "" {
		opts = append(opts, scoreport.WithRenderer(scoreport.NewFileRenderer(renderPath, nil)))
	}
	if outDir == "" {
		outDir = c.OutputDir
	}

	return &batch{
		exporter: scoreport.New(opts...),
		format:   f,
		outDir:   outDir,
		logger:   logger,
	}
}

// outputPath maps songs/intro.yaml to <outDir>/intro.mid for MIDI.
func (b *batch) outputPath(src string) string {
	base := filepath.Base(src)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(b.outDir, base+b.format.Ext())
}

// exportFile loads one composition, exports it and writes the result. The
// destination is only written once the export succeeded.
func (b *batch) exportFile(ctx context.Context, src string) (string, error) {
	c, err := composition.LoadFile(src)
	if err != nil {
		return "", err
	}

	out, err := b.exporter.Export(ctx, b.format, c)
	if err != nil {
		return "", fmt.Errorf("%s: %w", src, err)
	}

	if err := os.MkdirAll(b.outDir, 0o755); err != nil {
		return "", err
	}

	dst := b.outputPath(src)
	if err := os.WriteFile(dst, out.Data, 0o644); err != nil {
		return "", err
	}

	b.logger.Info("wrote", "source", src, "output", dst, "bytes", len(out.Data))
	return dst, nil
}

// run exports every file and keeps going past failures, returning them
// joined.
func (b *batch) run(ctx context.Context, files []string) error {
	var errs []error
	for _, src := range files {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if _, err := b.exportFile(ctx, src); err != nil {
			b.logger.Error("export failed", "source", src, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// expandPatterns resolves ** globs to a sorted, duplicate free list of
// regular files. A pattern that names no file is an error.
func expandPatterns(patterns []string) ([]string, error) {
	var files []string
	for _, p := range patterns {
		matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: %s", errNoMatch, p)
		}
		files = append(files, matches...)
	}

	slices.Sort(files)
	return slices.Compact(files), nil
}

func newExportCmd(f scoreport.Format, short string) *cobra.Command {
	var renderPath, outDir string

	cmd := &cobra.Command{
		Use:   string(f) + " <composition-glob>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandPatterns(args)
			if err != nil {
				return err
			}
			return newBatch(cfg, f, renderPath, outDir, slog.Default()).run(cmd.Context(), files)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default from config)")
	if f != scoreport.FormatMIDI {
		cmd.Flags().StringVarP(&renderPath, "render", "r", "", "Pre-rendered audio file (wav, mp3, ogg, aiff)")
		_ = cmd.MarkFlagRequired("render")
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(
		newExportCmd(scoreport.FormatMIDI, "Export compositions as Standard MIDI Files"),
		newExportCmd(scoreport.FormatWAV, "Export rendered compositions as 16-bit WAV"),
		newExportCmd(scoreport.FormatMP3, "Export rendered compositions as MP3"),
	)
}
