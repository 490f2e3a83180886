// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ik5/scoreport"
	"github.com/ik5/scoreport/internal/config"
)

// convertFile decodes an audio file and re-encodes it through the export
// encoders, conformed to the configured rate and channels. The output
// format comes from dst's extension.
func convertFile(ctx context.Context, c config.Config, src, dst string, logger *slog.Logger) error {
	f, err := scoreport.ParseFormat(filepath.Ext(dst))
	if err != nil {
		return err
	}

	buf, err := scoreport.NewFileRenderer(src, nil).Render(ctx, nil, 0)
	if err != nil {
		return err
	}

	e := scoreport.New(
		scoreport.WithLogger(logger),
		scoreport.WithSampleRate(c.SampleRate),
		scoreport.WithChannels(c.Channels),
		scoreport.WithBitrate(c.Bitrate),
	)

	var out *scoreport.Output
	switch f {
	case scoreport.FormatWAV:
		out, err = e.EncodeWAV(buf)
	case scoreport.FormatMP3:
		out, err = e.EncodeMP3(ctx, buf)
	default:
		return fmt.Errorf("%w: cannot convert audio to %s", scoreport.ErrUnknownFormat, f)
	}
	if err != nil {
		return err
	}

	return os.WriteFile(dst, out.Data, 0o644)
}

var convertCmd = &cobra.Command{
	Use:   "convert <input> <output.{wav|mp3}>",
	Short: "Resample and re-encode an audio file",
	Long: `Convert decodes a wav, mp3, ogg or aiff file and writes it as WAV or MP3 at the
configured sample rate and channel count.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return convertFile(cmd.Context(), cfg, args[0], args[1], slog.Default())
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
}
