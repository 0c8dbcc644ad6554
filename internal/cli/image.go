package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rshade/virtlist/internal/config"
	"github.com/rshade/virtlist/internal/errmsg"
	"github.com/rshade/virtlist/internal/imaging"
)

type shrinkFlags struct {
	maxWidth    int
	quality     int
	outDir      string
	concurrency int
}

// NewImageShrinkCmd creates the image shrink command, which scales images to
// a maximum edge length and re-encodes them as JPEG.
func NewImageShrinkCmd() *cobra.Command {
	var flags shrinkFlags

	cmd := &cobra.Command{
		Use:   "shrink FILE...",
		Short: "Scale images down and re-encode them as JPEG",
		Long: `Checks each file's size and type, scales it so neither edge exceeds
--max-width (keeping the aspect ratio, never enlarging) and writes a JPEG to
--out-dir. Files are processed in parallel batches; a failing file does not
stop the others.`,
		Example: `  # Shrink photos with the configured defaults
  virtlist image shrink photos/*.png --out-dir upload

  # Smaller, lower-quality thumbnails
  virtlist image shrink a.jpg b.gif --max-width 320 --quality 60`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImageShrink(cmd, args, &flags)
		},
	}

	cmd.Flags().IntVar(&flags.maxWidth, "max-width", 0, "maximum edge length in pixels (default from config image.max_width)")
	cmd.Flags().IntVar(&flags.quality, "quality", 0, "JPEG quality 1-100 (default from config image.quality)")
	cmd.Flags().StringVar(&flags.outDir, "out-dir", ".", "directory for the compressed files")
	cmd.Flags().IntVar(&flags.concurrency, "concurrency", 0, "files processed at once (default from config image.concurrency)")

	return cmd
}

func runImageShrink(cmd *cobra.Command, args []string, flags *shrinkFlags) error {
	handler := errmsg.NewHandler(logger, func(msg string) { cmd.PrintErrln(msg) })
	cfg := config.GetGlobalConfig().Image

	opts := imaging.FileOptions{
		Options: imaging.Options{
			MaxWidth: pick(flags.maxWidth, cfg.MaxWidth),
			Quality:  pick(flags.quality, cfg.Quality),
		},
		OutDir:       flags.outDir,
		MaxBytes:     cfg.MaxBytes(),
		AllowedTypes: cfg.AllowedTypes,
		Concurrency:  pick(flags.concurrency, cfg.Concurrency),
		Logger:       logger,
	}

	results, err := imaging.CompressFiles(cmd.Context(), args, opts)
	p := statusPrinter()
	for _, res := range results {
		cmd.Printf("%s -> %s  %dx%d -> %dx%d  %s\n",
			res.Source, filepath.Base(res.Destination),
			res.SourceWidth, res.SourceHeight, res.Width, res.Height,
			p.Sprintf("%d -> %d bytes", res.BytesIn, res.BytesOut))
	}
	if err != nil {
		handler.Handle(err, errmsg.ContextPhotoUpload)
		if errors.Is(err, imaging.ErrInvalidOptions) {
			return err
		}
		return fmt.Errorf("%d of %d images failed: %w", len(args)-len(results), len(args), err)
	}
	return nil
}

// pick returns flag when it was set, otherwise the configured value.
func pick(flag, configured int) int {
	if flag != 0 {
		return flag
	}
	return configured
}
