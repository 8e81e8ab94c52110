package main

import (
	"fmt"
	"path/filepath"

	"github.com/dunamismax/folio/internal/config"
	"github.com/dunamismax/folio/internal/normalize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newNormalizeCmd(cfg config.Config, logger *zap.Logger) *cobra.Command {
	var maxWidth, maxHeight, quality int

	cmd := &cobra.Command{
		Use:   "normalize <file> <dest-dir>",
		Short: "Bound and re-encode an image the way uploads are stored",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := normalize.Startup(); err != nil {
				return err
			}
			defer normalize.Shutdown()

			up, closer, err := normalize.OpenFile(args[0], filepath.Base(args[0]))
			if err != nil {
				return err
			}
			defer closer.Close()

			n := normalize.New(normalize.Config{MaxWidth: maxWidth, MaxHeight: maxHeight, Quality: quality})
			res, err := n.Normalize(cmd.Context(), up, args[1])
			if err != nil {
				return err
			}

			logger.Info("image normalized",
				zap.String("source", args[0]),
				zap.String("file", res.Filename),
				zap.Bool("resized", res.Resized),
			)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %dx%d %s\n",
				filepath.Join(args[1], res.Filename), res.Width, res.Height, res.MIME)
			return err
		},
	}

	cmd.Flags().IntVar(&maxWidth, "max-width", cfg.Upload.MaxWidth, "Maximum output width in pixels")
	cmd.Flags().IntVar(&maxHeight, "max-height", cfg.Upload.MaxHeight, "Maximum output height in pixels")
	cmd.Flags().IntVar(&quality, "quality", cfg.Upload.Quality, "Lossy encoder quality, clamped to 1..100")
	return cmd
}
