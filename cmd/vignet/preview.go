package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/vignet/internal/imageio"
	"github.com/gogpu/vignet/internal/interp"
)

func runPreview(ctx context.Context, args []string, e env) error {
	fs := newFlagSet("preview", e)
	var c common
	c.register(fs)

	var (
		in     = fs.String("in", "", "input FITS file")
		out    = fs.String("out", "", "output PNG file (single input only)")
		scale  = fs.Int("scale", 4, "enlargement factor")
		kernel = fs.String("kernel", "lanczos", "interpolant: lanczos, triangular or nearest")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	mode, ok := interp.ParseMode(*kernel)
	if !ok {
		return fmt.Errorf("unknown kernel %q", *kernel)
	}
	files := inputs(*in, fs.Args())
	if len(files) == 0 {
		fs.Usage()
		return errors.New("no input file")
	}
	if *out != "" && len(files) > 1 {
		return errors.New("-out requires a single input")
	}

	log := c.logger(e)

	return forEach(ctx, files, c.jobs, func(_ context.Context, _ int, path string) error {
		r, err := imageio.LoadFITS(path)
		if err != nil {
			return err
		}
		dstPath := *out
		if dstPath == "" {
			dstPath = outputPath(path, "", ".png")
		}
		log.Debug("preview", slog.String("in", path), slog.String("out", dstPath), slog.Int("scale", *scale))
		return imageio.SavePNG(dstPath, r, *scale, mode)
	})
}
