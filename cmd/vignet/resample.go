package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/vignet"
	"github.com/gogpu/vignet/internal/imageio"
	"github.com/gogpu/vignet/internal/interp"
)

// runResample returns the resample command, or resample-pixel when pixel
// is true.
func runResample(pixel bool) func(ctx context.Context, args []string, e env) error {
	name := "resample"
	if pixel {
		name = "resample-pixel"
	}

	return func(ctx context.Context, args []string, e env) error {
		fs := newFlagSet(name, e)
		var c common
		c.register(fs)

		var (
			in     = fs.String("in", "", "input FITS file")
			out    = fs.String("out", "", "output FITS file (single input only)")
			suffix = fs.String("suffix", ".resamp", "suffix inserted before the extension of batch outputs")
			width  = fs.Int("w", 0, "output width (default: input width)")
			height = fs.Int("h", 0, "output height (default: input height)")
			kernel = fs.String("kernel", "lanczos", "interpolant: lanczos, triangular or nearest")
		)
		g := vignet.DefaultGeometry()
		fs.Float64Var(&g.DX, "dx", 0, "x shift of the input centre, in input pixels")
		fs.Float64Var(&g.DY, "dy", 0, "y shift of the input centre, in input pixels")
		step := fs.Float64("step", 1, "input pixels per output pixel")
		stepi := fs.Float64("stepi", 1, "oversampling of the input pixel grid")

		if err := fs.Parse(args); err != nil {
			return err
		}
		g.Step = float32(*step)
		g.StepI = float32(*stepi)

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
		opts := []vignet.Option{vignet.WithKernel(mode), vignet.WithLogger(log)}

		return forEach(ctx, files, c.jobs, func(_ context.Context, _ int, path string) error {
			src, err := imageio.LoadFITS(path)
			if err != nil {
				return err
			}

			w, h := src.Bounds()
			if *width > 0 {
				w = *width
			}
			if *height > 0 {
				h = *height
			}
			dst, err := vignet.NewRaster(w, h)
			if err != nil {
				return err
			}

			if pixel {
				err = vignet.ResamplePixel(dst, src, g, opts...)
			} else {
				err = vignet.Resample(dst, src, g, opts...)
			}
			if errors.Is(err, vignet.ErrNoOverlap) {
				log.Warn("no overlap, writing an empty image", slog.String("file", path))
			} else if err != nil {
				return err
			}

			dstPath := *out
			if dstPath == "" {
				dstPath = outputPath(path, *suffix, "")
			}
			log.Debug("resampled", slog.String("in", path), slog.String("out", dstPath),
				slog.Float64("sum", dst.Sum()))
			return imageio.SaveFITS(dstPath, dst)
		})
	}
}
