package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogpu/vignet"
	"github.com/gogpu/vignet/internal/imageio"
)

func runAperFlux(ctx context.Context, args []string, e env) error {
	fs := newFlagSet("aperflux", e)
	var c common
	c.register(fs)

	var (
		in      = fs.String("in", "", "input FITS file")
		varPath = fs.String("var", "", "variance FITS file, same size as every input")
		dxc     = fs.Float64("dxc", 0, "x offset of the aperture centre from the image centre")
		dyc     = fs.Float64("dyc", 0, "y offset of the aperture centre from the image centre")
		diam    = fs.Float64("diameter", 10, "aperture diameter in pixels")
		gain    = fs.Float64("gain", 0, "detector gain in e-/ADU (0 disables shot noise)")
		noise   = fs.Float64("backnoise", 0, "background noise RMS")
		perPix  = fs.Bool("pixelgain", false, "add shot noise per pixel, weighted by variance")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	files := inputs(*in, fs.Args())
	if len(files) == 0 {
		fs.Usage()
		return errors.New("no input file")
	}

	c.logger(e)

	var variance *vignet.Raster
	if *varPath != "" {
		var err error
		if variance, err = imageio.LoadFITS(*varPath); err != nil {
			return err
		}
	}

	ap := vignet.Aperture{
		DXC:       float32(*dxc),
		DYC:       float32(*dyc),
		Diameter:  float32(*diam),
		Gain:      float32(*gain),
		BackNoise: float32(*noise),
		PixelGain: *perPix,
	}

	results := make([]vignet.Photometry, len(files))
	err := forEach(ctx, files, c.jobs, func(_ context.Context, i int, path string) error {
		img, err := imageio.LoadFITS(path)
		if err != nil {
			return err
		}
		results[i], err = vignet.ApertureFlux(img, variance, ap)
		return err
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(e.stdout, "# %-30s %14s %14s %10s\n", "file", "flux", "flux_err", "area")
	for i, path := range files {
		p := results[i]
		if !p.Inside {
			fmt.Fprintf(e.stdout, "%-32s %14s %14s %10s\n", path, "nan", "nan", "0")
			continue
		}
		fmt.Fprintf(e.stdout, "%-32s %14.6g %14.6g %10.4f\n", path, p.Flux, p.FluxErr, p.Area)
	}
	return nil
}
