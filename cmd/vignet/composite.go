package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/vignet"
	"github.com/gogpu/vignet/internal/imageio"
)

func runComposite(_ context.Context, args []string, e env) error {
	fs := newFlagSet("composite", e)
	var c common
	c.register(fs)

	var (
		srcPath = fs.String("src", "", "source FITS file")
		dstPath = fs.String("dst", "", "destination FITS file")
		out     = fs.String("out", "", "output FITS file (default: overwrite -dst)")
		idx     = fs.Int("idx", 0, "x offset of the source centre from the destination centre")
		idy     = fs.Int("idy", 0, "y offset of the source centre from the destination centre")
		opName  = fs.String("op", "copy", "operation: copy, add, sub, mul or div")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *srcPath == "" || *dstPath == "" {
		fs.Usage()
		return errors.New("-src and -dst are required")
	}
	op, ok := vignet.ParseOp(*opName)
	if !ok {
		return fmt.Errorf("unknown operation %q", *opName)
	}

	log := c.logger(e)

	src, err := imageio.LoadFITS(*srcPath)
	if err != nil {
		return err
	}
	dst, err := imageio.LoadFITS(*dstPath)
	if err != nil {
		return err
	}

	err = vignet.Composite(dst, src, *idx, *idy, op)
	if errors.Is(err, vignet.ErrNoOverlap) {
		log.Warn("no overlap, destination unchanged",
			slog.String("src", *srcPath), slog.String("dst", *dstPath))
	} else if err != nil {
		return err
	}

	if *out == "" {
		*out = *dstPath
	}
	return imageio.SaveFITS(*out, dst)
}
