// Command vignet resamples, combines and measures vignettes stored as FITS
// images.
//
// Usage:
//
//	vignet resample       -in a.fits -out b.fits -w 64 -h 64 -dx 0.3 -dy -0.2 -step 1 -stepi 1
//	vignet resample-pixel -in a.fits -out b.fits -dx 0.5
//	vignet composite      -src a.fits -dst b.fits -out c.fits -idx 0 -idy 0 -op add
//	vignet aperflux       -in a.fits -var v.fits -diameter 10 -gain 1 -backnoise 1
//	vignet preview        -in a.fits -out a.png -scale 4
//
// Subcommands taking -in also take more inputs after the flags. Those are
// processed concurrently (-j) and written next to each input.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/vignet"
)

// env carries the process streams so commands can be tested in-process.
type env struct {
	stdout io.Writer
	stderr io.Writer
}

type command struct {
	summary string
	run     func(ctx context.Context, args []string, e env) error
}

var commands = map[string]command{
	"resample":       {"resample onto a new grid with a Lanczos kernel", runResample(false)},
	"resample-pixel": {"resample delta-function pixel bases", runResample(true)},
	"composite":      {"combine two images at an integer offset", runComposite},
	"aperflux":       {"measure flux in a circular aperture", runAperFlux},
	"preview":        {"render a PNG quick-look", runPreview},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], env{stdout: os.Stdout, stderr: os.Stderr}); err != nil {
		fmt.Fprintf(os.Stderr, "vignet: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, e env) error {
	if len(args) == 0 {
		usage(e.stderr)
		return errors.New("missing command")
	}

	cmd, ok := commands[args[0]]
	if !ok {
		usage(e.stderr)
		return fmt.Errorf("unknown command %q", args[0])
	}

	err := cmd.run(ctx, args[1:], e)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}

func usage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(w, "vignet %s\n", vignet.Version)
	fmt.Fprintln(w, "usage: vignet <command> [flags] [files...]")
	fmt.Fprintln(w)
	for _, name := range names {
		fmt.Fprintf(w, "  %-15s %s\n", name, commands[name].summary)
	}
}

// common holds the flags shared by every command.
type common struct {
	verbose bool
	jobs    int
}

func (c *common) register(fs *flag.FlagSet) {
	fs.BoolVar(&c.verbose, "v", false, "enable debug logging")
	fs.IntVar(&c.jobs, "j", runtime.NumCPU(), "maximum number of files processed concurrently")
}

// logger installs a text logger on stderr as the library logger.
func (c *common) logger(e env) *slog.Logger {
	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelDebug
	}
	l := slog.New(slog.NewTextHandler(e.stderr, &slog.HandlerOptions{Level: level}))
	vignet.SetLogger(l)
	return l
}

func newFlagSet(name string, e env) *flag.FlagSet {
	fs := flag.NewFlagSet("vignet "+name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	return fs
}

// inputs merges the -in flag with positional arguments.
func inputs(in string, rest []string) []string {
	var files []string
	if in != "" {
		files = append(files, in)
	}
	return append(files, rest...)
}

// outputPath inserts suffix before the extension of in, or replaces the
// extension when ext is not empty: a.fits becomes a.resamp.fits, or a.png.
func outputPath(in, suffix, ext string) string {
	old := filepath.Ext(in)
	base := strings.TrimSuffix(in, old)
	if ext != "" {
		return base + suffix + ext
	}
	return base + suffix + old
}

// forEach runs fn for every file with at most jobs concurrent calls. It
// stops scheduling new files on the first error or when ctx is cancelled.
func forEach(parent context.Context, files []string, jobs int, fn func(ctx context.Context, i int, path string) error) error {
	g, ctx := errgroup.WithContext(parent)
	if jobs > 0 {
		g.SetLimit(jobs)
	}

	for i, path := range files {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(ctx, i, path); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return parent.Err()
}
