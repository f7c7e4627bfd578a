package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"now-playing/internal/card"
	"now-playing/internal/database"
	"now-playing/internal/download"
	"now-playing/internal/logging"
	"now-playing/internal/startup"
	"now-playing/internal/thumbnail"
	"now-playing/internal/workers"
	"now-playing/internal/youtube"
)

const (
	exitOK       = 0
	exitFallback = 1
	exitUsage    = 2
)

type options struct {
	size    image.Point
	workers int
	journal bool
	verbose bool
	ids     []string
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	w := fs.Int("w", 0, "canvas width")
	h := fs.Int("h", 0, "canvas height")
	fs.IntVar(&opts.workers, "workers", 0, "concurrent renders")
	fs.BoolVar(&opts.journal, "journal", false, "record renders in the journal database")
	fs.BoolVar(&opts.verbose, "v", false, "debug logging")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: render [flags] <video-id>...")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	if (*w == 0) != (*h == 0) || *w < 0 || *h < 0 {
		return opts, errors.New("-w and -h must be given together and be positive")
	}
	opts.size = image.Pt(*w, *h)

	opts.ids = fs.Args()
	if len(opts.ids) == 0 {
		fs.Usage()
		return opts, errors.New("at least one video id is required")
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return exitUsage
	}

	if opts.verbose {
		logging.SetLevel(logging.LevelDebug)
	}

	if err := startup.LoadEnvFile(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	cfg, err := startup.ConfigFromEnv()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	renderer, closeJournal, err := newRenderer(ctx, cfg, opts.journal)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	defer closeJournal()

	n := opts.workers
	if n <= 0 {
		n = workers.ForMixed(len(opts.ids))
	}
	logging.Debug("Rendering %d cards with %d workers", len(opts.ids), n)

	results := make([]thumbnail.Result, len(opts.ids))
	done := make([]bool, len(opts.ids))
	workers.Run(ctx, n, len(opts.ids), func(ctx context.Context, i int) {
		results[i] = renderer.Generate(ctx, opts.ids[i], opts.size)
		done[i] = true
	})

	code := exitOK
	for i, id := range opts.ids {
		if !done[i] {
			fmt.Fprintf(stdout, "%s\t-\tskipped\n", id)
			code = exitFallback
			continue
		}
		res := results[i]
		location := res.Location()
		if location == "" {
			location = "-"
		}
		fmt.Fprintf(stdout, "%s\t%s\t%s\n", id, location, res.Outcome())
		if !res.OK() {
			code = exitFallback
		}
	}
	return code
}

// newRenderer builds a renderer from cfg. The returned func closes the
// journal when one was opened.
func newRenderer(ctx context.Context, cfg *startup.Config, withJournal bool) (*thumbnail.Renderer, func(), error) {
	noop := func() {}

	fonts, err := card.LoadFontSet(cfg.HeaderFont, cfg.InfoFont)
	if err != nil {
		return nil, noop, fmt.Errorf("failed to load fonts: %w", err)
	}

	var journal thumbnail.Journal
	closeJournal := noop
	if withJournal {
		if err := os.MkdirAll(cfg.DatabaseDir, 0o755); err != nil {
			return nil, noop, fmt.Errorf("failed to create database directory: %w", err)
		}
		db, err := database.New(ctx, filepath.Join(cfg.DatabaseDir, "renders.db"))
		if err != nil {
			return nil, noop, err
		}
		journal = db
		closeJournal = func() {
			if err := db.Close(); err != nil {
				logging.Warn("failed to close database: %v", err)
			}
		}
	}

	renderer, err := thumbnail.New(
		thumbnail.Config{
			CacheDir:       cfg.CacheDir,
			PlaceholderURL: cfg.PlaceholderURL,
			CanvasWidth:    cfg.CanvasWidth,
			CanvasHeight:   cfg.CanvasHeight,
			FooterText:     cfg.FooterText,
		},
		youtube.NewClient(cfg.YouTubeAPIKey, cfg.YouTubeAPIURL, cfg.HTTPTimeout),
		download.New(cfg.HTTPTimeout),
		fonts,
		journal,
	)
	if err != nil {
		closeJournal()
		return nil, noop, err
	}
	return renderer, closeJournal, nil
}
