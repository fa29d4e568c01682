package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/ironsheep/label-vectorizer/internal/api"
	"github.com/ironsheep/label-vectorizer/internal/batch"
	"github.com/ironsheep/label-vectorizer/internal/config"
	"github.com/ironsheep/label-vectorizer/internal/imaging"
	"github.com/ironsheep/label-vectorizer/internal/log"
	"github.com/ironsheep/label-vectorizer/internal/server"
	"github.com/ironsheep/label-vectorizer/internal/vectorize"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const usage = `label-vectorize - turn segmentation label images into vector features

Usage: label-vectorize [command] [flags]

Commands:
  vectorize   Vectorise a directory of label images (default)
  render      Draw a vectors JSON file over the source imagery
  serve       Serve the vectoriser over HTTP
  mcp         Run as an MCP server on stdin/stdout

Options:
  --version, -v    Print version information
  --help, -h       Print this help message

Run 'label-vectorize <command> -h' for the flags of a command.

Environment variables (also read from .env):
  LABEL_VEC_LABEL_DIR, LABEL_VEC_OUTPUT, LABEL_VEC_FORMAT,
  LABEL_VEC_EXTENSIONS, LABEL_VEC_WORKERS, LABEL_VEC_POLYLINE_STRATEGY,
  LABEL_VEC_POLYLINE_EPSILON, LABEL_VEC_POLYGON_EPSILON,
  LABEL_VEC_ARC_FRACTION, LABEL_VEC_CATEGORIES_FILE, LABEL_VEC_IMAGE_DIR,
  LABEL_VEC_STYLE_FILE, LABEL_VEC_RENDER_DIR, LABEL_VEC_HTTP_ADDR,
  LABEL_VEC_SCHEDULE, LABEL_VEC_LOG_LEVEL=debug
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := "vectorize"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	} else if len(args) > 0 {
		// Handle --version and --help ahead of any flag parsing
		switch args[0] {
		case "--version", "-v":
			cmd = "version"
		case "--help", "-h":
			cmd = "help"
		}
	}

	switch cmd {
	case "version":
		fmt.Fprintf(stdout, "label-vectorize %s\n", Version)
		fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
		return 0
	case "help":
		fmt.Fprint(stdout, usage)
		return 0
	case "vectorize", "render", "serve", "mcp":
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usage)
		return 2
	}

	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(stderr, "configuration: %v\n", err)
		return 1
	}

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	switch cmd {
	case "vectorize":
		cfg.RegisterFlags(fs)
	case "render":
		cfg.RegisterRenderFlags(fs)
	case "serve":
		cfg.RegisterFlags(fs)
		fs.StringVar(&cfg.HTTPAddr, "addr", cfg.HTTPAddr, "listen address")
	case "mcp":
		cfg.RegisterFlags(fs)
		fs.StringVar(&cfg.ImageDir, "images", cfg.ImageDir, "directory of source imagery for vector_render")
		fs.StringVar(&cfg.StyleFile, "style", cfg.StyleFile, "colour style file")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if err := log.Init(cfg.LogLevel); err != nil {
		fmt.Fprintf(stderr, "logger: %v\n", err)
		return 1
	}
	defer log.Sync()
	log.Debug("label-vectorize starting", zap.String("version", Version),
		zap.String("build_time", BuildTime), zap.String("commit", GitCommit), zap.String("command", cmd))

	switch cmd {
	case "render":
		err = runRender(cfg)
	default:
		var opts vectorize.Options
		opts, err = cfg.ExtractorOptions()
		if err != nil {
			break
		}
		var ex *vectorize.Extractor
		ex, err = vectorize.New(opts)
		if err != nil {
			break
		}
		switch cmd {
		case "vectorize":
			err = runVectorize(ctx, cfg, ex, stdout)
		case "serve":
			err = api.Serve(ctx, cfg.HTTPAddr, api.SetupRouter(ex))
		case "mcp":
			err = runMCP(cfg, ex)
		}
	}

	if err != nil {
		log.Error(cmd+" failed", zap.Error(err))
		return 1
	}
	return 0
}

func runVectorize(ctx context.Context, cfg config.Config, ex *vectorize.Extractor, stdout io.Writer) error {
	format, err := cfg.OutputFormat()
	if err != nil {
		return err
	}
	runner := batch.NewRunner(ex, nil, cfg.BatchOptions())

	job := func(ctx context.Context) error {
		recs, _, err := runner.Run(ctx, cfg.LabelDir)
		if err != nil {
			return err
		}
		if cfg.Output == "-" {
			return batch.Encode(stdout, recs, format)
		}
		return batch.WriteFile(cfg.Output, recs, format)
	}

	if err := job(ctx); err != nil || cfg.Schedule == "" {
		return err
	}
	return batch.Schedule(ctx, cfg.Schedule, func(ctx context.Context) {
		if err := job(ctx); err != nil && ctx.Err() == nil {
			log.Error("scheduled run failed", zap.Error(err))
		}
	})
}

func loadColors(cfg config.Config) (*imaging.ColorMap, error) {
	if cfg.StyleFile == "" {
		return nil, nil
	}
	return imaging.LoadColorMap(cfg.StyleFile)
}

func runRender(cfg config.Config) error {
	recs, err := batch.ReadFile(cfg.Output)
	if err != nil {
		return err
	}
	cm, err := loadColors(cfg)
	if err != nil {
		return err
	}
	written := imaging.RenderAll(recs, cfg.ImageDir, cfg.RenderDir, cm)
	if len(written) == 0 && len(recs) > 0 {
		return fmt.Errorf("no overlays written for %d records", len(recs))
	}
	return nil
}

func runMCP(cfg config.Config, ex *vectorize.Extractor) error {
	cm, err := loadColors(cfg)
	if err != nil {
		return err
	}
	server.Version = Version
	srv := server.New(ex, server.Options{Colors: cm, ImageDir: cfg.ImageDir})
	return srv.Run()
}
