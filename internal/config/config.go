// Package config assembles the runtime configuration.
//
// Values are layered: built-in defaults, then an optional .env file, then
// LABEL_VEC_* environment variables, then command-line flags. Variables
// already present in the environment win over the .env file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"github.com/ironsheep/label-vectorizer/internal/batch"
	"github.com/ironsheep/label-vectorizer/internal/vectorize"
)

// EnvPrefix prefixes every environment variable read by FromEnv.
const EnvPrefix = "LABEL_VEC_"

// DefaultEnvFile is loaded by Load when no file is named and it exists.
const DefaultEnvFile = ".env"

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds every tunable of the vectoriser and its front ends.
type Config struct {
	LabelDir   string   // Directory of label images to vectorise
	Output     string   // Output file; "-" writes to stdout
	Format     string   // "json" or "geojson"
	Extensions []string // Label file extensions
	Workers    int      // Concurrent images; 0 means one per CPU

	PolylineStrategy string  // "skeleton" or "contour"
	PolylineEpsilon  float64 // Skeleton simplification tolerance in pixels
	PolygonEpsilon   float64 // Polygon ring simplification tolerance in pixels
	ArcFraction      float64 // Contour strategy tolerance as a fraction of perimeter
	CategoriesFile   string  // JSON category table; empty uses the built-in one

	ImageDir  string // Source imagery for overlays
	StyleFile string // Colour style file for overlays
	RenderDir string // Where overlays are written

	HTTPAddr string // Listen address of the HTTP API
	Schedule string // Cron spec for repeated batch runs; empty runs once
	LogLevel string // debug, info, warn or error
}

// Default returns the built-in configuration.
func Default() Config {
	d := vectorize.DefaultOptions()
	return Config{
		LabelDir:         ".",
		Output:           "vectors.json",
		Format:           batch.FormatJSON.String(),
		Extensions:       append([]string(nil), batch.DefaultExtensions...),
		PolylineStrategy: d.Strategy.String(),
		PolylineEpsilon:  d.PolylineEpsilon,
		PolygonEpsilon:   d.PolygonEpsilon,
		ArcFraction:      d.ArcFraction,
		ImageDir:         "images",
		RenderDir:        "vec_images",
		HTTPAddr:         ":8080",
		LogLevel:         "info",
	}
}

// Load returns the defaults overlaid with envFile and the environment. An
// empty envFile loads DefaultEnvFile if it exists; a named file must exist.
func Load(envFile string) (Config, error) {
	if envFile == "" {
		if _, err := os.Stat(DefaultEnvFile); err == nil {
			envFile = DefaultEnvFile
		}
	}
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := Default()
	if err := cfg.FromEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv overlays values found through lookup onto c. Unset variables
// leave the current value alone.
func (c *Config) FromEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(name string, dst *float64) error {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%w: %s%s=%q is not a number", ErrInvalidConfig, EnvPrefix, name, v)
		}
		*dst = f
		return nil
	}

	str("LABEL_DIR", &c.LabelDir)
	str("OUTPUT", &c.Output)
	str("FORMAT", &c.Format)
	str("POLYLINE_STRATEGY", &c.PolylineStrategy)
	str("CATEGORIES_FILE", &c.CategoriesFile)
	str("IMAGE_DIR", &c.ImageDir)
	str("STYLE_FILE", &c.StyleFile)
	str("RENDER_DIR", &c.RenderDir)
	str("HTTP_ADDR", &c.HTTPAddr)
	str("SCHEDULE", &c.Schedule)
	str("LOG_LEVEL", &c.LogLevel)

	if v, ok := lookup(EnvPrefix + "EXTENSIONS"); ok {
		c.Extensions = splitList(v)
	}
	if v, ok := lookup(EnvPrefix + "WORKERS"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %sWORKERS=%q is not an integer", ErrInvalidConfig, EnvPrefix, v)
		}
		c.Workers = n
	}

	for name, dst := range map[string]*float64{
		"POLYLINE_EPSILON": &c.PolylineEpsilon,
		"POLYGON_EPSILON":  &c.PolygonEpsilon,
		"ARC_FRACTION":     &c.ArcFraction,
	} {
		if err := num(name, dst); err != nil {
			return err
		}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// RegisterFlags binds the batch and extraction settings to fs, using the
// current values as flag defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.LabelDir, "labels", c.LabelDir, "directory of label images")
	fs.StringVar(&c.Output, "out", c.Output, "output file (- for stdout)")
	fs.StringVar(&c.Format, "format", c.Format, "output format: json or geojson")
	fs.Func("ext", "comma-separated label file extensions (default "+strings.Join(c.Extensions, ",")+")", func(s string) error {
		c.Extensions = splitList(s)
		return nil
	})
	fs.IntVar(&c.Workers, "workers", c.Workers, "images processed concurrently (0 = one per CPU)")
	fs.StringVar(&c.PolylineStrategy, "strategy", c.PolylineStrategy, "polyline strategy: skeleton or contour")
	fs.Float64Var(&c.PolylineEpsilon, "line-epsilon", c.PolylineEpsilon, "skeleton simplification tolerance in pixels")
	fs.Float64Var(&c.PolygonEpsilon, "polygon-epsilon", c.PolygonEpsilon, "polygon simplification tolerance in pixels")
	fs.Float64Var(&c.ArcFraction, "arc-fraction", c.ArcFraction, "contour strategy tolerance as a fraction of perimeter")
	fs.StringVar(&c.CategoriesFile, "categories", c.CategoriesFile, "JSON category table (default built-in)")
	fs.StringVar(&c.Schedule, "schedule", c.Schedule, "cron spec to repeat the batch (empty runs once)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn, error")
}

// RegisterRenderFlags binds the overlay settings to fs.
func (c *Config) RegisterRenderFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Output, "vectors", c.Output, "vectors JSON file to draw")
	fs.StringVar(&c.ImageDir, "images", c.ImageDir, "directory of source imagery")
	fs.StringVar(&c.StyleFile, "style", c.StyleFile, "colour style file")
	fs.StringVar(&c.RenderDir, "render-dir", c.RenderDir, "directory for rendered overlays")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn, error")
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.LabelDir == "" {
		return fmt.Errorf("%w: label directory is empty", ErrInvalidConfig)
	}
	if c.Output == "" {
		return fmt.Errorf("%w: output path is empty", ErrInvalidConfig)
	}
	if _, err := batch.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers %d is negative", ErrInvalidConfig, c.Workers)
	}
	if _, err := zapcore.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.Schedule != "" {
		if err := batch.ValidateSchedule(c.Schedule); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	if _, err := c.extractorOptions(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// OutputFormat returns the parsed output format.
func (c Config) OutputFormat() (batch.Format, error) {
	return batch.ParseFormat(c.Format)
}

// BatchOptions returns the runner settings.
func (c Config) BatchOptions() batch.Options {
	return batch.Options{Extensions: c.Extensions, Workers: c.Workers}
}

// ExtractorOptions builds extraction options, loading CategoriesFile when
// one is set.
func (c Config) ExtractorOptions() (vectorize.Options, error) {
	opts, err := c.extractorOptions()
	if err != nil {
		return vectorize.Options{}, err
	}
	if c.CategoriesFile != "" {
		t, err := vectorize.LoadTable(c.CategoriesFile)
		if err != nil {
			return vectorize.Options{}, err
		}
		opts.Table = t
	}
	return opts, nil
}

// extractorOptions converts and checks the numeric settings without
// touching the filesystem.
func (c Config) extractorOptions() (vectorize.Options, error) {
	strategy, err := vectorize.ParseStrategy(c.PolylineStrategy)
	if err != nil {
		return vectorize.Options{}, err
	}
	opts := vectorize.DefaultOptions()
	opts.Strategy = strategy
	opts.PolylineEpsilon = c.PolylineEpsilon
	opts.PolygonEpsilon = c.PolygonEpsilon
	opts.ArcFraction = c.ArcFraction
	if err := opts.Validate(); err != nil {
		return vectorize.Options{}, err
	}
	return opts, nil
}
