// Package main is the entry point for EndlessUtopia.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/samdwyer/endlessutopia/internal/config"
	"github.com/samdwyer/endlessutopia/internal/explorer"
	"github.com/samdwyer/endlessutopia/internal/server"
	"github.com/samdwyer/endlessutopia/internal/telemetry"
	"github.com/samdwyer/endlessutopia/internal/theme"
	"github.com/samdwyer/endlessutopia/internal/ui"
	"github.com/samdwyer/endlessutopia/internal/world"
)

// ErrUnknownCommand is returned for a subcommand that does not exist.
var ErrUnknownCommand = errors.New("unknown command")

const usage = `usage: endlessutopia [command] [flags]

commands:
  explore   interactive terminal explorer (default)
  render    print a region: -x -y -w -h
  find      search for the landmark: -x -y -r
  serve     HTTP/JSON API
`

func main() {
	// Not fatal - env vars might be set directly
	if err := config.LoadDotEnv(); err != nil {
		log.Printf("Note: .env file not loaded: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		if errors.Is(err, ErrUnknownCommand) {
			fmt.Fprint(os.Stderr, usage)
		}
		log.Fatalf("endlessutopia: %v", err)
	}
}

// run dispatches one subcommand.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	cmd := "explore"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	cfg, err := config.Load(configPath(args))
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return err
	}

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stdout)
	fs.String("config", "", "YAML config file")
	cfg.Bind(fs)

	switch cmd {
	case "explore":
		if err := parse(fs, args, cfg); err != nil {
			return err
		}
		return withTelemetry(ctx, cfg, cmd, func(ctx context.Context) error {
			return explore(ctx, cfg)
		})

	case "render":
		x := fs.Int("x", 0, "left column")
		y := fs.Int("y", 0, "top row")
		w := fs.Int("w", 40, "width")
		h := fs.Int("h", 15, "height")
		if err := parse(fs, args, cfg); err != nil {
			return err
		}
		x0, y0, err := coordFlags(*x, *y)
		if err != nil {
			return err
		}
		engine := newEngine(cfg)
		return withTelemetry(ctx, cfg, cmd, func(ctx context.Context) error {
			_, err := io.WriteString(stdout, engine.RenderRegion(ctx, x0, y0, *w, *h))
			return err
		})

	case "find":
		x := fs.Int("x", 0, "search centre x")
		y := fs.Int("y", 0, "search centre y")
		r := fs.Int("r", 1000, "search radius")
		if err := parse(fs, args, cfg); err != nil {
			return err
		}
		cx, cy, err := coordFlags(*x, *y)
		if err != nil {
			return err
		}
		radius, err := int32Flag("r", *r, config.ErrInvalidRadius)
		if err != nil {
			return err
		}
		return withTelemetry(ctx, cfg, cmd, func(ctx context.Context) error {
			return find(ctx, stdout, newEngine(cfg), cx, cy, radius)
		})

	case "serve":
		if err := parse(fs, args, cfg); err != nil {
			return err
		}
		return withTelemetry(ctx, cfg, cmd, func(ctx context.Context) error {
			srv := server.New(newEngine(cfg), cfg.Server, prometheus.NewRegistry())
			log.Printf("Serving on %s", cfg.Server.Addr)
			return srv.Run(ctx, cfg.Server.Addr)
		})

	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}
}

func parse(fs *flag.FlagSet, args []string, cfg *config.Config) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	return cfg.Validate()
}

// configPath finds -config in args before the flag set is built, so the file
// can be loaded underneath the flags.
func configPath(args []string) string {
	for i, arg := range args {
		name := strings.TrimLeft(arg, "-")
		if name == "config" && i+1 < len(args) {
			return args[i+1]
		}
		if v, ok := strings.CutPrefix(name, "config="); ok {
			return v
		}
	}
	return ""
}

// coordFlags converts -x and -y to plane coordinates.
func coordFlags(x, y int) (int32, int32, error) {
	x0, err := int32Flag("x", x, config.ErrInvalidCoordinate)
	if err != nil {
		return 0, 0, err
	}
	y0, err := int32Flag("y", y, config.ErrInvalidCoordinate)
	if err != nil {
		return 0, 0, err
	}
	return x0, y0, nil
}

func int32Flag(name string, v int, sentinel error) (int32, error) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("-%s %d: %w", name, v, sentinel)
	}
	return int32(v), nil
}

func newEngine(cfg *config.Config) *world.Engine {
	return world.NewEngine(world.WithLandmarkKey(cfg.World.LandmarkKey))
}

func explore(ctx context.Context, cfg *config.Config) error {
	registry, err := theme.LoadRegistry()
	if err != nil {
		return err
	}
	screen, err := ui.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Close()

	ex := explorer.New(screen, newEngine(cfg), selectTheme(registry, cfg.Explorer.Theme), cfg.Explorer)
	return ex.Run(ctx)
}

// selectTheme resolves the configured theme. An unknown id logs a warning and
// falls back to the default theme.
func selectTheme(registry *theme.Registry, id string) *theme.Def {
	def, err := registry.Select(id)
	if err != nil {
		log.Printf("Warning: %v; using %s", err, def.ID)
	}
	return def
}

// find prints every landmark in the window and, for the first one, a view of
// it before and after discovery.
func find(ctx context.Context, w io.Writer, engine *world.Engine, x, y, r int32) error {
	found := engine.FindLandmarkNear(ctx, x, y, r)
	fmt.Fprintf(w, "Searched %dx%d cells around (%d, %d): %d landmark(s)\n", 2*int64(r)+1, 2*int64(r)+1, x, y, len(found))
	for i, c := range found {
		fmt.Fprintf(w, "%2d. %v\n", i+1, c)
	}
	if len(found) == 0 {
		return nil
	}

	c := found[0]
	fmt.Fprintf(w, "\nLandmark at %v:\n", c)
	fmt.Fprint(w, engine.RenderRegion(ctx, c.X-15, c.Y-5, 30, 10))
	fmt.Fprintln(w, "\nAfter the visit:")
	_, err := fmt.Fprint(w, engine.RenderRegion(ctx, c.X-15, c.Y-5, 30, 10))
	return err
}

// withTelemetry runs fn with tracing set up when enabled. Setup failure is not
// fatal; fn then runs against the no-op provider.
func withTelemetry(ctx context.Context, cfg *config.Config, mode string, fn func(context.Context) error) error {
	if !cfg.Telemetry.Enabled {
		return fn(ctx)
	}

	setupOTelEnv(cfg.Telemetry)
	shutdown, err := telemetry.Setup(ctx, telemetry.Options{
		ServiceName: cfg.Telemetry.ServiceName,
		Mode:        mode,
	})
	if err != nil {
		log.Printf("Warning: telemetry setup failed: %v", err)
		return fn(ctx)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()
	return fn(ctx)
}

// setupOTelEnv points the OTLP exporter at Honeycomb when an API key is configured.
func setupOTelEnv(tc config.TelemetryConfig) {
	if tc.APIKey == "" {
		return
	}
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")
	}
	os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
		fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", tc.APIKey, tc.Dataset))
}
