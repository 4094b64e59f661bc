package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"

	"quadmap/internal/cache"
	"quadmap/internal/config"
	"quadmap/internal/debug"
	"quadmap/internal/geo"
	"quadmap/internal/render"
	"quadmap/internal/ui"
)

// downloads give up after this long; the map still starts without them
const fetchTimeout = 2 * time.Minute

func main() {
	// Parse command line flags
	help := flag.Bool("h", false, "Show help message")
	configFile := flag.String("c", "", "Config file (default: ./quadmap.yaml or ~/.quadmap/quadmap.yaml)")
	flag.String("d", "", "Debug log file (e.g., debug.log)")
	flag.String("cache", "", "Cache directory for downloaded assets (default: ~/.quadmap/data)")
	flag.String("image", "", "Background image file (PNG, JPEG or WebP)")
	flag.String("url", "", "Background image URL, downloaded once into the cache")
	flag.String("shapes", "", "Shapefile or directory of shapefiles drawn under the points")
	flag.Bool("download", false, "Download Natural Earth backdrop data into the cache")
	flag.Float64("lat", 21.0285, "Initial center latitude")
	flag.Float64("lng", 105.8542, "Initial center longitude")
	flag.Int("zoom", 13, "Initial zoom level (1-18)")
	flag.Parse()

	// Show help if requested
	if *help {
		fmt.Println("quadmap - Terminal map for marking a four-point region")
		fmt.Println("\nUsage: quadmap [options]")
		fmt.Println("\nOptions:")
		flag.PrintDefaults()
		fmt.Println("\nKeys: m place points, enter save, esc cancel, r reset, +/- zoom, arrows pan, i view, q quit")
		os.Exit(0)
	}

	// Only flags given on the command line override the config file
	flagKeys := map[string]string{
		"d":        "log.file",
		"cache":    "cache.dir",
		"image":    "background.image",
		"url":      "background.url",
		"shapes":   "backdrop.shapefile",
		"download": "backdrop.download",
		"lat":      "view.center_lat",
		"lng":      "view.center_lng",
		"zoom":     "view.zoom",
	}
	overrides := map[string]any{}
	flag.Visit(func(f *flag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			overrides[key] = f.Value.(flag.Getter).Get()
		}
	})

	cfg, err := config.Load(*configFile, overrides)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Set up debug logging if requested
	debug.SetLevel(cfg.Log.Level)
	if cfg.Log.File != "" {
		logFile, err := os.Create(cfg.Log.File)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to create debug log: %v\n", err)
		} else {
			defer logFile.Close()
			debug.SetOutput(logFile)
			debug.Log("quadmap debug log started")
			fmt.Printf("Debug logging enabled: %s\n", cfg.Log.File)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var cacheManager *cache.Manager
	if cfg.Background.URL != "" || cfg.Backdrop.Download {
		fmt.Println("Initializing asset cache...")
		cacheManager, err = cache.NewManager(cfg.Cache.Dir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to initialize cache: %v\n", err)
			os.Exit(1)
		}
	}

	bg := loadBackground(ctx, cfg, cacheManager)
	features := loadBackdrop(ctx, cfg, cacheManager)

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create screen: %v\n", err)
		os.Exit(1)
	}

	view := cfg.View.ViewState()
	fmt.Printf("Starting quadmap at %.4f, %.4f (zoom %d)...\n", view.Center.Lat, view.Center.Lng, view.Zoom)
	app, err := ui.NewApp(screen, view, features, bg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create application: %v\n", err)
		os.Exit(1)
	}

	// Run with panic recovery to ensure terminal is always restored
	func() {
		defer func() {
			if r := recover(); r != nil {
				fmt.Fprintf(os.Stderr, "\nPanic: %v\n", r)
			}
		}()

		if err := app.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}()

	fmt.Println("\nGoodbye!")
}

// loadBackground returns the configured background, or nil for the plain base colour
func loadBackground(ctx context.Context, cfg *config.Config, m *cache.Manager) *render.Background {
	path := cfg.Background.Image
	if cfg.Background.URL != "" {
		fctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()

		fmt.Println("Fetching background image...")
		p, err := m.EnsureImage(fctx, cfg.Background.URL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: background unavailable: %v\n", err)
			return nil
		}
		path = p
	}
	if path == "" {
		return nil
	}

	bg, err := render.LoadBackground(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return nil
	}
	return bg
}

// loadBackdrop loads vector features from the configured shapefile path and,
// when enabled, from the downloaded Natural Earth sets
func loadBackdrop(ctx context.Context, cfg *config.Config, m *cache.Manager) []*geo.Feature {
	var features []*geo.Feature

	if cfg.Backdrop.Download {
		fctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()

		fmt.Println("Checking Natural Earth data...")
		if err := m.EnsureBackdrop(fctx); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: backdrop download failed: %v\n", err)
		} else {
			loaded, err := geo.NewShapefileLoader(m.GetCacheDir()).LoadAll()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			}
			features = append(features, loaded...)
		}
	}

	if src := cfg.Backdrop.Shapefile; src != "" {
		fmt.Println("Loading geographic features...")
		loaded, err := loadShapes(src)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to load shapefiles: %v\n", err)
		}
		features = append(features, loaded...)
	}

	if len(features) > 0 {
		fmt.Printf("Loaded %d backdrop features\n", len(features))
	}
	return features
}

func loadShapes(src string) ([]*geo.Feature, error) {
	info, err := os.Stat(src)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return geo.NewShapefileLoader(src).LoadAll()
	}
	return geo.NewShapefileLoader("").LoadShapefile(src)
}
