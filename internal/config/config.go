// Package config loads settings from defaults, an optional quadmap.yaml,
// QUADMAP_* environment variables and finally command-line overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"quadmap/internal/geo"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid configuration")

// Config holds all application configuration.
type Config struct {
	View       ViewConfig       `mapstructure:"view"`
	Background BackgroundConfig `mapstructure:"background"`
	Backdrop   BackdropConfig   `mapstructure:"backdrop"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Log        LogConfig        `mapstructure:"log"`
}

type ViewConfig struct {
	CenterLat float64 `mapstructure:"center_lat"`
	CenterLng float64 `mapstructure:"center_lng"`
	Zoom      int     `mapstructure:"zoom"`
}

// ViewState returns the initial view described by the config
func (v ViewConfig) ViewState() geo.ViewState {
	return geo.ViewState{
		Center: geo.LatLng{Lat: v.CenterLat, Lng: v.CenterLng},
		Zoom:   v.Zoom,
	}
}

type BackgroundConfig struct {
	Image string `mapstructure:"image"`
	URL   string `mapstructure:"url"`
}

type BackdropConfig struct {
	Shapefile string `mapstructure:"shapefile"`
	Download  bool   `mapstructure:"download"`
}

type CacheConfig struct {
	Dir string `mapstructure:"dir"`
}

type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// Load reads configuration. file may be empty to search the default locations.
// overrides holds values from explicitly set command-line flags, keyed like "view.zoom".
func Load(file string, overrides map[string]any) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("view.center_lat", 21.0285)
	v.SetDefault("view.center_lng", 105.8542)
	v.SetDefault("view.zoom", 13)
	v.SetDefault("background.image", "")
	v.SetDefault("background.url", "")
	v.SetDefault("backdrop.shapefile", "")
	v.SetDefault("backdrop.download", false)
	v.SetDefault("cache.dir", "")
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "debug")

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	} else {
		v.SetConfigName("quadmap")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".quadmap"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	// Environment variables: QUADMAP_VIEW_ZOOM → view.zoom
	v.SetEnvPrefix("QUADMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, val := range overrides {
		v.Set(key, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that configuration values are sane.
func (c *Config) Validate() error {
	var errs []string

	if c.View.Zoom < geo.MinZoom || c.View.Zoom > geo.MaxZoom {
		errs = append(errs, fmt.Sprintf("view.zoom must be %d-%d, got %d", geo.MinZoom, geo.MaxZoom, c.View.Zoom))
	}
	if c.View.CenterLat < -90 || c.View.CenterLat > 90 {
		errs = append(errs, fmt.Sprintf("view.center_lat must be within ±90, got %v", c.View.CenterLat))
	}
	if c.View.CenterLng < -180 || c.View.CenterLng > 180 {
		errs = append(errs, fmt.Sprintf("view.center_lng must be within ±180, got %v", c.View.CenterLng))
	}
	if c.Background.Image != "" && c.Background.URL != "" {
		errs = append(errs, "background.image and background.url are mutually exclusive")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level must be debug, info, warn or error, got %q", c.Log.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n  - %s", ErrInvalid, strings.Join(errs, "\n  - "))
	}
	return nil
}
