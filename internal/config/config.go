// Package config loads the application configuration from TOML files.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	// Window geometry for the frame preview, in terminal cells.
	// 0 means fill the terminal.
	WindowWidth  int `koanf:"window_width"`
	WindowHeight int `koanf:"window_height"`

	// Volume is the startup volume level, 0.0 to 1.0.
	Volume float64 `koanf:"volume"`

	// DelayAfter is how many seconds to linger on a finished entry before
	// auto-advancing.
	DelayAfter float64 `koanf:"delay_after"`

	// ImageDisplay is how many seconds a still image stays up. 0 means
	// until skipped manually.
	ImageDisplay float64 `koanf:"image_display"`

	// ShortThreshold marks audio tracks shorter than this many seconds
	// as short, which replay from the start instead of auto-advancing.
	ShortThreshold float64 `koanf:"short_threshold"`

	// Icons selects the glyph set: "nerd", "unicode" or "none".
	Icons string `koanf:"icons"`

	Subtitle SubtitleConfig `koanf:"subtitle"`

	Extensions ExtensionsConfig `koanf:"extensions"`
}

// SubtitleConfig controls subtitle rendering.
type SubtitleConfig struct {
	FontSize int    `koanf:"font_size"`
	Color    string `koanf:"color"`
}

// ExtensionsConfig lists the file extensions recognized per media kind,
// without the leading dot.
type ExtensionsConfig struct {
	Image []string `koanf:"image"`
	Audio []string `koanf:"audio"`
	Video []string `koanf:"video"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Volume:       1,
		DelayAfter:   2,
		ImageDisplay: 5,
		Icons:        "unicode",
		Subtitle: SubtitleConfig{
			FontSize: 28,
			Color:    "#ffffff",
		},
		Extensions: ExtensionsConfig{
			Image: []string{"jpg", "jpeg", "png", "bmp", "gif", "webp", "tif", "tiff"},
			Audio: []string{"mp3", "wav", "flac", "ogg", "aac", "ape", "m4a", "opus"},
			Video: []string{"mp4", "mkv", "avi", "mov", "webm", "flv", "mpeg", "mpg"},
		},
	}
}

// Load reads the configuration, layering files over the defaults.
// Missing files are fine; a present but malformed file is an error.
func Load() (*Config, error) {
	return load(configPaths())
}

func load(paths []string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.Volume = min(1, max(0, cfg.Volume))
	if cfg.DelayAfter < 0 {
		cfg.DelayAfter = 0
	}
	return cfg, nil
}

// configPaths returns candidate config files in priority order, last wins.
func configPaths() []string {
	return []string{
		filepath.Join(xdg.ConfigHome, "mp", "config.toml"),
		"config.toml",
	}
}

// DelayAfterDuration returns DelayAfter as a duration.
func (c *Config) DelayAfterDuration() time.Duration {
	return time.Duration(c.DelayAfter * float64(time.Second))
}

// ImageDisplayDuration returns ImageDisplay as a duration.
func (c *Config) ImageDisplayDuration() time.Duration {
	return time.Duration(c.ImageDisplay * float64(time.Second))
}

// ShortThresholdDuration returns ShortThreshold as a duration.
func (c *Config) ShortThresholdDuration() time.Duration {
	return time.Duration(c.ShortThreshold * float64(time.Second))
}
