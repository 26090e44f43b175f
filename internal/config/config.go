package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the settings locus reads from its TOML file.
type Config struct {
	APIURL           string
	LogDir           string
	LogLevel         string
	PollEvery        time.Duration
	PageSize         int
	ViewportPageSize int
	DefaultGenome    string
	DefaultLocus     string
	ViewerWidth      int
	NavigationZoom   string
}

const (
	defaultConfigPath       = "~/.config/locus/config.toml"
	defaultLogDir           = "~/.local/share/locus/logs"
	defaultAPIURL           = "http://127.0.0.1:8000"
	defaultLogLevel         = "info"
	defaultPollEvery        = 5 * time.Second
	defaultPageSize         = 25
	defaultViewportPageSize = 1000
	defaultViewerWidth      = 800
	defaultNavigationZoom   = "navigation"
)

// Load locates and parses the locus config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL           string `toml:"api_url"`
		LogDir           string `toml:"log_dir"`
		LogLevel         string `toml:"log_level"`
		PollSeconds      int    `toml:"poll_seconds"`
		PageSize         int    `toml:"page_size"`
		ViewportPageSize int    `toml:"viewport_page_size"`
		DefaultGenome    string `toml:"default_genome"`
		DefaultLocus     string `toml:"default_locus"`
		ViewerWidth      int    `toml:"viewer_width"`
		NavigationZoom   string `toml:"navigation_zoom"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		cfg.LogDir = mustExpand(v)
	}
	if v := strings.ToLower(strings.TrimSpace(raw.LogLevel)); v != "" {
		cfg.LogLevel = v
	}
	if raw.PollSeconds > 0 {
		cfg.PollEvery = time.Duration(raw.PollSeconds) * time.Second
	}
	if raw.PageSize > 0 {
		cfg.PageSize = raw.PageSize
	}
	if raw.ViewportPageSize > 0 {
		cfg.ViewportPageSize = raw.ViewportPageSize
	}
	cfg.DefaultGenome = strings.TrimSpace(raw.DefaultGenome)
	cfg.DefaultLocus = strings.TrimSpace(raw.DefaultLocus)
	if raw.ViewerWidth > 0 {
		cfg.ViewerWidth = raw.ViewerWidth
	}
	if v := strings.TrimSpace(raw.NavigationZoom); v != "" {
		cfg.NavigationZoom = v
	}

	return cfg, nil
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:           defaultAPIURL,
		LogDir:           mustExpand(defaultLogDir),
		LogLevel:         defaultLogLevel,
		PollEvery:        defaultPollEvery,
		PageSize:         defaultPageSize,
		ViewportPageSize: defaultViewportPageSize,
		ViewerWidth:      defaultViewerWidth,
		NavigationZoom:   defaultNavigationZoom,
	}
}

// LogPath returns the path of the client log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/locus.log")
	}
	return filepath.Join(c.LogDir, "locus.log")
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
