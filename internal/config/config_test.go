package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}

	wantLogDir, err := expandPath(defaultLogDir)
	if err != nil {
		t.Fatalf("expandPath(defaultLogDir) returned error: %v", err)
	}
	if cfg.LogDir != wantLogDir {
		t.Fatalf("LogDir = %q, want %q", cfg.LogDir, wantLogDir)
	}
	if cfg.PollEvery != defaultPollEvery {
		t.Fatalf("PollEvery = %v, want %v", cfg.PollEvery, defaultPollEvery)
	}
	if cfg.ViewportPageSize != defaultViewportPageSize {
		t.Fatalf("ViewportPageSize = %d, want %d", cfg.ViewportPageSize, defaultViewportPageSize)
	}
	if cfg.NavigationZoom != defaultNavigationZoom {
		t.Fatalf("NavigationZoom = %q, want %q", cfg.NavigationZoom, defaultNavigationZoom)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_url = "  https://portal.example.org  "
log_dir = "  ~/.locus/logs  "
log_level = " DEBUG "
poll_seconds = 9
page_size = 50
viewport_page_size = 2500
default_genome = " GCF_000005845.2 "
default_locus = " NC_000913.3:1..20000 "
viewer_width = 1200
navigation_zoom = "gene"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "https://portal.example.org" {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, "https://portal.example.org")
	}
	if !strings.HasPrefix(cfg.LogDir, home) {
		t.Fatalf("LogDir = %q, want it under HOME %q", cfg.LogDir, home)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.PollEvery != 9*time.Second {
		t.Fatalf("PollEvery = %v, want 9s", cfg.PollEvery)
	}
	if cfg.PageSize != 50 || cfg.ViewportPageSize != 2500 {
		t.Fatalf("page sizes = %d/%d, want 50/2500", cfg.PageSize, cfg.ViewportPageSize)
	}
	if cfg.DefaultGenome != "GCF_000005845.2" || cfg.DefaultLocus != "NC_000913.3:1..20000" {
		t.Fatalf("defaults = %q/%q, want trimmed values", cfg.DefaultGenome, cfg.DefaultLocus)
	}
	if cfg.ViewerWidth != 1200 || cfg.NavigationZoom != "gene" {
		t.Fatalf("viewer = %d/%q, want 1200/gene", cfg.ViewerWidth, cfg.NavigationZoom)
	}
	if cfg.LogPath() != filepath.Join(cfg.LogDir, "locus.log") {
		t.Fatalf("LogPath = %q, want %q", cfg.LogPath(), filepath.Join(cfg.LogDir, "locus.log"))
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_url = "   "
log_dir = ""
page_size = 0
viewer_width = -5
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	wantLogDir, err := expandPath(defaultLogDir)
	if err != nil {
		t.Fatalf("expandPath(defaultLogDir) returned error: %v", err)
	}
	if cfg.LogDir != wantLogDir {
		t.Fatalf("LogDir = %q, want %q", cfg.LogDir, wantLogDir)
	}
	if cfg.PageSize != defaultPageSize || cfg.ViewerWidth != defaultViewerWidth {
		t.Fatalf("PageSize/ViewerWidth = %d/%d, want defaults", cfg.PageSize, cfg.ViewerWidth)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`api_url = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

func TestLogPath_DefaultsWhenLogDirEmpty(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	var cfg Config
	got := cfg.LogPath()
	if !strings.HasPrefix(got, home) {
		t.Fatalf("LogPath = %q, want it under HOME %q", got, home)
	}
	if !strings.HasSuffix(got, filepath.FromSlash("/locus.log")) {
		t.Fatalf("LogPath = %q, want it to end with /locus.log", got)
	}
}
