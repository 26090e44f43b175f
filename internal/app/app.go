package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"golang.org/x/sync/errgroup"

	"github.com/microbe-atlas/locus/internal/browser"
	"github.com/microbe-atlas/locus/internal/config"
	"github.com/microbe-atlas/locus/internal/genome"
	"github.com/microbe-atlas/locus/internal/logging"
	"github.com/microbe-atlas/locus/internal/portal"
	"github.com/microbe-atlas/locus/internal/prefs"
	"github.com/microbe-atlas/locus/internal/state"
	"github.com/microbe-atlas/locus/internal/syncview"
	"github.com/microbe-atlas/locus/internal/telemetry"
	"github.com/microbe-atlas/locus/internal/ui"
	"github.com/microbe-atlas/locus/internal/viewport"
)

// Options configure the locus application.
type Options struct {
	ConfigPath string
	PrefsPath  string        // empty uses default ~/.config/locus/prefs.toml
	PollEvery  time.Duration // zero uses the configured interval
}

// Run boots the locus TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.PollEvery > 0 {
		cfg.PollEvery = opts.PollEvery
	}

	closeLog, err := logging.Setup(logging.Options{Path: cfg.LogPath(), Level: cfg.LogLevel})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = closeLog() }()
	log := logging.Component("app")

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		log.Warn("load preferences failed; using defaults", "error", err)
	}

	client, err := portal.NewClient(cfg.APIURL)
	if err != nil {
		return fmt.Errorf("init portal client: %w", err)
	}

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = provider.Shutdown(context.Background()) }()
	metrics, err := telemetry.NewSyncMetrics(provider)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	panel := newPanel(cfg, log)
	store := &state.Store{}
	coord := syncview.New(syncview.Options{
		State:          viewport.New(),
		Viewer:         panel,
		Searcher:       client,
		ViewerWidth:    cfg.ViewerWidth,
		PageSize:       cfg.ViewportPageSize,
		NavigationZoom: cfg.NavigationZoom,
		Logger:         logging.Component("syncview"),
		Metrics:        metrics,
	})

	log.Info("locus starting", "api_url", client.BaseURL(), "log_level", cfg.LogLevel, "poll", cfg.PollEvery)

	g, gctx := errgroup.WithContext(ctx)
	uiCtx, stopUI := context.WithCancel(gctx)
	defer stopUI()

	coord.Start(gctx)
	defer coord.Stop()

	g.Go(func() error {
		return runPoller(uiCtx, store, client, cfg.PollEvery, cfg.DefaultGenome)
	})
	g.Go(func() error {
		defer stopUI()
		err := ui.Run(uiCtx, ui.Options{
			Portal:      client,
			Store:       store,
			Coordinator: coord,
			Panel:       panel,
			Config:      &cfg,
			Prefs:       userPrefs,
			PrefsPath:   opts.PrefsPath,
		})
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run ui: %w", err)
		}
		return nil
	})

	err = g.Wait()

	if summary, cerr := telemetry.Collect(context.Background(), reader); cerr != nil {
		log.Warn("collect sync metrics failed", "error", cerr)
	} else {
		log.Info("locus stopped", "sync", summary.String())
	}
	return err
}

// newPanel builds the genome panel. A configured default locus is shown on
// a provisional sequence until the genome's sequence list arrives.
func newPanel(cfg config.Config, log *slog.Logger) *browser.Panel {
	if cfg.DefaultLocus == "" {
		return browser.NewPanel(genome.Region{}, 0)
	}
	region, err := genome.ParseLocus(cfg.DefaultLocus)
	if err != nil {
		log.Warn("ignoring default locus", "locus", cfg.DefaultLocus, "error", err)
		return browser.NewPanel(genome.Region{}, 0)
	}
	seq := genome.Region{SeqID: region.SeqID, Start: 0, End: region.End + syncview.NavigationPadding}
	panel := browser.NewPanel(seq, 0)
	if err := panel.Navigate(region.String()); err != nil {
		log.Warn("default locus navigation failed", "locus", region.String(), "error", err)
	}
	for panel.Step() {
	}
	return panel
}
