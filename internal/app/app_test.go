package app

import (
	"log/slog"
	"testing"

	"github.com/microbe-atlas/locus/internal/config"
)

func TestNewPanelShowsDefaultLocus(t *testing.T) {
	cfg := config.Default()
	cfg.DefaultLocus = "NC_000913.3:10001..20000"

	panel := newPanel(cfg, slog.Default())
	if panel.Animating() {
		t.Fatalf("panel still animating")
	}
	seq := panel.Sequence()
	if seq.SeqID != "NC_000913.3" || seq.End < 20000 {
		t.Fatalf("sequence = %+v, want provisional NC_000913.3", seq)
	}
	win := panel.Window()
	if win.Start > 10002 || win.End < 19999 {
		t.Fatalf("window = %v, want default locus", win)
	}
}

func TestNewPanelIgnoresBadLocus(t *testing.T) {
	cfg := config.Default()
	cfg.DefaultLocus = "chr1:abc..def"

	if seq := newPanel(cfg, slog.Default()).Sequence(); !seq.IsZero() {
		t.Fatalf("sequence = %+v, want zero", seq)
	}
}
