package browser

import (
	"math"

	"github.com/microbe-atlas/locus/internal/genome"
)

const (
	// MinVisibleSpan is the smallest window reported for a viewer.
	MinVisibleSpan int64 = 1000

	// DefaultWidth is used when neither the viewer nor the caller knows a width.
	DefaultWidth = 800

	probeDistance = 100.0
)

// VisibleRegion computes the window a viewer is showing. Each input has a
// fallback: width falls back to defaultWidth, offset to 0, and bp/px to a
// two-point coordinate probe and then to the displayed span over the width.
// The result is clipped to the displayed region; windows under
// MinVisibleSpan are widened around their midpoint and clipped again.
func VisibleRegion(v Viewer, defaultWidth int) (genome.Region, bool) {
	if v == nil {
		return genome.Region{}, false
	}
	regions := v.DisplayedRegions()
	if len(regions) == 0 || regions[0].IsZero() {
		return genome.Region{}, false
	}
	displayed := regions[0]

	width := float64(resolveWidth(v, defaultWidth))

	offset := 0.0
	if r, ok := v.(OffsetReporter); ok {
		if px, ok := r.Offset(); ok && !math.IsNaN(px) {
			offset = px
		}
	}

	bpPerPx := resolveScale(v, displayed, width)

	start := displayed.Start + int64(math.Round(offset*bpPerPx))
	end := start + int64(math.Round(width*bpPerPx))
	visible := genome.Region{SeqID: displayed.SeqID, Start: start, End: end}.Clip(displayed)

	if visible.Len() < MinVisibleSpan {
		start := visible.Center() - MinVisibleSpan/2
		visible = genome.Region{
			SeqID: displayed.SeqID,
			Start: start,
			End:   start + MinVisibleSpan,
		}.Clip(displayed)
	}
	return visible, true
}

func resolveWidth(v Viewer, defaultWidth int) int {
	if r, ok := v.(WidthReporter); ok {
		if w, ok := r.Width(); ok && w > 0 {
			return w
		}
	}
	if defaultWidth > 0 {
		return defaultWidth
	}
	return DefaultWidth
}

func resolveScale(v Viewer, displayed genome.Region, width float64) float64 {
	if r, ok := v.(ScaleReporter); ok {
		if bp, ok := r.BpPerPx(); ok && bp > 0 && !math.IsInf(bp, 0) {
			return bp
		}
	}
	if p, ok := v.(CoordinateProber); ok {
		a, okA := p.CoordinateAt(0)
		b, okB := p.CoordinateAt(probeDistance)
		if okA && okB && b > a {
			return float64(b-a) / probeDistance
		}
	}
	return float64(displayed.Len()) / width
}
