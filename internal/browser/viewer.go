package browser

import "github.com/microbe-atlas/locus/internal/genome"

// Viewer is the one capability every genome viewer must offer: the regions it
// currently lays out, typically one whole reference sequence.
type Viewer interface {
	DisplayedRegions() []genome.Region
}

// Navigator moves the viewer to a locus such as "seq1:500..2500".
type Navigator interface {
	Navigate(locus string) error
}

// Zoomer applies a named zoom level.
type Zoomer interface {
	ZoomTo(level string) error
}

// WidthReporter exposes the visible width in pixels (columns for a terminal).
type WidthReporter interface {
	Width() (int, bool)
}

// OffsetReporter exposes the horizontal scroll offset in pixels from the
// start of the first displayed region.
type OffsetReporter interface {
	Offset() (float64, bool)
}

// ScaleReporter exposes base pairs per pixel.
type ScaleReporter interface {
	BpPerPx() (float64, bool)
}

// CoordinateProber converts a pixel offset into a base-pair coordinate.
type CoordinateProber interface {
	CoordinateAt(px float64) (int64, bool)
}

// TrackReloader forces feature tracks to redraw, dropping render caches.
type TrackReloader interface {
	ReloadTracks()
}

// Highlighter receives the locus tag that feature rendering should emphasise.
type Highlighter interface {
	SetHighlight(locusTag string)
}
