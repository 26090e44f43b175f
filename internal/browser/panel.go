package browser

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/microbe-atlas/locus/internal/genome"
)

// Feature is one drawable element of the gene track. Raw is the opaque record
// handed to the details panel when the feature is selected.
type Feature struct {
	Region   genome.Region
	LocusTag string
	Name     string
	Reverse  bool
	Raw      []byte
}

// Span is a run of columns covered by a feature in the rendered track.
type Span struct {
	From, To    int // inclusive columns
	Feature     Feature
	Highlighted bool
}

// ZoomLevels maps named zoom levels to base pairs per column. Zero means fit
// the current navigation target; a negative value fits the whole sequence.
var ZoomLevels = map[string]float64{
	"navigation": 0,
	"overview":   -1,
	"gene":       5,
	"detail":     1,
}

const (
	defaultAnimationSteps = 4
	minBpPerPx            = 0.25
	maxBpPerPx            = 1 << 20
)

// Panel is a text genome track: one reference sequence, a scrollable window
// and a gene feature track. Navigation animates over a few Step calls, the
// way a graphical viewer pans, so intermediate regions are observable.
type Panel struct {
	mu sync.Mutex

	seq     genome.Region
	width   int
	startBp float64
	bpPerPx float64

	target    *frame
	stepsLeft int
	steps     int

	features  []Feature
	highlight string

	cache      []Span
	cacheValid bool
	reloads    int
}

type frame struct {
	startBp float64
	bpPerPx float64
}

var (
	_ Viewer           = (*Panel)(nil)
	_ Navigator        = (*Panel)(nil)
	_ Zoomer           = (*Panel)(nil)
	_ WidthReporter    = (*Panel)(nil)
	_ OffsetReporter   = (*Panel)(nil)
	_ ScaleReporter    = (*Panel)(nil)
	_ CoordinateProber = (*Panel)(nil)
	_ TrackReloader    = (*Panel)(nil)
	_ Highlighter      = (*Panel)(nil)
)

// NewPanel returns a panel showing the whole of seq at the given width.
func NewPanel(seq genome.Region, width int) *Panel {
	if width <= 0 {
		width = DefaultWidth
	}
	p := &Panel{seq: seq, width: width, steps: defaultAnimationSteps}
	p.bpPerPx = p.fitScale(seq.Len())
	p.startBp = float64(seq.Start)
	return p
}

// SetAnimationSteps sets how many Step calls a navigation takes. One jumps
// straight to the target.
func (p *Panel) SetAnimationSteps(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n < 1 {
		n = 1
	}
	p.steps = n
}

// SetSequence switches the panel to another reference sequence.
func (p *Panel) SetSequence(seq genome.Region) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq = seq
	p.target = nil
	p.stepsLeft = 0
	p.bpPerPx = p.fitScale(seq.Len())
	p.startBp = float64(seq.Start)
	p.cacheValid = false
}

// Sequence returns the displayed reference sequence.
func (p *Panel) Sequence() genome.Region {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seq
}

// DisplayedRegions implements Viewer.
func (p *Panel) DisplayedRegions() []genome.Region {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.seq.IsZero() {
		return nil
	}
	return []genome.Region{p.seq}
}

// Width implements WidthReporter.
func (p *Panel) Width() (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.width, p.width > 0
}

// Resize changes the column width, keeping the window's left edge.
func (p *Panel) Resize(width int) {
	if width <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.width = width
	p.clampLocked()
	p.cacheValid = false
}

// Offset implements OffsetReporter.
func (p *Panel) Offset() (float64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bpPerPx <= 0 {
		return 0, false
	}
	return (p.startBp - float64(p.seq.Start)) / p.bpPerPx, true
}

// BpPerPx implements ScaleReporter.
func (p *Panel) BpPerPx() (float64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bpPerPx, p.bpPerPx > 0
}

// CoordinateAt implements CoordinateProber for a column offset.
func (p *Panel) CoordinateAt(px float64) (int64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bpPerPx <= 0 {
		return 0, false
	}
	return int64(math.Round(p.startBp + px*p.bpPerPx)), true
}

// Window returns the region currently on screen.
func (p *Panel) Window() genome.Region {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.windowLocked()
}

// Navigate implements Navigator. The move is animated over the configured
// number of Step calls.
func (p *Panel) Navigate(locus string) error {
	r, err := genome.ParseLocus(locus)
	if err != nil {
		return fmt.Errorf("navigate: %w", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if r.SeqID != p.seq.SeqID {
		return fmt.Errorf("navigate: sequence %q is not displayed", r.SeqID)
	}
	if r.Len() == 0 && r.Start == 0 {
		r = p.seq
	}
	r = r.Clip(p.seq)
	p.setTargetLocked(frame{startBp: float64(r.Start), bpPerPx: p.fitScale(r.Len())})
	return nil
}

// ZoomTo implements Zoomer using ZoomLevels, keeping the target centre.
func (p *Panel) ZoomTo(level string) error {
	scale, ok := ZoomLevels[level]
	if !ok {
		return fmt.Errorf("zoom: unknown level %q", level)
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	current := p.destinationLocked()
	center := current.startBp + float64(p.width)*current.bpPerPx/2
	switch {
	case scale == 0:
		return nil
	case scale < 0:
		p.setTargetLocked(frame{startBp: float64(p.seq.Start), bpPerPx: p.fitScale(p.seq.Len())})
	default:
		p.setTargetLocked(frame{startBp: center - float64(p.width)*scale/2, bpPerPx: scale})
	}
	return nil
}

// Pan scrolls by a number of columns. Negative values move left.
func (p *Panel) Pan(cols int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finishAnimationLocked()
	p.startBp += float64(cols) * p.bpPerPx
	p.clampLocked()
	p.cacheValid = false
}

// Zoom multiplies bp per column by factor around the window centre.
func (p *Panel) Zoom(factor float64) {
	if factor <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finishAnimationLocked()
	center := p.startBp + float64(p.width)*p.bpPerPx/2
	p.bpPerPx = math.Min(math.Max(p.bpPerPx*factor, minBpPerPx), maxBpPerPx)
	p.startBp = center - float64(p.width)*p.bpPerPx/2
	p.clampLocked()
	p.cacheValid = false
}

// Step advances a pending navigation by one frame and reports whether the
// panel is still animating.
func (p *Panel) Step() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.target == nil || p.stepsLeft <= 0 {
		p.target = nil
		return false
	}
	t := *p.target
	frac := 1.0 / float64(p.stepsLeft)
	p.startBp += (t.startBp - p.startBp) * frac
	p.bpPerPx += (t.bpPerPx - p.bpPerPx) * frac
	p.stepsLeft--
	if p.stepsLeft == 0 {
		p.startBp, p.bpPerPx = t.startBp, t.bpPerPx
		p.target = nil
	}
	p.clampLocked()
	p.cacheValid = false
	return p.target != nil
}

// Animating reports whether a navigation is still in progress.
func (p *Panel) Animating() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.target != nil
}

// SetFeatures replaces the gene track contents.
func (p *Panel) SetFeatures(features []Feature) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.features = append(p.features[:0:0], features...)
	p.cacheValid = false
}

// SetHighlight implements Highlighter. The rendered track keeps its previous
// highlight until ReloadTracks runs.
func (p *Panel) SetHighlight(locusTag string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.highlight = locusTag
}

// Highlight returns the current highlight hint.
func (p *Panel) Highlight() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.highlight
}

// ReloadTracks implements TrackReloader.
func (p *Panel) ReloadTracks() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cacheValid = false
	p.cache = nil
	p.reloads++
}

// Reloads returns how many times ReloadTracks ran.
func (p *Panel) Reloads() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reloads
}

// Spans lays out the visible features. Layout is cached; highlight flags are
// refreshed only by ReloadTracks or a change of window or features.
func (p *Panel) Spans() []Span {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cacheValid {
		return append([]Span(nil), p.cache...)
	}

	win := p.windowLocked()
	var spans []Span
	for _, f := range p.features {
		if !win.Overlaps(f.Region.SeqID, f.Region.Start, f.Region.End) {
			continue
		}
		from := p.columnLocked(f.Region.Start)
		to := p.columnLocked(f.Region.End)
		from = max(from, 0)
		to = min(to, p.width-1)
		if to < from {
			to = from
		}
		spans = append(spans, Span{
			From:        from,
			To:          to,
			Feature:     f,
			Highlighted: p.highlight != "" && f.LocusTag == p.highlight,
		})
	}
	p.cache = spans
	p.cacheValid = true
	return append([]Span(nil), spans...)
}

// FeatureAt returns the feature drawn at a column, preferring the shortest.
func (p *Panel) FeatureAt(col int) (Feature, bool) {
	var best *Span
	spans := p.Spans()
	for i := range spans {
		s := &spans[i]
		if col < s.From || col > s.To {
			continue
		}
		if best == nil || s.To-s.From < best.To-best.From {
			best = s
		}
	}
	if best == nil {
		return Feature{}, false
	}
	return best.Feature, true
}

// Ruler renders a coordinate ruler line of the panel width.
func (p *Panel) Ruler() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.width <= 0 {
		return ""
	}
	line := []rune(strings.Repeat("─", p.width))
	every := 20
	for col := 0; col < p.width; col += every {
		label := []rune("┬" + strconv.FormatInt(int64(math.Round(p.startBp+float64(col)*p.bpPerPx)), 10))
		if col+len(label) > p.width {
			break
		}
		copy(line[col:], label)
	}
	return string(line)
}

func (p *Panel) windowLocked() genome.Region {
	start := int64(math.Round(p.startBp))
	end := int64(math.Round(p.startBp + float64(p.width)*p.bpPerPx))
	return genome.Region{SeqID: p.seq.SeqID, Start: start, End: end}.Clip(p.seq)
}

func (p *Panel) columnLocked(bp int64) int {
	return int(math.Floor((float64(bp) - p.startBp) / p.bpPerPx))
}

func (p *Panel) fitScale(span int64) float64 {
	if p.width <= 0 || span <= 0 {
		return 1
	}
	return math.Max(float64(span)/float64(p.width), minBpPerPx)
}

func (p *Panel) destinationLocked() frame {
	if p.target != nil {
		return *p.target
	}
	return frame{startBp: p.startBp, bpPerPx: p.bpPerPx}
}

func (p *Panel) setTargetLocked(f frame) {
	f.bpPerPx = math.Min(math.Max(f.bpPerPx, minBpPerPx), maxBpPerPx)
	p.target = &f
	p.stepsLeft = p.steps
	if p.steps <= 1 {
		p.startBp, p.bpPerPx = f.startBp, f.bpPerPx
		p.target = nil
		p.stepsLeft = 0
		p.clampLocked()
	}
	p.cacheValid = false
}

func (p *Panel) finishAnimationLocked() {
	if p.target != nil {
		p.startBp, p.bpPerPx = p.target.startBp, p.target.bpPerPx
		p.target = nil
		p.stepsLeft = 0
	}
}

func (p *Panel) clampLocked() {
	span := float64(p.width) * p.bpPerPx
	maxStart := float64(p.seq.End) - span
	if p.startBp > maxStart {
		p.startBp = maxStart
	}
	if p.startBp < float64(p.seq.Start) {
		p.startBp = float64(p.seq.Start)
	}
}
