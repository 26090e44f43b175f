package feature

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"
)

// ProteinLoader fetches a protein sequence by locus tag.
type ProteinLoader interface {
	FetchProteinSequence(ctx context.Context, locusTag string) (string, error)
}

// Selection is what the details panel currently shows.
type Selection struct {
	Details        Details
	Protein        string
	LoadingProtein bool
	Selected       bool
}

// Panel tracks the selected feature and loads its protein in the background.
// A failed load leaves Protein empty.
type Panel struct {
	ctx     context.Context
	loader  ProteinLoader
	timeout time.Duration

	mu         sync.Mutex
	sel        Selection
	generation int
	wg         sync.WaitGroup
}

// NewPanel returns a Panel. loader may be nil, in which case no protein is
// ever loaded.
func NewPanel(ctx context.Context, loader ProteinLoader) *Panel {
	return &Panel{ctx: ctx, loader: loader, timeout: 10 * time.Second}
}

// Select parses raw and shows it. withProtein starts an asynchronous protein
// lookup for records that carry a locus tag.
func (p *Panel) Select(raw []byte, withProtein bool) Details {
	d := Parse(raw)

	p.mu.Lock()
	p.generation++
	gen := p.generation
	load := withProtein && p.loader != nil && d.HasLocusTag()
	p.sel = Selection{Details: d, Selected: true, LoadingProtein: load}
	p.mu.Unlock()

	if load {
		p.wg.Add(1)
		go p.loadProtein(gen, d.LocusTag)
	}
	return d
}

// Clear empties the panel and abandons any pending protein load.
func (p *Panel) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generation++
	p.sel = Selection{}
}

// Selection returns the current panel contents.
func (p *Panel) Selection() Selection {
	p.mu.Lock()
	defer p.mu.Unlock()
	sel := p.sel
	sel.Details.CogIDs = slices.Clone(p.sel.Details.CogIDs)
	sel.Details.Aliases = slices.Clone(p.sel.Details.Aliases)
	return sel
}

// Wait blocks until background loads finish.
func (p *Panel) Wait() {
	p.wg.Wait()
}

func (p *Panel) loadProtein(gen int, locusTag string) {
	defer p.wg.Done()

	ctx, cancel := context.WithTimeout(p.ctx, p.timeout)
	defer cancel()

	seq, err := p.loader.FetchProteinSequence(ctx, locusTag)
	if err != nil {
		slog.Warn("protein sequence load failed", "component", "feature", "locus_tag", locusTag, "error", err)
		seq = ""
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.generation {
		return
	}
	p.sel.Protein = seq
	p.sel.LoadingProtein = false
}
