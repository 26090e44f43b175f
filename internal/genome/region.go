// Package genome holds the coordinate types shared by the portal client, the
// genome track panel and the viewport coordinator.
package genome

import (
	"fmt"
	"strconv"
	"strings"
)

// Region is a base-pair range on a reference sequence, measured the way the
// viewer measures its window: Len is End-Start, so seq1:0..1000 is 1000 bp
// wide. Overlap tests treat both ends as included.
type Region struct {
	SeqID string
	Start int64
	End   int64
}

// NewRegion builds a Region with start and end swapped when inverted.
func NewRegion(seqID string, start, end int64) Region {
	if start > end {
		start, end = end, start
	}
	return Region{SeqID: seqID, Start: start, End: end}
}

// String renders the locus form used for navigation, e.g. "seq1:500..2500".
func (r Region) String() string {
	return fmt.Sprintf("%s:%d..%d", r.SeqID, r.Start, r.End)
}

// Signature is the key used to recognise an already fetched viewport.
func (r Region) Signature() string {
	return fmt.Sprintf("%s:%d:%d", r.SeqID, r.Start, r.End)
}

// Len returns the width of the region, End-Start, or 0 when inverted.
func (r Region) Len() int64 {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

// Center returns the midpoint of the region.
func (r Region) Center() int64 {
	return r.Start + (r.End-r.Start)/2
}

// IsZero reports whether the region carries no sequence.
func (r Region) IsZero() bool {
	return r.SeqID == ""
}

// Overlaps reports whether the inclusive span [start, end] on seqID touches r.
func (r Region) Overlaps(seqID string, start, end int64) bool {
	if r.SeqID != seqID {
		return false
	}
	return start <= r.End && end >= r.Start
}

// Clip limits r to the bounds of outer. Regions on another sequence are
// returned unchanged.
func (r Region) Clip(outer Region) Region {
	if r.SeqID != outer.SeqID {
		return r
	}
	if r.Start < outer.Start {
		r.Start = outer.Start
	}
	if r.End > outer.End {
		r.End = outer.End
	}
	if r.Start > r.End {
		r.Start = r.End
	}
	return r
}

// Pad widens r by n base pairs on each side, never below zero.
func (r Region) Pad(n int64) Region {
	r.Start -= n
	if r.Start < 0 {
		r.Start = 0
	}
	r.End += n
	return r
}

// ParseLocus parses "seq:start..end", "seq:start-end" or a bare "seq".
// Thousands separators are accepted in the coordinates.
func ParseLocus(value string) (Region, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Region{}, fmt.Errorf("locus is empty")
	}
	idx := strings.LastIndex(trimmed, ":")
	if idx < 0 {
		return Region{SeqID: trimmed}, nil
	}
	seqID := strings.TrimSpace(trimmed[:idx])
	if seqID == "" {
		return Region{}, fmt.Errorf("locus %q has no sequence name", value)
	}
	span := strings.ReplaceAll(trimmed[idx+1:], ",", "")
	sep := ".."
	if !strings.Contains(span, sep) {
		sep = "-"
	}
	parts := strings.SplitN(span, sep, 2)
	if len(parts) != 2 {
		return Region{}, fmt.Errorf("locus %q: want start%send", value, "..")
	}
	start, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return Region{}, fmt.Errorf("locus %q: parse start: %w", value, err)
	}
	end, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return Region{}, fmt.Errorf("locus %q: parse end: %w", value, err)
	}
	return NewRegion(seqID, start, end), nil
}
