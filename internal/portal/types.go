package portal

import (
	"strings"

	"github.com/microbe-atlas/locus/internal/genome"
)

// Gene mirrors a gene record returned by the advanced search endpoint.
type Gene struct {
	LocusTag   string   `json:"locus_tag"`
	GeneName   string   `json:"gene_name"`
	Product    string   `json:"product"`
	SeqID      string   `json:"seq_id"`
	Start      int64    `json:"start"`
	End        int64    `json:"end"`
	Strand     string   `json:"strand"`
	GeneType   string   `json:"gene_type"`
	GenomeID   string   `json:"genome_id"`
	Species    string   `json:"species"`
	ProteinID  string   `json:"protein_id"`
	CogIDs     []string `json:"cog_ids"`
	Aliases    []string `json:"aliases"`
	ProteinLen int      `json:"protein_length"`
}

// Region returns the gene's span as a genome.Region.
func (g Gene) Region() genome.Region {
	return genome.NewRegion(g.SeqID, g.Start, g.End)
}

// Label returns the gene name when present, otherwise the locus tag.
func (g Gene) Label() string {
	if name := strings.TrimSpace(g.GeneName); name != "" {
		return name
	}
	return g.LocusTag
}

// IsReverse reports whether the gene sits on the minus strand.
func (g Gene) IsReverse() bool {
	s := strings.TrimSpace(g.Strand)
	return s == "-" || s == "-1"
}

// SortOrder is the direction of a search sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// FacetOperator combines the selected values of one facet field.
type FacetOperator string

const (
	FacetOr  FacetOperator = "or"
	FacetAnd FacetOperator = "and"
)

// SearchQuery configures /api/v1/genes/search requests.
type SearchQuery struct {
	Text      string
	Page      int
	PerPage   int
	SortField string
	SortOrder SortOrder
	GenomeIDs []string
	Species   []string
	// Facets maps a facet field to its selected values.
	Facets map[string][]string
	// Operators maps a facet field to the operator joining its values.
	Operators map[string]FacetOperator
	// LocusTag overrides the free text and selects a single gene.
	LocusTag string
	// Region restricts results to genes overlapping the span.
	Region *genome.Region
}

// SearchResult mirrors the advanced search payload.
type SearchResult struct {
	Items   []Gene                  `json:"items"`
	Total   int                     `json:"total"`
	Page    int                     `json:"page"`
	PerPage int                     `json:"per_page"`
	Facets  map[string][]FacetCount `json:"facets"`
}

// Pages returns the number of result pages.
func (r SearchResult) Pages() int {
	if r.PerPage <= 0 || r.Total <= 0 {
		return 1
	}
	return (r.Total + r.PerPage - 1) / r.PerPage
}

// FacetCount is one value of a facet with its hit count.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// HealthResponse mirrors /api/v1/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Genomes int    `json:"genomes"`
	Genes   int    `json:"genes"`
}

// OK reports whether the backend declared itself healthy.
func (h HealthResponse) OK() bool {
	return strings.EqualFold(strings.TrimSpace(h.Status), "ok")
}

// Sequence is a reference sequence (chromosome or plasmid) of a genome.
type Sequence struct {
	SeqID    string `json:"seq_id"`
	Length   int64  `json:"length"`
	Topology string `json:"topology"`
}

// Region returns the full extent of the sequence.
func (s Sequence) Region() genome.Region {
	return genome.Region{SeqID: s.SeqID, Start: 0, End: s.Length}
}

// ProteinSequence mirrors /api/v1/genes/{locus_tag}/protein.
type ProteinSequence struct {
	LocusTag string `json:"locus_tag"`
	Sequence string `json:"sequence"`
}
