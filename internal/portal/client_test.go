package portal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/microbe-atlas/locus/internal/genome"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != defaultAPIURL {
		t.Fatalf("url = %q, want %q", u.String(), defaultAPIURL)
	}

	u, err = parseBaseURL("portal.example.org:9000/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Host != "portal.example.org:9000" {
		t.Fatalf("url = %q, want http://portal.example.org:9000", u.String())
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestEncodeSearchQuery(t *testing.T) {
	region := genome.NewRegion("seq1", 10000, 15000)
	values := encodeSearchQuery(SearchQuery{
		Text:      " dnaA ",
		Page:      2,
		PerPage:   50,
		SortField: "start",
		GenomeIDs: []string{"GCF_1", " ", "GCF_2"},
		Species:   []string{"E. coli"},
		Facets: map[string][]string{
			"cog_category": {"J", "K"},
			"gene_type":    {" "},
		},
		Operators: map[string]FacetOperator{"cog_category": FacetAnd},
		Region:    &region,
	})

	want := map[string]string{
		"q":                     "dnaA",
		"page":                  "2",
		"per_page":              "50",
		"sort_field":            "start",
		"sort_order":            "asc",
		"genome_ids":            "GCF_1,GCF_2",
		"species":               "E. coli",
		"facet.cog_category":    "J,K",
		"facet_op.cog_category": "and",
		"seq_id":                "seq1",
		"start":                 "10000",
		"end":                   "15000",
	}
	for key, val := range want {
		if got := values.Get(key); got != val {
			t.Fatalf("%s = %q, want %q", key, got, val)
		}
	}
	if values.Has("facet.gene_type") {
		t.Fatalf("blank facet values should be dropped, got %v", values)
	}
}

func TestEncodeSearchQuery_LocusTagOverridesText(t *testing.T) {
	values := encodeSearchQuery(SearchQuery{Text: "dnaA", LocusTag: "b0001"})
	if values.Get("locus_tag") != "b0001" {
		t.Fatalf("locus_tag = %q, want b0001", values.Get("locus_tag"))
	}
	if values.Has("q") {
		t.Fatalf("q should be omitted when a locus tag is given")
	}
}

func TestClient_FetchesEndpoints(t *testing.T) {
	t.Parallel()

	var gotSearch url.Values
	var gotUserAgent, gotRequestID string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		gotRequestID = r.Header.Get(RequestIDHeader)
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/api/v1/health":
			_ = json.NewEncoder(w).Encode(HealthResponse{Status: "ok", Genomes: 3})
		case "/api/v1/genes/search":
			gotSearch = r.URL.Query()
			_ = json.NewEncoder(w).Encode(SearchResult{
				Items:   []Gene{{LocusTag: "locus_1", SeqID: "seq1", Start: 1000, End: 2000}},
				Total:   1,
				Page:    1,
				PerPage: 1000,
			})
		case "/api/v1/genes/locus_1/protein":
			_ = json.NewEncoder(w).Encode(ProteinSequence{LocusTag: "locus_1", Sequence: "MKV"})
		case "/api/v1/genomes/GCF_1/sequences":
			_, _ = w.Write([]byte(`{"sequences":[{"seq_id":"seq1","length":4641652}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	health, err := c.FetchHealth(ctx)
	if err != nil {
		t.Fatalf("FetchHealth returned error: %v", err)
	}
	if !health.OK() || health.Genomes != 3 {
		t.Fatalf("FetchHealth payload = %#v, want ok with 3 genomes", health)
	}

	genes, err := c.GenesInRegion(ctx, genome.NewRegion("seq1", 10000, 15000), 1000)
	if err != nil {
		t.Fatalf("GenesInRegion returned error: %v", err)
	}
	if len(genes) != 1 || genes[0].LocusTag != "locus_1" {
		t.Fatalf("GenesInRegion = %#v, want locus_1", genes)
	}
	if gotSearch.Get("seq_id") != "seq1" ||
		gotSearch.Get("start") != "10000" ||
		gotSearch.Get("end") != "15000" ||
		gotSearch.Get("sort_field") != "start" ||
		gotSearch.Get("sort_order") != "asc" ||
		gotSearch.Get("per_page") != "1000" {
		t.Fatalf("GenesInRegion query = %v, want region sorted by start", gotSearch)
	}

	seq, err := c.FetchProteinSequence(ctx, "locus_1")
	if err != nil {
		t.Fatalf("FetchProteinSequence returned error: %v", err)
	}
	if seq != "MKV" {
		t.Fatalf("FetchProteinSequence = %q, want MKV", seq)
	}

	seqs, err := c.FetchSequences(ctx, "GCF_1")
	if err != nil {
		t.Fatalf("FetchSequences returned error: %v", err)
	}
	if len(seqs) != 1 || seqs[0].Length != 4641652 {
		t.Fatalf("FetchSequences = %#v, want seq1", seqs)
	}

	if !strings.HasPrefix(gotUserAgent, "locus/") {
		t.Fatalf("User-Agent = %q, want locus/*", gotUserAgent)
	}
	if gotRequestID == "" {
		t.Fatalf("%s header missing", RequestIDHeader)
	}
}

func TestClient_RequiresArguments(t *testing.T) {
	c, err := NewClient("127.0.0.1:1")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.FetchProteinSequence(context.Background(), " "); err == nil {
		t.Fatalf("FetchProteinSequence returned nil error, want error")
	}
	if _, err := c.FetchSequences(context.Background(), ""); err == nil {
		t.Fatalf("FetchSequences returned nil error, want error")
	}
	if _, err := c.GenesInRegion(context.Background(), genome.Region{}, 10); err == nil {
		t.Fatalf("GenesInRegion returned nil error, want error")
	}
}

func TestClient_HTTPErrorAndDecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/health":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{not-json"))
		case "/api/v1/genes/search":
			http.Error(w, "nope", http.StatusBadGateway)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.FetchHealth(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("FetchHealth error = %v, want decode response error", err)
	}

	_, err = c.SearchGenes(context.Background(), SearchQuery{Text: "x"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("SearchGenes error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("StatusCode = %d, want %d", apiErr.StatusCode, http.StatusBadGateway)
	}
}

func TestSearchResult_Pages(t *testing.T) {
	cases := []struct {
		total, perPage, want int
	}{
		{0, 25, 1},
		{25, 25, 1},
		{26, 25, 2},
		{10, 0, 1},
	}
	for _, tc := range cases {
		got := SearchResult{Total: tc.total, PerPage: tc.perPage}.Pages()
		if got != tc.want {
			t.Fatalf("Pages(total=%d, perPage=%d) = %d, want %d", tc.total, tc.perPage, got, tc.want)
		}
	}
}
