package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/microbe-atlas/locus/internal/genome"
)

// GeneSearcher defines the portal calls the UI and the coordinator rely on.
// This interface is implemented by *Client and can be used for testing.
type GeneSearcher interface {
	FetchHealth(ctx context.Context) (*HealthResponse, error)
	SearchGenes(ctx context.Context, query SearchQuery) (SearchResult, error)
	GenesInRegion(ctx context.Context, region genome.Region, limit int) ([]Gene, error)
	FetchProteinSequence(ctx context.Context, locusTag string) (string, error)
	FetchSequences(ctx context.Context, genomeID string) ([]Sequence, error)
}

// Ensure Client implements GeneSearcher at compile time.
var _ GeneSearcher = (*Client)(nil)

// Client talks to the gene portal HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultAPIURL    = "http://127.0.0.1:8000"
	defaultUserAgent = "locus/0.1"
	requestTimeout   = 10 * time.Second

	// RequestIDHeader carries a per-request id the backend echoes in its logs.
	RequestIDHeader = "X-Request-ID"
)

// APIError is returned when the portal answers with an HTTP error status.
type APIError struct {
	Path       string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api %s returned status %d", e.Path, e.StatusCode)
}

// NewClient builds a Client for the given base URL or host:port value.
func NewClient(apiURL string) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// FetchHealth retrieves backend health and catalogue counts.
func (c *Client) FetchHealth(ctx context.Context) (*HealthResponse, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload HealthResponse
	if err := c.do(ctx, "/api/v1/health", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// SearchGenes runs the advanced gene search.
func (c *Client) SearchGenes(ctx context.Context, query SearchQuery) (SearchResult, error) {
	if c == nil {
		return SearchResult{}, fmt.Errorf("client is nil")
	}
	var payload SearchResult
	if err := c.do(ctx, "/api/v1/genes/search", encodeSearchQuery(query), &payload); err != nil {
		return SearchResult{}, err
	}
	return payload, nil
}

// GenesInRegion returns every gene overlapping region, ordered by start
// position, in a single page of at most limit records.
func (c *Client) GenesInRegion(ctx context.Context, region genome.Region, limit int) ([]Gene, error) {
	if region.IsZero() {
		return nil, fmt.Errorf("region requires a sequence id")
	}
	r := region
	result, err := c.SearchGenes(ctx, SearchQuery{
		Page:      1,
		PerPage:   limit,
		SortField: "start",
		SortOrder: SortAsc,
		Region:    &r,
	})
	if err != nil {
		return nil, err
	}
	return result.Items, nil
}

// FetchProteinSequence returns the translated sequence for a locus tag.
func (c *Client) FetchProteinSequence(ctx context.Context, locusTag string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	tag := strings.TrimSpace(locusTag)
	if tag == "" {
		return "", fmt.Errorf("locus tag required")
	}
	var payload ProteinSequence
	path := "/api/v1/genes/" + url.PathEscape(tag) + "/protein"
	if err := c.do(ctx, path, nil, &payload); err != nil {
		return "", err
	}
	return payload.Sequence, nil
}

// FetchSequences lists the reference sequences of a genome.
func (c *Client) FetchSequences(ctx context.Context, genomeID string) ([]Sequence, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	id := strings.TrimSpace(genomeID)
	if id == "" {
		return nil, fmt.Errorf("genome id required")
	}
	var payload struct {
		Sequences []Sequence `json:"sequences"`
	}
	if err := c.do(ctx, "/api/v1/genomes/"+url.PathEscape(id)+"/sequences", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Sequences, nil
}

func encodeSearchQuery(query SearchQuery) url.Values {
	values := url.Values{}
	if tag := strings.TrimSpace(query.LocusTag); tag != "" {
		values.Set("locus_tag", tag)
	} else if text := strings.TrimSpace(query.Text); text != "" {
		values.Set("q", text)
	}
	if query.Page > 0 {
		values.Set("page", strconv.Itoa(query.Page))
	}
	if query.PerPage > 0 {
		values.Set("per_page", strconv.Itoa(query.PerPage))
	}
	if field := strings.TrimSpace(query.SortField); field != "" {
		values.Set("sort_field", field)
		order := query.SortOrder
		if order == "" {
			order = SortAsc
		}
		values.Set("sort_order", string(order))
	}
	if ids := joinNonEmpty(query.GenomeIDs); ids != "" {
		values.Set("genome_ids", ids)
	}
	if species := joinNonEmpty(query.Species); species != "" {
		values.Set("species", species)
	}

	fields := make([]string, 0, len(query.Facets))
	for field := range query.Facets {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		joined := joinNonEmpty(query.Facets[field])
		if joined == "" {
			continue
		}
		values.Set("facet."+field, joined)
		if op, ok := query.Operators[field]; ok && op != "" {
			values.Set("facet_op."+field, string(op))
		}
	}

	if r := query.Region; r != nil && !r.IsZero() {
		values.Set("seq_id", r.SeqID)
		values.Set("start", strconv.FormatInt(r.Start, 10))
		values.Set("end", strconv.FormatInt(r.End, 10))
	}
	return values
}

func joinNonEmpty(values []string) string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return strings.Join(out, ",")
}

func (c *Client) do(ctx context.Context, path string, query url.Values, dest any) error {
	rel := &url.URL{Path: path}
	if len(query) > 0 {
		rel.RawQuery = query.Encode()
	}
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return &APIError{Path: path, StatusCode: resp.StatusCode}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_url %q: missing host", apiURL)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
