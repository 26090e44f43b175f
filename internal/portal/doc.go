// Package portal provides an HTTP client for the gene portal REST API.
//
// # Overview
//
// The portal backend serves bacterial genome and gene annotation data. This
// package wraps the handful of read-only endpoints the locus client needs and
// decodes their JSON payloads into typed structs.
//
// # Endpoints
//
//   - GET /api/v1/health: backend status and catalogue counts
//   - GET /api/v1/genes/search: advanced gene search (text, paging, sort,
//     genome/species filters, facets, locus-tag override, region overlap)
//   - GET /api/v1/genes/{locus_tag}/protein: translated protein sequence
//   - GET /api/v1/genomes/{id}/sequences: reference sequences of a genome
//
// # Client Usage
//
//	client, err := portal.NewClient("https://portal.example.org")
//	if err != nil {
//		return err
//	}
//
//	result, err := client.SearchGenes(ctx, portal.SearchQuery{Text: "dnaA", PerPage: 25})
//
//	// Genes overlapping a viewport, sorted by start, one large page
//	genes, err := client.GenesInRegion(ctx, genome.NewRegion("seq1", 10000, 15000), 1000)
//
// # Request Handling
//
// Every request carries Accept: application/json, a locus/* User-Agent and a
// fresh X-Request-ID, and honours the caller's context. HTTP error statuses
// come back as *APIError so callers can branch on the status code with
// errors.As; transport and decode failures are wrapped with fmt.Errorf.
//
// # Testing
//
// GeneSearcher is the interface consumed by the UI and by the viewport
// coordinator; tests substitute fakes or point a Client at httptest servers.
package portal
