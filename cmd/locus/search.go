package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/microbe-atlas/locus/internal/portal"
)

type searchOptions struct {
	genomes []string
	species []string
	page    int
	perPage int
	sort    string
	order   string
	columns []string
	tsv     string
}

func newSearchCmd(root *rootOptions) *cobra.Command {
	opts := &searchOptions{}
	cmd := &cobra.Command{
		Use:   "search [QUERY]",
		Short: "Search genes and print one page of results",
		Example: `  locus search dnaA
  locus search --species "Escherichia coli" --sort start kinase
  locus search --genome GCF_000005845.2 --per-page 100 --tsv genes.tsv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := ""
			if len(args) == 1 {
				text = args[0]
			}
			return runSearch(cmd, root, opts, text)
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&opts.genomes, "genome", nil, "restrict to genome ids (repeatable)")
	f.StringSliceVar(&opts.species, "species", nil, "restrict to species (repeatable)")
	f.IntVar(&opts.page, "page", 1, "result page")
	f.IntVar(&opts.perPage, "per-page", 0, "results per page (default from config)")
	f.StringVar(&opts.sort, "sort", "", "sort field (default from preferences)")
	f.StringVar(&opts.order, "order", "", "sort order: asc or desc")
	f.StringSliceVar(&opts.columns, "columns", nil, "columns to show (default from preferences)")
	f.StringVar(&opts.tsv, "tsv", "", `write TSV to FILE instead of a table ("-" for stdout)`)
	return cmd
}

func (o *searchOptions) query(text string, perPage int, defaultSort, defaultOrder string) (portal.SearchQuery, error) {
	order := strings.ToLower(strings.TrimSpace(o.order))
	if order == "" {
		order = defaultOrder
	}
	if order != string(portal.SortAsc) && order != string(portal.SortDesc) {
		return portal.SearchQuery{}, fmt.Errorf("invalid --order %q: want asc or desc", o.order)
	}
	if o.page < 1 {
		return portal.SearchQuery{}, fmt.Errorf("invalid --page %d", o.page)
	}
	if o.perPage > 0 {
		perPage = o.perPage
	}
	sortField := strings.TrimSpace(o.sort)
	if sortField == "" {
		sortField = defaultSort
	}
	return portal.SearchQuery{
		Text:      strings.TrimSpace(text),
		Page:      o.page,
		PerPage:   perPage,
		SortField: sortField,
		SortOrder: portal.SortOrder(order),
		GenomeIDs: o.genomes,
		Species:   o.species,
	}, nil
}

func runSearch(cmd *cobra.Command, root *rootOptions, opts *searchOptions, text string) error {
	s, err := openSession(root)
	if err != nil {
		return err
	}
	defer closeSession(s)

	p := s.prefs
	q, err := opts.query(text, s.cfg.PageSize, p.SortField, p.SortOrder)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()
	res, err := s.client.SearchGenes(ctx, q)
	if err != nil {
		return fmt.Errorf("search genes: %w", err)
	}

	columns := opts.columns
	if len(columns) == 0 {
		columns = p.Columns
	}
	if err := writeGenes(ctx, cmd.OutOrStdout(), res.Items, columns, opts.tsv); err != nil {
		return err
	}
	if opts.tsv != "-" {
		fmt.Fprintf(cmd.ErrOrStderr(), "page %d of %d · %d genes\n", max(res.Page, q.Page), res.Pages(), res.Total)
	}
	return nil
}
