package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/microbe-atlas/locus/internal/genome"
)

func newRegionCmd(root *rootOptions) *cobra.Command {
	var (
		tsv     string
		limit   int
		columns []string
	)
	cmd := &cobra.Command{
		Use:   "region LOCUS",
		Short: "List the genes overlapping a locus",
		Long: `List the genes overlapping LOCUS, ordered by start position. This is the
request the Genomic Context table makes for the browser viewport.`,
		Example: `  locus region NC_000913.3:1..20000
  locus region NC_000913.3:1,000-5,000 --tsv -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			region, err := genome.ParseLocus(args[0])
			if err != nil {
				return err
			}
			if region.Len() == 0 {
				return fmt.Errorf("locus %q needs start..end coordinates", args[0])
			}

			s, err := openSession(root)
			if err != nil {
				return err
			}
			defer closeSession(s)

			if limit <= 0 {
				limit = s.cfg.ViewportPageSize
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()
			genes, err := s.client.GenesInRegion(ctx, region, limit)
			if err != nil {
				return fmt.Errorf("genes in %s: %w", region, err)
			}
			if len(columns) == 0 {
				columns = s.prefs.Columns
			}
			return writeGenes(ctx, cmd.OutOrStdout(), genes, columns, tsv)
		},
	}
	cmd.Flags().StringVar(&tsv, "tsv", "", `write TSV to FILE instead of a table ("-" for stdout)`)
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum genes (default viewport_page_size from config)")
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "columns to show (default from preferences)")
	return cmd
}
