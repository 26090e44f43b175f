// Package export writes gene lists as tab separated values.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/microbe-atlas/locus/internal/portal"
)

// Columns lists every exportable column in display order.
var Columns = []string{"locus_tag", "gene_name", "product", "seq_id", "start", "end", "strand", "species", "genome_id"}

var headers = map[string]string{
	"locus_tag": "Locus Tag",
	"gene_name": "Gene",
	"product":   "Product",
	"seq_id":    "Sequence",
	"start":     "Start",
	"end":       "End",
	"strand":    "Strand",
	"species":   "Species",
	"genome_id": "Genome",
}

// Header returns the display title of a column.
func Header(column string) string {
	if h, ok := headers[column]; ok {
		return h
	}
	return column
}

// Value returns the text of one column for a gene.
func Value(g portal.Gene, column string) string {
	switch column {
	case "locus_tag":
		return g.LocusTag
	case "gene_name":
		return g.GeneName
	case "product":
		return g.Product
	case "seq_id":
		return g.SeqID
	case "start":
		return strconv.FormatInt(g.Start, 10)
	case "end":
		return strconv.FormatInt(g.End, 10)
	case "strand":
		return g.Strand
	case "species":
		return g.Species
	case "genome_id":
		return g.GenomeID
	default:
		return ""
	}
}

// WriteTSV writes a header row and one row per gene. An empty column list
// exports every column.
func WriteTSV(w io.Writer, genes []portal.Gene, columns []string) error {
	if len(columns) == 0 {
		columns = Columns
	}
	tw := csv.NewWriter(w)
	tw.Comma = '\t'

	header := make([]string, len(columns))
	copy(header, columns)
	if err := tw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(columns))
	for _, g := range genes {
		for i, col := range columns {
			row[i] = sanitize(Value(g, col))
		}
		if err := tw.Write(row); err != nil {
			return fmt.Errorf("write row %s: %w", g.LocusTag, err)
		}
	}
	tw.Flush()
	if err := tw.Error(); err != nil {
		return fmt.Errorf("flush tsv: %w", err)
	}
	return nil
}

// WriteFile writes the TSV to path, creating parent directories.
func WriteFile(path string, genes []portal.Gene, columns []string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	if err := WriteTSV(f, genes, columns); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close export: %w", err)
	}
	return nil
}

// tabs and newlines inside a field would break naive TSV readers
func sanitize(s string) string {
	return strings.NewReplacer("\t", " ", "\r", " ", "\n", " ").Replace(s)
}
