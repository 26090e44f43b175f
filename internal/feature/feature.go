// Package feature turns opaque feature records from the genome viewer into
// the fields shown in the details panel.
package feature

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Placeholder is shown for any missing scalar field.
const Placeholder = "N/A"

// Details is the parsed, display-ready form of a feature record.
type Details struct {
	LocusTag  string
	Name      string
	Product   string
	SeqID     string
	Start     string
	End       string
	Strand    string
	Type      string
	GenomeID  string
	Species   string
	ProteinID string
	CogIDs    []string
	Aliases   []string
}

// Locus returns "seq:start..end" or Placeholder when coordinates are missing.
func (d Details) Locus() string {
	if d.SeqID == Placeholder || d.Start == Placeholder || d.End == Placeholder {
		return Placeholder
	}
	return d.SeqID + ":" + d.Start + ".." + d.End
}

// HasLocusTag reports whether the record named a gene.
func (d Details) HasLocusTag() bool {
	return d.LocusTag != Placeholder
}

// Parse reads a feature record. Keys are looked up in both the portal gene
// shape (snake_case) and the viewer's feature shape (camelCase, attributes).
// Malformed input yields a Details of placeholders.
func Parse(raw []byte) Details {
	var rec gjson.Result
	if gjson.ValidBytes(raw) {
		rec = gjson.ParseBytes(raw)
	}
	return Details{
		LocusTag:  str(rec, "locus_tag", "locusTag", "attributes.locus_tag", "uniqueId"),
		Name:      str(rec, "gene_name", "name", "attributes.gene", "attributes.Name"),
		Product:   str(rec, "product", "attributes.product", "description"),
		SeqID:     str(rec, "seq_id", "refName", "seqId"),
		Start:     num(rec, "start"),
		End:       num(rec, "end"),
		Strand:    strand(rec),
		Type:      str(rec, "gene_type", "type"),
		GenomeID:  str(rec, "genome_id", "attributes.genome_id"),
		Species:   str(rec, "species", "attributes.species"),
		ProteinID: str(rec, "protein_id", "attributes.protein_id"),
		CogIDs:    list(rec, "cog_ids", "attributes.cog_ids"),
		Aliases:   list(rec, "aliases", "attributes.aliases"),
	}
}

func first(rec gjson.Result, paths ...string) gjson.Result {
	if !rec.Exists() {
		return gjson.Result{}
	}
	for _, p := range paths {
		if v := rec.Get(p); v.Exists() && v.Type != gjson.Null {
			return v
		}
	}
	return gjson.Result{}
}

func str(rec gjson.Result, paths ...string) string {
	v := first(rec, paths...)
	if v.IsArray() {
		arr := v.Array()
		if len(arr) == 0 {
			return Placeholder
		}
		v = arr[0]
	}
	if s := strings.TrimSpace(v.String()); s != "" {
		return s
	}
	return Placeholder
}

func num(rec gjson.Result, path string) string {
	v := first(rec, path)
	switch v.Type {
	case gjson.Number:
		return strconv.FormatInt(v.Int(), 10)
	case gjson.String:
		if n, err := strconv.ParseInt(strings.TrimSpace(v.Str), 10, 64); err == nil {
			return strconv.FormatInt(n, 10)
		}
	}
	return Placeholder
}

func strand(rec gjson.Result) string {
	v := first(rec, "strand")
	switch v.Type {
	case gjson.Number:
		switch {
		case v.Int() > 0:
			return "+"
		case v.Int() < 0:
			return "-"
		}
	case gjson.String:
		switch strings.TrimSpace(v.Str) {
		case "+", "1", "+1":
			return "+"
		case "-", "-1":
			return "-"
		}
	}
	return Placeholder
}

// list accepts a JSON array or a comma separated string.
func list(rec gjson.Result, paths ...string) []string {
	v := first(rec, paths...)
	out := []string{}
	switch {
	case v.IsArray():
		for _, item := range v.Array() {
			if s := strings.TrimSpace(item.String()); s != "" {
				out = append(out, s)
			}
		}
	case v.Type == gjson.String:
		for _, part := range strings.Split(v.Str, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
