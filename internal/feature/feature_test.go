package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_PortalGene(t *testing.T) {
	raw := []byte(`{
		"locus_tag": "b0001", "gene_name": "thrL", "product": "thr operon leader peptide",
		"seq_id": "NC_000913.3", "start": 190, "end": 255, "strand": "+",
		"gene_type": "CDS", "genome_id": "GCF_000005845.2", "species": "Escherichia coli",
		"protein_id": "NP_414542.1", "cog_ids": ["COG0001"], "aliases": "ECK0001, JW4367"
	}`)

	d := Parse(raw)
	assert.Equal(t, "b0001", d.LocusTag)
	assert.Equal(t, "thrL", d.Name)
	assert.Equal(t, "NC_000913.3:190..255", d.Locus())
	assert.Equal(t, "+", d.Strand)
	assert.Equal(t, []string{"COG0001"}, d.CogIDs)
	assert.Equal(t, []string{"ECK0001", "JW4367"}, d.Aliases)
	assert.True(t, d.HasLocusTag())
}

func TestParse_ViewerFeature(t *testing.T) {
	raw := []byte(`{"uniqueId":"f1","refName":"chr","start":"10","end":20,"strand":-1,
		"type":"gene","name":["dnaA","alt"],"attributes":{"locus_tag":"L1","product":"initiator"}}`)

	d := Parse(raw)
	assert.Equal(t, "L1", d.LocusTag)
	assert.Equal(t, "dnaA", d.Name)
	assert.Equal(t, "initiator", d.Product)
	assert.Equal(t, "chr:10..20", d.Locus())
	assert.Equal(t, "-", d.Strand)
	assert.Equal(t, "gene", d.Type)
}

func TestParse_MissingAndMalformed(t *testing.T) {
	for name, raw := range map[string][]byte{
		"empty object": []byte(`{}`),
		"nulls":        []byte(`{"locus_tag":null,"product":"  ","cog_ids":null,"strand":0}`),
		"not json":     []byte(`<svg/>`),
		"nil":          nil,
	} {
		t.Run(name, func(t *testing.T) {
			d := Parse(raw)
			assert.Equal(t, Placeholder, d.LocusTag)
			assert.Equal(t, Placeholder, d.Product)
			assert.Equal(t, Placeholder, d.Strand)
			assert.Equal(t, Placeholder, d.Locus())
			assert.NotNil(t, d.CogIDs)
			assert.Empty(t, d.CogIDs)
			assert.NotNil(t, d.Aliases)
			assert.False(t, d.HasLocusTag())
		})
	}
}
