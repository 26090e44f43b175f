package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microbe-atlas/locus/internal/portal"
)

var genes = []portal.Gene{
	{LocusTag: "b0001", GeneName: "thrL", Product: "leader\tpeptide", SeqID: "NC_000913.3", Start: 190, End: 255, Strand: "+"},
	{LocusTag: "b0002", GeneName: "thrA", Product: "aspartokinase", SeqID: "NC_000913.3", Start: 337, End: 2799, Strand: "+"},
}

func TestWriteTSV_SelectedColumns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTSV(&buf, genes, []string{"locus_tag", "product", "start"}))

	want := "locus_tag\tproduct\tstart\n" +
		"b0001\tleader peptide\t190\n" +
		"b0002\taspartokinase\t337\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteTSV_AllColumnsByDefault(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTSV(&buf, nil, nil))
	assert.Equal(t, "locus_tag\tgene_name\tproduct\tseq_id\tstart\tend\tstrand\tspecies\tgenome_id\n", buf.String())
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "genes.tsv")
	require.NoError(t, WriteFile(path, genes[:1], []string{"locus_tag", "end"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "locus_tag\tend\nb0001\t255\n", string(data))
}

func TestHeaderAndValue(t *testing.T) {
	assert.Equal(t, "Locus Tag", Header("locus_tag"))
	assert.Equal(t, "mystery", Header("mystery"))
	assert.Equal(t, "2799", Value(genes[1], "end"))
	assert.Equal(t, "", Value(genes[1], "mystery"))
}
