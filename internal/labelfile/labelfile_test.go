package labelfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielgjackson/audioid/internal/interval"
	"github.com/danielgjackson/audioid/internal/label"
	"github.com/danielgjackson/audioid/internal/labelfile"
)

func TestLoadParsesWellFormedIntervals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.tsv")
	content := "0.0\t1.0\tsilence\n1.0\t2.5\tbark/loud\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table := label.NewTable(4)
	var list interval.List

	errorCount, warnings, err := labelfile.Load(path, table, &list)
	require.NoError(t, err)
	assert.Equal(t, 0, errorCount)
	assert.Empty(t, warnings)
	assert.Equal(t, 2, list.Len())
	assert.Equal(t, 1.0, list.At(1).Start)
}

func TestLoadSkipsMalformedLinesAndCountsThem(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.tsv")
	content := "0.0\t1.0\tsilence\nnot-three-fields\nbad\tend\tlabel\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table := label.NewTable(4)
	var list interval.List

	errorCount, _, err := labelfile.Load(path, table, &list)
	require.NoError(t, err)
	assert.Equal(t, 2, errorCount)
	assert.Equal(t, 1, list.Len())
}

func TestLoadSurfacesOverlapWarnings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.tsv")
	content := "0.0\t2.0\ta\n1.0\t3.0\tb\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table := label.NewTable(4)
	var list interval.List

	_, warnings, err := labelfile.Load(path, table, &list)
	require.NoError(t, err)
	assert.NotEmpty(t, warnings)
}
