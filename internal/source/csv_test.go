package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVFetch(t *testing.T) {
	path := writeCSV(t, "age,city\n25,NY\n30,SF\nNA,NY\n40,LA\n")

	src, err := Open(Config{Driver: "csv", Path: path})
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, "data.csv", src.Name())

	tbl, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, tbl.NumRows())
	assert.Equal(t, []string{"age", "city"}, tbl.ColumnNames())
	assert.True(t, tbl.Row(2)[0].IsNull())
	assert.Equal(t, "NY", tbl.Row(2)[1].String())
}

func TestCSVNullMarkersCaseInsensitive(t *testing.T) {
	path := writeCSV(t, "v\nna\nN/A\nNULL\nnone\n\"\"\nok\n")

	src, err := Open(Config{Driver: "csv", Path: path})
	require.NoError(t, err)

	tbl, err := src.Fetch(context.Background())
	require.NoError(t, err)
	col := tbl.Columns()[0]
	for i := 0; i < 5; i++ {
		assert.True(t, col.Values[i].IsNull(), "row %d", i)
	}
	assert.False(t, col.Values[5].IsNull())
}

func TestCSVCustomNullMarkers(t *testing.T) {
	path := writeCSV(t, "v\nmissing\nna\n")

	src, err := Open(Config{Driver: "csv", Path: path, NullMarkers: []string{"missing"}})
	require.NoError(t, err)

	tbl, err := src.Fetch(context.Background())
	require.NoError(t, err)
	col := tbl.Columns()[0]
	assert.True(t, col.Values[0].IsNull())
	assert.False(t, col.Values[1].IsNull(), "custom markers replace the defaults")
}

func TestCSVRowCap(t *testing.T) {
	path := writeCSV(t, "v\n1\n2\n3\n")

	src, err := Open(Config{Driver: "csv", Path: path, MaxRows: 2})
	require.NoError(t, err)

	_, err = src.Fetch(context.Background())
	var tooMany *ErrTooManyRows
	require.ErrorAs(t, err, &tooMany)
	assert.Equal(t, 2, tooMany.Limit)
}

func TestCSVEmptyFile(t *testing.T) {
	path := writeCSV(t, "")

	src, err := Open(Config{Driver: "csv", Path: path})
	require.NoError(t, err)

	_, err = src.Fetch(context.Background())
	assert.ErrorContains(t, err, "empty")
}

func TestCSVMissingPath(t *testing.T) {
	_, err := Open(Config{Driver: "csv"})
	assert.Error(t, err)
}

func TestCSVRaggedRow(t *testing.T) {
	path := writeCSV(t, "a,b\n1,2\n3\n")

	src, err := Open(Config{Driver: "csv", Path: path})
	require.NoError(t, err)

	_, err = src.Fetch(context.Background())
	assert.Error(t, err)
}
