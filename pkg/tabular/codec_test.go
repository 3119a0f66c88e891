package tabular

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/filepilot/pkg/apperr"
	"gitlab.com/tozd/go/errors"
)

func TestSupportedExtension(t *testing.T) {
	assert.True(t, SupportedExtension("sales.csv"))
	assert.True(t, SupportedExtension("Sales.CSV"))
	assert.True(t, SupportedExtension("report.xlsx"))
	assert.False(t, SupportedExtension("report.xls"))
	assert.False(t, SupportedExtension("notes.txt"))
	assert.False(t, SupportedExtension("noext"))
}

func TestCSV_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sales.csv")
	doc := salesDocument()

	require.NoError(t, SaveFile(ctx, doc, path))

	reloaded, err := LoadFile(ctx, path)
	require.NoError(t, err)
	assert.True(t, doc.Equal(reloaded), "round trip must preserve shape and cells")
}

func TestCSV_LoadRagged(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ragged.csv")
	require.NoError(t, os.WriteFile(path, []byte("A,B,C\n1,2\n4,5,6\n"), 0o644))

	doc, err := LoadFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, doc.NumRows())
	v, ok := doc.Cell(0, "C")
	require.True(t, ok)
	assert.Equal(t, "", v)
}

func TestXLSX_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sales.xlsx")
	doc := salesDocument()

	require.NoError(t, SaveFile(ctx, doc, path))

	reloaded, err := LoadFile(ctx, path)
	require.NoError(t, err)
	assert.True(t, doc.Equal(reloaded), "round trip must preserve shape and cells")
}

func TestLoadFile_UnsupportedExtension(t *testing.T) {
	_, err := LoadFile(context.Background(), "notes.txt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInput))
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrIO))
}
