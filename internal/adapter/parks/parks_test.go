package parks

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/qso-mapper/internal/domain"
)

const sampleCSV = `"reference","name","active","entityId","locationDesc","latitude","longitude","grid"
"K-1234","Test State Park","1","291","US-PA","40.0","-75.0","FN20"
"K-5678","Home Forest","1","291","US-PA","41.0","-76.0","FN11"
"K-1234","Duplicate Row","1","291","US-PA","10.0","10.0","JJ00"
"K-9999","No Coordinates","0","291","US-PA","","",""
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParse_LoadsReferences(t *testing.T) {
	table, err := Parse(strings.NewReader(sampleCSV), discardLogger())
	require.NoError(t, err)

	geo, ok := table.Lookup("K-1234")
	require.True(t, ok)
	assert.Equal(t, domain.Geo{Lat: 40.0, Lon: -75.0}, geo, "first row wins on duplicates")

	park, ok := table.Park("K-5678")
	require.True(t, ok)
	assert.Equal(t, "Home Forest", park.Name)
	assert.Equal(t, "US-PA", park.LocationDesc)

	_, ok = table.Lookup("K-9999")
	assert.False(t, ok, "rows without coordinates are skipped")

	assert.Equal(t, 2, table.Len())
}

func TestParse_MissingColumn(t *testing.T) {
	_, err := Parse(strings.NewReader("reference,latitude\nK-1,40\n"), discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "longitude")
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse(strings.NewReader(""), discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestParse_HeaderOnly(t *testing.T) {
	table, err := Parse(strings.NewReader("reference,latitude,longitude\n"), discardLogger())
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "all_parks_ext.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	table, err := Load(path, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), discardLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
