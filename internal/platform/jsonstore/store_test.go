package jsonstore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileIsEmpty(t *testing.T) {
	var docs []map[string]string
	require.NoError(t, Load(filepath.Join(t.TempDir(), "missing.json"), &docs))
	require.Nil(t, docs)
}

func TestLoadBlankFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blank.json")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o644))
	var docs []map[string]string
	require.NoError(t, Load(path, &docs))
	require.Nil(t, docs)
}

func TestLoadCorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	var docs []map[string]string
	require.Error(t, Load(path, &docs))
}

func TestSaveCreatesDirectoryAndIndents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "items.json")
	require.NoError(t, Save(path, []map[string]string{{"id": "1"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "[\n    {"))

	var docs []map[string]string
	require.NoError(t, Load(path, &docs))
	require.Len(t, docs, 1)
}

func TestSaveReplacesWholeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, Save(path, []string{"a", "b", "c"}))
	require.NoError(t, Save(path, []string{"z"}))

	var docs []string
	require.NoError(t, Load(path, &docs))
	require.Equal(t, []string{"z"}, docs)

	// No temp files left behind after the rename.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestParseDecimal(t *testing.T) {
	d, ok := ParseDecimal(" 1,234.50 ")
	require.True(t, ok)
	require.Equal(t, "1234.5", d.String())

	_, ok = ParseDecimal("")
	require.False(t, ok)

	_, ok = ParseDecimal("abc")
	require.False(t, ok)

	d, ok = ParseDecimal("-7")
	require.True(t, ok)
	require.True(t, d.IsNegative())
}

func TestTimeRoundTrip(t *testing.T) {
	ts := time.Date(2024, 3, 15, 10, 30, 0, 0, time.Local)
	parsed, ok := ParseTime(FormatTime(ts))
	require.True(t, ok)
	require.True(t, parsed.Equal(ts))

	_, ok = ParseTime("2024-03-15")
	require.False(t, ok)
}

func TestNextID(t *testing.T) {
	require.Equal(t, int64(1), NextID(nil))
	require.Equal(t, int64(4), NextID([]int64{1, 3, 2}))
	require.Equal(t, int64(8), NextID([]int64{7, 2}))
}
