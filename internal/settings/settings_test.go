package settings

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMissingFileUsesDefaults(t *testing.T) {
	svc := NewService(t.TempDir(), testLogger())
	require.Equal(t, Defaults, svc.Get())
}

func TestUpdateMergesDefaultsAndPersists(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir, testLogger())

	saved, err := svc.Update(Company{Name: "Eaze Inn", GSTIN: "29ABCDE1234F1Z5"})
	require.NoError(t, err)
	require.Equal(t, "Eaze Inn", saved.Name)
	require.Equal(t, Defaults.Address, saved.Address)
	require.Equal(t, "29ABCDE1234F1Z5", saved.GSTIN)

	reloaded := NewService(dir, testLogger())
	require.Equal(t, saved, reloaded.Get())
}

func TestCorruptFileFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.json"), []byte("{broken"), 0o644))
	svc := NewService(dir, testLogger())
	require.Equal(t, Defaults, svc.Get())
}

func TestFormatAmount(t *testing.T) {
	svc := NewService(t.TempDir(), testLogger())

	require.Equal(t, "₹1,234.50", svc.FormatAmount(decimal.RequireFromString("1234.5")))
	require.Equal(t, "₹0.00", svc.FormatAmount(decimal.Zero))
	require.Equal(t, "₹291.00", svc.FormatAmount(decimal.RequireFromString("291")))
	require.Equal(t, "₹-80.00", svc.FormatAmount(decimal.RequireFromString("-80")))
	require.Equal(t, "₹2.57", svc.FormatAmount(decimal.RequireFromString("2.567")))
}
