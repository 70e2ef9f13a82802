package destination

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturascan/facturascan/internal/common"
)

type fakeSettings struct {
	sheetID  string
	folderID string
	err      error
}

func (f *fakeSettings) SheetID() (string, error)             { return f.sheetID, f.err }
func (f *fakeSettings) SetSheetID(id string) error           { f.sheetID = id; return nil }
func (f *fakeSettings) DriveFolderID() (string, error)       { return f.folderID, f.err }
func (f *fakeSettings) SetDriveFolderID(id string) error     { f.folderID = id; return nil }
func (f *fakeSettings) ManualRates() (map[string]float64, error) {
	return map[string]float64{}, nil
}
func (f *fakeSettings) SetManualRate(string, float64) error { return nil }
func (f *fakeSettings) DeleteManualRate(string) error       { return nil }
func (f *fakeSettings) Close() error                        { return nil }

func TestResolverOverrideWinsOverDefault(t *testing.T) {
	r := NewResolver(&fakeSettings{sheetID: "override", folderID: "carpeta"}, "default", "raiz")

	id, err := r.SpreadsheetID()
	require.NoError(t, err)
	assert.Equal(t, "override", id)
	assert.Equal(t, "carpeta", r.DriveFolderID())
}

func TestResolverFallsBackToDefault(t *testing.T) {
	r := NewResolver(&fakeSettings{}, "default", "raiz")

	id, err := r.SpreadsheetID()
	require.NoError(t, err)
	assert.Equal(t, "default", id)
	assert.Equal(t, "raiz", r.DriveFolderID())
}

func TestResolverUnconfigured(t *testing.T) {
	r := NewResolver(&fakeSettings{}, "", "")

	_, err := r.SpreadsheetID()
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrDestinationNotConfigured))
	assert.Empty(t, r.DriveFolderID())
}

func TestResolverIgnoresStoreErrors(t *testing.T) {
	r := NewResolver(&fakeSettings{sheetID: "x", err: errors.New("db closed")}, "default", "raiz")

	id, err := r.SpreadsheetID()
	require.NoError(t, err)
	assert.Equal(t, "default", id)
	assert.Equal(t, "raiz", r.DriveFolderID())
}
