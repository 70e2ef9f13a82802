package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSUpload(t *testing.T) {
	base := filepath.Join(t.TempDir(), "archivos")
	fs, err := NewFS(base)
	require.NoError(t, err)

	url, err := fs.Upload(context.Background(), []byte("%PDF"), "Empresa Acme SL 15-01-2024 121,00.pdf", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "Empresa Acme SL 15-01-2024 121,00.pdf"), url)

	data, err := os.ReadFile(url)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), data)
}

func TestFSUploadIntoFolder(t *testing.T) {
	base := filepath.Join(t.TempDir(), "archivos")
	fs, err := NewFS(base)
	require.NoError(t, err)

	url, err := fs.Upload(context.Background(), []byte("img"), "scan.jpg", "2024")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "2024", "scan.jpg"), url)
	assert.FileExists(t, url)
}
