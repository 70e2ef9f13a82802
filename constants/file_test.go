package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapExtToFormat(t *testing.T) {
	assert.Equal(t, PDF, MapExtToFormat(".pdf"))
	assert.Equal(t, PDF, MapExtToFormat("PDF"))
	assert.Equal(t, IMAGE, MapExtToFormat(".JPG"))
	assert.Equal(t, IMAGE, MapExtToFormat("jpeg"))
	assert.Equal(t, IMAGE, MapExtToFormat(".png"))
	assert.Equal(t, "", MapExtToFormat(".txt"))
	assert.Equal(t, "", MapExtToFormat(""))
}

func TestMapMIMEToFormat(t *testing.T) {
	assert.Equal(t, PDF, MapMIMEToFormat("application/pdf"))
	assert.Equal(t, IMAGE, MapMIMEToFormat("image/png"))
	assert.Equal(t, IMAGE, MapMIMEToFormat(" IMAGE/JPEG "))
	assert.Equal(t, "", MapMIMEToFormat("text/plain"))
	assert.Equal(t, "", MapMIMEToFormat(""))
}
