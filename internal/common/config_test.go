package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, int64(20<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, "spa", cfg.OCR.TesseractLang)
	assert.Equal(t, 300, cfg.OCR.DPI)
	assert.False(t, cfg.OCR.EnablePDFOCR)
	assert.True(t, cfg.OCR.Preprocess)
	assert.Equal(t, "https://api.exchangerate-api.com/v4/latest/EUR", cfg.Currency.APIURL)
	assert.Equal(t, time.Hour, cfg.Currency.MaxAge)
	assert.Equal(t, "facturascan.db", cfg.Store.Path)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("TESSERACT_LANG", "spa+eng")
	t.Setenv("ENABLE_PDF_OCR", "true")
	t.Setenv("EXCHANGE_RATE_MAX_AGE", "30m")
	t.Setenv("GOOGLE_SHEETS_ID", "1AbC")

	cfg := LoadConfig()
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, "spa+eng", cfg.OCR.TesseractLang)
	assert.True(t, cfg.OCR.EnablePDFOCR)
	assert.Equal(t, 30*time.Minute, cfg.Currency.MaxAge)
	assert.Equal(t, "1AbC", cfg.Sheets.SpreadsheetID)
}

func TestEnvHelpersIgnoreMalformedValues(t *testing.T) {
	t.Setenv("OCR_DPI", "not-a-number")
	t.Setenv("ENABLE_PDF_OCR", "yes-please")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	cfg := LoadConfig()
	assert.Equal(t, 300, cfg.OCR.DPI)
	assert.False(t, cfg.OCR.EnablePDFOCR)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
}
