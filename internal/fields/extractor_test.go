package fields

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturascan/facturascan/internal/currency"
)

// stubCurrency converts with a fixed rate, bypassing the live service.
type stubCurrency struct {
	rate float64
}

func (s stubCurrency) Detect(text string) string {
	return currency.Detect(text)
}

func (s stubCurrency) ConvertToEUR(_ context.Context, amount float64, _ string) float64 {
	return amount / s.rate
}

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestExtractor(rate float64) *Extractor {
	return NewExtractor(stubCurrency{rate: rate}, Config{Now: func() time.Time { return testNow }}, nil)
}

func TestExtractCompleteInvoice(t *testing.T) {
	text := "Empresa Acme S.L.\n" +
		"Factura Nº: F-2024-001\n" +
		"Fecha: 15/01/2024\n" +
		"Concepto: Servicios de consultoría\n" +
		"Base imponible: 100,00\n" +
		"IVA: 21,00\n" +
		"Total: 121,00\n"

	rec, err := newTestExtractor(1).Extract(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, "15-01-2024", rec.Fecha)
	assert.Equal(t, "F-2024-001", rec.NumeroFactura)
	assert.Equal(t, "Empresa Acme S.L.", rec.Empresa)
	assert.Equal(t, "Servicios de consultoría", rec.Concepto)
	assert.Equal(t, "100,00", rec.BaseImponible)
	assert.Equal(t, "21,00", rec.IVA)
	assert.Equal(t, "0,00", rec.RetencionIRPF)
	assert.Equal(t, "121,00", rec.ImporteTotal)
	assert.Empty(t, rec.MonedaOriginal)
	assert.Empty(t, rec.ImporteOriginal)
}

func TestExtractDerivedTotal(t *testing.T) {
	text := "Despacho García\n" +
		"Base imponible: 100,00\n" +
		"IVA: 21,00\n" +
		"Retención IRPF: 15,00\n"

	rec, err := newTestExtractor(1).Extract(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, "100,00", rec.BaseImponible)
	assert.Equal(t, "21,00", rec.IVA)
	assert.Equal(t, "15,00", rec.RetencionIRPF)
	assert.Equal(t, "106,00", rec.ImporteTotal)
}

func TestExtractDefaultsOnGarbage(t *testing.T) {
	rec, err := newTestExtractor(1).Extract(context.Background(), "???\n!!!\n")
	require.NoError(t, err)

	assert.Equal(t, testNow.Format("02-01-2006"), rec.Fecha)
	ts := fmt.Sprintf("%d", testNow.UnixMilli())
	assert.Equal(t, "FAC-"+ts[len(ts)-6:], rec.NumeroFactura)
	assert.Equal(t, DefaultCompany, rec.Empresa)
	assert.Equal(t, DefaultConcept, rec.Concepto)
	assert.Equal(t, ZeroAmount, rec.BaseImponible)
	assert.Equal(t, ZeroAmount, rec.IVA)
	assert.Equal(t, ZeroAmount, rec.RetencionIRPF)
	assert.Equal(t, ZeroAmount, rec.ImporteTotal)
}

func TestExtractForeignCurrencyConvertsTotalOnly(t *testing.T) {
	text := "ACME Corp\n" +
		"Invoice #2024-100\n" +
		"Subtotal: 108,00 $\n"

	rec, err := newTestExtractor(1.08).Extract(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, "USD", rec.MonedaOriginal)
	assert.Equal(t, "108,00", rec.ImporteOriginal)
	assert.Equal(t, "100,00", rec.ImporteTotal)
	// The base keeps the source value; only the total is normalized.
	assert.Equal(t, "108,00", rec.BaseImponible)
}

func TestExtractInvoiceNumberPatterns(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"labeled with ordinal", "Factura Nº: F-2024-001", "F-2024-001"},
		{"labeled english", "Invoice number: INV-42", "INV-42"},
		{"bare label", "Número: 2024/0007", "2024/0007"},
		{"prefix code", "ref FAC-001234 adjunta", "001234"},
		{"generic code", "pedido AB-12345 recibido", "AB-12345"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := firstMatch(InvoiceNumberPatterns, tt.text)
			require.True(t, ok)
			assert.Equal(t, tt.want, m)
		})
	}

	_, ok := firstMatch(InvoiceNumberPatterns, "sin referencias aquí")
	assert.False(t, ok)
}

func TestExtractCompanyNameSkipsHeaderLines(t *testing.T) {
	text := "FACTURA\n" +
		"Nº 2024-001\n" +
		"Talleres Lopez, S.A.\n" +
		"Calle Mayor 1\n"

	assert.Equal(t, "Talleres Lopez, S.A.", extractCompanyName(text))
}

func TestExtractCompanyNameLengthBounds(t *testing.T) {
	long := "Empresa " + strings.Repeat("x", 120)
	text := "ab\n" + long + "\nServicios Integrales del Norte\n"
	assert.Equal(t, "Servicios Integrales del Norte", extractCompanyName(text))
}

func TestExtractConceptStopsAtAmountLabel(t *testing.T) {
	text := "Descripción: mantenimiento anual Total: 50,00"
	assert.Equal(t, "mantenimiento anual", extractConcept(text))
}
