package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/facturascan/facturascan/internal/destination"
	"github.com/facturascan/facturascan/internal/fields"
)

func TestRenderXLSX(t *testing.T) {
	recs := []*fields.InvoiceRecord{
		{
			Fecha:         "15-01-2024",
			NumeroFactura: "F-2024-001",
			Empresa:       "Empresa Acme S.L.",
			Concepto:      "Consultoría",
			BaseImponible: "100,00",
			IVA:           "21,00",
			RetencionIRPF: "0,00",
			ImporteTotal:  "121,00",
		},
		nil,
		{
			Fecha:           "20-02-2024",
			NumeroFactura:   "INV-7",
			Empresa:         "ACME Corp",
			ImporteTotal:    "100,00",
			MonedaOriginal:  "USD",
			ImporteOriginal: "108,00",
		},
	}

	data, err := NewService(nil).RenderXLSX(recs)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Facturas")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, destination.Headers, rows[0])
	assert.Equal(t, "F-2024-001", rows[1][1])
	assert.Equal(t, "EUR", rows[1][8])
	assert.Equal(t, "USD", rows[2][8])
	assert.Equal(t, "108,00", rows[2][9])
}

func TestRenderXLSXEmpty(t *testing.T) {
	data, err := NewService(nil).RenderXLSX(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Facturas")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, destination.Headers, rows[0])
}
