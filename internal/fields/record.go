package fields

// InvoiceRecord is the structured output of extraction. All monetary fields
// are strings with the comma-decimal convention of the source documents;
// arithmetic happens on parsed float64 values and only formats back at this
// boundary.
type InvoiceRecord struct {
	Fecha         string `json:"fecha"`
	NumeroFactura string `json:"numeroFactura"`
	Empresa       string `json:"empresa"`
	Concepto      string `json:"concepto"`
	BaseImponible string `json:"baseImponible"`
	IVA           string `json:"iva"`
	RetencionIRPF string `json:"retencionIRPF"`
	ImporteTotal  string `json:"importeTotal"`

	// Set only when a non-EUR currency was detected in the source text.
	MonedaOriginal  string `json:"monedaOriginal,omitempty"`
	ImporteOriginal string `json:"importeOriginal,omitempty"`
}

// Placeholder values used when a field cannot be extracted.
const (
	DefaultCompany = "Empresa no identificada"
	DefaultConcept = "Servicios profesionales"
	ZeroAmount     = "0,00"
)
