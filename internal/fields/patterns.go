package fields

import "regexp"

// Per-field ordered pattern lists. First successful match wins; order is
// load-bearing and exported so tests can target individual rules.

// DatePatterns: labeled date, bare numeric date, long-form Spanish date.
var DatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:fecha\s+de\s+emisi[oó]n|fecha\s+factura|fecha|date)[:\s]*(\d{1,2}[/.\-]\d{1,2}[/.\-]\d{2,4})`),
	regexp.MustCompile(`(\d{1,2}[/.\-]\d{1,2}[/.\-]\d{2,4})`),
	regexp.MustCompile(`(?i)(\d{1,2}\s+de\s+[a-z]+\s+de\s+\d{4})`),
}

// InvoiceNumberPatterns: labeled number, prefix-code, generic code.
// The last rule is deliberately case-sensitive: lowercase runs of letters
// followed by digits are far more often words than invoice codes.
var InvoiceNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:factura|invoice)\s*(?:n[º°o]\.?|n[uú]m(?:ero)?\.?|number)?[:\s#]*([A-Z0-9][A-Z0-9/-]*)`),
	regexp.MustCompile(`(?i)(?:n[º°]|n[uú]mero|number)[:\s#]*([A-Z0-9][A-Z0-9/-]*)`),
	regexp.MustCompile(`(?i)\b(?:FAC|INV|F)[:\s\-]*(\d+)`),
	regexp.MustCompile(`([A-Z]{2,}-?\d{3,})`),
}

// ConceptPatterns capture up to a line break or a following total/importe
// label.
var ConceptPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:concepto|descripci[oó]n|description|servicio|producto)[:\s]*(.*?)(?:\n|total|importe)`),
	regexp.MustCompile(`(?i)(?:por|for)[:\s]*(.*?)(?:\n|total|importe)`),
}

// Amount pattern lists, one per monetary field.
var (
	BasePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:base\s+imponible|subtotal|base)[:\s]*([0-9.,]+)`),
		regexp.MustCompile(`(?i)(?:neto|net)[:\s]*([0-9.,]+)`),
	}
	IVAPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:iva|vat|tax)[:\s]*([0-9.,]+)`),
		regexp.MustCompile(`(?i)(?:21%|iva\s*21)[:\s]*([0-9.,]+)`),
	}
	IRPFPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:irpf|retenci[oó]n)[:\s]*([0-9.,]+)`),
		regexp.MustCompile(`(?i)(?:15%|irpf\s*15)[:\s]*([0-9.,]+)`),
	}
	TotalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:importe\s+total|total\s+factura|invoice\s+total|total|amount)[:\s]*([0-9.,]+)`),
		regexp.MustCompile(`(?i)(?:€|EUR)[:\s]*([0-9.,]+)`),
	}
)

// reHeaderLine matches lines that are document chrome rather than a company
// name.
var reHeaderLine = regexp.MustCompile(`(?i)^(factura|invoice|fecha|date|n[º°])`)

// reCompanyNoise strips punctuation that OCR tends to sprinkle around
// letterheads.
var reCompanyNoise = regexp.MustCompile(`[^\w\s.,\-]`)

// firstMatch runs the ordered pattern list against text and returns the
// first capture group of the first matching pattern.
func firstMatch(patterns []*regexp.Regexp, text string) (string, bool) {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return m[1], true
		}
	}
	return "", false
}
