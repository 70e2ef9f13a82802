package fields

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/facturascan/facturascan/internal/currency"
)

// CurrencyNormalizer is the subset of the currency service the extractor
// needs for post-processing.
type CurrencyNormalizer interface {
	Detect(text string) string
	ConvertToEUR(ctx context.Context, amount float64, fromCurrency string) float64
}

// Config makes the extractor's ambient inputs explicit so tests stay
// deterministic.
type Config struct {
	// Now supplies the clock used for default dates and synthesized
	// invoice numbers. Defaults to time.Now.
	Now func() time.Time
}

// Extractor turns raw extracted text into an InvoiceRecord using ordered
// pattern rules with fixed fallback defaults. Stateless given its
// dependencies.
type Extractor struct {
	currency CurrencyNormalizer
	logger   *slog.Logger
	now      func() time.Time
}

func NewExtractor(cn CurrencyNormalizer, cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Extractor{currency: cn, logger: logger, now: now}
}

// Extract parses rawText into a complete InvoiceRecord. It never fails for
// unparseable input: every field has a documented default.
func (e *Extractor) Extract(ctx context.Context, rawText string) (*InvoiceRecord, error) {
	rec := &InvoiceRecord{
		Fecha:         e.extractDate(rawText),
		NumeroFactura: e.extractInvoiceNumber(rawText),
		Empresa:       extractCompanyName(rawText),
		Concepto:      extractConcept(rawText),
	}
	e.extractAmounts(rawText, rec)

	// Currency post-processing: only the total is converted; base and IVA
	// stay as extracted from the source document.
	detected := e.currency.Detect(rawText)
	if detected != currency.ReferenceCurrency {
		rec.MonedaOriginal = detected
		rec.ImporteOriginal = rec.ImporteTotal
		converted := e.currency.ConvertToEUR(ctx, ParseAmount(rec.ImporteTotal), detected)
		rec.ImporteTotal = FormatEUR(converted)
		e.logger.Info("fields.currency_converted",
			"currency", detected,
			"original", rec.ImporteOriginal,
			"converted", rec.ImporteTotal,
		)
	}

	return rec, nil
}

func (e *Extractor) extractDate(text string) string {
	if m, ok := firstMatch(DatePatterns, text); ok {
		return normalizeDate(m, e.now())
	}
	return e.now().Format(dateLayout)
}

func (e *Extractor) extractInvoiceNumber(text string) string {
	if m, ok := firstMatch(InvoiceNumberPatterns, text); ok {
		return strings.TrimSpace(m)
	}
	// Synthesized id from the current timestamp, matching the source
	// convention of FAC- plus the last six digits.
	ts := fmt.Sprintf("%d", e.now().UnixMilli())
	return "FAC-" + ts[len(ts)-6:]
}

func extractCompanyName(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	for i := 0; i < len(lines) && i < 5; i++ {
		line := lines[i]
		if reHeaderLine.MatchString(line) {
			continue
		}
		if len(line) <= 3 || len(line) >= 100 {
			continue
		}
		cleaned := strings.TrimSpace(reCompanyNoise.ReplaceAllString(line, ""))
		if len(cleaned) > 3 {
			return cleaned
		}
	}
	return DefaultCompany
}

func extractConcept(text string) string {
	for _, p := range ConceptPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			concept := strings.TrimSpace(m[1])
			if concept == "" {
				continue
			}
			if len(concept) > 100 {
				concept = concept[:100]
			}
			return concept
		}
	}
	return DefaultConcept
}

func (e *Extractor) extractAmounts(text string, rec *InvoiceRecord) {
	rec.BaseImponible = matchAmount(BasePatterns, text)
	rec.IVA = matchAmount(IVAPatterns, text)
	rec.RetencionIRPF = matchAmount(IRPFPatterns, text)
	rec.ImporteTotal = matchAmount(TotalPatterns, text)

	// Derived total: when no total was matched but the base was, compute
	// total = base + iva - irpf.
	if rec.ImporteTotal == ZeroAmount && rec.BaseImponible != ZeroAmount {
		total := ParseAmount(rec.BaseImponible) + ParseAmount(rec.IVA) - ParseAmount(rec.RetencionIRPF)
		rec.ImporteTotal = FormatEUR(total)
	}
}

func matchAmount(patterns []*regexp.Regexp, text string) string {
	if m, ok := firstMatch(patterns, text); ok {
		return FormatAmount(m)
	}
	return ZeroAmount
}
