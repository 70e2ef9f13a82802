package currency

import "regexp"

// ReferenceCurrency is the code all totals are normalized to.
const ReferenceCurrency = "EUR"

// Signature is one currency detection rule: symbol, ISO code or localized
// word. First match wins, so Detect relies on the slice ordering.
type Signature struct {
	Code    string
	Pattern *regexp.Regexp
}

// Signatures is the ordered detection rule list. EUR last so that an
// invoice mixing "€" with a foreign marker resolves to the foreign currency
// only when the foreign marker appears and the euro one does not win first.
// Exported so tests can exercise individual rules.
var Signatures = []Signature{
	{"USD", regexp.MustCompile(`(?i)\$|USD|dollar`)},
	{"GBP", regexp.MustCompile(`(?i)£|GBP|pound`)},
	{"CHF", regexp.MustCompile(`(?i)CHF|franc`)},
	{"JPY", regexp.MustCompile(`(?i)¥|JPY|yen`)},
	{"EUR", regexp.MustCompile(`(?i)€|EUR|euro`)},
}

// Detect implements detection on the service for callers holding one.
func (s *Service) Detect(text string) string {
	return Detect(text)
}

// Detect scans text against the ordered signature list and returns the first
// matching currency code, defaulting to the reference currency.
func Detect(text string) string {
	for _, sig := range Signatures {
		if sig.Pattern.MatchString(text) {
			return sig.Code
		}
	}
	return ReferenceCurrency
}
