package fields

import (
	"regexp"
	"strconv"
	"strings"
)

var reNonAmount = regexp.MustCompile(`[^\d.,]`)

// ParseAmount parses a comma-decimal amount string into a float64.
// Thousands separators are tolerated; malformed input parses as zero.
func ParseAmount(s string) float64 {
	cleaned := reNonAmount.ReplaceAllString(s, "")
	if cleaned == "" {
		return 0
	}
	if strings.Contains(cleaned, ",") {
		// Comma is the decimal separator; dots are thousands noise.
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
		// A second comma means the input is garbage.
		if strings.Contains(cleaned, ",") {
			return 0
		}
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}

// FormatAmount normalizes a raw matched amount substring to two decimals
// with a comma separator. Malformed input formats as "0,00".
func FormatAmount(raw string) string {
	return FormatEUR(ParseAmount(raw))
}

// FormatEUR renders an amount with two decimals and a comma separator.
func FormatEUR(v float64) string {
	return strings.Replace(strconv.FormatFloat(v, 'f', 2, 64), ".", ",", 1)
}
