package fields

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Spanish invoice date output format: day-month-year with dashes.
const dateLayout = "02-01-2006"

var spanishMonths = map[string]time.Month{
	"enero":      time.January,
	"febrero":    time.February,
	"marzo":      time.March,
	"abril":      time.April,
	"mayo":       time.May,
	"junio":      time.June,
	"julio":      time.July,
	"agosto":     time.August,
	"septiembre": time.September,
	"setiembre":  time.September,
	"octubre":    time.October,
	"noviembre":  time.November,
	"diciembre":  time.December,
}

var (
	reNumericDate  = regexp.MustCompile(`^(\d{1,2})[/.\-](\d{1,2})[/.\-](\d{2,4})$`)
	reLongFormDate = regexp.MustCompile(`(?i)^(\d{1,2})\s+de\s+([a-z]+)\s+de\s+(\d{4})$`)
)

// normalizeDate converts a matched date substring to day-month-year with
// dash separators. Unparseable input falls back to the current date.
func normalizeDate(raw string, now time.Time) string {
	raw = strings.TrimSpace(raw)

	if m := reNumericDate.FindStringSubmatch(raw); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
		if day >= 1 && day <= 31 && month >= 1 && month <= 12 {
			return fmt.Sprintf("%02d-%02d-%04d", day, month, year)
		}
	}

	if m := reLongFormDate.FindStringSubmatch(raw); m != nil {
		day, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[3])
		if month, ok := spanishMonths[strings.ToLower(m[2])]; ok && day >= 1 && day <= 31 {
			return fmt.Sprintf("%02d-%02d-%04d", day, int(month), year)
		}
	}

	return now.Format(dateLayout)
}
