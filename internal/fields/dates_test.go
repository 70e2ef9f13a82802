package fields

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDate(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"slash", "15/01/2024", "15-01-2024"},
		{"dash", "15-01-2024", "15-01-2024"},
		{"dot", "15.01.2024", "15-01-2024"},
		{"two digit year", "15/01/24", "15-01-2024"},
		{"long form", "15 de enero de 2024", "15-01-2024"},
		{"long form single digit day", "3 de marzo de 2023", "03-03-2023"},
		{"invalid day", "32/01/2024", "15-06-2024"},
		{"invalid month", "15 de frutero de 2024", "15-06-2024"},
		{"garbage", "mañana", "15-06-2024"},
		{"empty", "", "15-06-2024"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeDate(tt.in, now))
		})
	}
}
