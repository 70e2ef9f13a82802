package fields

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"100,00", 100.0},
		{"1.234,56", 1234.56},
		{"121,00 €", 121.0},
		{"100.50", 100.50},
		{"0,00", 0},
		{"", 0},
		{"abc", 0},
		{"1,2,3", 0},
		{"  21,5 ", 21.5},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAmount(tt.in))
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"100", "100,00"},
		{"1.234,5", "1234,50"},
		{"garbage", "0,00"},
		{"121,004", "121,00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(tt.in), "input %q", tt.in)
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	for _, a := range []float64{0, 0.01, 1, 99.99, 100, 1234.56, 161.50, 100000.05} {
		t.Run(fmt.Sprintf("%v", a), func(t *testing.T) {
			assert.InDelta(t, a, ParseAmount(FormatEUR(a)), 0.005)
		})
	}
}
