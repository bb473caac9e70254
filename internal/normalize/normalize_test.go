package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"brazilian grouped", "1.234,56", 1234.56},
		{"us grouped", "1,234.56", 1234.56},
		{"plain dot", "1234.56", 1234.56},
		{"comma decimal", "7,24", 7.24},
		{"single dot decimal", "1.5", 1.5},
		{"integer", "42", 42},
		{"padded", "  10  ", 10},
		{"negative comma", "-3,5", 0},
		{"negative grouped", "-1.234,56", 0},
		{"empty", "", 0},
		{"garbage", "abc", 0},
		{"mixed garbage", "12abc", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseDecimal(tt.input), 1e-9)
		})
	}
}

func TestParseDecimalConventionsAgree(t *testing.T) {
	// The same amount written in either convention parses identically.
	assert.Equal(t, ParseDecimal("1.234,56"), ParseDecimal("1,234.56"))
	assert.Equal(t, ParseDecimal("1.234,56"), ParseDecimal("1234.56"))
}

func TestParseQty(t *testing.T) {
	assert.Equal(t, 3, ParseQty("3,7"))
	assert.Equal(t, 4, ParseQty("4"))
	assert.Equal(t, 0, ParseQty(""))
	assert.Equal(t, 1234, ParseQty("1.234,9"))
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Café", "cafe"},
		{"  CAFE  ", "cafe"},
		{"cafe", "cafe"},
		{"AÇÚCAR-01", "acucar-01"},
		{"Página Três", "pagina tres"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Canonical(tt.input), "input %q", tt.input)
	}
}

func TestCanonicalIdempotent(t *testing.T) {
	for _, s := range []string{"Café", "KIT-CAFÉ-3", "produto comum"} {
		once := Canonical(s)
		assert.Equal(t, once, Canonical(once))
	}
}

func TestIsTruthy(t *testing.T) {
	for _, s := range []string{"sim", "Sim", "SIM", "yes", "true", "1", " sim "} {
		assert.True(t, IsTruthy(s), "expected truthy: %q", s)
	}
	for _, s := range []string{"", "nao", "não", "no", "false", "0", "2"} {
		assert.False(t, IsTruthy(s), "expected falsy: %q", s)
	}
}
