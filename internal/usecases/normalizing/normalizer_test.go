package normalizing

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  *float64
	}{
		{name: "moeda com milhar e centavos", input: "R$ 1.234,56", want: ptr(1234.56)},
		{name: "moeda simples", input: "R$ 176,52", want: ptr(176.52)},
		{name: "moeda com NBSP", input: "R$\u00a0100,00", want: ptr(100)},
		{name: "inteiro com milhar", input: "11.613", want: ptr(11613)},
		{name: "milhões", input: "1.234.567", want: ptr(1234567)},
		{name: "negativo", input: "-R$ 10,50", want: ptr(-10.5)},
		{name: "percentual", input: "12,5%", want: ptr(12.5)},
		{name: "zero", input: "0", want: ptr(0)},
		{name: "float64", input: 11613.0, want: ptr(11613)},
		{name: "int", input: 50, want: ptr(50)},
		{name: "int64", input: int64(10), want: ptr(10)},
		{name: "json.Number", input: json.Number("42.5"), want: ptr(42.5)},
		{name: "decimal", input: decimal.RequireFromString("3.25"), want: ptr(3.25)},
		{name: "nil", input: nil, want: nil},
		{name: "vazio", input: "", want: nil},
		{name: "só espaços", input: "   ", want: nil},
		{name: "travessão", input: "—", want: nil},
		{name: "hífen", input: "-", want: nil},
		{name: "NaN textual", input: "NaN", want: nil},
		{name: "N/A", input: "#N/A", want: nil},
		{name: "NaN float", input: math.NaN(), want: nil},
		{name: "infinito", input: math.Inf(1), want: nil},
		{name: "texto", input: "Total", want: nil},
		{name: "moeda sem valor", input: "R$ -", want: nil},
		{name: "dois sinais", input: "10-20", want: nil},
		{name: "tipo desconhecido", input: struct{}{}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestNormalize_RoundTripPtBR(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		cents := rng.Int63n(10_000_000_000)
		if i%7 == 0 {
			cents = -cents
		}
		v := float64(cents) / 100

		s := formatPtBR(v)
		got := Normalize(s)
		require.NotNil(t, got, "entrada %q", s)
		assert.InDelta(t, v, *got, 1e-6, "entrada %q", s)

		got = Normalize("R$ " + s)
		require.NotNil(t, got, "entrada R$ %q", s)
		assert.InDelta(t, v, *got, 1e-6)
	}
}

func TestNormalize_NeverPanics(t *testing.T) {
	inputs := []any{
		"R$", "..", ",,", "1,2,3", "١٢٣", "\x00\xff", strings.Repeat("9", 400),
		[]byte("1,5"), (*float64)(nil), (*int64)(nil), map[string]int{}, []int{1},
	}

	for _, in := range inputs {
		assert.NotPanics(t, func() { Normalize(in) }, "entrada %v", in)
	}
}

func TestNormalizer_EnUS(t *testing.T) {
	n := NewNormalizer(EnUS)

	got := n.Normalize("$1,234.56")
	require.NotNil(t, got)
	assert.InDelta(t, 1234.56, *got, 1e-9)
	assert.Equal(t, "en-US", n.Locale().Name)
}

func TestNormalizeCount(t *testing.T) {
	got := NormalizeCount("11.613")
	require.NotNil(t, got)
	assert.Equal(t, int64(11613), *got)

	got = NormalizeCount(10.6)
	require.NotNil(t, got)
	assert.Equal(t, int64(11), *got)

	assert.Nil(t, NormalizeCount("—"))
	assert.Nil(t, NormalizeCount(1e300))
}

// formatPtBR formata como as planilhas: milhar com ponto, duas casas com vírgula
func formatPtBR(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}

	raw := fmt.Sprintf("%.2f", v)
	intPart, frac := raw[:len(raw)-3], raw[len(raw)-2:]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	out := b.String() + "," + frac
	if neg {
		out = "-" + out
	}
	return out
}
