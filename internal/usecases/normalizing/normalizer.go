// Package normalizing converte valores numéricos formatados por localidade (R$ 1.234,56) em float64.
package normalizing

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Locale descreve a formatação numérica de uma planilha
type Locale struct {
	Name            string
	Thousands       string
	Decimal         string
	CurrencySymbols []string
}

var (
	// PtBR é o formato das exportações das plataformas: R$ 1.234,56
	PtBR = Locale{
		Name:            "pt-BR",
		Thousands:       ".",
		Decimal:         ",",
		CurrencySymbols: []string{"R$", "BRL"},
	}

	// EnUS existe para exports que já chegam com ponto decimal: $1,234.56
	EnUS = Locale{
		Name:            "en-US",
		Thousands:       ",",
		Decimal:         ".",
		CurrencySymbols: []string{"US$", "USD", "$"},
	}
)

// Valores textuais que representam célula vazia
var nullTokens = map[string]struct{}{
	"nan":  {},
	"null": {},
	"none": {},
	"nil":  {},
	"n/a":  {},
	"na":   {},
	"#n/a": {},
	"-":    {},
	"--":   {},
	"—":    {},
	"–":    {},
}

type Normalizer struct {
	locale Locale
}

func NewNormalizer(locale Locale) *Normalizer {
	return &Normalizer{locale: locale}
}

var defaultNormalizer = NewNormalizer(PtBR)

// Normalize usa o formato pt-BR
func Normalize(value any) *float64 {
	return defaultNormalizer.Normalize(value)
}

// NormalizeCount usa o formato pt-BR
func NormalizeCount(value any) *int64 {
	return defaultNormalizer.NormalizeCount(value)
}

func (n *Normalizer) Locale() Locale {
	return n.locale
}

// Normalize converte o valor em float64. Qualquer entrada malformada resulta em nil;
// a função nunca entra em pânico. Não há arredondamento.
func (n *Normalizer) Normalize(value any) (result *float64) {
	defer func() {
		if recover() != nil {
			result = nil
		}
	}()

	switch v := value.(type) {
	case nil:
		return nil
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return ptr(float64(v))
	case int8:
		return ptr(float64(v))
	case int16:
		return ptr(float64(v))
	case int32:
		return ptr(float64(v))
	case int64:
		return ptr(float64(v))
	case uint:
		return ptr(float64(v))
	case uint8:
		return ptr(float64(v))
	case uint16:
		return ptr(float64(v))
	case uint32:
		return ptr(float64(v))
	case uint64:
		return ptr(float64(v))
	case *float64:
		if v == nil {
			return nil
		}
		return finite(*v)
	case *int64:
		if v == nil {
			return nil
		}
		return ptr(float64(*v))
	case decimal.Decimal:
		f, _ := v.Float64()
		return finite(f)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil
		}
		return finite(f)
	case string:
		return n.parseString(v)
	case []byte:
		return n.parseString(string(v))
	case fmt.Stringer:
		return n.parseString(v.String())
	default:
		return nil
	}
}

// NormalizeCount arredonda para o inteiro mais próximo; usado em contadores (impressões, views)
func (n *Normalizer) NormalizeCount(value any) *int64 {
	f := n.Normalize(value)
	if f == nil {
		return nil
	}
	if math.Abs(*f) > math.MaxInt64/2 {
		return nil
	}
	c := int64(math.Round(*f))
	return &c
}

func (n *Normalizer) parseString(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	if _, isNull := nullTokens[strings.ToLower(s)]; isNull {
		return nil
	}

	for _, symbol := range n.locale.CurrencySymbols {
		s = strings.ReplaceAll(s, symbol, "")
		s = strings.ReplaceAll(s, strings.ToLower(symbol), "")
	}

	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == ' ' {
			return -1
		}
		return r
	}, s)

	if n.locale.Thousands != "" {
		s = strings.ReplaceAll(s, n.locale.Thousands, "")
	}
	if n.locale.Decimal != "" && n.locale.Decimal != "." {
		s = strings.ReplaceAll(s, n.locale.Decimal, ".")
	}

	// Resíduos (%, letras, parênteses) são descartados; só dígitos, sinal e ponto sobrevivem
	s = strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '-' || r == '.' {
			return r
		}
		return -1
	}, s)
	if s == "" || s == "-" || s == "." {
		return nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}

	f, _ := d.Float64()
	return finite(f)
}

func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func ptr(f float64) *float64 {
	return &f
}
