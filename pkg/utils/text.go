package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlphanumericRegex = regexp.MustCompile(`[^A-Z0-9 ]+`)
	whitespaceRegex      = regexp.MustCompile(`\s+`)
)

// FoldText remove acentos, converte para maiúsculas e troca pontuação por espaço.
// "Valor Investido (R$)" e "valor_investido" resultam em "VALOR INVESTIDO R" e "VALOR INVESTIDO".
func FoldText(str string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}))
	result, _, err := transform.String(t, str)
	if err != nil {
		result = str
	}
	result = strings.ToUpper(result)
	result = strings.ReplaceAll(result, "_", " ")
	result = nonAlphanumericRegex.ReplaceAllString(result, " ")
	result = whitespaceRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// FoldKey é o FoldText sem espaços, usado como chave de comparação de cabeçalhos
func FoldKey(str string) string {
	return strings.ReplaceAll(FoldText(str), " ", "")
}
