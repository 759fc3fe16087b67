package domain

import (
	"fmt"
	"strings"

	"github.com/vfg2006/media-delivery-dashboard/pkg/utils"
)

// RawRow é uma linha de export ainda não interpretada, com acesso por nome de coluna e por posição
type RawRow struct {
	Columns []string
	Values  []any

	index map[string]int
}

func NewRawRow(columns []string, values []any) RawRow {
	row := RawRow{
		Columns: columns,
		Values:  values,
		index:   make(map[string]int, len(columns)),
	}

	for i, col := range columns {
		key := utils.FoldKey(col)
		if key == "" {
			continue
		}
		// Colunas duplicadas: vale a primeira
		if _, exists := row.index[key]; !exists {
			row.index[key] = i
		}
	}

	return row
}

// NewRawRowFromStrings monta a linha a partir das células lidas de um arquivo tabular
func NewRawRowFromStrings(columns []string, cells []string) RawRow {
	values := make([]any, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	return NewRawRow(columns, values)
}

// RawRowFromMap monta uma linha a partir de um mapa coluna → valor (ordem das colunas não garantida)
func RawRowFromMap(m map[string]any) RawRow {
	columns := make([]string, 0, len(m))
	values := make([]any, 0, len(m))
	for k, v := range m {
		columns = append(columns, k)
		values = append(values, v)
	}
	return NewRawRow(columns, values)
}

func (r RawRow) Len() int {
	return len(r.Values)
}

// Get resolve o primeiro alias presente no cabeçalho; a comparação ignora caixa, acentos e espaços
func (r RawRow) Get(aliases ...string) (any, bool) {
	if r.index == nil {
		r = NewRawRow(r.Columns, r.Values)
	}

	for _, alias := range aliases {
		i, ok := r.index[utils.FoldKey(alias)]
		if !ok || i >= len(r.Values) {
			continue
		}
		return r.Values[i], true
	}

	return nil, false
}

// GetString é o Get com o valor convertido para texto sem espaços nas bordas
func (r RawRow) GetString(aliases ...string) (string, bool) {
	v, ok := r.Get(aliases...)
	if !ok || v == nil {
		return "", false
	}
	s := strings.TrimSpace(fmt.Sprint(v))
	return s, s != ""
}

// Has informa se algum dos aliases existe no cabeçalho, independente do valor da célula
func (r RawRow) Has(aliases ...string) bool {
	if r.index == nil {
		r = NewRawRow(r.Columns, r.Values)
	}

	for _, alias := range aliases {
		if _, ok := r.index[utils.FoldKey(alias)]; ok {
			return true
		}
	}
	return false
}

// Last retorna a célula da última coluna nomeada do cabeçalho (ou da linha, quando não há cabeçalho).
// Colunas finais sem nome (delimitador sobrando no fim do export) são ignoradas.
// Célula vazia ou ausente conta como não encontrada.
func (r RawRow) Last() (any, bool) {
	i := len(r.Values) - 1
	if len(r.Columns) > 0 {
		i = len(r.Columns) - 1
		for i >= 0 && strings.TrimSpace(r.Columns[i]) == "" {
			i--
		}
	}
	if i < 0 || i >= len(r.Values) {
		return nil, false
	}

	v := r.Values[i]
	if v == nil {
		return nil, false
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return nil, false
	}
	return v, true
}
