package collecting

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shakinm/xlsReader/xls"
	"github.com/vfg2006/media-delivery-dashboard/internal/domain"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

var (
	ErrUnsupportedFormat = errors.New("formato de arquivo não suportado")
	ErrEmptyTable        = errors.New("arquivo sem cabeçalho ou sem linhas de dados")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table é o conteúdo tabular de um export: cabeçalho e linhas de dados
type Table struct {
	Header []string
	Rows   [][]any
}

func (t *Table) RawRows() []domain.RawRow {
	rows := make([]domain.RawRow, 0, len(t.Rows))
	for _, values := range t.Rows {
		rows = append(rows, domain.NewRawRow(t.Header, values))
	}
	return rows
}

// TableReader interpreta um arquivo de export pelo nome (extensão)
type TableReader interface {
	ReadTable(name string, r io.Reader) (*Table, error)
}

type tableReader struct{}

func NewTableReader() TableReader {
	return &tableReader{}
}

func (tableReader) ReadTable(name string, r io.Reader) (*Table, error) {
	grid, err := ReadGrid(name, r)
	if err != nil {
		return nil, err
	}
	return tableFromGrid(grid)
}

// ReadGrid devolve todas as células do arquivo sem separar cabeçalho. Usado também
// para exports de contrato, que são chave/valor.
func ReadGrid(name string, r io.Reader) ([][]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler arquivo: %w", err)
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".tsv", ".txt":
		return readDelimited(decodeText(data), '\t')
	case ".csv":
		text := decodeText(data)
		return readDelimited(text, detectDelimiter(text))
	case ".xlsx":
		return readXLSX(data)
	case ".xls":
		return readXLS(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// decodeText remove o BOM e converte de Windows-1252 quando o conteúdo não é UTF-8 válido
func decodeText(data []byte) []byte {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return data
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return data
	}
	return decoded
}

func detectDelimiter(text []byte) rune {
	firstLine := text
	for _, line := range bytes.Split(text, []byte("\n")) {
		if len(bytes.TrimSpace(line)) > 0 {
			firstLine = line
			break
		}
	}

	// em empate vence o ponto e vírgula: no padrão pt-BR a vírgula é o separador decimal
	best, bestCount := ';', bytes.Count(firstLine, []byte(";"))
	for _, candidate := range []rune{'\t', ','} {
		if n := bytes.Count(firstLine, []byte(string(candidate))); n > bestCount {
			best, bestCount = candidate, n
		}
	}
	if bestCount == 0 {
		return ','
	}
	return best
}

func readDelimited(text []byte, comma rune) ([][]any, error) {
	reader := csv.NewReader(bytes.NewReader(text))
	reader.Comma = comma
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("erro ao interpretar arquivo delimitado: %w", err)
	}

	grid := make([][]any, 0, len(records))
	for _, record := range records {
		grid = append(grid, stringsToAny(record))
	}
	return grid, nil
}

// readXLSX lê a primeira planilha. Células numéricas viram float64 para não passarem
// pela normalização de texto pt-BR, que trataria o ponto decimal como milhar.
func readXLSX(data []byte) ([][]any, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir planilha .xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyTable
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("erro ao ler planilha %s: %w", sheet, err)
	}

	grid := make([][]any, 0, len(rows))
	for i, row := range rows {
		values := make([]any, len(row))
		for j, raw := range row {
			values[j] = raw
			if raw == "" {
				continue
			}

			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				continue
			}
			cellType, err := f.GetCellType(sheet, cell)
			if err != nil {
				continue
			}
			if cellType == excelize.CellTypeUnset || cellType == excelize.CellTypeNumber {
				if n, err := strconv.ParseFloat(raw, 64); err == nil {
					values[j] = n
				}
			}
		}
		grid = append(grid, values)
	}
	return grid, nil
}

func readXLS(data []byte) ([][]any, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		// xlsx salvo com extensão .xls
		if grid, errX := readXLSX(data); errX == nil {
			return grid, nil
		}
		return nil, fmt.Errorf("erro ao abrir planilha .xls: %w", err)
	}

	if len(workbook.GetSheets()) == 0 {
		return nil, ErrEmptyTable
	}

	sheet, err := workbook.GetSheet(0)
	if err != nil {
		return nil, fmt.Errorf("erro ao obter planilha do arquivo .xls: %w", err)
	}

	var grid [][]any
	for _, row := range sheet.GetRows() {
		var values []any
		for _, cell := range row.GetCols() {
			text := cell.GetString()
			// Células numéricas expõem o mesmo valor como texto e como float
			if n, err := strconv.ParseFloat(text, 64); err == nil && n != 0 && n == cell.GetFloat64() {
				values = append(values, n)
				continue
			}
			values = append(values, text)
		}
		grid = append(grid, values)
	}
	return grid, nil
}

// tableFromGrid usa a primeira linha não vazia como cabeçalho e descarta linhas vazias
func tableFromGrid(grid [][]any) (*Table, error) {
	headerIdx := -1
	for i, row := range grid {
		if !isBlankRow(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, ErrEmptyTable
	}

	header := make([]string, len(grid[headerIdx]))
	for i, cell := range grid[headerIdx] {
		header[i] = strings.TrimSpace(fmt.Sprint(cell))
	}

	table := &Table{Header: header}
	for _, row := range grid[headerIdx+1:] {
		if isBlankRow(row) {
			continue
		}
		table.Rows = append(table.Rows, row)
	}

	if len(table.Rows) == 0 {
		return nil, ErrEmptyTable
	}
	return table, nil
}

// GridToStrings converte as células para texto; usado na leitura de contratos
func GridToStrings(grid [][]any) [][]string {
	out := make([][]string, 0, len(grid))
	for _, row := range grid {
		cells := make([]string, len(row))
		for i, cell := range row {
			switch v := cell.(type) {
			case nil:
			case string:
				cells[i] = v
			case float64:
				// formato pt-BR para que o normalizador leia o separador decimal corretamente
				cells[i] = strings.Replace(strconv.FormatFloat(v, 'f', -1, 64), ".", ",", 1)
			default:
				cells[i] = fmt.Sprint(v)
			}
		}
		out = append(out, cells)
	}
	return out
}

func isBlankRow(row []any) bool {
	for _, cell := range row {
		switch v := cell.(type) {
		case nil:
		case string:
			if strings.TrimSpace(v) != "" {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func stringsToAny(cells []string) []any {
	values := make([]any, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	return values
}
