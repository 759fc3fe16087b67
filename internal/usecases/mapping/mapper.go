// Package mapping converte linhas brutas de cada canal no registro canônico de entrega.
package mapping

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/vfg2006/media-delivery-dashboard/internal/domain"
	"github.com/vfg2006/media-delivery-dashboard/internal/usecases/normalizing"
	"github.com/vfg2006/media-delivery-dashboard/pkg/utils"
)

// RowMapper é a interface consumida pelo coletor
type RowMapper interface {
	MapRow(channel domain.ChannelKind, row domain.RawRow) *domain.DailyDeliveryRecord
}

type Mapper struct {
	normalizer *normalizing.Normalizer
	layouts    map[domain.ChannelKind]Layout
}

type Option func(*Mapper)

// WithNormalizer troca o normalizador numérico (padrão pt-BR)
func WithNormalizer(n *normalizing.Normalizer) Option {
	return func(m *Mapper) {
		m.normalizer = n
	}
}

// WithLayout registra ou substitui o layout de um canal
func WithLayout(channel domain.ChannelKind, layout Layout) Option {
	return func(m *Mapper) {
		m.layouts[channel] = layout
	}
}

func NewMapper(opts ...Option) *Mapper {
	m := &Mapper{
		normalizer: normalizing.NewNormalizer(normalizing.PtBR),
		layouts:    DefaultLayouts(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Layout retorna o layout registrado para o canal
func (m *Mapper) Layout(channel domain.ChannelKind) (Layout, bool) {
	l, ok := m.layouts[channel]
	return l, ok
}

// MapRow devolve nil quando a linha não tem data ou investimento positivo.
// Falhas em outras colunas só anulam o campo correspondente.
func (m *Mapper) MapRow(channel domain.ChannelKind, row domain.RawRow) (record *domain.DailyDeliveryRecord) {
	defer func() {
		if recover() != nil {
			record = nil
		}
	}()

	layout, ok := m.layouts[channel]
	if !ok {
		return nil
	}

	rawDate, ok := row.Get(layout.DateAliases...)
	if !ok {
		return nil
	}
	date, ok := ParseDate(rawDate)
	if !ok {
		return nil
	}

	spend := m.resolveSpend(layout, row)
	if spend == nil || *spend <= 0 {
		return nil
	}

	creative, _ := row.GetString(layout.CreativeAliases...)

	record = &domain.DailyDeliveryRecord{
		Date:     date,
		Channel:  channel,
		Creative: creative,
		Spend:    *spend,
	}

	switch channel.Category() {
	case domain.CategoryVideo:
		record.Starts = m.count(row, layout.StartsAliases)
		record.Q25 = m.count(row, layout.Q25Aliases)
		record.Q50 = m.count(row, layout.Q50Aliases)
		record.Q75 = m.count(row, layout.Q75Aliases)
		record.Q100 = m.count(row, layout.Q100Aliases)
	case domain.CategoryDisplay:
		record.Impressions = m.count(row, layout.ImpressionsAliases)
		record.Clicks = m.count(row, layout.ClicksAliases)
	}

	if len(layout.VisitsAliases) > 0 {
		record.Visits = m.count(row, layout.VisitsAliases)
	}

	return record
}

// MapRows aplica MapRow em lote e informa quantas linhas foram descartadas
func (m *Mapper) MapRows(channel domain.ChannelKind, rows []domain.RawRow) ([]domain.DailyDeliveryRecord, int) {
	records := make([]domain.DailyDeliveryRecord, 0, len(rows))
	rejected := 0

	for _, row := range rows {
		record := m.MapRow(channel, row)
		if record == nil {
			rejected++
			continue
		}
		records = append(records, *record)
	}

	return records, rejected
}

func (m *Mapper) resolveSpend(layout Layout, row domain.RawRow) *float64 {
	// Coluna nomeada no cabeçalho é a fonte do investimento, mesmo com célula vazia
	if row.Has(layout.SpendAliases...) {
		v, ok := row.Get(layout.SpendAliases...)
		if !ok {
			return nil
		}
		return m.normalizer.Normalize(v)
	}

	if !layout.SpendPositional {
		return nil
	}

	v, ok := row.Last()
	if !ok {
		return nil
	}
	return m.normalizer.Normalize(v)
}

func (m *Mapper) count(row domain.RawRow, aliases []string) *int64 {
	if len(aliases) == 0 {
		return nil
	}

	v, ok := row.Get(aliases...)
	if !ok {
		return nil
	}

	c := m.normalizer.NormalizeCount(v)
	if c == nil || *c < 0 {
		return nil
	}
	return c
}

var dateLayouts = []string{
	time.DateOnly,
	"02/01/2006",
	"02/01/06",
	"2006/01/02",
	"02-01-2006",
	"02.01.2006",
	time.DateTime,
	"2006-01-02T15:04:05",
	time.RFC3339,
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
}

// Intervalo plausível de datas seriais do Excel (1995 a 2100)
const (
	minExcelSerial = 35000
	maxExcelSerial = 73000
)

// ParseDate aceita time.Time, texto nos formatos usuais das plataformas e datas seriais do Excel
func ParseDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if d.IsZero() {
			return time.Time{}, false
		}
		return utils.DayUTC(d), true
	case *time.Time:
		if d == nil || d.IsZero() {
			return time.Time{}, false
		}
		return utils.DayUTC(*d), true
	case float64:
		return excelSerialToDate(d)
	case int:
		return excelSerialToDate(float64(d))
	case int64:
		return excelSerialToDate(float64(d))
	}

	s := strings.TrimSpace(fmt.Sprint(v))
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return utils.DayUTC(t), true
		}
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return excelSerialToDate(f)
	}

	return time.Time{}, false
}

func excelSerialToDate(serial float64) (time.Time, bool) {
	if math.IsNaN(serial) || serial < minExcelSerial || serial > maxExcelSerial {
		return time.Time{}, false
	}
	base := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, int(serial)), true
}
