package mapping

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/media-delivery-dashboard/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMapRow_TikTokDisplayRow(t *testing.T) {
	m := NewMapper()

	row := domain.RawRowFromMap(map[string]any{
		"By Day":          "2025-09-02",
		"Valor Investido": "R$ 176,52",
		"Impressions":     11613,
		"Clicks":          11,
	})

	record := m.MapRow(domain.ChannelTikTok, row)
	require.NotNil(t, record)

	assert.Equal(t, domain.ChannelTikTok, record.Channel)
	assert.Equal(t, date(2025, 9, 2), record.Date)
	assert.InDelta(t, 176.52, record.Spend, 1e-9)
	require.NotNil(t, record.Impressions)
	require.NotNil(t, record.Clicks)
	assert.Equal(t, int64(11613), *record.Impressions)
	assert.Equal(t, int64(11), *record.Clicks)
	assert.Nil(t, record.Starts)
	assert.Nil(t, record.Q100)
	assert.Nil(t, record.Visits)
	assert.Equal(t, "", record.Creative)
}

func TestMapRow_CTVRejectsNonPositiveSpend(t *testing.T) {
	m := NewMapper()

	rows := []domain.RawRow{
		domain.RawRowFromMap(map[string]any{"date": "2025-09-01", "spend": "R$ 100,00", "starts": 50, "q100": 10}),
		domain.RawRowFromMap(map[string]any{"date": "2025-09-01", "spend": "0", "starts": 5, "q100": 1}),
	}

	records, rejected := m.MapRows(domain.ChannelCTV, rows)
	require.Len(t, records, 1)
	assert.Equal(t, 1, rejected)

	r := records[0]
	assert.InDelta(t, 100.0, r.Spend, 1e-9)
	require.NotNil(t, r.Starts)
	require.NotNil(t, r.Q100)
	assert.Equal(t, int64(50), *r.Starts)
	assert.Equal(t, int64(10), *r.Q100)
	assert.Nil(t, r.Q25, "coluna ausente fica nil, não zero")
	assert.Nil(t, r.Impressions)
	assert.Nil(t, r.Clicks)
}

func TestMapRow_RejectionForEveryChannel(t *testing.T) {
	m := NewMapper()

	rejects := []struct {
		name string
		row  map[string]any
	}{
		{name: "sem data", row: map[string]any{"Spend": "R$ 10,00", "Impressions": 10}},
		{name: "data vazia", row: map[string]any{"Date": "", "Spend": "R$ 10,00"}},
		{name: "data inválida", row: map[string]any{"Date": "Total", "Spend": "R$ 10,00"}},
		{name: "investimento zero", row: map[string]any{"Date": "2025-09-01", "Spend": "R$ 0,00"}},
		{name: "investimento negativo", row: map[string]any{"Date": "2025-09-01", "Spend": "-5"}},
		{name: "investimento travessão", row: map[string]any{"Date": "2025-09-01", "Spend": "—"}},
		{name: "investimento ausente", row: map[string]any{"Date": "2025-09-01"}},
	}

	for _, channel := range domain.AllChannels() {
		for _, tt := range rejects {
			t.Run(channel.String()+"/"+tt.name, func(t *testing.T) {
				assert.Nil(t, m.MapRow(channel, domain.RawRowFromMap(tt.row)))
			})
		}
	}
}

func TestMapRow_ChannelTaggingAndMetricSubset(t *testing.T) {
	m := NewMapper()

	row := domain.RawRowFromMap(map[string]any{
		"Date":        "01/09/2025",
		"Creative":    "Peça 30s",
		"Spend":       "R$ 1.000,00",
		"Starts":      "1.000",
		"Q25":         "800",
		"Q50":         "600",
		"Q75":         "400",
		"Q100":        "200",
		"Impressions": "5.000",
		"Clicks":      "30",
		"Visitas":     "7",
	})

	for _, channel := range domain.AllChannels() {
		t.Run(channel.String(), func(t *testing.T) {
			record := m.MapRow(channel, row)
			require.NotNil(t, record)
			assert.Equal(t, channel, record.Channel)
			assert.Equal(t, "Peça 30s", record.Creative)
			assert.Equal(t, date(2025, 9, 1), record.Date)

			if channel.Category() == domain.CategoryVideo {
				require.NotNil(t, record.Q100)
				assert.Equal(t, int64(200), *record.Q100)
				assert.Equal(t, int64(1000), *record.Starts)
				assert.Nil(t, record.Impressions)
				assert.Nil(t, record.Clicks)
			} else {
				require.NotNil(t, record.Impressions)
				assert.Equal(t, int64(5000), *record.Impressions)
				assert.Equal(t, int64(30), *record.Clicks)
				assert.Nil(t, record.Starts)
				assert.Nil(t, record.Q100)
			}

			if channel == domain.ChannelFootfallDisplay {
				require.NotNil(t, record.Visits)
				assert.Equal(t, int64(7), *record.Visits)
			} else {
				assert.Nil(t, record.Visits)
			}
		})
	}
}

func TestMapRow_VideoSpendIsLastColumn(t *testing.T) {
	m := NewMapper()

	columns := []string{"Day", "Creative Name", "Video Starts", "First Quartile", "Midpoint", "Third Quartile", "Complete", "R$"}
	row := domain.NewRawRowFromStrings(columns, []string{"2025-09-03", "Disney 15s", "1.200", "1.000", "900", "800", "700", "R$ 2.345,67"})

	record := m.MapRow(domain.ChannelDisney, row)
	require.NotNil(t, record)
	assert.InDelta(t, 2345.67, record.Spend, 1e-9)
	assert.Equal(t, "Disney 15s", record.Creative)
	assert.Equal(t, int64(700), *record.Q100)
	assert.Equal(t, int64(1000), *record.Q25)

	// Última coluna vazia: não há investimento, a linha é descartada
	empty := domain.NewRawRowFromStrings(columns, []string{"2025-09-03", "Disney 15s", "1.200", "1.000", "900", "800", "700", ""})
	assert.Nil(t, m.MapRow(domain.ChannelDisney, empty))

	// Linha de total sem data
	total := domain.NewRawRowFromStrings(columns, []string{"Total", "", "12.000", "", "", "", "7.000", "R$ 23.456,70"})
	assert.Nil(t, m.MapRow(domain.ChannelDisney, total))
}

func TestMapRow_NamedSpendColumnIsAuthoritative(t *testing.T) {
	m := NewMapper()

	columns := []string{"Date", "Creative", "Spend", "Starts", "Q25", "Q50", "Q75", "Q100"}
	for _, spend := range []string{"", "—", "-", "  "} {
		t.Run("spend="+spend, func(t *testing.T) {
			row := domain.NewRawRowFromStrings(columns, []string{"2025-09-01", "c1", spend, "50", "40", "30", "20", "10"})
			assert.Nil(t, m.MapRow(domain.ChannelCTV, row), "investimento não pode vir da coluna Q100")
		})
	}

	row := domain.NewRawRowFromStrings(columns, []string{"2025-09-01", "c1", "R$ 80,00", "50", "40", "30", "20", "10"})
	record := m.MapRow(domain.ChannelCTV, row)
	require.NotNil(t, record)
	assert.InDelta(t, 80.0, record.Spend, 1e-9)
}

func TestMapRow_VideoTrailingDelimiter(t *testing.T) {
	m := NewMapper()

	columns := []string{"Date", "Creative", "Starts", "Q100", "R$", ""}
	row := domain.NewRawRowFromStrings(columns, []string{"2025-09-01", "c1", "50", "10", "R$ 100,00", ""})

	record := m.MapRow(domain.ChannelYouTube, row)
	require.NotNil(t, record)
	assert.InDelta(t, 100.0, record.Spend, 1e-9)
	assert.Equal(t, int64(10), *record.Q100)
}

func TestMapRow_DisplaySpendIsNotPositional(t *testing.T) {
	m := NewMapper()

	columns := []string{"Data", "Impressões", "Cliques", "Outro"}
	row := domain.NewRawRowFromStrings(columns, []string{"2025-09-03", "100", "2", "R$ 50,00"})

	assert.Nil(t, m.MapRow(domain.ChannelFootfallDisplay, row))
}

func TestMapRow_FieldFailureDegradesOnlyThatField(t *testing.T) {
	m := NewMapper()

	row := domain.RawRowFromMap(map[string]any{
		"Data":                  "2025-09-04",
		"VALOR DO INVESTIMENTO": "R$ 10,00",
		"Impressões":            "n/a",
		"Cliques":               "abc",
	})

	record := m.MapRow(domain.ChannelFootfallDisplay, row)
	require.NotNil(t, record)
	assert.Nil(t, record.Impressions)
	assert.Nil(t, record.Clicks)
	assert.InDelta(t, 10.0, record.Spend, 1e-9)
}

func TestMapRow_UnknownChannel(t *testing.T) {
	m := NewMapper()
	row := domain.RawRowFromMap(map[string]any{"Date": "2025-09-01", "Spend": "10"})
	assert.Nil(t, m.MapRow(domain.ChannelKind("radio"), row))
}

func TestMapRow_CustomLayout(t *testing.T) {
	m := NewMapper(WithLayout(domain.ChannelNetflix, Layout{
		DateAliases:     []string{"Dt"},
		SpendAliases:    []string{"Gasto"},
		Q100Aliases:     []string{"Fim"},
		CreativeAliases: []string{"Nome"},
	}))

	row := domain.RawRowFromMap(map[string]any{"Dt": "2025-09-05", "Gasto": "9,90", "Fim": "3"})
	record := m.MapRow(domain.ChannelNetflix, row)
	require.NotNil(t, record)
	assert.Equal(t, int64(3), *record.Q100)
	assert.Nil(t, record.Starts)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want time.Time
		ok   bool
	}{
		{name: "ISO", in: "2025-09-01", want: date(2025, 9, 1), ok: true},
		{name: "brasileiro", in: "01/09/2025", want: date(2025, 9, 1), ok: true},
		{name: "brasileiro ano curto", in: "01/09/25", want: date(2025, 9, 1), ok: true},
		{name: "com horário", in: "2025-09-01 13:45:00", want: date(2025, 9, 1), ok: true},
		{name: "time.Time", in: time.Date(2025, 9, 1, 22, 0, 0, 0, time.UTC), want: date(2025, 9, 1), ok: true},
		{name: "serial Excel", in: 45901.0, want: date(2025, 9, 1), ok: true},
		{name: "serial Excel texto", in: "45901", want: date(2025, 9, 1), ok: true},
		{name: "número pequeno", in: 12.0, ok: false},
		{name: "vazio", in: "", ok: false},
		{name: "nil", in: nil, ok: false},
		{name: "texto", in: "Total Geral", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
