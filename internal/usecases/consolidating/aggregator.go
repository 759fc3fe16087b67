// Package consolidating soma registros de entrega e deriva CTR, VTR, CPM e CPV.
package consolidating

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/media-delivery-dashboard/internal/domain"
	"github.com/vfg2006/media-delivery-dashboard/pkg/utils"
)

// accumulator soma o investimento em decimal para que o total não dependa da ordem de entrada
type accumulator struct {
	spend       decimal.Decimal
	impressions int64
	clicks      int64
	completions int64
	starts      int64
	visits      int64
	records     int
}

func (a *accumulator) add(r domain.DailyDeliveryRecord) {
	a.spend = a.spend.Add(decimal.NewFromFloat(r.Spend))
	a.impressions += domain.Int64Value(r.Impressions)
	a.clicks += domain.Int64Value(r.Clicks)
	a.completions += domain.Int64Value(r.Q100)
	a.starts += domain.Int64Value(r.Starts)
	a.visits += domain.Int64Value(r.Visits)
	a.records++
}

func (a *accumulator) metrics() domain.ConsolidatedMetrics {
	spend, _ := a.spend.Float64()
	impressions := float64(a.impressions)
	completions := float64(a.completions)

	// Exports só de vídeo não trazem impressões; nesse caso o VTR usa os starts
	vtrBase := impressions
	if vtrBase == 0 {
		vtrBase = float64(a.starts)
	}

	return domain.ConsolidatedMetrics{
		TotalSpend:       spend,
		TotalImpressions: a.impressions,
		TotalClicks:      a.clicks,
		TotalCompletions: a.completions,
		TotalStarts:      a.starts,
		TotalVisits:      a.visits,
		Records:          a.records,
		CTR:              utils.SafeDiv(float64(a.clicks), impressions),
		VTR:              utils.SafeDiv(completions, vtrBase),
		CPM:              utils.SafeDiv(spend, impressions) * 1000,
		CPV:              utils.SafeDiv(spend, completions),
	}
}

// Consolidate soma todos os registros. Lista vazia resulta em métricas zeradas.
func Consolidate(records []domain.DailyDeliveryRecord) domain.ConsolidatedMetrics {
	var acc accumulator
	for _, r := range records {
		acc.add(r)
	}
	return acc.metrics()
}

// ConsolidateByChannel agrupa por canal antes de somar; a soma dos TotalSpend por canal
// coincide com o TotalSpend de Consolidate.
func ConsolidateByChannel(records []domain.DailyDeliveryRecord) map[domain.ChannelKind]domain.ConsolidatedMetrics {
	accs := make(map[domain.ChannelKind]*accumulator)
	for _, r := range records {
		acc, ok := accs[r.Channel]
		if !ok {
			acc = &accumulator{}
			accs[r.Channel] = acc
		}
		acc.add(r)
	}

	out := make(map[domain.ChannelKind]domain.ConsolidatedMetrics, len(accs))
	for channel, acc := range accs {
		out[channel] = acc.metrics()
	}
	return out
}

// DailySeries consolida por data, em ordem cronológica
func DailySeries(records []domain.DailyDeliveryRecord) []domain.DailyTotals {
	accs := make(map[string]*accumulator)
	for _, r := range records {
		day := r.Date.Format(time.DateOnly)
		acc, ok := accs[day]
		if !ok {
			acc = &accumulator{}
			accs[day] = acc
		}
		acc.add(r)
	}

	days := make([]string, 0, len(accs))
	for day := range accs {
		days = append(days, day)
	}
	sort.Strings(days)

	series := make([]domain.DailyTotals, 0, len(days))
	for _, day := range days {
		series = append(series, domain.DailyTotals{
			Date:    day,
			Metrics: accs[day].metrics(),
		})
	}
	return series
}

// Filter mantém os registros dentro do intervalo de datas e dos canais pedidos
func Filter(records []domain.DailyDeliveryRecord, filters *domain.DeliveryFilters) []domain.DailyDeliveryRecord {
	if filters == nil {
		return records
	}

	out := make([]domain.DailyDeliveryRecord, 0, len(records))
	for _, r := range records {
		if !filters.HasChannel(r.Channel) || !filters.Contains(r.Date) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// SortRecords ordena por data, canal e criativo; usado só na apresentação
func SortRecords(records []domain.DailyDeliveryRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.Before(records[j].Date)
		}
		if records[i].Channel != records[j].Channel {
			return records[i].Channel < records[j].Channel
		}
		return records[i].Creative < records[j].Creative
	})
}
