package domain

// ConsolidatedMetrics é derivado do conjunto atual de registros; nunca é persistido como fonte
type ConsolidatedMetrics struct {
	TotalSpend       float64 `json:"total_spend"`
	TotalImpressions int64   `json:"total_impressions"`
	TotalClicks      int64   `json:"total_clicks"`
	TotalCompletions int64   `json:"total_completions"`
	TotalStarts      int64   `json:"total_starts"`
	TotalVisits      int64   `json:"total_visits"`
	Records          int     `json:"records"`
	CTR              float64 `json:"ctr"`
	VTR              float64 `json:"vtr"`
	CPM              float64 `json:"cpm"`
	CPV              float64 `json:"cpv"`
}

// DailyTotals é o total consolidado de uma data, usado na linha do tempo do dashboard
type DailyTotals struct {
	Date    string              `json:"date"`
	Metrics ConsolidatedMetrics `json:"metrics"`
}
