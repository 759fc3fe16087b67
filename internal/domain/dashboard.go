package domain

import "time"

// ChannelDashboard agrupa as métricas e o pacing de um canal
type ChannelDashboard struct {
	Metrics ConsolidatedMetrics `json:"metrics"`
	Pacing  *ChannelPacing      `json:"pacing"`
}

// FailedSource descreve um arquivo que não contribuiu com registros
type FailedSource struct {
	Channel ChannelKind `json:"channel"`
	Name    string      `json:"name"`
	Reason  string      `json:"reason"`
}

// DashboardData é o payload consumido pela camada de templates do dashboard
type DashboardData struct {
	BatchID       string                            `json:"batch_id"`
	LastUpdated   time.Time                         `json:"last_updated"`
	Filters       *DeliveryFilters                  `json:"filters,omitempty"`
	Consolidated  ConsolidatedMetrics               `json:"consolidated"`
	Channels      map[ChannelKind]*ChannelDashboard `json:"channels"`
	Overall       OverallPacing                     `json:"overall_pacing"`
	Timeline      []DailyTotals                     `json:"timeline"`
	Daily         []DailyDeliveryRecord             `json:"daily"`
	FailedSources []FailedSource                    `json:"failed_sources,omitempty"`
}

// DashboardSnapshot é uma execução persistida pelo agendador
type DashboardSnapshot struct {
	ID        int64          `json:"id"`
	BatchID   string         `json:"batch_id"`
	StartDate time.Time      `json:"start_date"`
	EndDate   time.Time      `json:"end_date"`
	Data      *DashboardData `json:"data"`
	CreatedAt time.Time      `json:"created_at"`
}
