// Package dashboarding executa o pipeline completo: coleta, filtro, consolidação e pacing.
package dashboarding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vfg2006/media-delivery-dashboard/internal/domain"
	"github.com/vfg2006/media-delivery-dashboard/internal/usecases/collecting"
	"github.com/vfg2006/media-delivery-dashboard/internal/usecases/consolidating"
	"github.com/vfg2006/media-delivery-dashboard/internal/usecases/reconciling"
	"github.com/vfg2006/media-delivery-dashboard/pkg/log"
	"github.com/vfg2006/media-delivery-dashboard/pkg/telemetry"
)

var (
	ErrNoExports       = errors.New("nenhum arquivo de export encontrado")
	ErrIngestionFailed = errors.New("nenhum arquivo de export pôde ser lido")
)

// Service não guarda estado entre chamadas: cada BuildDashboard relê os exports
type Service struct {
	source     Source
	collector  *collecting.Collector
	reconciler *reconciling.Reconciler
	metrics    *telemetry.Metrics
	now        func() time.Time
}

func NewService(
	source Source,
	collector *collecting.Collector,
	reconciler *reconciling.Reconciler,
	metrics *telemetry.Metrics,
) *Service {
	return &Service{
		source:     source,
		collector:  collector,
		reconciler: reconciler,
		metrics:    metrics,
		now:        time.Now,
	}
}

func (s *Service) BuildDashboard(ctx context.Context, filters *domain.DeliveryFilters) (*domain.DashboardData, error) {
	start := s.now()
	defer func() {
		s.metrics.ObservePipeline(time.Since(start))
	}()

	sources, err := s.source.ExportSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar exports: %w", err)
	}
	if len(sources) == 0 {
		return nil, ErrNoExports
	}

	collected := s.collector.Collect(ctx, sources)
	if err := ctx.Err(); err != nil && len(collected.Sources) < len(sources) {
		return nil, fmt.Errorf("coleta interrompida: %w", err)
	}
	if collected.AllFailed() {
		return nil, fmt.Errorf("%w: %d arquivos com falha", ErrIngestionFailed, len(collected.Sources))
	}

	logger := log.ForContext(ctx).WithField("batch_id", collected.BatchID)

	records := consolidating.Filter(collected.Records, filters)
	consolidating.SortRecords(records)

	perChannel := consolidating.ConsolidateByChannel(records)

	targets := s.contractTargets(ctx, filters)
	report, err := s.reconciler.Reconcile(perChannel, targets)
	if err != nil {
		return nil, fmt.Errorf("erro ao calcular pacing: %w", err)
	}

	data := &domain.DashboardData{
		BatchID:       collected.BatchID,
		LastUpdated:   s.now(),
		Filters:       filters,
		Consolidated:  consolidating.Consolidate(records),
		Channels:      make(map[domain.ChannelKind]*domain.ChannelDashboard, len(report.Channels)),
		Overall:       report.Overall,
		Timeline:      consolidating.DailySeries(records),
		Daily:         records,
		FailedSources: failedSources(collected),
	}

	for channel, pacing := range report.Channels {
		data.Channels[channel] = &domain.ChannelDashboard{
			Metrics: perChannel[channel],
			Pacing:  pacing,
		}
	}

	logger.Infof("Dashboard montado: %d registros, %d canais, %d arquivos com falha",
		len(records), len(data.Channels), len(data.FailedSources))

	return data, nil
}

// contractTargets nunca falha: sem contrato legível, todos os canais ficam como no_contract
func (s *Service) contractTargets(ctx context.Context, filters *domain.DeliveryFilters) map[domain.ChannelKind]domain.ContractedChannelTarget {
	targets, err := s.source.ContractTargets(ctx)
	if err != nil {
		log.ForContext(ctx).WithError(err).Warn("Falha ao ler contratos, pacing sem metas")
		return map[domain.ChannelKind]domain.ContractedChannelTarget{}
	}

	out := make(map[domain.ChannelKind]domain.ContractedChannelTarget, len(targets))
	for channel, target := range targets {
		if filters.HasChannel(channel) {
			out[channel] = target
		}
	}
	return out
}

func failedSources(collected collecting.CollectResult) []domain.FailedSource {
	var out []domain.FailedSource
	for _, src := range collected.Failed() {
		out = append(out, domain.FailedSource{
			Channel: src.Channel,
			Name:    src.Name,
			Reason:  src.Err.Error(),
		})
	}
	return out
}
