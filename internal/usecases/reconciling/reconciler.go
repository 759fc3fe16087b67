package reconciling

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/media-delivery-dashboard/internal/domain"
	"github.com/vfg2006/media-delivery-dashboard/pkg/utils"
)

const DefaultTolerance = 5.0

var ErrNilTargets = errors.New("mapa de metas contratadas não informado")

type Reconciler struct {
	// Tolerance é a faixa, em pontos percentuais, em torno de 100% considerada on_track
	Tolerance float64
}

func NewReconciler(tolerance float64) *Reconciler {
	if tolerance < 0 {
		tolerance = DefaultTolerance
	}
	return &Reconciler{Tolerance: tolerance}
}

// Classify traduz um percentual de pacing em status. Acima de 100% é apenas informativo.
func (r *Reconciler) Classify(pct float64) domain.PacingStatus {
	switch {
	case pct < 100-r.Tolerance:
		return domain.PacingUnder
	case pct > 100+r.Tolerance:
		return domain.PacingOver
	default:
		return domain.PacingOnTrack
	}
}

// Reconcile compara o entregue por canal com o contratado.
// Canais sem contrato ficam como no_contract e fora do pacing geral.
func (r *Reconciler) Reconcile(
	perChannel map[domain.ChannelKind]domain.ConsolidatedMetrics,
	targets map[domain.ChannelKind]domain.ContractedChannelTarget,
) (*domain.PacingReport, error) {
	if targets == nil {
		return nil, ErrNilTargets
	}

	report := &domain.PacingReport{
		Channels:  make(map[domain.ChannelKind]*domain.ChannelPacing, len(perChannel)+len(targets)),
		Tolerance: r.Tolerance,
	}

	var (
		totalSpend    decimal.Decimal
		totalBudget   decimal.Decimal
		weightedUnits decimal.Decimal
	)

	for channel, target := range targets {
		metrics := perChannel[channel]
		unitKind := domain.UnitKindFor(channel)
		delivered := deliveredUnits(metrics, unitKind)

		budgetPct := utils.SafeDiv(metrics.TotalSpend, target.BudgetContracted) * 100
		unitsPct := utils.SafeDiv(float64(delivered), target.UnitsContracted) * 100

		report.Channels[channel] = &domain.ChannelPacing{
			Channel:          channel,
			BudgetContracted: target.BudgetContracted,
			UnitsContracted:  target.UnitsContracted,
			Spend:            metrics.TotalSpend,
			DeliveredUnits:   delivered,
			UnitKind:         unitKind,
			BudgetPacingPct:  budgetPct,
			UnitsPacingPct:   unitsPct,
			Status:           r.Classify(budgetPct),
		}

		totalSpend = totalSpend.Add(decimal.NewFromFloat(metrics.TotalSpend))
		totalBudget = totalBudget.Add(decimal.NewFromFloat(target.BudgetContracted))
		weightedUnits = weightedUnits.Add(decimal.NewFromFloat(unitsPct).Mul(decimal.NewFromFloat(target.BudgetContracted)))
	}

	for channel, metrics := range perChannel {
		if _, ok := targets[channel]; ok {
			continue
		}
		unitKind := domain.UnitKindFor(channel)
		report.Channels[channel] = &domain.ChannelPacing{
			Channel:        channel,
			Spend:          metrics.TotalSpend,
			DeliveredUnits: deliveredUnits(metrics, unitKind),
			UnitKind:       unitKind,
			Status:         domain.PacingNoContract,
		}
	}

	spend, _ := totalSpend.Float64()
	budget, _ := totalBudget.Float64()
	weighted, _ := weightedUnits.Float64()

	report.Overall = domain.OverallPacing{
		BudgetContracted: budget,
		Spend:            spend,
		BudgetPacingPct:  utils.SafeDiv(spend, budget) * 100,
		UnitsPacingPct:   utils.SafeDiv(weighted, budget),
		Status:           domain.PacingNoContract,
	}
	if len(targets) > 0 {
		report.Overall.Status = r.Classify(report.Overall.BudgetPacingPct)
	}

	return report, nil
}

func deliveredUnits(m domain.ConsolidatedMetrics, kind domain.UnitKind) int64 {
	if kind == domain.UnitImpressions {
		return m.TotalImpressions
	}
	return m.TotalCompletions
}
