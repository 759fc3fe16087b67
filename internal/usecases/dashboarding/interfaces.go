package dashboarding

import (
	"context"

	"github.com/vfg2006/media-delivery-dashboard/internal/domain"
	"github.com/vfg2006/media-delivery-dashboard/internal/usecases/collecting"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/dashboarding_mock.go -package=mocks

// Source fornece os exports de entrega e os contratos da campanha
type Source interface {
	// ExportSources lista os arquivos de entrega disponíveis, já associados a um canal
	ExportSources(ctx context.Context) ([]collecting.ExportSource, error)

	// ContractTargets lê os exports de contrato, indexados por canal
	ContractTargets(ctx context.Context) (map[domain.ChannelKind]domain.ContractedChannelTarget, error)
}

// Builder monta o payload do dashboard a partir dos exports atuais
type Builder interface {
	BuildDashboard(ctx context.Context, filters *domain.DeliveryFilters) (*domain.DashboardData, error)
}
