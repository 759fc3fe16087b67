package handler

import (
	"net/http"

	"github.com/vfg2006/media-delivery-dashboard/infrastructure/repository"
	"github.com/vfg2006/media-delivery-dashboard/pkg/apiErrors"
	"github.com/vfg2006/media-delivery-dashboard/pkg/log"
)

// GetDeliveries lista os registros diários gravados no período (datas obrigatórias)
func GetDeliveries(repo repository.DeliveryRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		if repo == nil {
			apiErrors.WriteError(w, apiErrors.ErrServiceDisabled, "Persistência desabilitada (DATABASE_ENABLED=false)", nil)
			return
		}

		filters, ferr := parseFilters(r, false)
		if ferr != nil {
			apiErrors.WriteError(w, ferr.code, ferr.message, map[string]string{"param": ferr.param})
			return
		}

		records, err := repo.GetByDateRange(r.Context(), *filters.StartDate, *filters.EndDate, filters.Channels)
		if err != nil {
			logger.WithError(err).Error("Erro ao buscar entregas")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar entregas", nil)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"filters": filters,
			"records": records,
		})
	}
}

// GetLatestSnapshot devolve o último dashboard gravado pelo agendador
func GetLatestSnapshot(repo repository.SnapshotRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			apiErrors.WriteError(w, apiErrors.ErrServiceDisabled, "Persistência desabilitada (DATABASE_ENABLED=false)", nil)
			return
		}

		snapshot, err := repo.Latest(r.Context())
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Error("Erro ao buscar snapshot")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar snapshot", nil)
			return
		}
		if snapshot == nil {
			apiErrors.WriteError(w, apiErrors.ErrNotFound, "Nenhum snapshot gravado ainda", nil)
			return
		}

		writeJSON(w, http.StatusOK, snapshot)
	}
}
