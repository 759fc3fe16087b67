package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/media-delivery-dashboard/pkg/apiErrors"
	"github.com/vfg2006/media-delivery-dashboard/pkg/log"
)

// CronJobType define o tipo de cron job que será executada
const (
	CronJobTypeDelivery = "delivery"
)

// DeliverySyncer é o que o handler precisa do agendador de entregas
type DeliverySyncer interface {
	TriggerManualSync() bool
	GetStatus() map[string]any
}

// CronJobServices contém os serviços de cron necessários para executar manualmente
type CronJobServices struct {
	DeliverySyncService DeliverySyncer
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de cron job não especificado", nil)
			return
		}

		switch cronType {
		case CronJobTypeDelivery:
			if services.DeliverySyncService == nil {
				apiErrors.WriteError(w, apiErrors.ErrServiceDisabled, "Serviço de sincronização de entregas não disponível", nil)
				return
			}
			if !services.DeliverySyncService.TriggerManualSync() {
				apiErrors.WriteError(w, apiErrors.ErrSyncRunning, "Sincronização de entregas já em andamento", nil)
				return
			}
		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: delivery", nil)
			return
		}

		logger.WithField("type", cronType).Info("Cron job disparada manualmente")

		writeJSON(w, http.StatusAccepted, map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		})
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{}
		if services.DeliverySyncService != nil {
			status[CronJobTypeDelivery] = services.DeliverySyncService.GetStatus()
		}

		writeJSON(w, http.StatusOK, status)
	}
}
