package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/media-delivery-dashboard/infrastructure/repository"
	"github.com/vfg2006/media-delivery-dashboard/internal/api/handler/router"
	"github.com/vfg2006/media-delivery-dashboard/internal/usecases/dashboarding"
	"github.com/vfg2006/media-delivery-dashboard/pkg/middleware"
	"github.com/vfg2006/media-delivery-dashboard/pkg/telemetry"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Dashboard(builder dashboarding.Builder, defaultLookbackDays int) []router.Route {
	return []router.Route{
		{
			Path:    "/api/dashboard/data",
			Method:  http.MethodGet,
			Handler: GetDashboardData(builder, defaultLookbackDays),
		},
	}
}

// History expõe o que o agendador gravou; sem banco as rotas respondem SRV_003
func History(deliveryRepo repository.DeliveryRepository, snapshotRepo repository.SnapshotRepository) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/deliveries",
			Method:  http.MethodGet,
			Handler: GetDeliveries(deliveryRepo),
		},
		{
			Path:    "/v1/snapshots/latest",
			Method:  http.MethodGet,
			Handler: GetLatestSnapshot(snapshotRepo),
		},
	}
}

func Metrics(metrics *telemetry.Metrics) []router.Route {
	return []router.Route{
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: metrics.Handler(),
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/cron/:type/run",
			Method:  http.MethodPost,
			Handler: RunCronJob(services),
		},
		{
			Path:    "/v1/cron/status",
			Method:  http.MethodGet,
			Handler: GetCronStatus(services),
		},
	}
}

// Instrument coloca o middleware de métricas na frente de cada rota, rotulado pelo padrão do path
func Instrument(metrics *telemetry.Metrics, routes ...[]router.Route) []router.Route {
	var all []router.Route
	for _, group := range routes {
		for _, route := range group {
			route.Middlewares = append([]func(http.Handler) http.Handler{middleware.Metrics(metrics, route.Path)}, route.Middlewares...)
			all = append(all, route)
		}
	}
	return all
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
