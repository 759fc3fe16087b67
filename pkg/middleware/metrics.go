package middleware

import (
	"net/http"
	"time"

	"github.com/vfg2006/media-delivery-dashboard/pkg/telemetry"
)

// Metrics registra contagem e latência por rota. route deve ser o padrão registrado
// no router ("/v1/cron/status"), nunca o path bruto, para limitar a cardinalidade.
func Metrics(metrics *telemetry.Metrics, route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := newStatusRecorder(w)

			next.ServeHTTP(sr, r)

			metrics.ObserveHTTP(r.Method, route, sr.statusCode, time.Since(start))
		})
	}
}
