package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/media-delivery-dashboard/internal/config"
	"github.com/vfg2006/media-delivery-dashboard/internal/domain"
	dashmocks "github.com/vfg2006/media-delivery-dashboard/internal/usecases/dashboarding/mocks"
	"github.com/vfg2006/media-delivery-dashboard/pkg/log"
	"github.com/vfg2006/media-delivery-dashboard/pkg/middleware"
	"github.com/vfg2006/media-delivery-dashboard/pkg/telemetry"
	"go.uber.org/mock/gomock"
)

func init() {
	log.SetupTestLogger()
}

func newTestServer(t *testing.T) (*Server, *dashmocks.MockBuilder) {
	ctrl := gomock.NewController(t)
	builder := dashmocks.NewMockBuilder(ctrl)

	cfg := &config.Config{Server: config.Server{Host: "localhost", Port: "0", CorsOrigins: []string{"*"}}}

	srv, err := New(cfg, builder, nil, nil, nil, telemetry.NewMetrics())
	require.NoError(t, err)
	return srv, builder
}

func TestServer_Routes(t *testing.T) {
	srv, builder := newTestServer(t)
	builder.EXPECT().BuildDashboard(gomock.Any(), gomock.Any()).Return(&domain.DashboardData{BatchID: "srv"}, nil)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"healthcheck", http.MethodGet, "/healthcheck", http.StatusOK},
		{"dashboard", http.MethodGet, "/api/dashboard/data", http.StatusOK},
		{"histórico sem banco", http.MethodGet, "/v1/snapshots/latest", http.StatusServiceUnavailable},
		{"cron sem agendador", http.MethodPost, "/v1/cron/delivery/run", http.StatusServiceUnavailable},
		{"rota inexistente", http.MethodGet, "/v1/accounts", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.NotEmpty(t, rec.Header().Get(middleware.CorrelationIDHeader))
		})
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `media_delivery_http_requests_total{method="GET",route="/api/dashboard/data",status="200"} 1`)
}
