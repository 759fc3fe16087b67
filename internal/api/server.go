package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/media-delivery-dashboard/infrastructure/repository"
	"github.com/vfg2006/media-delivery-dashboard/internal/api/handler"
	"github.com/vfg2006/media-delivery-dashboard/internal/api/handler/router"
	"github.com/vfg2006/media-delivery-dashboard/internal/config"
	"github.com/vfg2006/media-delivery-dashboard/internal/scheduler"
	"github.com/vfg2006/media-delivery-dashboard/internal/usecases/dashboarding"
	"github.com/vfg2006/media-delivery-dashboard/pkg/middleware"
	"github.com/vfg2006/media-delivery-dashboard/pkg/telemetry"
)

type Server struct {
	httpServer *http.Server
}

// New monta o servidor. deliveryRepo, snapshotRepo e syncService são nil quando o banco está desabilitado.
func New(
	config *config.Config,
	builder dashboarding.Builder,
	deliveryRepo repository.DeliveryRepository,
	snapshotRepo repository.SnapshotRepository,
	syncService *scheduler.DeliverySyncService,
	metrics *telemetry.Metrics,
) (*Server, error) {
	cronServices := handler.CronJobServices{}
	if syncService != nil {
		cronServices.DeliverySyncService = syncService
	}

	rt := router.New(
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Metrics(metrics)...),
		router.WithRoutes(handler.Instrument(metrics,
			handler.Dashboard(builder, config.Exports.DefaultLookbackDays),
			handler.History(deliveryRepo, snapshotRepo),
			handler.CronJobs(cronServices),
		)...),
	)

	logrus.WithField("routes", rt.Routes()).Debug("Rotas registradas")

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(config.Server.CorsOrigins),
	}

	handler := alice.New(middlewares...).Then(rt)

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           handler,
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

// Handler expõe a cadeia completa de middlewares e rotas
func (s Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	// Canal para aguardar sinais de término
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	// Aguardar pelo sinal ou pelo cancelamento do contexto
	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	// Define timeout para desligamento
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Log de início do desligamento
	logrus.WithFields(logrus.Fields{
		"timeout": "15s",
	}).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		return err
	}

	logrus.Info("Servidor HTTP desligado com sucesso")
	return nil
}
