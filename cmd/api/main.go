package main

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/media-delivery-dashboard/infrastructure/database/postgres"
	"github.com/vfg2006/media-delivery-dashboard/infrastructure/exports"
	"github.com/vfg2006/media-delivery-dashboard/infrastructure/repository"
	"github.com/vfg2006/media-delivery-dashboard/internal/api"
	"github.com/vfg2006/media-delivery-dashboard/internal/config"
	"github.com/vfg2006/media-delivery-dashboard/internal/scheduler"
	"github.com/vfg2006/media-delivery-dashboard/internal/usecases/collecting"
	"github.com/vfg2006/media-delivery-dashboard/internal/usecases/dashboarding"
	"github.com/vfg2006/media-delivery-dashboard/internal/usecases/mapping"
	"github.com/vfg2006/media-delivery-dashboard/internal/usecases/reconciling"
	"github.com/vfg2006/media-delivery-dashboard/pkg/log"
	"github.com/vfg2006/media-delivery-dashboard/pkg/telemetry"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log.Setup(cfg.App.LogLevel)
	logrus.Infof("Nível de log configurado para: %s", logrus.GetLevel())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := telemetry.NewMetrics()

	source := exports.NewDirectorySource(cfg.Exports.Dir)
	collector := collecting.NewCollector(mapping.NewMapper(), collecting.NewTableReader(), metrics, cfg.Exports.MaxConcurrent)
	reconciler := reconciling.NewReconciler(cfg.Pacing.Tolerance)
	dashboardService := dashboarding.NewService(source, collector, reconciler, metrics)

	logrus.WithFields(logrus.Fields{
		"exports_dir":    source.Dir(),
		"max_concurrent": cfg.Exports.MaxConcurrent,
		"tolerance":      cfg.Pacing.Tolerance,
	}).Info("Pipeline do dashboard configurado")

	var (
		deliveryRepo repository.DeliveryRepository
		snapshotRepo repository.SnapshotRepository
		syncService  *scheduler.DeliverySyncService
	)

	if cfg.Database.Enabled {
		pgConn := pgconn(ctx, cfg.Database)
		defer pgConn.Close()

		deliveryRepo = repository.NewDeliveryRepository(pgConn)
		snapshotRepo = repository.NewSnapshotRepository(pgConn)

		syncService = scheduler.NewDeliverySyncService(dashboardService, deliveryRepo, snapshotRepo, cfg)
		if err := syncService.Start(ctx); err != nil {
			logrus.WithError(err).Error("Erro ao iniciar o agendador de sincronização de entregas")
		} else {
			logrus.Info("Agendador de sincronização de entregas iniciado com sucesso")
		}
	} else {
		logrus.Info("Persistência desabilitada, dashboard servido apenas a partir dos exports")
	}

	server, err := api.New(cfg, dashboardService, deliveryRepo, snapshotRepo, syncService, metrics)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// pgconn cria uma conexão com o banco de dados e garante o schema
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	if err := conn.EnsureSchema(ctx); err != nil {
		logrus.WithError(err).Fatal("Erro ao criar tabelas no PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
