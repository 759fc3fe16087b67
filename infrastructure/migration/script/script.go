// Script de carga inicial: lê todos os exports de uma pasta e grava os registros
// diários em daily_delivery, sem passar pela API.
//
// Uso:
//
//	go run ./infrastructure/migration/script --dir ./exports --from 2025-09-01 --to 2025-09-30
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vfg2006/media-delivery-dashboard/infrastructure/database/postgres"
	"github.com/vfg2006/media-delivery-dashboard/infrastructure/exports"
	"github.com/vfg2006/media-delivery-dashboard/infrastructure/repository"
	"github.com/vfg2006/media-delivery-dashboard/internal/config"
	"github.com/vfg2006/media-delivery-dashboard/internal/domain"
	"github.com/vfg2006/media-delivery-dashboard/internal/usecases/collecting"
	"github.com/vfg2006/media-delivery-dashboard/internal/usecases/consolidating"
	"github.com/vfg2006/media-delivery-dashboard/internal/usecases/dashboarding"
	"github.com/vfg2006/media-delivery-dashboard/internal/usecases/mapping"
	"github.com/vfg2006/media-delivery-dashboard/pkg/log"
	"github.com/vfg2006/media-delivery-dashboard/pkg/utils"
)

type importOptions struct {
	dir    string
	from   string
	to     string
	dryRun bool
}

// importer junta o que a carga precisa; repo nil equivale a dry-run
type importer struct {
	source    dashboarding.Source
	collector *collecting.Collector
	repo      repository.DeliveryRepository
}

type importSummary struct {
	BatchID  string
	Sources  int
	Failed   int
	Records  int
	Saved    int
	Channels map[domain.ChannelKind]int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := importOptions{}

	cmd := &cobra.Command{
		Use:           "import-exports",
		Short:         "Importa os exports de entrega para o PostgreSQL",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runImport(cmd.Context(), opts)
			if err != nil {
				logrus.WithError(err).Error("Importação falhou")
			}
			return err
		},
	}

	cmd.Flags().StringVar(&opts.dir, "dir", "", "pasta com os exports (padrão: EXPORTS_DIR)")
	cmd.Flags().StringVar(&opts.from, "from", "", "data inicial AAAA-MM-DD (inclusiva)")
	cmd.Flags().StringVar(&opts.to, "to", "", "data final AAAA-MM-DD (inclusiva)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "apenas lê e resume, sem gravar")

	return cmd
}

func runImport(ctx context.Context, opts importOptions) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	log.Setup(cfg.App.LogLevel)

	filters, err := parseWindow(opts.from, opts.to)
	if err != nil {
		return err
	}

	dir := opts.dir
	if dir == "" {
		dir = cfg.Exports.Dir
	}

	imp := &importer{
		source:    exports.NewDirectorySource(dir),
		collector: collecting.NewCollector(mapping.NewMapper(), collecting.NewTableReader(), nil, cfg.Exports.MaxConcurrent),
	}

	if !opts.dryRun {
		conn, err := postgres.NewConnection(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("erro ao conectar ao PostgreSQL: %w", err)
		}
		defer conn.Close()

		if err := conn.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("erro ao criar tabelas: %w", err)
		}
		imp.repo = repository.NewDeliveryRepository(conn)
	}

	startTime := time.Now()
	summary, err := imp.run(ctx, filters)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"batch_id": summary.BatchID,
		"sources":  summary.Sources,
		"failed":   summary.Failed,
		"records":  summary.Records,
		"saved":    summary.Saved,
		"dry_run":  opts.dryRun,
		"duration": time.Since(startTime).String(),
	}).Info("Importação concluída")

	for channel, n := range summary.Channels {
		logrus.WithFields(logrus.Fields{"channel": channel, "records": n}).Info("Registros por canal")
	}

	return nil
}

func parseWindow(from, to string) (*domain.DeliveryFilters, error) {
	start, err := utils.ParseOptionalDate(from)
	if err != nil {
		return nil, fmt.Errorf("--from inválido: %w", err)
	}
	end, err := utils.ParseOptionalDate(to)
	if err != nil {
		return nil, fmt.Errorf("--to inválido: %w", err)
	}
	if start != nil && end != nil && start.After(*end) {
		return nil, fmt.Errorf("--from (%s) posterior a --to (%s)", from, to)
	}

	return &domain.DeliveryFilters{StartDate: start, EndDate: end}, nil
}

func (i *importer) run(ctx context.Context, filters *domain.DeliveryFilters) (*importSummary, error) {
	sources, err := i.source.ExportSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar exports: %w", err)
	}
	if len(sources) == 0 {
		return nil, dashboarding.ErrNoExports
	}

	collected := i.collector.Collect(ctx, sources)
	if collected.AllFailed() {
		return nil, fmt.Errorf("%d fonte(s): %w", len(sources), dashboarding.ErrIngestionFailed)
	}

	records := consolidating.Filter(collected.Records, filters)
	consolidating.SortRecords(records)

	summary := &importSummary{
		BatchID:  collected.BatchID,
		Sources:  len(sources),
		Failed:   len(collected.Failed()),
		Records:  len(records),
		Channels: map[domain.ChannelKind]int{},
	}
	for _, r := range records {
		summary.Channels[r.Channel]++
	}

	for _, failed := range collected.Failed() {
		logrus.WithFields(logrus.Fields{
			"channel": failed.Channel,
			"source":  failed.Name,
		}).WithError(failed.Err).Warn("Export ignorado")
	}

	if i.repo == nil || len(records) == 0 {
		return summary, nil
	}

	summary.Saved, err = i.repo.SaveBatch(ctx, collected.BatchID, records)
	if err != nil {
		return nil, fmt.Errorf("erro ao gravar entregas: %w", err)
	}

	return summary, nil
}
