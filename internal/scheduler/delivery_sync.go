package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/media-delivery-dashboard/infrastructure/repository"
	"github.com/vfg2006/media-delivery-dashboard/internal/config"
	"github.com/vfg2006/media-delivery-dashboard/internal/domain"
	"github.com/vfg2006/media-delivery-dashboard/internal/usecases/dashboarding"
)

var ErrSyncRunning = errors.New("sincronização de entregas já em andamento")

// DeliverySyncConfig representa a configuração do agendador de entregas
type DeliverySyncConfig struct {
	CronSchedule  string
	LookbackDays  int
	SyncEnabled   bool
	RetentionDays int
}

// DeliverySyncService relê os exports periodicamente e persiste registros e snapshot do dashboard
type DeliverySyncService struct {
	scheduler    *gocron.Scheduler
	config       DeliverySyncConfig
	builder      dashboarding.Builder
	deliveryRepo repository.DeliveryRepository
	snapshotRepo repository.SnapshotRepository
	now          func() time.Time

	syncMutex           sync.Mutex
	syncRunning         bool
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastBatchID         string
	lastRecords         int
	lastError           string
}

func NewDeliverySyncService(
	builder dashboarding.Builder,
	deliveryRepo repository.DeliveryRepository,
	snapshotRepo repository.SnapshotRepository,
	appConfig *config.Config,
) *DeliverySyncService {
	syncConfig := DeliverySyncConfig{
		CronSchedule:  appConfig.DeliverySync.CronSchedule,
		LookbackDays:  appConfig.DeliverySync.LookbackDays,
		SyncEnabled:   appConfig.DeliverySync.Enabled,
		RetentionDays: appConfig.DeliverySync.RetentionDays,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule":  syncConfig.CronSchedule,
		"lookback_days":  syncConfig.LookbackDays,
		"sync_enabled":   syncConfig.SyncEnabled,
		"retention_days": syncConfig.RetentionDays,
	}).Info("Configuração do agendador de entregas carregada")

	return &DeliverySyncService{
		scheduler:    gocron.NewScheduler(time.Local),
		config:       syncConfig,
		builder:      builder,
		deliveryRepo: deliveryRepo,
		snapshotRepo: snapshotRepo,
		now:          time.Now,
	}
}

// Start inicia o agendador
func (s *DeliverySyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Sincronização de entregas desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de sincronização de entregas")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		_ = s.syncDeliveries(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar sincronização de entregas: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de sincronização de entregas")
		s.scheduler.Stop()
	}()

	return nil
}

// syncDeliveries monta o dashboard da janela configurada e grava o resultado.
// Só uma execução por vez.
func (s *DeliverySyncService) syncDeliveries(ctx context.Context) error {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Sincronização de entregas já em andamento, ignorando")
		return ErrSyncRunning
	}
	s.syncRunning = true
	startTime := s.now()
	s.lastSyncStartedAt = startTime
	s.syncMutex.Unlock()

	batchID, records, err := s.runSync(ctx)

	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()
	s.syncRunning = false

	if err != nil {
		s.lastError = err.Error()
		logrus.WithError(err).Error("Falha na sincronização de entregas")
		return err
	}

	s.lastError = ""
	s.lastBatchID = batchID
	s.lastRecords = records
	s.lastSyncCompletedAt = s.now()

	logrus.WithFields(logrus.Fields{
		"batch_id": batchID,
		"records":  records,
		"duration": time.Since(startTime).String(),
	}).Info("Sincronização de entregas concluída")

	return nil
}

func (s *DeliverySyncService) runSync(ctx context.Context) (string, int, error) {
	start, end := s.window()
	filters := &domain.DeliveryFilters{StartDate: &start, EndDate: &end}

	logrus.WithFields(logrus.Fields{
		"start_date": start.Format(time.DateOnly),
		"end_date":   end.Format(time.DateOnly),
	}).Info("Período para sincronização de entregas")

	data, err := s.builder.BuildDashboard(ctx, filters)
	if err != nil {
		return "", 0, fmt.Errorf("erro ao montar dashboard: %w", err)
	}

	saved := len(data.Daily)
	if s.deliveryRepo != nil {
		saved, err = s.deliveryRepo.SaveBatch(ctx, data.BatchID, data.Daily)
		if err != nil {
			return "", 0, fmt.Errorf("erro ao gravar entregas: %w", err)
		}

		if s.config.RetentionDays > 0 {
			deleted, err := s.deliveryRepo.DeleteOlderThan(ctx, s.config.RetentionDays)
			if err != nil {
				// a limpeza não invalida o lote já gravado
				logrus.WithError(err).Warn("Erro ao remover entregas antigas")
			} else if deleted > 0 {
				logrus.WithField("deleted", deleted).Info("Entregas antigas removidas")
			}
		}
	}

	if s.snapshotRepo != nil {
		snapshot := &domain.DashboardSnapshot{
			BatchID:   data.BatchID,
			StartDate: start,
			EndDate:   end,
			Data:      data,
		}
		if err := s.snapshotRepo.Save(ctx, snapshot); err != nil {
			return "", 0, fmt.Errorf("erro ao gravar snapshot: %w", err)
		}
	}

	return data.BatchID, saved, nil
}

// window vai de LookbackDays-1 dias atrás até hoje, inclusive
func (s *DeliverySyncService) window() (time.Time, time.Time) {
	now := s.now()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	days := s.config.LookbackDays
	if days <= 0 {
		days = 1
	}
	return end.AddDate(0, 0, -(days - 1)), end
}

// TriggerManualSync dispara a sincronização fora do cron. Retorna false se já houver uma em andamento.
func (s *DeliverySyncService) TriggerManualSync() bool {
	s.syncMutex.Lock()
	running := s.syncRunning
	s.syncMutex.Unlock()

	if running {
		logrus.Info("Sincronização de entregas já em andamento, ignorando solicitação manual")
		return false
	}

	logrus.Info("Iniciando sincronização manual de entregas")
	go func() {
		_ = s.syncDeliveries(context.Background())
	}()
	return true
}

// GetStatus retorna o status atual do agendador
func (s *DeliverySyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_lookback_days":     s.config.LookbackDays,
		"retention_policy":       s.retentionPolicy(),
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_batch_id":          s.lastBatchID,
		"last_records":           s.lastRecords,
		"last_error":             s.lastError,
	}
}

func (s *DeliverySyncService) retentionPolicy() string {
	if s.config.RetentionDays <= 0 {
		return "dados mantidos permanentemente"
	}
	return fmt.Sprintf("entregas mantidas por %d dias", s.config.RetentionDays)
}
