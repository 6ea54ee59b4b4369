package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/isacLima251/MeuPainel0.2/infrastructure/repository"
	"github.com/isacLima251/MeuPainel0.2/internal/config"
	"github.com/isacLima251/MeuPainel0.2/internal/domain"
	"github.com/isacLima251/MeuPainel0.2/internal/usecases/reporting"
	"github.com/isacLima251/MeuPainel0.2/pkg/log"
	"github.com/isacLima251/MeuPainel0.2/pkg/metrics"
)

// MonthlyMetricsSnapshotConfig representa a configuração do fechamento mensal
type MonthlyMetricsSnapshotConfig struct {
	CronSchedule      string
	MaxConcurrentJobs int
	SyncEnabled       bool
	MonthLookBack     int
}

// MonthlyMetricsSnapshotService agenda e executa o fechamento mensal das
// métricas de cada tenant ativo
type MonthlyMetricsSnapshotService struct {
	scheduler           *gocron.Scheduler
	config              MonthlyMetricsSnapshotConfig
	tenantRepo          repository.TenantRepository
	reporter            reporting.MonthlyReporter
	now                 func() time.Time
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSyncFailures    int
}

func NewMonthlyMetricsSnapshotService(
	tenantRepo repository.TenantRepository,
	reporter reporting.MonthlyReporter,
	appConfig *config.Config,
) *MonthlyMetricsSnapshotService {
	snapshotConfig := MonthlyMetricsSnapshotConfig{
		CronSchedule:      appConfig.MonthlyMetricsSync.CronSchedule,
		MaxConcurrentJobs: appConfig.MonthlyMetricsSync.MaxConcurrentJobs,
		SyncEnabled:       appConfig.MonthlyMetricsSync.Enabled,
		MonthLookBack:     appConfig.MonthlyMetricsSync.MonthLookBack,
	}

	if snapshotConfig.MaxConcurrentJobs <= 0 {
		snapshotConfig.MaxConcurrentJobs = 1
	}
	if snapshotConfig.MonthLookBack <= 0 {
		snapshotConfig.MonthLookBack = 1
	}

	log.L.WithFields(log.Fields{
		"cron_schedule":       snapshotConfig.CronSchedule,
		"max_concurrent_jobs": snapshotConfig.MaxConcurrentJobs,
		"sync_enabled":        snapshotConfig.SyncEnabled,
		"month_lookback":      snapshotConfig.MonthLookBack,
	}).Info("Configuração do fechamento mensal carregada")

	return &MonthlyMetricsSnapshotService{
		scheduler:  gocron.NewScheduler(time.UTC),
		config:     snapshotConfig,
		tenantRepo: tenantRepo,
		reporter:   reporter,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Start inicia o agendador
func (s *MonthlyMetricsSnapshotService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		log.L.Info("Fechamento mensal desabilitado por configuração")
		return nil
	}

	log.L.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador do fechamento mensal")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.runSnapshots(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar fechamento mensal: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		log.L.Info("Parando agendador do fechamento mensal")
		s.scheduler.Stop()
	}()

	return nil
}

// runSnapshots fecha os últimos meses de todos os tenants ativos. Uma execução
// por vez.
func (s *MonthlyMetricsSnapshotService) runSnapshots(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		log.L.Info("Fechamento mensal já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.lastSyncStartedAt = s.now()
	s.syncMutex.Unlock()

	startTime := time.Now()
	failures := 0

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.lastSyncCompletedAt = s.now()
		s.lastSyncFailures = failures
		s.syncMutex.Unlock()
	}()

	tenants, err := s.tenantRepo.ListActive(ctx)
	if err != nil {
		log.L.WithError(err).Error("Erro ao buscar tenants para o fechamento mensal")
		failures++
		return
	}

	if len(tenants) == 0 {
		log.L.Info("Nenhum tenant ativo para o fechamento mensal")
		return
	}

	for _, period := range s.periods() {
		failures += s.snapshotPeriod(ctx, tenants, period)
	}

	log.L.WithFields(log.Fields{
		"duration": time.Since(startTime).String(),
		"tenants":  len(tenants),
		"failures": failures,
	}).Info("Fechamento mensal concluído")
}

// periods devolve os meses anteriores ao atual, do mais recente ao mais antigo.
func (s *MonthlyMetricsSnapshotService) periods() []string {
	now := s.now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	periods := make([]string, 0, s.config.MonthLookBack)
	for i := 1; i <= s.config.MonthLookBack; i++ {
		periods = append(periods, domain.PeriodOf(firstOfMonth.AddDate(0, -i, 0)))
	}
	return periods
}

// snapshotPeriod processa os tenants com no máximo MaxConcurrentJobs ao mesmo
// tempo e devolve quantos falharam.
func (s *MonthlyMetricsSnapshotService) snapshotPeriod(ctx context.Context, tenants []*domain.Tenant, period string) int {
	semaphore := make(chan struct{}, s.config.MaxConcurrentJobs)
	var wg sync.WaitGroup
	var mu sync.Mutex
	failures := 0

	for _, tenant := range tenants {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(t *domain.Tenant) {
			defer func() {
				<-semaphore
				wg.Done()
			}()

			tenantCtx := log.WithTenant(ctx, t.ID)
			if _, err := s.reporter.SnapshotMonth(tenantCtx, t.ID, period); err != nil {
				log.ForContext(tenantCtx).WithError(err).WithField("period", period).Error("Erro no fechamento mensal do tenant")
				metrics.SnapshotRuns.WithLabelValues("failed").Inc()

				mu.Lock()
				failures++
				mu.Unlock()
				return
			}

			metrics.SnapshotRuns.WithLabelValues("success").Inc()
			log.ForContext(tenantCtx).WithField("period", period).Info("Fechamento mensal salvo")
		}(tenant)
	}

	wg.Wait()
	return failures
}

// TriggerManualSync dispara o fechamento fora do agendamento. Retorna false
// quando já existe uma execução em andamento.
func (s *MonthlyMetricsSnapshotService) TriggerManualSync(ctx context.Context) bool {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		log.L.Info("Fechamento mensal já em andamento, ignorando solicitação manual")
		return false
	}
	s.syncMutex.Unlock()

	log.L.Info("Iniciando fechamento mensal manual")
	go s.runSnapshots(context.WithoutCancel(ctx))
	return true
}

// GetStatus retorna o status atual do fechamento
func (s *MonthlyMetricsSnapshotService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_running":           s.syncRunning,
		"sync_cron":              s.config.CronSchedule,
		"sync_enabled":           s.config.SyncEnabled,
		"month_lookback":         s.config.MonthLookBack,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_sync_failures":     s.lastSyncFailures,
	}
}
