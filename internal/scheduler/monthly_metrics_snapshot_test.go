package scheduler

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/isacLima251/MeuPainel0.2/infrastructure/repository/mocks"
	"github.com/isacLima251/MeuPainel0.2/internal/config"
	"github.com/isacLima251/MeuPainel0.2/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// fakeReporter registra as chamadas e mede a concorrência.
type fakeReporter struct {
	mu        sync.Mutex
	calls     []string
	failFor   string
	inFlight  int32
	maxFlight int32
}

func (r *fakeReporter) SnapshotMonth(_ context.Context, tenantID, period string) (*domain.MonthlyMetricsEntry, error) {
	current := atomic.AddInt32(&r.inFlight, 1)
	defer atomic.AddInt32(&r.inFlight, -1)

	for {
		seen := atomic.LoadInt32(&r.maxFlight)
		if current <= seen || atomic.CompareAndSwapInt32(&r.maxFlight, seen, current) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	r.mu.Lock()
	r.calls = append(r.calls, tenantID+"/"+period)
	r.mu.Unlock()

	if tenantID == r.failFor {
		return nil, errors.New("falha no agregador")
	}
	return &domain.MonthlyMetricsEntry{TenantID: tenantID, Period: period}, nil
}

func (r *fakeReporter) GetMonthlyMetrics(context.Context, string, string) (*domain.MonthlyMetricsEntry, error) {
	return nil, nil
}

func (r *fakeReporter) ListPeriods(context.Context, string) ([]string, error) {
	return nil, nil
}

func newSnapshotService(t *testing.T, reporter *fakeReporter, maxJobs, lookBack int) (*MonthlyMetricsSnapshotService, *mocks.MockTenantRepository) {
	ctrl := gomock.NewController(t)
	tenantRepo := mocks.NewMockTenantRepository(ctrl)

	cfg := &config.Config{}
	cfg.MonthlyMetricsSync.CronSchedule = "0 5 1 * *"
	cfg.MonthlyMetricsSync.MaxConcurrentJobs = maxJobs
	cfg.MonthlyMetricsSync.MonthLookBack = lookBack

	service := NewMonthlyMetricsSnapshotService(tenantRepo, reporter, cfg)
	service.now = func() time.Time { return time.Date(2025, 3, 10, 5, 0, 0, 0, time.UTC) }

	return service, tenantRepo
}

func TestPeriods_MesesAnteriores(t *testing.T) {
	service, _ := newSnapshotService(t, &fakeReporter{}, 1, 3)
	assert.Equal(t, []string{"02-2025", "01-2025", "12-2024"}, service.periods())
}

func TestRunSnapshots(t *testing.T) {
	reporter := &fakeReporter{failFor: "t2"}
	service, tenantRepo := newSnapshotService(t, reporter, 2, 2)

	tenants := []*domain.Tenant{{ID: "t1"}, {ID: "t2"}, {ID: "t3"}, {ID: "t4"}}
	tenantRepo.EXPECT().ListActive(gomock.Any()).Return(tenants, nil)

	service.runSnapshots(context.Background())

	sort.Strings(reporter.calls)
	assert.Equal(t, []string{
		"t1/01-2025", "t1/02-2025",
		"t2/01-2025", "t2/02-2025",
		"t3/01-2025", "t3/02-2025",
		"t4/01-2025", "t4/02-2025",
	}, reporter.calls)
	assert.LessOrEqual(t, reporter.maxFlight, int32(2))

	status := service.GetStatus()
	assert.Equal(t, false, status["sync_running"])
	assert.Equal(t, 2, status["last_sync_failures"])
}

func TestRunSnapshots_SemTenants(t *testing.T) {
	reporter := &fakeReporter{}
	service, tenantRepo := newSnapshotService(t, reporter, 1, 1)
	tenantRepo.EXPECT().ListActive(gomock.Any()).Return(nil, nil)

	service.runSnapshots(context.Background())
	assert.Empty(t, reporter.calls)
}

func TestRunSnapshots_FalhaAoListarTenants(t *testing.T) {
	service, tenantRepo := newSnapshotService(t, &fakeReporter{}, 1, 1)
	tenantRepo.EXPECT().ListActive(gomock.Any()).Return(nil, errors.New("banco fora"))

	service.runSnapshots(context.Background())
	assert.Equal(t, 1, service.GetStatus()["last_sync_failures"])
}

func TestTriggerManualSync_IgnoraQuandoEmAndamento(t *testing.T) {
	service, _ := newSnapshotService(t, &fakeReporter{}, 1, 1)

	service.syncMutex.Lock()
	service.syncRunning = true
	service.syncMutex.Unlock()

	assert.False(t, service.TriggerManualSync(context.Background()))
}

func TestTriggerManualSync(t *testing.T) {
	reporter := &fakeReporter{}
	service, tenantRepo := newSnapshotService(t, reporter, 1, 1)
	tenantRepo.EXPECT().ListActive(gomock.Any()).Return([]*domain.Tenant{{ID: "t1"}}, nil)

	require.True(t, service.TriggerManualSync(context.Background()))

	assert.Eventually(t, func() bool {
		reporter.mu.Lock()
		defer reporter.mu.Unlock()
		return len(reporter.calls) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestStart_Desabilitado(t *testing.T) {
	service, _ := newSnapshotService(t, &fakeReporter{}, 1, 1)
	require.NoError(t, service.Start(context.Background()))
	assert.Equal(t, false, service.GetStatus()["sync_enabled"])
}
