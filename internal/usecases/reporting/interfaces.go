package reporting

import (
	"context"

	"github.com/isacLima251/MeuPainel0.2/internal/domain"
)

// Aggregator calcula o dashboard de um tenant, inteiro ou de um atendente
type Aggregator interface {
	Aggregate(ctx context.Context, tenantID string, scope domain.MetricsScope, window domain.MetricsWindow) (*domain.DashboardMetrics, error)
}

// MonthlyReporter lê e grava os fechamentos mensais
type MonthlyReporter interface {
	// SnapshotMonth agrega o mês inteiro no recorte do tenant e grava o resultado
	SnapshotMonth(ctx context.Context, tenantID, period string) (*domain.MonthlyMetricsEntry, error)

	GetMonthlyMetrics(ctx context.Context, tenantID, period string) (*domain.MonthlyMetricsEntry, error)

	// ListPeriods retorna os períodos mm-yyyy com fechamento, do mais recente ao mais antigo
	ListPeriods(ctx context.Context, tenantID string) ([]string, error)
}

type Reporter interface {
	Aggregator
	MonthlyReporter
}
