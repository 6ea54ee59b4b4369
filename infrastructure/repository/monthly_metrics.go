package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/isacLima251/MeuPainel0.2/infrastructure/database/postgres"
	"github.com/isacLima251/MeuPainel0.2/internal/domain"
	"github.com/isacLima251/MeuPainel0.2/pkg/utils"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type MonthlyMetricsRepository interface {
	SaveOrUpdate(ctx context.Context, entry *domain.MonthlyMetricsEntry) error
	GetByPeriod(ctx context.Context, tenantID, period string) (*domain.MonthlyMetricsEntry, error)
	ListPeriods(ctx context.Context, tenantID string) ([]string, error)
}

type monthlyMetricsRepository struct {
	conn *postgres.Connection
}

func NewMonthlyMetricsRepository(conn *postgres.Connection) MonthlyMetricsRepository {
	return &monthlyMetricsRepository{
		conn: conn,
	}
}

// SaveOrUpdate substitui o fechamento do período quando ele já existe.
func (r *monthlyMetricsRepository) SaveOrUpdate(ctx context.Context, entry *domain.MonthlyMetricsEntry) error {
	if entry.ID == "" {
		id, err := utils.GenerateID()
		if err != nil {
			return fmt.Errorf("erro ao gerar id: %w", err)
		}
		entry.ID = id
	}

	payload, err := json.Marshal(entry.Metrics)
	if err != nil {
		return fmt.Errorf("erro ao serializar métricas: %w", err)
	}

	now := nowUTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	query, args, err := squirrel.
		Insert("monthly_metrics").
		Columns("id", "tenant_id", "period", "metrics", "created_at", "updated_at").
		Values(entry.ID, entry.TenantID, entry.Period, payload, now, now).
		Suffix("ON CONFLICT (tenant_id, period) DO UPDATE SET metrics = EXCLUDED.metrics, updated_at = EXCLUDED.updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("erro ao salvar métricas mensais: %w", err)
	}

	return nil
}

func (r *monthlyMetricsRepository) GetByPeriod(ctx context.Context, tenantID, period string) (*domain.MonthlyMetricsEntry, error) {
	query, args, err := squirrel.
		Select("id, tenant_id, period, metrics, created_at, updated_at").
		From("monthly_metrics").
		Where(squirrel.Eq{"tenant_id": tenantID, "period": period}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var entry domain.MonthlyMetricsEntry
	var payload []byte

	err = r.conn.QueryRowContext(ctx, query, args...).Scan(
		&entry.ID,
		&entry.TenantID,
		&entry.Period,
		&payload,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao buscar métricas mensais: %w", err)
	}

	entry.Metrics = &domain.DashboardMetrics{}
	if err := json.Unmarshal(payload, entry.Metrics); err != nil {
		return nil, fmt.Errorf("erro ao deserializar métricas mensais: %w", err)
	}

	return &entry, nil
}

// ListPeriods devolve os períodos fechados, do mais recente para o mais antigo.
func (r *monthlyMetricsRepository) ListPeriods(ctx context.Context, tenantID string) ([]string, error) {
	query, args, err := squirrel.
		Select("period").
		From("monthly_metrics").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		OrderBy("TO_DATE(period, 'MM-YYYY') DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar períodos: %w", err)
	}
	defer rows.Close()

	periods := make([]string, 0)
	for rows.Next() {
		var period string
		if err := rows.Scan(&period); err != nil {
			return nil, fmt.Errorf("erro ao deserializar período: %w", err)
		}
		periods = append(periods, period)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao iterar sobre os resultados: %w", err)
	}

	return periods, nil
}
