package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/isacLima251/MeuPainel0.2/infrastructure/database/postgres"
	"github.com/isacLima251/MeuPainel0.2/internal/domain"
)

type CreativeSpendRepository interface {
	Create(ctx context.Context, spend *domain.CreativeSpend) error
	List(ctx context.Context, tenantID string, window domain.MetricsWindow) ([]*domain.CreativeSpend, error)
	Delete(ctx context.Context, tenantID, id string) (bool, error)
	Sum(ctx context.Context, tenantID string, window domain.MetricsWindow) (float64, error)
}

type creativeSpendRepository struct {
	conn *postgres.Connection
}

func NewCreativeSpendRepository(conn *postgres.Connection) CreativeSpendRepository {
	return &creativeSpendRepository{
		conn: conn,
	}
}

func (r *creativeSpendRepository) Create(ctx context.Context, spend *domain.CreativeSpend) error {
	spend.CreatedAt = nowUTC()

	query, args, err := squirrel.
		Insert("creative_spends").
		Columns("id", "tenant_id", "creative_id", "value", "date", "created_at").
		Values(spend.ID, spend.TenantID, spend.CreativeID, spend.Value, spend.Date, spend.CreatedAt).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return wrapExecError("erro ao inserir investimento do criativo", err)
	}

	return nil
}

func (r *creativeSpendRepository) List(ctx context.Context, tenantID string, window domain.MetricsWindow) ([]*domain.CreativeSpend, error) {
	builder := squirrel.
		Select("cs.id, cs.tenant_id, cs.creative_id, cs.value, cs.date, cs.created_at").
		From("creative_spends cs").
		Where(squirrel.Eq{"cs.tenant_id": tenantID}).
		OrderBy("cs.date DESC").
		PlaceholderFormat(squirrel.Dollar)

	query, args, err := applyWindow(builder, "cs.date", window).ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar investimentos: %w", err)
	}
	defer rows.Close()

	spends := make([]*domain.CreativeSpend, 0)
	for rows.Next() {
		var s domain.CreativeSpend
		if err := rows.Scan(&s.ID, &s.TenantID, &s.CreativeID, &s.Value, &s.Date, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("erro ao deserializar investimento: %w", err)
		}
		spends = append(spends, &s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao iterar sobre os resultados: %w", err)
	}

	return spends, nil
}

func (r *creativeSpendRepository) Delete(ctx context.Context, tenantID, id string) (bool, error) {
	return deleteByTenant(ctx, r.conn, "creative_spends", tenantID, id)
}

func (r *creativeSpendRepository) Sum(ctx context.Context, tenantID string, window domain.MetricsWindow) (float64, error) {
	return sumByTenant(ctx, r.conn, "creative_spends", tenantID, window)
}
