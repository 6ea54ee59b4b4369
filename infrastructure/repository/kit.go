package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/isacLima251/MeuPainel0.2/infrastructure/database/postgres"
	"github.com/isacLima251/MeuPainel0.2/internal/domain"
)

const (
	kitsTable   = "kits k"
	kitsColumns = "k.id, k.tenant_id, k.name, k.code, k.fixed_commission, k.percentage_commission, k.active"
)

type KitRepository interface {
	GetByID(ctx context.Context, tenantID, kitID string) (*domain.Kit, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*domain.Kit, error)
	ListAll(ctx context.Context, tenantID string) ([]*domain.Kit, error)
}

type kitRepository struct {
	conn *postgres.Connection
}

func NewKitRepository(conn *postgres.Connection) KitRepository {
	return &kitRepository{
		conn: conn,
	}
}

func (r *kitRepository) GetByID(ctx context.Context, tenantID, kitID string) (*domain.Kit, error) {
	query, args, err := squirrel.
		Select(kitsColumns).
		From(kitsTable).
		Where(squirrel.Eq{"k.tenant_id": tenantID, "k.id": kitID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	kit, err := scanKit(r.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao buscar kit: %w", err)
	}

	return kit, nil
}

// ListByTenant devolve apenas os kits ativos do tenant.
func (r *kitRepository) ListByTenant(ctx context.Context, tenantID string) ([]*domain.Kit, error) {
	return r.listKits(ctx, squirrel.Eq{"k.tenant_id": tenantID, "k.active": true})
}

// ListAll inclui os kits desativados, que ainda valem para vendas antigas.
func (r *kitRepository) ListAll(ctx context.Context, tenantID string) ([]*domain.Kit, error) {
	return r.listKits(ctx, squirrel.Eq{"k.tenant_id": tenantID})
}

func (r *kitRepository) listKits(ctx context.Context, where squirrel.Eq) ([]*domain.Kit, error) {
	query, args, err := squirrel.
		Select(kitsColumns).
		From(kitsTable).
		Where(where).
		OrderBy("k.name ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	kits := make([]*domain.Kit, 0)
	for rows.Next() {
		kit, err := scanKit(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao deserializar kit: %w", err)
		}
		kits = append(kits, kit)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao iterar sobre os resultados: %w", err)
	}

	return kits, nil
}

func scanKit(row scanner) (*domain.Kit, error) {
	kit := &domain.Kit{}
	if err := row.Scan(
		&kit.ID,
		&kit.TenantID,
		&kit.Name,
		&kit.Code,
		&kit.FixedCommission,
		&kit.PercentageCommission,
		&kit.Active,
	); err != nil {
		return nil, err
	}
	return kit, nil
}
