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
	creativesTable   = "creatives c"
	creativesColumns = "c.id, c.tenant_id, c.name, c.campaign, c.status"
)

type CreativeRepository interface {
	GetByID(ctx context.Context, tenantID, creativeID string) (*domain.Creative, error)
	GetByName(ctx context.Context, tenantID, name string) (*domain.Creative, error)
}

type creativeRepository struct {
	conn *postgres.Connection
}

func NewCreativeRepository(conn *postgres.Connection) CreativeRepository {
	return &creativeRepository{
		conn: conn,
	}
}

func (r *creativeRepository) GetByID(ctx context.Context, tenantID, creativeID string) (*domain.Creative, error) {
	return r.getCreative(ctx, squirrel.Eq{"c.tenant_id": tenantID, "c.id": creativeID})
}

// GetByName busca pelo código de atribuição, sem diferenciar maiúsculas.
func (r *creativeRepository) GetByName(ctx context.Context, tenantID, name string) (*domain.Creative, error) {
	return r.getCreative(ctx, squirrel.And{
		squirrel.Eq{"c.tenant_id": tenantID},
		squirrel.Expr("LOWER(c.name) = LOWER(?)", name),
	})
}

func (r *creativeRepository) getCreative(ctx context.Context, where squirrel.Sqlizer) (*domain.Creative, error) {
	query, args, err := squirrel.
		Select(creativesColumns).
		From(creativesTable).
		Where(where).
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	creative := &domain.Creative{}
	err = r.conn.QueryRowContext(ctx, query, args...).Scan(
		&creative.ID,
		&creative.TenantID,
		&creative.Name,
		&creative.Campaign,
		&creative.Status,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao buscar criativo: %w", err)
	}

	return creative, nil
}
