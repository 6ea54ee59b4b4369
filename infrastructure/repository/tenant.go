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
	tenantsTable   = "tenants t"
	tenantsColumns = "t.id, t.name, t.document, t.plan, t.active, t.webhook_secret, t.created_at, t.updated_at"
)

type TenantRepository interface {
	GetByID(ctx context.Context, tenantID string) (*domain.Tenant, error)
	ListActive(ctx context.Context) ([]*domain.Tenant, error)
	CreateWithAdmin(ctx context.Context, tenant *domain.Tenant, admin *domain.User) error
	SetActive(ctx context.Context, tenantID string, active bool) (bool, error)
}

type tenantRepository struct {
	conn *postgres.Connection
}

func NewTenantRepository(conn *postgres.Connection) TenantRepository {
	return &tenantRepository{
		conn: conn,
	}
}

func (r *tenantRepository) GetByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	query, args, err := squirrel.
		Select(tenantsColumns).
		From(tenantsTable).
		Where(squirrel.Eq{"t.id": tenantID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	tenant, err := scanTenant(r.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao buscar tenant: %w", err)
	}

	return tenant, nil
}

func (r *tenantRepository) ListActive(ctx context.Context) ([]*domain.Tenant, error) {
	query, args, err := squirrel.
		Select(tenantsColumns).
		From(tenantsTable).
		Where(squirrel.Eq{"t.active": true}).
		OrderBy("t.name ASC").
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

	tenants := make([]*domain.Tenant, 0)
	for rows.Next() {
		tenant, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao deserializar tenant: %w", err)
		}
		tenants = append(tenants, tenant)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao iterar sobre os resultados: %w", err)
	}

	return tenants, nil
}

// CreateWithAdmin grava o tenant e o primeiro administrador na mesma transação.
func (r *tenantRepository) CreateWithAdmin(ctx context.Context, tenant *domain.Tenant, admin *domain.User) error {
	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		now := nowUTC()
		tenant.CreatedAt = now
		tenant.UpdatedAt = now

		query, args, err := squirrel.
			Insert("tenants").
			Columns("id", "name", "document", "plan", "active", "webhook_secret", "created_at", "updated_at").
			Values(tenant.ID, tenant.Name, tenant.Document, tenant.Plan, tenant.Active, tenant.WebhookSecret, now, now).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("erro ao construir a query: %w", err)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return wrapExecError("erro ao inserir tenant", err)
		}

		admin.TenantID = &tenant.ID
		return insertUser(ctx, tx, admin)
	})
}

func (r *tenantRepository) SetActive(ctx context.Context, tenantID string, active bool) (bool, error) {
	query, args, err := squirrel.
		Update("tenants").
		Set("active", active).
		Set("updated_at", nowUTC()).
		Where(squirrel.Eq{"id": tenantID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("erro ao atualizar tenant: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error getting rows affected: %w", err)
	}

	return affected > 0, nil
}

func scanTenant(row scanner) (*domain.Tenant, error) {
	tenant := &domain.Tenant{}
	if err := row.Scan(
		&tenant.ID,
		&tenant.Name,
		&tenant.Document,
		&tenant.Plan,
		&tenant.Active,
		&tenant.WebhookSecret,
		&tenant.CreatedAt,
		&tenant.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return tenant, nil
}
