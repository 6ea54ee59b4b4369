package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/isacLima251/MeuPainel0.2/infrastructure/database/postgres"
	"github.com/isacLima251/MeuPainel0.2/internal/domain"
)

type ExpenseRepository interface {
	Create(ctx context.Context, expense *domain.Expense) error
	List(ctx context.Context, tenantID string, window domain.MetricsWindow) ([]*domain.Expense, error)
	Delete(ctx context.Context, tenantID, id string) (bool, error)
	Sum(ctx context.Context, tenantID string, window domain.MetricsWindow) (float64, error)
}

type expenseRepository struct {
	conn *postgres.Connection
}

func NewExpenseRepository(conn *postgres.Connection) ExpenseRepository {
	return &expenseRepository{
		conn: conn,
	}
}

func (r *expenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	expense.CreatedAt = nowUTC()

	query, args, err := squirrel.
		Insert("expenses").
		Columns("id", "tenant_id", "description", "value", "category", "date", "created_at").
		Values(expense.ID, expense.TenantID, expense.Description, expense.Value, expense.Category, expense.Date, expense.CreatedAt).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return wrapExecError("erro ao inserir despesa", err)
	}

	return nil
}

func (r *expenseRepository) List(ctx context.Context, tenantID string, window domain.MetricsWindow) ([]*domain.Expense, error) {
	builder := squirrel.
		Select("e.id, e.tenant_id, e.description, e.value, e.category, e.date, e.created_at").
		From("expenses e").
		Where(squirrel.Eq{"e.tenant_id": tenantID}).
		OrderBy("e.date DESC").
		PlaceholderFormat(squirrel.Dollar)

	query, args, err := applyWindow(builder, "e.date", window).ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar despesas: %w", err)
	}
	defer rows.Close()

	expenses := make([]*domain.Expense, 0)
	for rows.Next() {
		var e domain.Expense
		if err := rows.Scan(&e.ID, &e.TenantID, &e.Description, &e.Value, &e.Category, &e.Date, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("erro ao deserializar despesa: %w", err)
		}
		expenses = append(expenses, &e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao iterar sobre os resultados: %w", err)
	}

	return expenses, nil
}

func (r *expenseRepository) Delete(ctx context.Context, tenantID, id string) (bool, error) {
	return deleteByTenant(ctx, r.conn, "expenses", tenantID, id)
}

func (r *expenseRepository) Sum(ctx context.Context, tenantID string, window domain.MetricsWindow) (float64, error) {
	return sumByTenant(ctx, r.conn, "expenses", tenantID, window)
}

func deleteByTenant(ctx context.Context, q postgres.Queryer, table, tenantID, id string) (bool, error) {
	query, args, err := squirrel.
		Delete(table).
		Where(squirrel.Eq{"id": id, "tenant_id": tenantID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build query: %w", err)
	}

	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("erro ao remover registro de %s: %w", table, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error getting rows affected: %w", err)
	}

	return affected > 0, nil
}

func sumByTenant(ctx context.Context, q postgres.Queryer, table, tenantID string, window domain.MetricsWindow) (float64, error) {
	query, args, err := buildSumQuery(table, tenantID, window).ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var total float64
	if err := q.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("erro ao somar %s: %w", table, err)
	}

	return total, nil
}

func buildSumQuery(table, tenantID string, window domain.MetricsWindow) squirrel.SelectBuilder {
	builder := squirrel.
		Select("COALESCE(SUM(value), 0)").
		From(table).
		Where(squirrel.Eq{"tenant_id": tenantID}).
		PlaceholderFormat(squirrel.Dollar)

	return applyWindow(builder, "date", window)
}
