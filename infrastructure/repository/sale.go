package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/isacLima251/MeuPainel0.2/infrastructure/database/postgres"
	"github.com/isacLima251/MeuPainel0.2/internal/domain"
	"github.com/isacLima251/MeuPainel0.2/pkg/utils"
)

const (
	salesTable   = "sales s"
	salesColumns = "s.id, s.tenant_id, s.external_order_id, s.customer_name, s.customer_phone, s.customer_document, s.customer_state, " +
		"s.attendant_id, s.creative_id, s.kit_id, s.status, s.scheduled_at, s.paid_at, s.value, s.commission, s.discount_value, " +
		"s.discount_mode, s.campaign_code, s.creative_code, s.attendant_code, s.unidentified, s.notes, s.created_at, s.updated_at"
	historyTable = "sale_status_history h"
)

type SaleRepository interface {
	GetByID(ctx context.Context, tenantID, saleID string) (*domain.Sale, error)
	GetByExternalID(ctx context.Context, tenantID, externalOrderID string) (*domain.Sale, error)
	Insert(ctx context.Context, sale *domain.Sale) (bool, error)
	Update(ctx context.Context, sale *domain.Sale, changes []domain.StatusChange) error
	List(ctx context.Context, tenantID string, filters domain.SaleFilters) ([]*domain.Sale, error)
	ListForMetrics(ctx context.Context, tenantID string, scope domain.MetricsScope, window domain.MetricsWindow) ([]*domain.Sale, error)
}

type saleRepository struct {
	conn *postgres.Connection
}

func NewSaleRepository(conn *postgres.Connection) SaleRepository {
	return &saleRepository{
		conn: conn,
	}
}

// GetByID devolve a venda com o histórico em ordem cronológica.
func (r *saleRepository) GetByID(ctx context.Context, tenantID, saleID string) (*domain.Sale, error) {
	sale, err := r.getSale(ctx, squirrel.Eq{"s.tenant_id": tenantID, "s.id": saleID})
	if err != nil || sale == nil {
		return sale, err
	}

	history, err := r.listHistory(ctx, sale.ID)
	if err != nil {
		return nil, err
	}
	sale.History = history

	return sale, nil
}

func (r *saleRepository) GetByExternalID(ctx context.Context, tenantID, externalOrderID string) (*domain.Sale, error) {
	return r.getSale(ctx, squirrel.Eq{"s.tenant_id": tenantID, "s.external_order_id": externalOrderID})
}

func (r *saleRepository) getSale(ctx context.Context, where squirrel.Sqlizer) (*domain.Sale, error) {
	query, args, err := squirrel.
		Select(salesColumns).
		From(salesTable).
		Where(where).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	sale, err := scanSale(r.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao buscar venda: %w", err)
	}

	return sale, nil
}

// Insert grava a venda e o histórico inicial. Retorna false, sem erro, quando
// outro processo já gravou o mesmo pedido para o tenant.
func (r *saleRepository) Insert(ctx context.Context, sale *domain.Sale) (bool, error) {
	inserted := false

	err := r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		now := nowUTC()
		sale.CreatedAt = now
		sale.UpdatedAt = now

		query, args, err := squirrel.
			Insert("sales").
			Columns(
				"id", "tenant_id", "external_order_id", "customer_name", "customer_phone", "customer_document", "customer_state",
				"attendant_id", "creative_id", "kit_id", "status", "scheduled_at", "paid_at", "value", "commission", "discount_value",
				"discount_mode", "campaign_code", "creative_code", "attendant_code", "unidentified", "notes", "created_at", "updated_at",
			).
			Values(
				sale.ID, sale.TenantID, sale.ExternalOrderID, sale.Customer.Name, sale.Customer.Phone, sale.Customer.Document, sale.Customer.State,
				sale.AttendantID, sale.CreativeID, sale.KitID, sale.Status, sale.ScheduledAt, sale.PaidAt, sale.Value, sale.Commission, sale.DiscountValue,
				sale.DiscountMode, sale.CampaignCode, sale.CreativeCode, sale.AttendantCode, sale.Unidentified, sale.Notes, now, now,
			).
			Suffix("ON CONFLICT (tenant_id, external_order_id) DO NOTHING").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build query: %w", err)
		}

		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return wrapExecError("erro ao inserir venda", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("error getting rows affected: %w", err)
		}

		if affected == 0 {
			return nil
		}

		inserted = true
		return insertHistory(ctx, tx, sale.TenantID, sale.ID, sale.History)
	})
	if err != nil {
		return false, err
	}

	return inserted, nil
}

// Update persiste a venda e acrescenta as novas entradas de histórico na
// mesma transação.
func (r *saleRepository) Update(ctx context.Context, sale *domain.Sale, changes []domain.StatusChange) error {
	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		sale.UpdatedAt = nowUTC()

		query, args, err := squirrel.
			Update("sales").
			SetMap(map[string]interface{}{
				"customer_name":     sale.Customer.Name,
				"customer_phone":    sale.Customer.Phone,
				"customer_document": sale.Customer.Document,
				"customer_state":    sale.Customer.State,
				"attendant_id":      sale.AttendantID,
				"creative_id":       sale.CreativeID,
				"kit_id":            sale.KitID,
				"status":            sale.Status,
				"paid_at":           sale.PaidAt,
				"value":             sale.Value,
				"commission":        sale.Commission,
				"discount_value":    sale.DiscountValue,
				"discount_mode":     sale.DiscountMode,
				"campaign_code":     sale.CampaignCode,
				"creative_code":     sale.CreativeCode,
				"attendant_code":    sale.AttendantCode,
				"unidentified":      sale.Unidentified,
				"notes":             sale.Notes,
				"updated_at":        sale.UpdatedAt,
			}).
			Where(squirrel.Eq{"id": sale.ID, "tenant_id": sale.TenantID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build query: %w", err)
		}

		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("erro ao atualizar venda: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("error getting rows affected: %w", err)
		}

		if affected == 0 {
			return fmt.Errorf("venda %s não encontrada", sale.ID)
		}

		return insertHistory(ctx, tx, sale.TenantID, sale.ID, changes)
	})
}

func insertHistory(ctx context.Context, q postgres.Queryer, tenantID, saleID string, changes []domain.StatusChange) error {
	if len(changes) == 0 {
		return nil
	}

	insert := squirrel.
		Insert("sale_status_history").
		Columns("id", "tenant_id", "sale_id", "old_status", "new_status", "origin", "actor", "notes", "created_at").
		PlaceholderFormat(squirrel.Dollar)

	for i := range changes {
		change := &changes[i]
		if change.ID == "" {
			id, err := utils.GenerateID()
			if err != nil {
				return fmt.Errorf("erro ao gerar id do histórico: %w", err)
			}
			change.ID = id
		}
		change.SaleID = saleID

		var oldStatus sql.NullString
		if change.OldStatus != "" {
			oldStatus = sql.NullString{String: string(change.OldStatus), Valid: true}
		}

		insert = insert.Values(change.ID, tenantID, saleID, oldStatus, change.NewStatus, change.Origin, change.Actor, change.Notes, change.CreatedAt)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("erro ao inserir histórico da venda: %w", err)
	}

	return nil
}

func (r *saleRepository) listHistory(ctx context.Context, saleID string) ([]domain.StatusChange, error) {
	query, args, err := squirrel.
		Select("h.id, h.sale_id, h.old_status, h.new_status, h.origin, h.actor, h.notes, h.created_at").
		From(historyTable).
		Where(squirrel.Eq{"h.sale_id": saleID}).
		OrderBy("h.created_at ASC", "h.id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar histórico da venda: %w", err)
	}
	defer rows.Close()

	history := make([]domain.StatusChange, 0)
	for rows.Next() {
		var change domain.StatusChange
		var oldStatus sql.NullString

		if err := rows.Scan(
			&change.ID,
			&change.SaleID,
			&oldStatus,
			&change.NewStatus,
			&change.Origin,
			&change.Actor,
			&change.Notes,
			&change.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("erro ao deserializar histórico: %w", err)
		}

		change.OldStatus = domain.SaleStatus(oldStatus.String)
		history = append(history, change)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao iterar sobre os resultados: %w", err)
	}

	return history, nil
}

func (r *saleRepository) List(ctx context.Context, tenantID string, filters domain.SaleFilters) ([]*domain.Sale, error) {
	return r.querySales(ctx, buildSalesListQuery(tenantID, filters))
}

func (r *saleRepository) ListForMetrics(ctx context.Context, tenantID string, scope domain.MetricsScope, window domain.MetricsWindow) ([]*domain.Sale, error) {
	return r.querySales(ctx, buildSalesMetricsQuery(tenantID, scope, window))
}

func (r *saleRepository) querySales(ctx context.Context, builder squirrel.SelectBuilder) ([]*domain.Sale, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	sales := make([]*domain.Sale, 0)
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao deserializar venda: %w", err)
		}
		sales = append(sales, sale)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao iterar sobre os resultados: %w", err)
	}

	return sales, nil
}

func buildSalesListQuery(tenantID string, filters domain.SaleFilters) squirrel.SelectBuilder {
	query := squirrel.
		Select(salesColumns).
		From(salesTable).
		Where(squirrel.Eq{"s.tenant_id": tenantID}).
		OrderBy("s.scheduled_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if filters.Status != nil {
		query = query.Where(squirrel.Eq{"s.status": *filters.Status})
	}

	if filters.AttendantID != nil {
		query = query.Where(squirrel.Eq{"s.attendant_id": *filters.AttendantID})
	}

	if filters.UnidentifiedOnly {
		query = query.Where(squirrel.Eq{"s.unidentified": true})
	}

	return applyWindow(query, "s.scheduled_at", domain.MetricsWindow{
		StartDate: filters.StartDate,
		EndDate:   filters.EndDate,
	})
}

// buildSalesMetricsQuery nunca inclui vendas canceladas.
func buildSalesMetricsQuery(tenantID string, scope domain.MetricsScope, window domain.MetricsWindow) squirrel.SelectBuilder {
	query := squirrel.
		Select(salesColumns).
		From(salesTable).
		Where(squirrel.Eq{"s.tenant_id": tenantID}).
		Where(squirrel.NotEq{"s.status": domain.SaleStatusCanceled}).
		PlaceholderFormat(squirrel.Dollar)

	if !scope.IsTenantWide() {
		query = query.Where(squirrel.Eq{"s.attendant_id": *scope.AttendantID})
	}

	return applyWindow(query, "s.scheduled_at", window)
}

func scanSale(row scanner) (*domain.Sale, error) {
	sale := &domain.Sale{}
	if err := row.Scan(
		&sale.ID,
		&sale.TenantID,
		&sale.ExternalOrderID,
		&sale.Customer.Name,
		&sale.Customer.Phone,
		&sale.Customer.Document,
		&sale.Customer.State,
		&sale.AttendantID,
		&sale.CreativeID,
		&sale.KitID,
		&sale.Status,
		&sale.ScheduledAt,
		&sale.PaidAt,
		&sale.Value,
		&sale.Commission,
		&sale.DiscountValue,
		&sale.DiscountMode,
		&sale.CampaignCode,
		&sale.CreativeCode,
		&sale.AttendantCode,
		&sale.Unidentified,
		&sale.Notes,
		&sale.CreatedAt,
		&sale.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return sale, nil
}
