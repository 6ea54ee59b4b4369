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
	attendantsTable   = "attendants at"
	attendantsColumns = "at.id, at.tenant_id, at.user_id, at.name, at.code, at.monthly_salary, at.active, at.goal_sales_count, at.goal_sales_value, at.created_at, at.updated_at"
)

type AttendantRepository interface {
	GetByID(ctx context.Context, tenantID, attendantID string) (*domain.Attendant, error)
	GetByCode(ctx context.Context, tenantID, code string) (*domain.Attendant, error)
	ListWithOverrides(ctx context.Context, tenantID string) ([]*domain.Attendant, error)
	CreateWithUser(ctx context.Context, attendant *domain.Attendant, user *domain.User) error
}

type attendantRepository struct {
	conn *postgres.Connection
}

func NewAttendantRepository(conn *postgres.Connection) AttendantRepository {
	return &attendantRepository{
		conn: conn,
	}
}

func (r *attendantRepository) GetByID(ctx context.Context, tenantID, attendantID string) (*domain.Attendant, error) {
	return r.getAttendant(ctx, squirrel.Eq{"at.tenant_id": tenantID, "at.id": attendantID})
}

// GetByCode casa o código sem diferenciar maiúsculas de minúsculas.
func (r *attendantRepository) GetByCode(ctx context.Context, tenantID, code string) (*domain.Attendant, error) {
	return r.getAttendant(ctx, squirrel.And{
		squirrel.Eq{"at.tenant_id": tenantID},
		squirrel.Expr("UPPER(at.code) = ?", domain.NormalizeCode(code)),
	})
}

func (r *attendantRepository) getAttendant(ctx context.Context, where squirrel.Sqlizer) (*domain.Attendant, error) {
	query, args, err := squirrel.
		Select(attendantsColumns).
		From(attendantsTable).
		Where(where).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	attendant, err := scanAttendant(r.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao buscar atendente: %w", err)
	}

	if err := r.loadRules(ctx, attendant); err != nil {
		return nil, err
	}

	return attendant, nil
}

// ListWithOverrides devolve todos os atendentes do tenant, inclusive os
// desativados, com as regras de comissão. Criativos autorizados não são
// carregados.
func (r *attendantRepository) ListWithOverrides(ctx context.Context, tenantID string) ([]*domain.Attendant, error) {
	query, args, err := squirrel.
		Select(attendantsColumns).
		From(attendantsTable).
		Where(squirrel.Eq{"at.tenant_id": tenantID}).
		OrderBy("at.name ASC").
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

	attendants := make([]*domain.Attendant, 0)
	byID := map[string]*domain.Attendant{}
	for rows.Next() {
		attendant, err := scanAttendant(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao deserializar atendente: %w", err)
		}
		attendant.Overrides = make([]domain.CommissionOverride, 0)
		attendants = append(attendants, attendant)
		byID[attendant.ID] = attendant
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao iterar sobre os resultados: %w", err)
	}

	if err := r.loadTenantOverrides(ctx, tenantID, byID); err != nil {
		return nil, err
	}

	return attendants, nil
}

// loadTenantOverrides busca as regras de todos os atendentes do tenant numa
// única consulta.
func (r *attendantRepository) loadTenantOverrides(ctx context.Context, tenantID string, byID map[string]*domain.Attendant) error {
	if len(byID) == 0 {
		return nil
	}

	query, args, err := squirrel.
		Select("o.attendant_id, o.kit_id, o.type, o.value").
		From("attendant_commission_overrides o").
		Join("attendants at ON at.id = o.attendant_id").
		Where(squirrel.Eq{"at.tenant_id": tenantID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("erro ao buscar regras de comissão: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var attendantID string
		var o domain.CommissionOverride
		if err := rows.Scan(&attendantID, &o.KitID, &o.Type, &o.Value); err != nil {
			return fmt.Errorf("erro ao deserializar regra de comissão: %w", err)
		}
		if attendant, ok := byID[attendantID]; ok {
			attendant.Overrides = append(attendant.Overrides, o)
		}
	}

	return rows.Err()
}

// CreateWithUser grava o login, o atendente, as regras por kit e os criativos
// autorizados numa única transação.
func (r *attendantRepository) CreateWithUser(ctx context.Context, attendant *domain.Attendant, user *domain.User) error {
	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		if err := insertUser(ctx, tx, user); err != nil {
			return err
		}

		now := nowUTC()
		attendant.UserID = user.ID
		attendant.CreatedAt = now
		attendant.UpdatedAt = now

		var goalCount sql.NullInt64
		var goalValue sql.NullFloat64
		if attendant.Goal != nil {
			goalCount = sql.NullInt64{Int64: int64(attendant.Goal.SalesCount), Valid: true}
			goalValue = sql.NullFloat64{Float64: attendant.Goal.SalesValue, Valid: true}
		}

		query, args, err := squirrel.
			Insert("attendants").
			Columns("id", "tenant_id", "user_id", "name", "code", "monthly_salary", "active", "goal_sales_count", "goal_sales_value", "created_at", "updated_at").
			Values(attendant.ID, attendant.TenantID, attendant.UserID, attendant.Name, attendant.Code, attendant.MonthlySalary, attendant.Active, goalCount, goalValue, now, now).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("erro ao construir a query: %w", err)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return wrapExecError("erro ao inserir atendente", err)
		}

		if len(attendant.Overrides) > 0 {
			overrides := squirrel.
				Insert("attendant_commission_overrides").
				Columns("attendant_id", "kit_id", "type", "value").
				PlaceholderFormat(squirrel.Dollar)
			for _, o := range attendant.Overrides {
				overrides = overrides.Values(attendant.ID, o.KitID, o.Type, o.Value)
			}

			query, args, err := overrides.ToSql()
			if err != nil {
				return fmt.Errorf("erro ao construir a query: %w", err)
			}

			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return wrapExecError("erro ao inserir regras de comissão", err)
			}
		}

		if len(attendant.AuthorizedCreativeIDs) > 0 {
			creatives := squirrel.
				Insert("attendant_creatives").
				Columns("attendant_id", "creative_id").
				PlaceholderFormat(squirrel.Dollar)
			for _, creativeID := range attendant.AuthorizedCreativeIDs {
				creatives = creatives.Values(attendant.ID, creativeID)
			}

			query, args, err := creatives.ToSql()
			if err != nil {
				return fmt.Errorf("erro ao construir a query: %w", err)
			}

			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return wrapExecError("erro ao inserir criativos autorizados", err)
			}
		}

		return nil
	})
}

func (r *attendantRepository) loadRules(ctx context.Context, attendant *domain.Attendant) error {
	query, args, err := squirrel.
		Select("o.kit_id, o.type, o.value").
		From("attendant_commission_overrides o").
		Where(squirrel.Eq{"o.attendant_id": attendant.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("erro ao buscar regras de comissão: %w", err)
	}
	defer rows.Close()

	attendant.Overrides = make([]domain.CommissionOverride, 0)
	for rows.Next() {
		var o domain.CommissionOverride
		if err := rows.Scan(&o.KitID, &o.Type, &o.Value); err != nil {
			return fmt.Errorf("erro ao deserializar regra de comissão: %w", err)
		}
		attendant.Overrides = append(attendant.Overrides, o)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("erro ao iterar sobre os resultados: %w", err)
	}

	query, args, err = squirrel.
		Select("ac.creative_id").
		From("attendant_creatives ac").
		Where(squirrel.Eq{"ac.attendant_id": attendant.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	creativeRows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("erro ao buscar criativos autorizados: %w", err)
	}
	defer creativeRows.Close()

	attendant.AuthorizedCreativeIDs = make([]string, 0)
	for creativeRows.Next() {
		var creativeID string
		if err := creativeRows.Scan(&creativeID); err != nil {
			return fmt.Errorf("erro ao deserializar criativo autorizado: %w", err)
		}
		attendant.AuthorizedCreativeIDs = append(attendant.AuthorizedCreativeIDs, creativeID)
	}

	return creativeRows.Err()
}

func scanAttendant(row scanner) (*domain.Attendant, error) {
	attendant := &domain.Attendant{}

	var goalCount sql.NullInt64
	var goalValue sql.NullFloat64

	if err := row.Scan(
		&attendant.ID,
		&attendant.TenantID,
		&attendant.UserID,
		&attendant.Name,
		&attendant.Code,
		&attendant.MonthlySalary,
		&attendant.Active,
		&goalCount,
		&goalValue,
		&attendant.CreatedAt,
		&attendant.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if goalCount.Valid || goalValue.Valid {
		attendant.Goal = &domain.MonthlyGoal{
			SalesCount: int(goalCount.Int64),
			SalesValue: goalValue.Float64,
		}
	}

	return attendant, nil
}
