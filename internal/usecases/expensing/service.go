package expensing

import (
	"context"
	"strings"

	"github.com/isacLima251/MeuPainel0.2/infrastructure/cache"
	"github.com/isacLima251/MeuPainel0.2/infrastructure/repository"
	"github.com/isacLima251/MeuPainel0.2/internal/domain"
	"github.com/isacLima251/MeuPainel0.2/pkg/apiErrors"
	"github.com/isacLima251/MeuPainel0.2/pkg/log"
	"github.com/isacLima251/MeuPainel0.2/pkg/utils"
)

// Ledger cuida das despesas operacionais e do investimento por criativo, as
// duas fontes de custo do dashboard.
type Ledger interface {
	CreateExpense(ctx context.Context, tenantID string, req *domain.CreateExpenseRequest) (*domain.Expense, error)
	ListExpenses(ctx context.Context, tenantID string, window domain.MetricsWindow) ([]*domain.Expense, error)
	DeleteExpense(ctx context.Context, tenantID, id string) error

	CreateCreativeSpend(ctx context.Context, tenantID string, req *domain.CreateCreativeSpendRequest) (*domain.CreativeSpend, error)
	ListCreativeSpends(ctx context.Context, tenantID string, window domain.MetricsWindow) ([]*domain.CreativeSpend, error)
	DeleteCreativeSpend(ctx context.Context, tenantID, id string) error
}

type Service struct {
	expenseRepo       repository.ExpenseRepository
	creativeSpendRepo repository.CreativeSpendRepository
	creativeRepo      repository.CreativeRepository
	metricsCache      cache.MetricsCache
}

func NewService(
	expenseRepo repository.ExpenseRepository,
	creativeSpendRepo repository.CreativeSpendRepository,
	creativeRepo repository.CreativeRepository,
	metricsCache cache.MetricsCache,
) Ledger {
	return &Service{
		expenseRepo:       expenseRepo,
		creativeSpendRepo: creativeSpendRepo,
		creativeRepo:      creativeRepo,
		metricsCache:      metricsCache,
	}
}

func (s *Service) CreateExpense(ctx context.Context, tenantID string, req *domain.CreateExpenseRequest) (*domain.Expense, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, NewLedgerError(ErrDescriptionMissing, apiErrors.ErrMissingRequiredData, "")
	}

	if req.Value <= 0 {
		return nil, NewLedgerError(ErrInvalidValue, apiErrors.ErrInvalidRequest, "")
	}

	date, err := utils.ParseDate(req.Date)
	if err != nil || date == nil {
		return nil, NewLedgerError(ErrInvalidDate, apiErrors.ErrInvalidFormat, req.Date)
	}

	id, err := utils.GenerateID()
	if err != nil {
		return nil, NewLedgerError(err, apiErrors.ErrInternalServer, "Erro ao gerar id")
	}

	expense := &domain.Expense{
		ID:          id,
		TenantID:    tenantID,
		Description: description,
		Value:       utils.RoundWithTwoDecimalPlace(req.Value),
		Category:    strings.TrimSpace(req.Category),
		Date:        *date,
	}

	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao criar despesa")
		return nil, NewLedgerError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Erro ao criar despesa")
	}

	s.metricsCache.InvalidateTenant(ctx, tenantID)
	return expense, nil
}

func (s *Service) ListExpenses(ctx context.Context, tenantID string, window domain.MetricsWindow) ([]*domain.Expense, error) {
	expenses, err := s.expenseRepo.List(ctx, tenantID, window)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao listar despesas")
		return nil, NewLedgerError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Erro ao listar despesas")
	}
	return expenses, nil
}

func (s *Service) DeleteExpense(ctx context.Context, tenantID, id string) error {
	deleted, err := s.expenseRepo.Delete(ctx, tenantID, id)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao remover despesa")
		return NewLedgerError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Erro ao remover despesa")
	}

	if !deleted {
		return NewLedgerError(ErrEntryNotFound, apiErrors.ErrResourceNotFound, id)
	}

	s.metricsCache.InvalidateTenant(ctx, tenantID)
	return nil
}

func (s *Service) CreateCreativeSpend(ctx context.Context, tenantID string, req *domain.CreateCreativeSpendRequest) (*domain.CreativeSpend, error) {
	if req.Value <= 0 {
		return nil, NewLedgerError(ErrInvalidValue, apiErrors.ErrInvalidRequest, "")
	}

	date, err := utils.ParseDate(req.Date)
	if err != nil || date == nil {
		return nil, NewLedgerError(ErrInvalidDate, apiErrors.ErrInvalidFormat, req.Date)
	}

	creative, err := s.creativeRepo.GetByID(ctx, tenantID, req.CreativeID)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao consultar criativo")
		return nil, NewLedgerError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Erro ao consultar criativo")
	}
	if creative == nil {
		return nil, NewLedgerError(ErrCreativeNotFound, apiErrors.ErrInvalidRequest, req.CreativeID)
	}

	id, err := utils.GenerateID()
	if err != nil {
		return nil, NewLedgerError(err, apiErrors.ErrInternalServer, "Erro ao gerar id")
	}

	spend := &domain.CreativeSpend{
		ID:         id,
		TenantID:   tenantID,
		CreativeID: creative.ID,
		Value:      utils.RoundWithTwoDecimalPlace(req.Value),
		Date:       *date,
	}

	if err := s.creativeSpendRepo.Create(ctx, spend); err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao registrar investimento")
		return nil, NewLedgerError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Erro ao registrar investimento")
	}

	s.metricsCache.InvalidateTenant(ctx, tenantID)
	return spend, nil
}

func (s *Service) ListCreativeSpends(ctx context.Context, tenantID string, window domain.MetricsWindow) ([]*domain.CreativeSpend, error) {
	spends, err := s.creativeSpendRepo.List(ctx, tenantID, window)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao listar investimentos")
		return nil, NewLedgerError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Erro ao listar investimentos")
	}
	return spends, nil
}

func (s *Service) DeleteCreativeSpend(ctx context.Context, tenantID, id string) error {
	deleted, err := s.creativeSpendRepo.Delete(ctx, tenantID, id)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao remover investimento")
		return NewLedgerError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Erro ao remover investimento")
	}

	if !deleted {
		return NewLedgerError(ErrEntryNotFound, apiErrors.ErrResourceNotFound, id)
	}

	s.metricsCache.InvalidateTenant(ctx, tenantID)
	return nil
}
