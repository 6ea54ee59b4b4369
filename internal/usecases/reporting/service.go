package reporting

import (
	"context"

	"github.com/isacLima251/MeuPainel0.2/infrastructure/cache"
	"github.com/isacLima251/MeuPainel0.2/infrastructure/repository"
	"github.com/isacLima251/MeuPainel0.2/internal/domain"
	"github.com/isacLima251/MeuPainel0.2/internal/usecases/commissioning"
	"github.com/isacLima251/MeuPainel0.2/pkg/apiErrors"
	"github.com/isacLima251/MeuPainel0.2/pkg/log"
	"github.com/isacLima251/MeuPainel0.2/pkg/utils"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Limite de consultas simultâneas por agregação
const maxConcurrentLoads = 4

type Service struct {
	saleRepo          repository.SaleRepository
	kitRepo           repository.KitRepository
	attendantRepo     repository.AttendantRepository
	expenseRepo       repository.ExpenseRepository
	creativeSpendRepo repository.CreativeSpendRepository
	monthlyRepo       repository.MonthlyMetricsRepository
	metricsCache      cache.MetricsCache
}

func NewService(
	saleRepo repository.SaleRepository,
	kitRepo repository.KitRepository,
	attendantRepo repository.AttendantRepository,
	expenseRepo repository.ExpenseRepository,
	creativeSpendRepo repository.CreativeSpendRepository,
	monthlyRepo repository.MonthlyMetricsRepository,
	metricsCache cache.MetricsCache,
) Reporter {
	return &Service{
		saleRepo:          saleRepo,
		kitRepo:           kitRepo,
		attendantRepo:     attendantRepo,
		expenseRepo:       expenseRepo,
		creativeSpendRepo: creativeSpendRepo,
		monthlyRepo:       monthlyRepo,
		metricsCache:      metricsCache,
	}
}

// ledger reúne tudo o que o cálculo precisa, já carregado do banco.
type ledger struct {
	sales      []*domain.Sale
	kits       map[string]*domain.Kit
	attendants map[string]*domain.Attendant
	scoped     *domain.Attendant
	expenses   float64
	investment float64
	payroll    float64
}

func (s *Service) Aggregate(ctx context.Context, tenantID string, scope domain.MetricsScope, window domain.MetricsWindow) (*domain.DashboardMetrics, error) {
	version := s.metricsCache.Version(ctx, tenantID)
	if cached, ok := s.metricsCache.Get(ctx, tenantID, version, scope, window); ok {
		return cached, nil
	}

	data, err := s.load(ctx, tenantID, scope, window)
	if err != nil {
		if errors.Is(err, ErrAttendantNotFound) {
			return nil, NewReportError(ErrAttendantNotFound, apiErrors.ErrResourceNotFound, *scope.AttendantID)
		}

		log.ForContext(ctx).WithError(err).Error("Erro ao carregar dados do dashboard")
		return nil, NewReportError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao calcular métricas")
	}

	result := compute(data)
	s.metricsCache.Set(ctx, tenantID, version, scope, window, result)

	return result, nil
}

// load busca vendas, kits, atendentes e os lançamentos em paralelo. Despesas e
// investimento só entram na visão do tenant inteiro.
func (s *Service) load(ctx context.Context, tenantID string, scope domain.MetricsScope, window domain.MetricsWindow) (*ledger, error) {
	data := &ledger{
		kits:       map[string]*domain.Kit{},
		attendants: map[string]*domain.Attendant{},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)

	g.Go(func() error {
		sales, err := s.saleRepo.ListForMetrics(gctx, tenantID, scope, window)
		if err != nil {
			return errors.Wrap(err, "listar vendas")
		}
		data.sales = sales
		return nil
	})

	// Kits e atendentes desativados ainda valem para vendas pendentes antigas.
	var kits []*domain.Kit
	g.Go(func() error {
		var err error
		kits, err = s.kitRepo.ListAll(gctx, tenantID)
		return errors.Wrap(err, "listar kits")
	})

	var attendants []*domain.Attendant
	g.Go(func() error {
		var err error
		attendants, err = s.attendantRepo.ListWithOverrides(gctx, tenantID)
		return errors.Wrap(err, "listar atendentes")
	})

	if scope.IsTenantWide() {
		g.Go(func() error {
			total, err := s.expenseRepo.Sum(gctx, tenantID, window)
			if err != nil {
				return errors.Wrap(err, "somar despesas")
			}
			data.expenses = total
			return nil
		})

		g.Go(func() error {
			total, err := s.creativeSpendRepo.Sum(gctx, tenantID, window)
			if err != nil {
				return errors.Wrap(err, "somar investimento")
			}
			data.investment = total
			return nil
		})
	} else {
		g.Go(func() error {
			attendant, err := s.attendantRepo.GetByID(gctx, tenantID, *scope.AttendantID)
			if err != nil {
				return errors.Wrap(err, "buscar atendente")
			}
			if attendant == nil {
				return ErrAttendantNotFound
			}
			data.scoped = attendant
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, kit := range kits {
		data.kits[kit.ID] = kit
	}

	for _, attendant := range attendants {
		data.attendants[attendant.ID] = attendant
		if scope.IsTenantWide() && attendant.Active {
			data.payroll += attendant.MonthlySalary
		}
	}

	if data.scoped != nil {
		data.attendants[data.scoped.ID] = data.scoped
	}

	return data, nil
}

func (l *ledger) attendantOf(sale *domain.Sale) *domain.Attendant {
	if sale.AttendantID == nil {
		return nil
	}
	return l.attendants[*sale.AttendantID]
}

// projected é a comissão que a venda pendente geraria se fosse paga. Sem kit
// cadastrado só a regra própria do atendente gera valor.
func (l *ledger) projected(sale *domain.Sale) float64 {
	return commissioning.ResolveAsPaid(sale, l.kits[sale.KitID], l.attendantOf(sale))
}

func compute(data *ledger) *domain.DashboardMetrics {
	m := &domain.DashboardMetrics{}
	var potential float64

	for _, sale := range data.sales {
		switch sale.Status {
		case domain.SaleStatusPaid:
			addTo(&m.Paid, sale)
			m.TotalRevenue += sale.Value
			m.TotalCommission += sale.Commission
			potential += sale.Commission
		case domain.SaleStatusFrustrated:
			addTo(&m.Frustrated, sale)
		case domain.SaleStatusScheduled:
			addTo(&m.Scheduled, sale)
			potential += data.projected(sale)
		case domain.SaleStatusAwaitingPayment:
			addTo(&m.AwaitingPayment, sale)
			potential += data.projected(sale)
		case domain.SaleStatusLatePayment:
			addTo(&m.LatePayment, sale)
			potential += data.projected(sale)
		}
	}

	if data.scoped == nil {
		m.Payroll = data.payroll
		m.OperationalExpenses = data.expenses + data.payroll
		m.Investment = data.investment
		m.NetProfit = m.TotalRevenue - m.OperationalExpenses - m.TotalCommission - m.Investment
	} else {
		m.AttendantSalary = data.scoped.MonthlySalary
		m.NetProfit = m.TotalRevenue - m.TotalCommission
	}

	if m.Investment > 0 {
		roi := utils.RoundWithTwoDecimalPlace((m.TotalRevenue - m.Investment) / m.Investment * 100)
		roas := utils.RoundWithTwoDecimalPlace(m.TotalRevenue / m.Investment)
		m.ROI = &roi
		m.ROAS = &roas
	}

	finished := float64(m.Paid.Count + m.Frustrated.Count)
	m.ConversionRate = utils.SafeRatio(float64(m.Paid.Count), finished)
	m.FrustrationRate = utils.SafeRatio(float64(m.Frustrated.Count), finished)

	m.PotentialCommission = utils.RoundWithTwoDecimalPlace(potential)
	m.RealisticProjection = utils.RoundWithTwoDecimalPlace(potential * m.ConversionRate)
	m.TotalEarningsProjection = utils.RoundWithTwoDecimalPlace(m.AttendantSalary + potential)

	if data.scoped != nil && data.scoped.Goal != nil {
		m.GoalProgress = goalProgress(data.scoped.Goal, m.Paid)
	}

	roundTotals(m)
	return m
}

func addTo(bucket *domain.StatusBucket, sale *domain.Sale) {
	bucket.Count++
	bucket.Value += sale.Value
}

func goalProgress(goal *domain.MonthlyGoal, paid domain.StatusBucket) *domain.GoalProgress {
	return &domain.GoalProgress{
		TargetCount:   goal.SalesCount,
		TargetValue:   goal.SalesValue,
		AchievedCount: paid.Count,
		AchievedValue: utils.RoundWithTwoDecimalPlace(paid.Value),
		CountProgress: utils.RoundWithTwoDecimalPlace(utils.SafeRatio(float64(paid.Count), float64(goal.SalesCount)) * 100),
		ValueProgress: utils.RoundWithTwoDecimalPlace(utils.SafeRatio(paid.Value, goal.SalesValue) * 100),
	}
}

func roundTotals(m *domain.DashboardMetrics) {
	m.TotalRevenue = utils.RoundWithTwoDecimalPlace(m.TotalRevenue)
	m.TotalCommission = utils.RoundWithTwoDecimalPlace(m.TotalCommission)
	m.NetProfit = utils.RoundWithTwoDecimalPlace(m.NetProfit)
	m.OperationalExpenses = utils.RoundWithTwoDecimalPlace(m.OperationalExpenses)
	m.Investment = utils.RoundWithTwoDecimalPlace(m.Investment)
	m.Payroll = utils.RoundWithTwoDecimalPlace(m.Payroll)

	for _, bucket := range []*domain.StatusBucket{&m.Scheduled, &m.AwaitingPayment, &m.LatePayment, &m.Paid, &m.Frustrated} {
		bucket.Value = utils.RoundWithTwoDecimalPlace(bucket.Value)
	}
}
