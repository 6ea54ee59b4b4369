package reporting

import (
	"context"
	"strings"

	"github.com/isacLima251/MeuPainel0.2/internal/domain"
	"github.com/isacLima251/MeuPainel0.2/pkg/apiErrors"
	"github.com/isacLima251/MeuPainel0.2/pkg/log"
)

// SnapshotMonth ignora o cache para gravar sempre o estado atual do banco.
func (s *Service) SnapshotMonth(ctx context.Context, tenantID, period string) (*domain.MonthlyMetricsEntry, error) {
	first, last, err := domain.MonthBounds(strings.TrimSpace(period))
	if err != nil {
		return nil, NewReportError(ErrInvalidPeriod, apiErrors.ErrInvalidFormat, period)
	}

	window := domain.MetricsWindow{StartDate: &first, EndDate: &last}

	data, err := s.load(ctx, tenantID, domain.TenantScope(), window)
	if err != nil {
		log.ForContext(ctx).WithError(err).WithField("period", period).Error("Erro ao carregar dados do fechamento mensal")
		return nil, NewReportError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao calcular fechamento")
	}

	entry := &domain.MonthlyMetricsEntry{
		TenantID: tenantID,
		Period:   domain.PeriodOf(first),
		Metrics:  compute(data),
	}

	if err := s.monthlyRepo.SaveOrUpdate(ctx, entry); err != nil {
		log.ForContext(ctx).WithError(err).WithField("period", period).Error("Erro ao salvar fechamento mensal")
		return nil, NewReportError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao salvar fechamento")
	}

	return entry, nil
}

func (s *Service) GetMonthlyMetrics(ctx context.Context, tenantID, period string) (*domain.MonthlyMetricsEntry, error) {
	if _, _, err := domain.MonthBounds(period); err != nil {
		return nil, NewReportError(ErrInvalidPeriod, apiErrors.ErrInvalidFormat, period)
	}

	entry, err := s.monthlyRepo.GetByPeriod(ctx, tenantID, period)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao buscar fechamento mensal")
		return nil, NewReportError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "")
	}

	if entry == nil {
		return nil, NewReportError(ErrSnapshotNotFound, apiErrors.ErrResourceNotFound, period)
	}

	return entry, nil
}

func (s *Service) ListPeriods(ctx context.Context, tenantID string) ([]string, error) {
	periods, err := s.monthlyRepo.ListPeriods(ctx, tenantID)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao listar períodos")
		return nil, NewReportError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "")
	}

	if periods == nil {
		periods = []string{}
	}

	return periods, nil
}
