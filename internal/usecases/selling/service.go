package selling

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/isacLima251/MeuPainel0.2/infrastructure/cache"
	"github.com/isacLima251/MeuPainel0.2/infrastructure/repository"
	"github.com/isacLima251/MeuPainel0.2/internal/domain"
	"github.com/isacLima251/MeuPainel0.2/internal/usecases/commissioning"
	"github.com/isacLima251/MeuPainel0.2/internal/usecases/normalizing"
	"github.com/isacLima251/MeuPainel0.2/pkg/apiErrors"
	"github.com/isacLima251/MeuPainel0.2/pkg/log"
	"github.com/isacLima251/MeuPainel0.2/pkg/metrics"
	"github.com/isacLima251/MeuPainel0.2/pkg/utils"
)

type SaleService interface {
	GetSale(ctx context.Context, tenantID, saleID string) (*domain.Sale, error)
	ListSales(ctx context.Context, tenantID string, filters domain.SaleFilters) ([]*domain.Sale, error)
	UpdateSale(ctx context.Context, tenantID, saleID string, req *domain.UpdateSaleRequest, actor string) (*domain.Sale, error)
}

type Service struct {
	saleRepo      repository.SaleRepository
	kitRepo       repository.KitRepository
	creativeRepo  repository.CreativeRepository
	attendantRepo repository.AttendantRepository
	locker        cache.Locker
	metricsCache  cache.MetricsCache
	now           func() time.Time
}

func NewService(
	saleRepo repository.SaleRepository,
	kitRepo repository.KitRepository,
	creativeRepo repository.CreativeRepository,
	attendantRepo repository.AttendantRepository,
	locker cache.Locker,
	metricsCache cache.MetricsCache,
) SaleService {
	return &Service{
		saleRepo:      saleRepo,
		kitRepo:       kitRepo,
		creativeRepo:  creativeRepo,
		attendantRepo: attendantRepo,
		locker:        locker,
		metricsCache:  metricsCache,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) GetSale(ctx context.Context, tenantID, saleID string) (*domain.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, tenantID, saleID)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao buscar venda")
		return nil, NewSaleError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, saleID, "Falha ao consultar venda")
	}

	if sale == nil {
		return nil, NewSaleError(ErrSaleNotFound, apiErrors.ErrResourceNotFound, saleID, "")
	}

	return sale, nil
}

func (s *Service) ListSales(ctx context.Context, tenantID string, filters domain.SaleFilters) ([]*domain.Sale, error) {
	sales, err := s.saleRepo.List(ctx, tenantID, filters)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao listar vendas")
		return nil, NewSaleError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "", "Falha ao listar vendas")
	}

	return sales, nil
}

// UpdateSale aplica a edição manual e recalcula comissão e identificação com
// as mesmas regras do webhook.
func (s *Service) UpdateSale(ctx context.Context, tenantID, saleID string, req *domain.UpdateSaleRequest, actor string) (*domain.Sale, error) {
	if req.IsEmpty() {
		return nil, NewSaleError(ErrNoFieldsToUpdate, apiErrors.ErrNoFieldsToUpdate, saleID, "")
	}

	var status *domain.SaleStatus
	if req.Status != nil {
		normalized, err := normalizing.Normalize(*req.Status)
		if err != nil {
			return nil, NewSaleError(ErrUnrecognizedStatus, apiErrors.ErrInvalidStatus, saleID, err.Error())
		}
		status = &normalized
	}

	var paymentDate *time.Time
	if req.PaymentDate != nil {
		parsed, err := utils.ParseDateTime(*req.PaymentDate)
		if err != nil {
			return nil, NewSaleError(ErrInvalidPaymentDate, apiErrors.ErrInvalidFormat, saleID, err.Error())
		}
		paymentDate = parsed
	}

	current, err := s.GetSale(ctx, tenantID, saleID)
	if err != nil {
		return nil, err
	}

	release, err := s.locker.Lock(ctx, fmt.Sprintf("sale:%s:%s", tenantID, current.ExternalOrderID))
	if err != nil {
		return nil, NewSaleError(ErrSaleLocked, apiErrors.ErrResourceConflict, saleID, "Tente novamente em instantes")
	}
	defer release()

	// relê dentro do lock para não sobrescrever um webhook concorrente
	sale, err := s.GetSale(ctx, tenantID, saleID)
	if err != nil {
		return nil, err
	}

	attendant, err := s.applyAssignment(ctx, sale, req)
	if err != nil {
		return nil, err
	}

	kit, err := s.kitRepo.GetByID(ctx, tenantID, sale.KitID)
	if err != nil {
		return nil, NewSaleError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, saleID, "Falha ao consultar kit")
	}

	if req.Value != nil {
		sale.Value = *req.Value
	}
	if req.DiscountValue != nil {
		sale.DiscountValue = *req.DiscountValue
	}
	if req.DiscountMode != nil {
		sale.DiscountMode = *req.DiscountMode
	}
	if req.Notes != nil {
		sale.Notes = *req.Notes
	}
	if paymentDate != nil {
		sale.PaidAt = paymentDate
	}

	before := len(sale.History)
	if status != nil {
		sale.ChangeStatus(*status, domain.ChangeOriginManual, actor, s.now())
	}
	changes := append([]domain.StatusChange(nil), sale.History[before:]...)

	if denied := sale.EvaluateAttribution(attendant); denied {
		metrics.AuthorizationDenied.Inc()
		log.ForContext(ctx).WithFields(log.Fields{
			"sale_id":      sale.ID,
			"attendant_id": *sale.AttendantID,
			"creative_id":  *sale.CreativeID,
		}).Warn("Atendente sem autorização para o criativo, venda marcada como não identificada")
	}

	commissioning.Apply(sale, kit, attendant)

	if err := s.saleRepo.Update(ctx, sale, changes); err != nil {
		log.ForContext(ctx).WithError(err).WithField("sale_id", sale.ID).Error("Erro ao atualizar venda")
		return nil, NewSaleError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, saleID, "Falha ao atualizar venda")
	}

	metrics.ManualEdits.Inc()
	if sale.Unidentified {
		metrics.UnidentifiedSales.Inc()
	}
	s.metricsCache.InvalidateTenant(ctx, tenantID)

	log.ForContext(ctx).WithFields(log.Fields{
		"sale_id":        sale.ID,
		"user_name":      actor,
		"status_changed": len(changes) > 0,
		"commission":     sale.Commission,
		"unidentified":   sale.Unidentified,
	}).Info("Venda editada manualmente")

	return sale, nil
}

// applyAssignment troca atendente, criativo e kit validando que pertencem ao
// tenant. Id vazio remove a atribuição. Devolve o atendente atual da venda.
func (s *Service) applyAssignment(ctx context.Context, sale *domain.Sale, req *domain.UpdateSaleRequest) (*domain.Attendant, error) {
	var attendant *domain.Attendant

	if req.AttendantID != nil {
		id := strings.TrimSpace(*req.AttendantID)
		if id == "" {
			sale.AttendantID = nil
			sale.AttendantCode = ""
		} else {
			found, err := s.attendantRepo.GetByID(ctx, sale.TenantID, id)
			if err != nil {
				return nil, NewSaleError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, sale.ID, "Falha ao consultar atendente")
			}
			if found == nil {
				return nil, NewSaleError(ErrAttendantNotFound, apiErrors.ErrInvalidRequest, sale.ID, id)
			}
			attendant = found
			sale.AttendantID = &found.ID
			sale.AttendantCode = found.Code
		}
	}

	if req.CreativeID != nil {
		id := strings.TrimSpace(*req.CreativeID)
		if id == "" {
			sale.CreativeID = nil
			sale.CreativeCode = ""
		} else {
			creative, err := s.creativeRepo.GetByID(ctx, sale.TenantID, id)
			if err != nil {
				return nil, NewSaleError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, sale.ID, "Falha ao consultar criativo")
			}
			if creative == nil {
				return nil, NewSaleError(ErrCreativeNotFound, apiErrors.ErrInvalidRequest, sale.ID, id)
			}
			sale.CreativeID = &creative.ID
			sale.CreativeCode = creative.Name
			if sale.CampaignCode == "" {
				sale.CampaignCode = creative.Campaign
			}
		}
	}

	if req.KitID != nil {
		kit, err := s.kitRepo.GetByID(ctx, sale.TenantID, *req.KitID)
		if err != nil {
			return nil, NewSaleError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, sale.ID, "Falha ao consultar kit")
		}
		if kit == nil {
			return nil, NewSaleError(ErrKitNotFound, apiErrors.ErrInvalidRequest, sale.ID, *req.KitID)
		}
		sale.KitID = kit.ID
	}

	if attendant == nil && sale.AttendantID != nil {
		found, err := s.attendantRepo.GetByID(ctx, sale.TenantID, *sale.AttendantID)
		if err != nil {
			return nil, NewSaleError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, sale.ID, "Falha ao consultar atendente")
		}
		attendant = found
	}

	return attendant, nil
}
