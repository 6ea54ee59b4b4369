package reconciling

import (
	"context"
	"crypto/subtle"
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
	"github.com/pkg/errors"
)

// WebhookActor identifica as alterações feitas pela plataforma de pedidos.
const WebhookActor = "Webhook/Braip"

type Reconciler interface {
	Reconcile(ctx context.Context, payload *domain.WebhookPayload) (*domain.ReconcileResult, error)
}

type Service struct {
	tenantRepo    repository.TenantRepository
	kitRepo       repository.KitRepository
	creativeRepo  repository.CreativeRepository
	attendantRepo repository.AttendantRepository
	saleRepo      repository.SaleRepository
	locker        cache.Locker
	metricsCache  cache.MetricsCache
	webhookSecret string
	now           func() time.Time
}

func NewService(
	tenantRepo repository.TenantRepository,
	kitRepo repository.KitRepository,
	creativeRepo repository.CreativeRepository,
	attendantRepo repository.AttendantRepository,
	saleRepo repository.SaleRepository,
	locker cache.Locker,
	metricsCache cache.MetricsCache,
	webhookSecret string,
) Reconciler {
	return &Service{
		tenantRepo:    tenantRepo,
		kitRepo:       kitRepo,
		creativeRepo:  creativeRepo,
		attendantRepo: attendantRepo,
		saleRepo:      saleRepo,
		locker:        locker,
		metricsCache:  metricsCache,
		webhookSecret: webhookSecret,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// attribution é o resultado da resolução de kit, criativo e atendente.
type attribution struct {
	kit       *domain.Kit
	creative  *domain.Creative
	attendant *domain.Attendant
	campaign  string
}

func (s *Service) Reconcile(ctx context.Context, payload *domain.WebhookPayload) (*domain.ReconcileResult, error) {
	result, err := s.reconcile(ctx, payload)
	if err != nil {
		metrics.WebhooksProcessed.WithLabelValues("rejected").Inc()
		return nil, err
	}

	if result.Created {
		metrics.WebhooksProcessed.WithLabelValues("created").Inc()
	} else {
		metrics.WebhooksProcessed.WithLabelValues("updated").Inc()
	}

	if result.Unidentified {
		metrics.UnidentifiedSales.Inc()
	}

	return result, nil
}

func (s *Service) reconcile(ctx context.Context, payload *domain.WebhookPayload) (*domain.ReconcileResult, error) {
	tenantID := strings.TrimSpace(payload.TenantID)
	if tenantID == "" {
		return nil, NewSaleError(ErrTenantRequired, apiErrors.ErrMissingRequiredData, "Informe o tenant_id do webhook")
	}

	orderID := strings.TrimSpace(payload.OrderID)
	if orderID == "" {
		return nil, NewSaleError(ErrOrderIDRequired, apiErrors.ErrMissingRequiredData, "Informe o order_id do pedido")
	}

	ctx = log.WithTenant(ctx, tenantID)
	logger := log.ForContext(ctx).WithField("external_id", orderID)

	if err := s.checkTenant(ctx, tenantID, payload.WebhookSecret); err != nil {
		return nil, err
	}

	status, err := normalizing.Normalize(payload.Status)
	if err != nil {
		return nil, NewSaleError(ErrUnrecognizedStatus, apiErrors.ErrInvalidStatus, err.Error())
	}

	paymentDate, err := utils.ParseDateTime(payload.PaymentDate)
	if err != nil {
		return nil, NewSaleError(ErrInvalidPaymentDate, apiErrors.ErrInvalidFormat, err.Error())
	}

	attr, err := s.resolve(ctx, tenantID, payload)
	if err != nil {
		return nil, err
	}

	release, err := s.locker.Lock(ctx, fmt.Sprintf("sale:%s:%s", tenantID, orderID))
	if err != nil {
		logger.WithError(err).Warn("Não foi possível obter o lock do pedido")
		return nil, NewSaleError(ErrSaleLocked, apiErrors.ErrResourceConflict, "Tente novamente em instantes")
	}
	defer release()

	existing, err := s.saleRepo.GetByExternalID(ctx, tenantID, orderID)
	if err != nil {
		logger.WithError(err).Error("Erro ao buscar venda existente")
		return nil, NewSaleError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao consultar venda")
	}

	var result *domain.ReconcileResult
	if existing == nil {
		result, err = s.create(ctx, tenantID, orderID, status, paymentDate, payload, attr)
	} else {
		result, err = s.update(ctx, existing, status, paymentDate, payload, attr)
	}
	if err != nil {
		return nil, err
	}

	s.metricsCache.InvalidateTenant(ctx, tenantID)

	logger.WithFields(log.Fields{
		"sale_id":      result.SaleID,
		"created":      result.Created,
		"unidentified": result.Unidentified,
	}).Info("Webhook processado")

	return result, nil
}

func (s *Service) checkTenant(ctx context.Context, tenantID, providedSecret string) error {
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao buscar tenant")
		return NewSaleError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao consultar tenant")
	}

	if tenant == nil {
		return NewSaleError(ErrTenantNotFound, apiErrors.ErrResourceNotFound, tenantID)
	}

	expected := s.webhookSecret
	if tenant.WebhookSecret != nil && *tenant.WebhookSecret != "" {
		expected = *tenant.WebhookSecret
	}

	if expected != "" && subtle.ConstantTimeCompare([]byte(expected), []byte(providedSecret)) != 1 {
		return NewSaleError(ErrInvalidWebhookSecret, apiErrors.ErrInvalidWebhookSecret, "")
	}

	if !tenant.Active {
		return NewSaleError(ErrTenantDisabled, apiErrors.ErrTenantDisabled, tenantID)
	}

	return nil
}

// resolve acha o kit, o criativo e o atendente do pedido. Só a ausência de
// kit é fatal; criativo e atendente não encontrados deixam a venda sem
// identificação.
func (s *Service) resolve(ctx context.Context, tenantID string, payload *domain.WebhookPayload) (*attribution, error) {
	kits, err := s.kitRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, NewSaleError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao consultar kits")
	}

	if len(kits) == 0 {
		return nil, NewSaleError(ErrNoKitsConfigured, apiErrors.ErrNoKitsConfigured, "Cadastre ao menos um kit antes de receber vendas")
	}

	ref := payload.KitReference()
	kit := findKit(kits, ref)
	if kit == nil {
		return nil, NewSaleError(ErrKitNotFound, apiErrors.ErrKitNotFound, fmt.Sprintf("produto %q", firstNonEmpty(ref.ID, ref.Code, ref.Name)))
	}

	attr := &attribution{
		kit:      kit,
		campaign: strings.TrimSpace(payload.UTMCampaign),
	}

	if code := strings.TrimSpace(payload.UTMContent); code != "" {
		attr.creative, err = s.creativeRepo.GetByName(ctx, tenantID, code)
		if err != nil {
			return nil, NewSaleError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao consultar criativo")
		}
	}

	if code := strings.TrimSpace(payload.UTMAttendant); code != "" {
		attr.attendant, err = s.attendantRepo.GetByCode(ctx, tenantID, code)
		if err != nil {
			return nil, NewSaleError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao consultar atendente")
		}
	}

	// sem utm_campaign a campanha vem do próprio criativo
	if attr.campaign == "" && attr.creative != nil {
		attr.campaign = attr.creative.Campaign
	}

	return attr, nil
}

// findKit procura por id, depois código e por fim nome, sem diferenciar
// maiúsculas. O produto pode vir tanto como código quanto como nome.
func findKit(kits []*domain.Kit, ref domain.KitReference) *domain.Kit {
	if ref.IsEmpty() {
		return nil
	}

	if ref.ID != "" {
		for _, kit := range kits {
			if kit.ID == ref.ID {
				return kit
			}
		}
	}

	for _, candidate := range []string{ref.Code, ref.Name} {
		code := domain.NormalizeCode(candidate)
		if code == "" {
			continue
		}
		for _, kit := range kits {
			if kit.Code != "" && domain.NormalizeCode(kit.Code) == code {
				return kit
			}
		}
	}

	for _, candidate := range []string{ref.Name, ref.Code} {
		name := strings.TrimSpace(candidate)
		if name == "" {
			continue
		}
		for _, kit := range kits {
			if strings.EqualFold(strings.TrimSpace(kit.Name), name) {
				return kit
			}
		}
	}

	return nil
}

func (s *Service) create(
	ctx context.Context,
	tenantID, orderID string,
	status domain.SaleStatus,
	paymentDate *time.Time,
	payload *domain.WebhookPayload,
	attr *attribution,
) (*domain.ReconcileResult, error) {
	id, err := utils.GenerateID()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao gerar id da venda")
	}

	now := s.now()
	sale := &domain.Sale{
		ID:              id,
		TenantID:        tenantID,
		ExternalOrderID: orderID,
		Customer:        payload.Customer,
		KitID:           attr.kit.ID,
		ScheduledAt:     now,
		Value:           payload.Value,
		DiscountMode:    domain.DiscountModeNone,
		CampaignCode:    attr.campaign,
		CreativeCode:    strings.TrimSpace(payload.UTMContent),
		AttendantCode:   strings.TrimSpace(payload.UTMAttendant),
		Notes:           payload.Notes,
	}

	if attr.attendant != nil {
		sale.AttendantID = &attr.attendant.ID
	}
	if attr.creative != nil {
		sale.CreativeID = &attr.creative.ID
	}
	if status == domain.SaleStatusPaid && paymentDate != nil {
		sale.PaidAt = paymentDate
	}

	if change := sale.ChangeStatus(status, domain.ChangeOriginWebhook, WebhookActor, now); change != nil {
		change.Notes = "Venda criada via webhook"
	}

	s.applyRules(ctx, sale, attr)

	inserted, err := s.saleRepo.Insert(ctx, sale)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao inserir venda")
		return nil, NewSaleError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao gravar venda")
	}

	if !inserted {
		// outra entrega do mesmo pedido gravou primeiro; segue como atualização
		existing, err := s.saleRepo.GetByExternalID(ctx, tenantID, orderID)
		if err != nil || existing == nil {
			log.ForContext(ctx).WithError(err).Error("Venda concorrente não encontrada após conflito")
			return nil, NewSaleError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao gravar venda")
		}
		return s.update(ctx, existing, status, paymentDate, payload, attr)
	}

	return &domain.ReconcileResult{
		SaleID:       sale.ID,
		Created:      true,
		Unidentified: sale.Unidentified,
		Message:      outcomeMessage("Venda registrada", sale.Unidentified),
	}, nil
}

func (s *Service) update(
	ctx context.Context,
	sale *domain.Sale,
	status domain.SaleStatus,
	paymentDate *time.Time,
	payload *domain.WebhookPayload,
	attr *attribution,
) (*domain.ReconcileResult, error) {
	now := s.now()

	sale.Value = payload.Value
	sale.KitID = attr.kit.ID
	sale.Customer = mergeCustomer(sale.Customer, payload.Customer)

	if sale.AttendantID == nil && attr.attendant != nil {
		sale.AttendantID = &attr.attendant.ID
		sale.AttendantCode = strings.TrimSpace(payload.UTMAttendant)
	}
	if sale.CreativeID == nil && attr.creative != nil {
		sale.CreativeID = &attr.creative.ID
		sale.CreativeCode = strings.TrimSpace(payload.UTMContent)
	}
	if sale.CampaignCode == "" {
		sale.CampaignCode = attr.campaign
	}
	if payload.Notes != "" {
		sale.Notes = payload.Notes
	}
	if status == domain.SaleStatusPaid && paymentDate != nil {
		sale.PaidAt = paymentDate
	}

	history := len(sale.History)
	sale.ChangeStatus(status, domain.ChangeOriginWebhook, WebhookActor, now)
	changes := append([]domain.StatusChange(nil), sale.History[history:]...)

	// o atendente já gravado pode ser outro que o do payload
	attendant := attr.attendant
	if sale.AttendantID != nil && (attendant == nil || attendant.ID != *sale.AttendantID) {
		var err error
		attendant, err = s.attendantRepo.GetByID(ctx, sale.TenantID, *sale.AttendantID)
		if err != nil {
			return nil, NewSaleErrorWithID(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, sale.ID, "Falha ao consultar atendente")
		}
	}

	s.applyRules(ctx, sale, &attribution{kit: attr.kit, attendant: attendant})

	if err := s.saleRepo.Update(ctx, sale, changes); err != nil {
		log.ForContext(ctx).WithError(err).WithField("sale_id", sale.ID).Error("Erro ao atualizar venda")
		return nil, NewSaleErrorWithID(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, sale.ID, "Falha ao atualizar venda")
	}

	return &domain.ReconcileResult{
		SaleID:       sale.ID,
		Created:      false,
		Unidentified: sale.Unidentified,
		Message:      outcomeMessage("Venda atualizada", sale.Unidentified),
	}, nil
}

// applyRules recalcula identificação e comissão da venda.
func (s *Service) applyRules(ctx context.Context, sale *domain.Sale, attr *attribution) {
	if denied := sale.EvaluateAttribution(attr.attendant); denied {
		metrics.AuthorizationDenied.Inc()
		log.ForContext(ctx).WithFields(log.Fields{
			"external_id":  sale.ExternalOrderID,
			"attendant_id": *sale.AttendantID,
			"creative_id":  *sale.CreativeID,
		}).Warn("Atendente sem autorização para o criativo, venda marcada como não identificada")
	}

	commissioning.Apply(sale, attr.kit, attr.attendant)
}

func mergeCustomer(current, incoming domain.Customer) domain.Customer {
	if incoming.Name != "" {
		current.Name = incoming.Name
	}
	if incoming.Phone != "" {
		current.Phone = incoming.Phone
	}
	if incoming.Document != "" {
		current.Document = incoming.Document
	}
	if incoming.State != "" {
		current.State = incoming.State
	}
	return current
}

func outcomeMessage(prefix string, unidentified bool) string {
	if unidentified {
		return prefix + " sem identificação completa de atendente, criativo ou campanha"
	}
	return prefix + " com sucesso"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
