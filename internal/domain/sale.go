package domain

import "time"

type SaleStatus string

const (
	SaleStatusPaid            SaleStatus = "PAGO"
	SaleStatusAwaitingPayment SaleStatus = "AGUARDANDO_PAGAMENTO"
	SaleStatusScheduled       SaleStatus = "AGENDADO"
	SaleStatusLatePayment     SaleStatus = "PAGAMENTO_ATRASADO"
	SaleStatusCanceled        SaleStatus = "CANCELADA"
	SaleStatusFrustrated      SaleStatus = "FRUSTRADO"
)

var SaleStatuses = []SaleStatus{
	SaleStatusPaid,
	SaleStatusAwaitingPayment,
	SaleStatusScheduled,
	SaleStatusLatePayment,
	SaleStatusCanceled,
	SaleStatusFrustrated,
}

// IsPending indica os estados transitórios, que ainda podem virar pago,
// frustrado ou cancelado.
func (s SaleStatus) IsPending() bool {
	switch s {
	case SaleStatusScheduled, SaleStatusAwaitingPayment, SaleStatusLatePayment:
		return true
	}
	return false
}

type DiscountMode string

const (
	DiscountModeNone         DiscountMode = "none"
	DiscountModeProportional DiscountMode = "proportional"
	DiscountModeZero         DiscountMode = "zero"
)

type ChangeOrigin string

const (
	ChangeOriginManual  ChangeOrigin = "manual"
	ChangeOriginWebhook ChangeOrigin = "webhook"
)

type Customer struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Document string `json:"document"`
	State    string `json:"state"`
}

// StatusChange é uma entrada do histórico. OldStatus vazio marca a criação.
type StatusChange struct {
	ID        string       `json:"id"`
	SaleID    string       `json:"sale_id"`
	OldStatus SaleStatus   `json:"old_status"`
	NewStatus SaleStatus   `json:"new_status"`
	Origin    ChangeOrigin `json:"origin"`
	Actor     string       `json:"actor"`
	Notes     string       `json:"notes,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

type Sale struct {
	ID              string         `json:"id"`
	TenantID        string         `json:"tenant_id"`
	ExternalOrderID string         `json:"external_order_id"`
	Customer        Customer       `json:"customer"`
	AttendantID     *string        `json:"attendant_id"`
	CreativeID      *string        `json:"creative_id"`
	KitID           string         `json:"kit_id"`
	Status          SaleStatus     `json:"status"`
	ScheduledAt     time.Time      `json:"scheduled_at"`
	PaidAt          *time.Time     `json:"paid_at"`
	Value           float64        `json:"value"`
	Commission      float64        `json:"commission"`
	DiscountValue   float64        `json:"discount_value"`
	DiscountMode    DiscountMode   `json:"discount_mode"`
	CampaignCode    string         `json:"campaign_code"`
	CreativeCode    string         `json:"creative_code"`
	AttendantCode   string         `json:"attendant_code"`
	Unidentified    bool           `json:"unidentified"`
	Notes           string         `json:"notes"`
	History         []StatusChange `json:"history,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// ChangeStatus aplica o novo status e devolve a entrada de histórico gerada.
// Nada é registrado quando o status não muda.
func (s *Sale) ChangeStatus(status SaleStatus, origin ChangeOrigin, actor string, at time.Time) *StatusChange {
	if s.Status == status {
		return nil
	}

	change := StatusChange{
		SaleID:    s.ID,
		OldStatus: s.Status,
		NewStatus: status,
		Origin:    origin,
		Actor:     actor,
		CreatedAt: at,
	}

	s.Status = status
	s.History = append(s.History, change)

	if status == SaleStatusPaid && s.PaidAt == nil {
		paidAt := at
		s.PaidAt = &paidAt
	}

	return &s.History[len(s.History)-1]
}

// EvaluateAttribution recalcula a flag de venda não identificada a partir da
// atribuição atual. Retorna true quando o atendente não está autorizado a usar
// o criativo resolvido.
func (s *Sale) EvaluateAttribution(attendant *Attendant) (denied bool) {
	if s.AttendantID != nil && s.CreativeID != nil && attendant != nil {
		denied = !attendant.CanUseCreative(*s.CreativeID)
	}

	s.Unidentified = s.AttendantID == nil ||
		s.CreativeID == nil ||
		s.CampaignCode == "" ||
		denied

	return denied
}

type SaleFilters struct {
	Status           *SaleStatus
	AttendantID      *string
	UnidentifiedOnly bool
	StartDate        *time.Time
	EndDate          *time.Time
}

// UpdateSaleRequest é a edição manual parcial. Campos nulos não são alterados.
type UpdateSaleRequest struct {
	Status        *string       `json:"status"`
	Value         *float64      `json:"value" validate:"omitempty,gte=0"`
	DiscountValue *float64      `json:"discount_value" validate:"omitempty,gte=0"`
	DiscountMode  *DiscountMode `json:"discount_mode" validate:"omitempty,oneof=none proportional zero"`
	AttendantID   *string       `json:"attendant_id"`
	CreativeID    *string       `json:"creative_id"`
	KitID         *string       `json:"kit_id"`
	PaymentDate   *string       `json:"payment_date"`
	Notes         *string       `json:"notes"`
}

func (r *UpdateSaleRequest) IsEmpty() bool {
	return r == nil || (r.Status == nil &&
		r.Value == nil &&
		r.DiscountValue == nil &&
		r.DiscountMode == nil &&
		r.AttendantID == nil &&
		r.CreativeID == nil &&
		r.KitID == nil &&
		r.PaymentDate == nil &&
		r.Notes == nil)
}

// WebhookPayload é o corpo enviado pela plataforma de pedidos.
type WebhookPayload struct {
	TenantID      string   `json:"tenant_id"`
	OrderID       string   `json:"order_id" validate:"required"`
	Status        string   `json:"status" validate:"required"`
	Value         float64  `json:"value" validate:"gte=0"`
	KitID         string   `json:"kit_id"`
	KitCode       string   `json:"kit_code"`
	Product       string   `json:"product"`
	Customer      Customer `json:"customer"`
	UTMCampaign   string   `json:"utm_campaign"`
	UTMContent    string   `json:"utm_content"`
	UTMAttendant  string   `json:"utm_attendant"`
	PaymentDate   string   `json:"payment_date"`
	Notes         string   `json:"notes"`
	WebhookSecret string   `json:"-"`
}

func (p *WebhookPayload) KitReference() KitReference {
	return KitReference{ID: p.KitID, Code: p.KitCode, Name: p.Product}
}

type ReconcileResult struct {
	SaleID       string `json:"sale_id"`
	Created      bool   `json:"created"`
	Unidentified bool   `json:"unidentified"`
	Message      string `json:"message"`
}
