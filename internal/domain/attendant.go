package domain

import (
	"strings"
	"time"
)

type CommissionType string

const (
	CommissionTypeFixed      CommissionType = "fixed"
	CommissionTypePercentage CommissionType = "percentage"
)

// CommissionOverride substitui a regra do kit para um atendente específico.
type CommissionOverride struct {
	KitID string         `json:"kit_id" validate:"required"`
	Type  CommissionType `json:"type" validate:"required,oneof=fixed percentage"`
	Value float64        `json:"value" validate:"gte=0"`
}

type MonthlyGoal struct {
	SalesCount int     `json:"sales_count" validate:"gte=0"`
	SalesValue float64 `json:"sales_value" validate:"gte=0"`
}

type Attendant struct {
	ID                    string               `json:"id"`
	TenantID              string               `json:"tenant_id"`
	UserID                string               `json:"user_id"`
	Name                  string               `json:"name"`
	Code                  string               `json:"code"`
	MonthlySalary         float64              `json:"monthly_salary"`
	Active                bool                 `json:"active"`
	Overrides             []CommissionOverride `json:"overrides"`
	Goal                  *MonthlyGoal         `json:"goal,omitempty"`
	AuthorizedCreativeIDs []string             `json:"authorized_creative_ids"`
	CreatedAt             time.Time            `json:"created_at"`
	UpdatedAt             time.Time            `json:"updated_at"`
}

// OverrideFor retorna a regra específica do atendente para o kit, se existir.
func (a *Attendant) OverrideFor(kitID string) *CommissionOverride {
	if a == nil {
		return nil
	}

	for i := range a.Overrides {
		if a.Overrides[i].KitID == kitID {
			return &a.Overrides[i]
		}
	}

	return nil
}

// CanUseCreative considera liberado qualquer criativo quando o conjunto
// autorizado está vazio.
func (a *Attendant) CanUseCreative(creativeID string) bool {
	if a == nil || len(a.AuthorizedCreativeIDs) == 0 {
		return true
	}

	for _, id := range a.AuthorizedCreativeIDs {
		if id == creativeID {
			return true
		}
	}

	return false
}

// NormalizeCode é a chave usada para casar o código do link com o atendente.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

type CreateAttendantRequest struct {
	Name                  string               `json:"name" validate:"required"`
	Email                 string               `json:"email" validate:"required,email"`
	Password              string               `json:"password" validate:"required,min=6"`
	Code                  string               `json:"code" validate:"required"`
	MonthlySalary         float64              `json:"monthly_salary" validate:"gte=0"`
	Overrides             []CommissionOverride `json:"overrides" validate:"dive"`
	Goal                  *MonthlyGoal         `json:"goal"`
	AuthorizedCreativeIDs []string             `json:"authorized_creative_ids"`
}
