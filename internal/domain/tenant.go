package domain

import "time"

type TenantPlan string

const (
	TenantPlanBasic   TenantPlan = "basic"
	TenantPlanPro     TenantPlan = "pro"
	TenantPlanPremium TenantPlan = "premium"
)

// Tenant representa um cliente isolado da plataforma. Desativar um tenant
// nunca apaga dados, apenas bloqueia webhooks e dashboards.
type Tenant struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Document      string     `json:"document"`
	Plan          TenantPlan `json:"plan"`
	Active        bool       `json:"active"`
	WebhookSecret *string    `json:"-"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type CreateTenantRequest struct {
	Name          string     `json:"name" validate:"required"`
	Document      string     `json:"document" validate:"required"`
	Plan          TenantPlan `json:"plan" validate:"omitempty,oneof=basic pro premium"`
	WebhookSecret *string    `json:"webhook_secret"`
	AdminName     string     `json:"admin_name" validate:"required"`
	AdminEmail    string     `json:"admin_email" validate:"required,email"`
	AdminPassword string     `json:"admin_password" validate:"required,min=6"`
}

type CreateTenantResponse struct {
	Tenant *Tenant `json:"tenant"`
	Admin  *User   `json:"admin"`
}

type SetTenantActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}
