package domain

import "time"

type Expense struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	Description string    `json:"description"`
	Value       float64   `json:"value"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreativeSpend é o investimento em mídia de um criativo numa data.
type CreativeSpend struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"tenant_id"`
	CreativeID string    `json:"creative_id"`
	Value      float64   `json:"value"`
	Date       time.Time `json:"date"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreateExpenseRequest struct {
	Description string  `json:"description" validate:"required"`
	Value       float64 `json:"value" validate:"gt=0"`
	Category    string  `json:"category"`
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
}

type CreateCreativeSpendRequest struct {
	CreativeID string  `json:"creative_id" validate:"required"`
	Value      float64 `json:"value" validate:"gt=0"`
	Date       string  `json:"date" validate:"required,datetime=2006-01-02"`
}
