package domain

import (
	"fmt"
	"time"
)

// MonthlyMetricsEntry guarda o fechamento mensal do tenant no formato mm-yyyy.
type MonthlyMetricsEntry struct {
	ID        string            `json:"id"`
	TenantID  string            `json:"tenant_id"`
	Period    string            `json:"period"`
	Metrics   *DashboardMetrics `json:"metrics"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func PeriodOf(date time.Time) string {
	return fmt.Sprintf("%02d-%04d", int(date.Month()), date.Year())
}

// MonthBounds devolve o primeiro e o último dia do mês do período informado.
func MonthBounds(period string) (time.Time, time.Time, error) {
	first, err := time.Parse("01-2006", period)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("período inválido %q: %w", period, err)
	}

	last := first.AddDate(0, 1, -1)
	return first, last, nil
}
