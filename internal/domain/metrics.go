package domain

import (
	"fmt"
	"time"
)

// MetricsScope define o recorte do agregador: o tenant inteiro ou um único
// atendente.
type MetricsScope struct {
	AttendantID *string
}

func TenantScope() MetricsScope {
	return MetricsScope{}
}

func AttendantScope(attendantID string) MetricsScope {
	return MetricsScope{AttendantID: &attendantID}
}

func (s MetricsScope) IsTenantWide() bool {
	return s.AttendantID == nil
}

func (s MetricsScope) Key() string {
	if s.AttendantID == nil {
		return "all"
	}
	return *s.AttendantID
}

// MetricsWindow é inclusiva nas duas pontas e aplicada à data de agendamento.
type MetricsWindow struct {
	StartDate *time.Time
	EndDate   *time.Time
}

func (w MetricsWindow) Key() string {
	format := func(t *time.Time) string {
		if t == nil {
			return "-"
		}
		return t.Format(time.DateOnly)
	}
	return fmt.Sprintf("%s:%s", format(w.StartDate), format(w.EndDate))
}

// Bounds devolve o intervalo efetivo, com a data final estendida até o último
// instante do dia.
func (w MetricsWindow) Bounds() (*time.Time, *time.Time) {
	var start, end *time.Time

	if w.StartDate != nil {
		s := time.Date(w.StartDate.Year(), w.StartDate.Month(), w.StartDate.Day(), 0, 0, 0, 0, w.StartDate.Location())
		start = &s
	}

	if w.EndDate != nil {
		e := time.Date(w.EndDate.Year(), w.EndDate.Month(), w.EndDate.Day(), 23, 59, 59, int(999*time.Millisecond), w.EndDate.Location())
		end = &e
	}

	return start, end
}

type StatusBucket struct {
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

type GoalProgress struct {
	TargetCount   int     `json:"target_count"`
	TargetValue   float64 `json:"target_value"`
	AchievedCount int     `json:"achieved_count"`
	AchievedValue float64 `json:"achieved_value"`
	CountProgress float64 `json:"count_progress"`
	ValueProgress float64 `json:"value_progress"`
}

type DashboardMetrics struct {
	TotalRevenue            float64       `json:"total_revenue"`
	TotalCommission         float64       `json:"total_commission"`
	NetProfit               float64       `json:"net_profit"`
	OperationalExpenses     float64       `json:"operational_expenses"`
	Investment              float64       `json:"investment"`
	ROI                     *float64      `json:"roi"`
	ROAS                    *float64      `json:"roas"`
	Scheduled               StatusBucket  `json:"scheduled"`
	AwaitingPayment         StatusBucket  `json:"awaiting_payment"`
	LatePayment             StatusBucket  `json:"late_payment"`
	Paid                    StatusBucket  `json:"paid"`
	Frustrated              StatusBucket  `json:"frustrated"`
	PotentialCommission     float64       `json:"potential_commission"`
	RealisticProjection     float64       `json:"realistic_projection"`
	TotalEarningsProjection float64       `json:"total_earnings_projection"`
	ConversionRate          float64       `json:"conversion_rate"`
	FrustrationRate         float64       `json:"frustration_rate"`
	Payroll                 float64       `json:"payroll"`
	AttendantSalary         float64       `json:"attendant_salary"`
	GoalProgress            *GoalProgress `json:"goal_progress,omitempty"`
}
