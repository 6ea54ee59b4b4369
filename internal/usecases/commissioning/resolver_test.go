package commissioning

import (
	"testing"

	"github.com/isacLima251/MeuPainel0.2/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	kitPercentual := &domain.Kit{ID: "k3m", Code: "K3M", PercentageCommission: 10}
	kitFixo := &domain.Kit{ID: "k5m", Code: "K5M", FixedCommission: 30, PercentageCommission: 10}

	semRegra := &domain.Attendant{ID: "isa", Code: "ISA"}
	comFixo := &domain.Attendant{
		ID:        "bia",
		Overrides: []domain.CommissionOverride{{KitID: "k3m", Type: domain.CommissionTypeFixed, Value: 25}},
	}
	comPercentual := &domain.Attendant{
		ID:        "ana",
		Overrides: []domain.CommissionOverride{{KitID: "k3m", Type: domain.CommissionTypePercentage, Value: 15}},
	}

	tests := []struct {
		name      string
		sale      domain.Sale
		kit       *domain.Kit
		attendant *domain.Attendant
		want      float64
	}{
		{
			name:      "venda paga com kit percentual",
			sale:      domain.Sale{Status: domain.SaleStatusPaid, Value: 197},
			kit:       kitPercentual,
			attendant: semRegra,
			want:      19.70,
		},
		{
			name: "valor fixo positivo do kit vence o percentual",
			sale: domain.Sale{Status: domain.SaleStatusPaid, Value: 197},
			kit:  kitFixo,
			want: 30,
		},
		{
			name:      "regra fixa do atendente substitui a do kit",
			sale:      domain.Sale{Status: domain.SaleStatusPaid, Value: 197},
			kit:       kitPercentual,
			attendant: comFixo,
			want:      25,
		},
		{
			name:      "regra percentual do atendente",
			sale:      domain.Sale{Status: domain.SaleStatusPaid, Value: 200},
			kit:       kitPercentual,
			attendant: comPercentual,
			want:      30,
		},
		{
			name:      "regra do atendente para outro kit é ignorada",
			sale:      domain.Sale{Status: domain.SaleStatusPaid, Value: 100},
			kit:       kitFixo,
			attendant: comFixo,
			want:      30,
		},
		{
			name: "status diferente de pago não gera comissão",
			sale: domain.Sale{Status: domain.SaleStatusLatePayment, Value: 197},
			kit:  kitPercentual,
			want: 0,
		},
		{
			name: "cancelada sempre zera",
			sale: domain.Sale{Status: domain.SaleStatusCanceled, Value: 197},
			kit:  kitFixo,
			want: 0,
		},
		{
			name: "desconto com modo zero anula a comissão",
			sale: domain.Sale{Status: domain.SaleStatusPaid, Value: 197, DiscountValue: 10, DiscountMode: domain.DiscountModeZero},
			kit:  kitFixo,
			want: 0,
		},
		{
			name: "desconto proporcional",
			sale: domain.Sale{Status: domain.SaleStatusPaid, Value: 200, DiscountValue: 50, DiscountMode: domain.DiscountModeProportional},
			kit:  kitPercentual,
			// base 20 - 50 * (20/200) = 15
			want: 15,
		},
		{
			name: "desconto proporcional maior que o valor não fica negativo",
			sale: domain.Sale{Status: domain.SaleStatusPaid, Value: 100, DiscountValue: 150, DiscountMode: domain.DiscountModeProportional},
			kit:  kitFixo,
			want: 0,
		},
		{
			name: "desconto proporcional com valor zero mantém a base",
			sale: domain.Sale{Status: domain.SaleStatusPaid, Value: 0, DiscountValue: 10, DiscountMode: domain.DiscountModeProportional},
			kit:  kitFixo,
			want: 30,
		},
		{
			name: "desconto sem modo mantém a base",
			sale: domain.Sale{Status: domain.SaleStatusPaid, Value: 197, DiscountValue: 10, DiscountMode: domain.DiscountModeNone},
			kit:  kitPercentual,
			want: 19.70,
		},
		{
			name: "modo zero sem valor de desconto não altera",
			sale: domain.Sale{Status: domain.SaleStatusPaid, Value: 197, DiscountMode: domain.DiscountModeZero},
			kit:  kitPercentual,
			want: 19.70,
		},
		{
			name: "sem kit e sem regra do atendente",
			sale: domain.Sale{Status: domain.SaleStatusPaid, Value: 197},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(&tt.sale, tt.kit, tt.attendant)
			assert.InDelta(t, tt.want, got, 0.001)
			assert.GreaterOrEqual(t, got, 0.0)
		})
	}
}

func TestResolveAsPaid(t *testing.T) {
	kit := &domain.Kit{ID: "k3m", PercentageCommission: 10}

	sale := &domain.Sale{Status: domain.SaleStatusScheduled, Value: 197}

	assert.Equal(t, 0.0, Resolve(sale, kit, nil))
	assert.InDelta(t, 19.70, ResolveAsPaid(sale, kit, nil), 0.001)
	assert.Equal(t, domain.SaleStatusScheduled, sale.Status)
}

func TestApply(t *testing.T) {
	kit := &domain.Kit{ID: "k3m", PercentageCommission: 10}
	sale := &domain.Sale{Status: domain.SaleStatusPaid, Value: 197, Commission: 99}

	assert.InDelta(t, 19.70, Apply(sale, kit, nil), 0.001)
	assert.InDelta(t, 19.70, sale.Commission, 0.001)

	sale.Status = domain.SaleStatusCanceled
	Apply(sale, kit, nil)
	assert.Equal(t, 0.0, sale.Commission)
}
