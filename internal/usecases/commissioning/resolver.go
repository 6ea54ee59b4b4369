package commissioning

import (
	"math"

	"github.com/isacLima251/MeuPainel0.2/internal/domain"
	"github.com/isacLima251/MeuPainel0.2/pkg/metrics"
	"github.com/isacLima251/MeuPainel0.2/pkg/utils"
)

// Apply recalcula e grava a comissão na venda. É o único ponto de escrita da
// comissão, usado pelo webhook e pela edição manual.
func Apply(sale *domain.Sale, kit *domain.Kit, attendant *domain.Attendant) float64 {
	sale.Commission = Resolve(sale, kit, attendant)
	if sale.Commission > 0 {
		metrics.CommissionResolved.Observe(sale.Commission)
	}
	return sale.Commission
}

// Resolve calcula a comissão da venda. Só vendas pagas geram comissão.
func Resolve(sale *domain.Sale, kit *domain.Kit, attendant *domain.Attendant) float64 {
	if sale == nil || sale.Status != domain.SaleStatusPaid {
		return 0
	}

	return ResolveAsPaid(sale, kit, attendant)
}

// ResolveAsPaid calcula a comissão como se a venda já estivesse paga. Usado
// nas projeções do dashboard.
func ResolveAsPaid(sale *domain.Sale, kit *domain.Kit, attendant *domain.Attendant) float64 {
	if sale == nil {
		return 0
	}

	base := baseAmount(sale, kit, attendant)
	commission := applyDiscount(base, sale)

	return utils.RoundWithTwoDecimalPlace(math.Max(commission, 0))
}

func baseAmount(sale *domain.Sale, kit *domain.Kit, attendant *domain.Attendant) float64 {
	kitID := sale.KitID
	if kit != nil {
		kitID = kit.ID
	}

	if override := attendant.OverrideFor(kitID); override != nil {
		if override.Type == domain.CommissionTypePercentage {
			return sale.Value * override.Value / 100
		}
		return override.Value
	}

	if kit == nil {
		return 0
	}

	if kit.FixedCommission > 0 {
		return kit.FixedCommission
	}

	return sale.Value * kit.PercentageCommission / 100
}

func applyDiscount(base float64, sale *domain.Sale) float64 {
	if sale.DiscountValue <= 0 {
		return base
	}

	switch sale.DiscountMode {
	case domain.DiscountModeZero:
		return 0
	case domain.DiscountModeProportional:
		// sem valor de venda não há proporção a aplicar
		if sale.Value <= 0 {
			return base
		}
		return math.Max(base-sale.DiscountValue*(base/sale.Value), 0)
	default:
		return base
	}
}
