package normalizing

import (
	"testing"

	"github.com/isacLima251/MeuPainel0.2/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want domain.SaleStatus
	}{
		{"paid", domain.SaleStatusPaid},
		{"PAGO", domain.SaleStatusPaid},
		{"  Pago ", domain.SaleStatusPaid},
		{"Aguardando Pagamento", domain.SaleStatusAwaitingPayment},
		{"waiting-payment", domain.SaleStatusAwaitingPayment},
		{"AGUARDANDO_PAGAMENTO", domain.SaleStatusAwaitingPayment},
		{"scheduled", domain.SaleStatusScheduled},
		{"late-payment", domain.SaleStatusLatePayment},
		{"Pagamento  Atrasado", domain.SaleStatusLatePayment},
		{"late", domain.SaleStatusLatePayment},
		{"cancelled", domain.SaleStatusCanceled},
		{"Cancelada", domain.SaleStatusCanceled},
		{"frustrated", domain.SaleStatusFrustrated},
		{"rejected", domain.SaleStatusFrustrated},
		{"Frustração", ""},
		{"AGENDADO", domain.SaleStatusScheduled},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := Normalize(tt.raw)
			if tt.want == "" {
				assert.ErrorIs(t, err, ErrUnrecognizedStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_RemoveAcentos(t *testing.T) {
	got, err := Normalize("Pagamento Atrasádo")
	require.NoError(t, err)
	assert.Equal(t, domain.SaleStatusLatePayment, got)
}

func TestNormalize_Rejeita(t *testing.T) {
	for _, raw := range []string{"", "   ", "desconhecido", "PAGO_PARCIAL"} {
		_, err := Normalize(raw)
		assert.ErrorIs(t, err, ErrUnrecognizedStatus, raw)
	}
}

func TestNormalize_TodosOsStatusDoEnum(t *testing.T) {
	for _, status := range domain.SaleStatuses {
		got, err := Normalize(string(status))
		require.NoError(t, err)
		assert.Equal(t, status, got)
	}
}
