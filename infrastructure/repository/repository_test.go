package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/isacLima251/MeuPainel0.2/internal/domain"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSalesMetricsQuery(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	attendantID := "att-1"

	tests := []struct {
		name         string
		scope        domain.MetricsScope
		window       domain.MetricsWindow
		wantContains []string
		wantMissing  []string
		wantArgs     int
	}{
		{
			name:         "tenant inteiro sem janela exclui canceladas",
			scope:        domain.TenantScope(),
			wantContains: []string{"s.tenant_id = $1", "s.status <> $2"},
			wantMissing:  []string{"s.attendant_id", "s.scheduled_at >="},
			wantArgs:     2,
		},
		{
			name:         "atendente com janela completa",
			scope:        domain.AttendantScope(attendantID),
			window:       domain.MetricsWindow{StartDate: &start, EndDate: &end},
			wantContains: []string{"s.attendant_id = $3", "s.scheduled_at >= $4", "s.scheduled_at <= $5"},
			wantArgs:     5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := buildSalesMetricsQuery("tenant-1", tt.scope, tt.window).ToSql()
			require.NoError(t, err)

			for _, fragment := range tt.wantContains {
				assert.Contains(t, query, fragment)
			}
			for _, fragment := range tt.wantMissing {
				assert.NotContains(t, query, fragment)
			}
			assert.Len(t, args, tt.wantArgs)
			assert.Equal(t, domain.SaleStatusCanceled, args[1])
		})
	}
}

func TestBuildSalesMetricsQuery_FimDaJanelaIncluiODiaInteiro(t *testing.T) {
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	_, args, err := buildSalesMetricsQuery("tenant-1", domain.TenantScope(), domain.MetricsWindow{EndDate: &end}).ToSql()
	require.NoError(t, err)
	require.Len(t, args, 3)

	bound, ok := args[2].(time.Time)
	require.True(t, ok)
	assert.Equal(t, 23, bound.Hour())
	assert.Equal(t, 59, bound.Minute())
	assert.Equal(t, 31, bound.Day())
}

func TestBuildSalesListQuery(t *testing.T) {
	status := domain.SaleStatusPaid
	attendantID := "att-1"

	query, args, err := buildSalesListQuery("tenant-1", domain.SaleFilters{
		Status:           &status,
		AttendantID:      &attendantID,
		UnidentifiedOnly: true,
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "s.status = $2")
	assert.Contains(t, query, "s.attendant_id = $3")
	assert.Contains(t, query, "s.unidentified = $4")
	assert.Contains(t, query, "ORDER BY s.scheduled_at DESC")
	assert.Equal(t, []interface{}{"tenant-1", domain.SaleStatusPaid, "att-1", true}, args)
}

func TestBuildSumQuery(t *testing.T) {
	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	query, args, err := buildSumQuery("expenses", "tenant-1", domain.MetricsWindow{StartDate: &start}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "COALESCE(SUM(value), 0)")
	assert.Contains(t, query, "FROM expenses")
	assert.Contains(t, query, "date >= $2")
	assert.Len(t, args, 2)
}

func TestWrapExecError(t *testing.T) {
	duplicated := wrapExecError("erro ao inserir", &pq.Error{Code: "23505"})
	assert.True(t, errors.Is(duplicated, ErrDuplicateKey))

	other := wrapExecError("erro ao inserir", errors.New("conexão perdida"))
	assert.False(t, errors.Is(other, ErrDuplicateKey))
	assert.Contains(t, other.Error(), "conexão perdida")
}
