package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/isacLima251/MeuPainel0.2/internal/api/handler/router"
	"github.com/isacLima251/MeuPainel0.2/internal/domain"
	"github.com/isacLima251/MeuPainel0.2/internal/usecases/reconciling"
	"github.com/isacLima251/MeuPainel0.2/internal/usecases/reporting"
	"github.com/isacLima251/MeuPainel0.2/internal/usecases/selling"
	"github.com/isacLima251/MeuPainel0.2/pkg/apiErrors"
	"github.com/isacLima251/MeuPainel0.2/pkg/log"
	"github.com/isacLima251/MeuPainel0.2/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.SetupTestLogger()
	m.Run()
}

type stubReconciler struct {
	got    *domain.WebhookPayload
	result *domain.ReconcileResult
	err    error
}

func (s *stubReconciler) Reconcile(_ context.Context, payload *domain.WebhookPayload) (*domain.ReconcileResult, error) {
	s.got = payload
	return s.result, s.err
}

type stubSales struct {
	filters domain.SaleFilters
	actor   string
	err     error
}

func (s *stubSales) GetSale(_ context.Context, _, saleID string) (*domain.Sale, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Sale{ID: saleID}, nil
}

func (s *stubSales) ListSales(_ context.Context, _ string, filters domain.SaleFilters) ([]*domain.Sale, error) {
	s.filters = filters
	return []*domain.Sale{}, nil
}

func (s *stubSales) UpdateSale(_ context.Context, _, saleID string, _ *domain.UpdateSaleRequest, actor string) (*domain.Sale, error) {
	s.actor = actor
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Sale{ID: saleID}, nil
}

type stubReporter struct {
	scope   domain.MetricsScope
	periods []string
}

func (s *stubReporter) Aggregate(_ context.Context, _ string, scope domain.MetricsScope, _ domain.MetricsWindow) (*domain.DashboardMetrics, error) {
	s.scope = scope
	return &domain.DashboardMetrics{TotalRevenue: 297}, nil
}

func (s *stubReporter) SnapshotMonth(context.Context, string, string) (*domain.MonthlyMetricsEntry, error) {
	return nil, nil
}

func (s *stubReporter) GetMonthlyMetrics(_ context.Context, _, period string) (*domain.MonthlyMetricsEntry, error) {
	return nil, reporting.NewReportError(reporting.ErrSnapshotNotFound, apiErrors.ErrResourceNotFound, period)
}

func (s *stubReporter) ListPeriods(context.Context, string) ([]string, error) {
	return s.periods, nil
}

type stubJob struct {
	accept bool
}

func (s stubJob) TriggerManualSync(context.Context) bool { return s.accept }
func (s stubJob) GetStatus() map[string]any { return map[string]any{"sync_running": false} }

// serve passa a requisição pelo router com as claims informadas
func serve(routes []router.Route, claims *domain.Claims, req *http.Request) *httptest.ResponseRecorder {
	if claims != nil {
		req = req.WithContext(middleware.WithClaims(req.Context(), claims))
	}
	rec := httptest.NewRecorder()
	router.New(router.WithRoutes(routes...)).ServeHTTP(rec, req)
	return rec
}

func adminClaims() *domain.Claims {
	return &domain.Claims{UserID: "u1", UserName: "Maria", TenantID: "t1", Role: domain.RoleAdmin}
}

func attendantClaims() *domain.Claims {
	attendantID := "att-isa"
	return &domain.Claims{UserID: "u2", UserName: "Isa", TenantID: "t1", Role: domain.RoleAttendant, AttendantID: &attendantID}
}

func TestReceiveBraipWebhook(t *testing.T) {
	body := `{"tenant_id":"t1","order_id":"X1","status":"Pagamento Aprovado","value":197,"kit_code":"K3M"}`

	tests := []struct {
		name       string
		body       string
		stub       *stubReconciler
		wantStatus int
		wantCode   string
	}{
		{
			name:       "venda criada",
			body:       body,
			stub:       &stubReconciler{result: &domain.ReconcileResult{SaleID: "s1", Created: true}},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "venda atualizada",
			body:       body,
			stub:       &stubReconciler{result: &domain.ReconcileResult{SaleID: "s1"}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "sem order_id",
			body:       `{"tenant_id":"t1","status":"pago"}`,
			stub:       &stubReconciler{},
			wantStatus: http.StatusBadRequest,
			wantCode:   apiErrors.ErrInvalidRequest,
		},
		{
			name:       "valor negativo",
			body:       `{"tenant_id":"t1","order_id":"X1","status":"pago","value":-1}`,
			stub:       &stubReconciler{},
			wantStatus: http.StatusBadRequest,
			wantCode:   apiErrors.ErrInvalidRequest,
		},
		{
			name: "segredo inválido",
			body: body,
			stub: &stubReconciler{err: reconciling.NewSaleError(
				reconciling.ErrInvalidWebhookSecret, apiErrors.ErrInvalidWebhookSecret, "")},
			wantStatus: http.StatusUnauthorized,
			wantCode:   apiErrors.ErrInvalidWebhookSecret,
		},
		{
			name: "kit não encontrado",
			body: body,
			stub: &stubReconciler{err: reconciling.NewSaleError(
				reconciling.ErrKitNotFound, apiErrors.ErrKitNotFound, "K3M")},
			wantStatus: http.StatusBadRequest,
			wantCode:   apiErrors.ErrKitNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/braip", strings.NewReader(tt.body))
			req.Header.Set(webhookSecretHeader, "s3cr3t")

			rec := serve(Webhooks(tt.stub), nil, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Contains(t, rec.Body.String(), tt.wantCode)
				return
			}
			require.NotNil(t, tt.stub.got)
			assert.Equal(t, "s3cr3t", tt.stub.got.WebhookSecret)
			assert.Contains(t, rec.Body.String(), `"sale_id":"s1"`)
		})
	}
}

func TestListSales_AtendenteVeApenasAsProprias(t *testing.T) {
	stub := &stubSales{}
	req := httptest.NewRequest(http.MethodGet, "/v1/sales?attendant_id=att-outro&status=pago&unidentified=true", nil)

	rec := serve(Sales(stub), attendantClaims(), req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, stub.filters.AttendantID)
	assert.Equal(t, "att-isa", *stub.filters.AttendantID)
	require.NotNil(t, stub.filters.Status)
	assert.Equal(t, domain.SaleStatusPaid, *stub.filters.Status)
	assert.True(t, stub.filters.UnidentifiedOnly)
}

func TestListSales_FiltrosInvalidos(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantCode string
	}{
		{"status desconhecido", "?status=talvez", apiErrors.ErrInvalidStatus},
		{"data fora do formato", "?start_date=01/03/2025", apiErrors.ErrInvalidFormat},
		{"janela invertida", "?start_date=2025-03-10&end_date=2025-03-01", apiErrors.ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(Sales(&stubSales{}), adminClaims(), httptest.NewRequest(http.MethodGet, "/v1/sales"+tt.query, nil))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantCode)
		})
	}
}

func TestGetSale_AtendenteNaoPode(t *testing.T) {
	rec := serve(Sales(&stubSales{}), attendantClaims(), httptest.NewRequest(http.MethodGet, "/v1/sales/s1", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateSale(t *testing.T) {
	stub := &stubSales{}
	req := httptest.NewRequest(http.MethodPut, "/v1/sales/s1", strings.NewReader(`{"status":"pago"}`))

	rec := serve(Sales(stub), adminClaims(), req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Maria", stub.actor)
}

func TestUpdateSale_Erros(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"modo de desconto inválido", `{"discount_mode":"metade"}`, nil, http.StatusBadRequest, apiErrors.ErrInvalidRequest},
		{"corpo malformado", `{`, nil, http.StatusBadRequest, apiErrors.ErrInvalidRequest},
		{
			"venda inexistente",
			`{"status":"pago"}`,
			selling.NewSaleError(selling.ErrSaleNotFound, apiErrors.ErrResourceNotFound, "s1", ""),
			http.StatusNotFound,
			apiErrors.ErrResourceNotFound,
		},
		{
			"sem campos",
			`{}`,
			selling.NewSaleError(selling.ErrNoFieldsToUpdate, apiErrors.ErrNoFieldsToUpdate, "s1", ""),
			http.StatusBadRequest,
			apiErrors.ErrNoFieldsToUpdate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/v1/sales/s1", strings.NewReader(tt.body))
			rec := serve(Sales(&stubSales{err: tt.err}), adminClaims(), req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantCode)
		})
	}
}

func TestGetDashboardMetrics_Escopo(t *testing.T) {
	tests := []struct {
		name       string
		claims     *domain.Claims
		query      string
		wantTenant bool
		wantID     string
	}{
		{"admin sem filtro", adminClaims(), "", true, ""},
		{"admin com all", adminClaims(), "?attendant_id=all", true, ""},
		{"admin filtrando atendente", adminClaims(), "?attendant_id=att-joao", false, "att-joao"},
		{"atendente é forçado ao próprio recorte", attendantClaims(), "?attendant_id=all", false, "att-isa"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubReporter{}
			rec := serve(Dashboard(stub), tt.claims, httptest.NewRequest(http.MethodGet, "/v1/dashboard/metrics"+tt.query, nil))

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantTenant, stub.scope.IsTenantWide())
			if !tt.wantTenant {
				assert.Equal(t, tt.wantID, *stub.scope.AttendantID)
			}
			assert.Contains(t, rec.Body.String(), `"total_revenue":297`)
		})
	}
}

func TestGetMonthlyMetrics(t *testing.T) {
	stub := &stubReporter{periods: []string{"02-2025", "01-2025"}}

	rec := serve(Dashboard(stub), adminClaims(), httptest.NewRequest(http.MethodGet, "/v1/dashboard/monthly", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"periods":["02-2025","01-2025"]}`, rec.Body.String())

	rec = serve(Dashboard(stub), adminClaims(), httptest.NewRequest(http.MethodGet, "/v1/dashboard/monthly?period=03-2025", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCronJobs(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		job        stubJob
		wantStatus int
	}{
		{"dispara o fechamento", "/v1/cron/monthly-metrics/run", stubJob{accept: true}, http.StatusAccepted},
		{"já em andamento", "/v1/cron/monthly-metrics/run", stubJob{accept: false}, http.StatusConflict},
		{"tipo desconhecido", "/v1/cron/meta/run", stubJob{accept: true}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			services := CronJobServices{MonthlyMetricsSnapshot: tt.job}
			rec := serve(CronJobs(services), adminClaims(), httptest.NewRequest(http.MethodPost, tt.path, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}

	rec := serve(CronJobs(CronJobServices{MonthlyMetricsSnapshot: stubJob{}}), adminClaims(), httptest.NewRequest(http.MethodGet, "/v1/cron/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), CronJobTypeMonthlyMetrics)
}

func TestRotaInexistente(t *testing.T) {
	rec := serve(Healthcheck(), nil, httptest.NewRequest(http.MethodGet, "/v1/nada", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), apiErrors.ErrResourceNotFound)
}
