package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/isacLima251/MeuPainel0.2/internal/domain"
	"github.com/isacLima251/MeuPainel0.2/internal/usecases/authenticating"
	"github.com/isacLima251/MeuPainel0.2/pkg/apiErrors"
	"github.com/isacLima251/MeuPainel0.2/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthenticator struct {
	claims    *domain.Claims
	err       error
	tenantErr error
}

func (s stubAuthenticator) ValidateToken(string) (*domain.Claims, error) {
	return s.claims, s.err
}

func (s stubAuthenticator) ValidateTenant(context.Context, *domain.Claims) error {
	return s.tenantErr
}

func okHandler(t *testing.T, check func(r *http.Request)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestMain(m *testing.M) {
	log.SetupTestLogger()
	m.Run()
}

func TestAuthMiddleware(t *testing.T) {
	admin := &domain.Claims{UserID: "u1", TenantID: "t1", Role: domain.RoleAdmin}

	tests := []struct {
		name       string
		path       string
		header     string
		auth       stubAuthenticator
		wantStatus int
		wantCode   string
	}{
		{"webhook é público", "/v1/webhooks/braip", "", stubAuthenticator{}, http.StatusNoContent, ""},
		{"healthcheck é público", "/healthcheck", "", stubAuthenticator{}, http.StatusNoContent, ""},
		{"sem cabeçalho", "/v1/sales", "", stubAuthenticator{}, http.StatusUnauthorized, apiErrors.ErrInvalidToken},
		{"sem Bearer", "/v1/sales", "abc", stubAuthenticator{}, http.StatusUnauthorized, apiErrors.ErrInvalidToken},
		{
			"token expirado",
			"/v1/sales",
			"Bearer abc",
			stubAuthenticator{err: authenticating.NewAuthError(authenticating.ErrExpiredToken, apiErrors.ErrExpiredToken, "")},
			http.StatusUnauthorized,
			apiErrors.ErrExpiredToken,
		},
		{"token válido", "/v1/sales", "Bearer abc", stubAuthenticator{claims: admin}, http.StatusNoContent, ""},
		{
			"tenant desativado",
			"/v1/dashboard/metrics",
			"Bearer abc",
			stubAuthenticator{
				claims:    admin,
				tenantErr: authenticating.NewUserAuthError(authenticating.ErrTenantDisabled, apiErrors.ErrTenantDisabled, "u1", "t1"),
			},
			http.StatusForbidden,
			apiErrors.ErrTenantDisabled,
		},
		{
			"falha ao consultar o tenant",
			"/v1/sales",
			"Bearer abc",
			stubAuthenticator{
				claims:    admin,
				tenantErr: authenticating.NewUserAuthError(authenticating.ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "u1", "conexão perdida"),
			},
			http.StatusInternalServerError,
			apiErrors.ErrDatabaseOperation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotClaims *domain.Claims
			h := AuthMiddleware(tt.auth)(okHandler(t, func(r *http.Request) {
				gotClaims, _ = ClaimsFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Contains(t, rec.Body.String(), tt.wantCode)
			}
			if tt.wantStatus == http.StatusNoContent && tt.auth.claims != nil {
				require.NotNil(t, gotClaims)
				assert.Equal(t, "t1", gotClaims.TenantID)
			}
		})
	}
}

func TestRoleMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		mw         func(http.Handler) http.Handler
		claims     *domain.Claims
		wantStatus int
	}{
		{"sem claims", AdminOnly(), nil, http.StatusUnauthorized},
		{"admin em rota de admin", AdminOnly(), &domain.Claims{Role: domain.RoleAdmin, TenantID: "t1"}, http.StatusNoContent},
		{"atendente em rota de admin", AdminOnly(), &domain.Claims{Role: domain.RoleAttendant, TenantID: "t1"}, http.StatusForbidden},
		{"atendente em rota compartilhada", AdminOrAttendant(), &domain.Claims{Role: domain.RoleAttendant, TenantID: "t1"}, http.StatusNoContent},
		{"admin sem tenant", AdminOnly(), &domain.Claims{Role: domain.RoleAdmin}, http.StatusForbidden},
		{"super admin sem tenant", SuperAdminOnly(), &domain.Claims{Role: domain.RoleSuperAdmin}, http.StatusNoContent},
		{"admin em rota de super admin", SuperAdminOnly(), &domain.Claims{Role: domain.RoleAdmin, TenantID: "t1"}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/qualquer", nil)
			if tt.claims != nil {
				req = req.WithContext(WithClaims(req.Context(), tt.claims))
			}
			rec := httptest.NewRecorder()
			tt.mw(okHandler(t, nil)).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestCors(t *testing.T) {
	h := Cors([]string{"http://localhost:3000"})(okHandler(t, nil))

	req := httptest.NewRequest(http.MethodOptions, "/v1/sales", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/v1/sales", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestLogPanicMiddleware(t *testing.T) {
	h := LogPanicMiddleware()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/sales", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), apiErrors.ErrInternalServer)
}

func TestLoggingMiddleware_PreservaStatus(t *testing.T) {
	h := LoggingMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, log.GetCorrelationID(r.Context()))
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/sales", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
