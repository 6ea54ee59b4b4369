package handler

import (
	"net/http"

	"github.com/isacLima251/MeuPainel0.2/internal/domain"
	"github.com/isacLima251/MeuPainel0.2/internal/usecases/provisioning"
	"github.com/isacLima251/MeuPainel0.2/pkg/log"
	"github.com/julienschmidt/httprouter"
)

// CreateTenant cria o tenant com o primeiro administrador
func CreateTenant(service provisioning.Provisioner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req domain.CreateTenantRequest
		if !decodeBody(w, r, &req) {
			return
		}

		resp, err := service.CreateTenant(r.Context(), &req)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao criar tenant")
			return
		}

		log.ForContext(r.Context()).WithField("new_tenant_id", resp.Tenant.ID).Info("tenants: tenant criado")
		writeJSON(w, r, http.StatusCreated, resp)
	})
}

func SetTenantActive(service provisioning.Provisioner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		var req domain.SetTenantActiveRequest
		if !decodeBody(w, r, &req) {
			return
		}

		if err := service.SetTenantActive(r.Context(), tenantID, *req.Active); err != nil {
			writeServiceError(w, r, err, "Erro ao alterar tenant")
			return
		}

		writeJSON(w, r, http.StatusOK, map[string]any{"id": tenantID, "active": *req.Active})
	})
}

// CreateAttendant cria o atendente e o login dele no tenant do administrador
func CreateAttendant(service provisioning.Provisioner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsOf(w, r)
		if !ok {
			return
		}

		var req domain.CreateAttendantRequest
		if !decodeBody(w, r, &req) {
			return
		}

		attendant, err := service.CreateAttendant(r.Context(), claims.TenantID, &req)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao criar atendente")
			return
		}

		writeJSON(w, r, http.StatusCreated, attendant)
	})
}
