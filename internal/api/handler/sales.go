package handler

import (
	"net/http"
	"strings"

	"github.com/isacLima251/MeuPainel0.2/internal/domain"
	"github.com/isacLima251/MeuPainel0.2/internal/usecases/normalizing"
	"github.com/isacLima251/MeuPainel0.2/internal/usecases/selling"
	"github.com/isacLima251/MeuPainel0.2/pkg/apiErrors"
	"github.com/julienschmidt/httprouter"
)

// ListSales lista as vendas do tenant. O atendente só enxerga as próprias.
func ListSales(service selling.SaleService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsOf(w, r)
		if !ok {
			return
		}

		window, ok := windowFromQuery(w, r)
		if !ok {
			return
		}

		query := r.URL.Query()
		filters := domain.SaleFilters{
			UnidentifiedOnly: query.Get("unidentified") == "true",
			StartDate:        window.StartDate,
			EndDate:          window.EndDate,
		}

		if raw := strings.TrimSpace(query.Get("status")); raw != "" {
			status, err := normalizing.Normalize(raw)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidStatus, "Status não reconhecido: "+raw, nil)
				return
			}
			filters.Status = &status
		}

		if attendantID := strings.TrimSpace(query.Get("attendant_id")); attendantID != "" && attendantID != "all" {
			filters.AttendantID = &attendantID
		}

		if claims.IsAttendant() {
			if claims.AttendantID == nil {
				apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Token de atendente sem atendente vinculado", nil)
				return
			}
			filters.AttendantID = claims.AttendantID
		}

		sales, err := service.ListSales(r.Context(), claims.TenantID, filters)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao listar vendas")
			return
		}

		writeJSON(w, r, http.StatusOK, sales)
	})
}

func GetSale(service selling.SaleService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsOf(w, r)
		if !ok {
			return
		}

		saleID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		sale, err := service.GetSale(r.Context(), claims.TenantID, saleID)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao consultar venda")
			return
		}

		writeJSON(w, r, http.StatusOK, sale)
	})
}

// UpdateSale aplica a edição manual. O autor do histórico é o usuário do token.
func UpdateSale(service selling.SaleService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsOf(w, r)
		if !ok {
			return
		}

		saleID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		var req domain.UpdateSaleRequest
		if !decodeBody(w, r, &req) {
			return
		}

		actor := claims.UserName
		if actor == "" {
			actor = claims.UserID
		}

		sale, err := service.UpdateSale(r.Context(), claims.TenantID, saleID, &req, actor)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao atualizar venda")
			return
		}

		writeJSON(w, r, http.StatusOK, sale)
	})
}
