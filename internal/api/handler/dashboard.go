package handler

import (
	"net/http"
	"strings"

	"github.com/isacLima251/MeuPainel0.2/internal/domain"
	"github.com/isacLima251/MeuPainel0.2/internal/usecases/reporting"
	"github.com/isacLima251/MeuPainel0.2/pkg/apiErrors"
	"github.com/isacLima251/MeuPainel0.2/pkg/log"
)

// GetDashboardMetrics agrega o dashboard. attendant_id=all ou vazio usa o
// tenant inteiro. O atendente sempre recebe o próprio recorte.
func GetDashboardMetrics(service reporting.Aggregator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsOf(w, r)
		if !ok {
			return
		}

		window, ok := windowFromQuery(w, r)
		if !ok {
			return
		}

		scope := domain.TenantScope()
		if attendantID := strings.TrimSpace(r.URL.Query().Get("attendant_id")); attendantID != "" && attendantID != "all" {
			scope = domain.AttendantScope(attendantID)
		}

		if claims.IsAttendant() {
			if claims.AttendantID == nil {
				apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Token de atendente sem atendente vinculado", nil)
				return
			}
			scope = domain.AttendantScope(*claims.AttendantID)
		}

		log.ForContext(r.Context()).WithFields(log.Fields{
			"scope":  scope.Key(),
			"window": window.Key(),
		}).Debug("dashboard: calculando métricas")

		metrics, err := service.Aggregate(r.Context(), claims.TenantID, scope, window)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao calcular métricas")
			return
		}

		writeJSON(w, r, http.StatusOK, metrics)
	})
}

// GetMonthlyMetrics devolve o fechamento de ?period=mm-yyyy. Sem período,
// lista os meses disponíveis.
func GetMonthlyMetrics(service reporting.MonthlyReporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsOf(w, r)
		if !ok {
			return
		}

		period := strings.TrimSpace(r.URL.Query().Get("period"))
		if period == "" {
			periods, err := service.ListPeriods(r.Context(), claims.TenantID)
			if err != nil {
				writeServiceError(w, r, err, "Erro ao listar períodos")
				return
			}
			writeJSON(w, r, http.StatusOK, map[string]any{"periods": periods})
			return
		}

		entry, err := service.GetMonthlyMetrics(r.Context(), claims.TenantID, period)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao buscar fechamento mensal")
			return
		}

		writeJSON(w, r, http.StatusOK, entry)
	})
}
