package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/isacLima251/MeuPainel0.2/internal/domain"
	"github.com/isacLima251/MeuPainel0.2/internal/usecases/expensing"
	"github.com/isacLima251/MeuPainel0.2/internal/usecases/provisioning"
	"github.com/isacLima251/MeuPainel0.2/internal/usecases/reconciling"
	"github.com/isacLima251/MeuPainel0.2/internal/usecases/reporting"
	"github.com/isacLima251/MeuPainel0.2/internal/usecases/selling"
	"github.com/isacLima251/MeuPainel0.2/pkg/apiErrors"
	"github.com/isacLima251/MeuPainel0.2/pkg/log"
	"github.com/isacLima251/MeuPainel0.2/pkg/middleware"
	"github.com/isacLima251/MeuPainel0.2/pkg/utils"
	jsoniter "github.com/json-iterator/go"
)

var (
	json     = jsoniter.ConfigCompatibleWithStandardLibrary
	validate = validator.New(validator.WithRequiredStructEnabled())
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.ForContext(r.Context()).WithError(err).Error("Erro ao codificar resposta")
	}
}

// decodeBody lê o JSON do corpo e aplica as regras de validação da struct.
// Em caso de erro a resposta já foi escrita.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido", nil)
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			fields := make([]string, 0, len(validationErrs))
			for _, fieldErr := range validationErrs {
				fields = append(fields, fieldErr.Field()+":"+fieldErr.Tag())
			}
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Campos inválidos", map[string]any{"fields": fields})
			return false
		}
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
		return false
	}

	return true
}

// writeServiceError traduz os erros tipados dos casos de uso para a resposta padrão
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	log.ForContext(r.Context()).WithError(err).Warn(fallback)

	var (
		reconcileErr *reconciling.SaleError
		saleErr      *selling.SaleError
		reportErr    *reporting.ReportError
		provErr      *provisioning.ProvisioningError
		ledgerErr    *expensing.LedgerError
	)

	switch {
	case errors.As(err, &reconcileErr):
		apiErrors.WriteError(w, reconcileErr.Code, reconcileErr.Error(), detailsOf(reconcileErr.SaleID))
	case errors.As(err, &saleErr):
		apiErrors.WriteError(w, saleErr.Code, saleErr.Error(), detailsOf(saleErr.SaleID))
	case errors.As(err, &reportErr):
		apiErrors.WriteError(w, reportErr.Code, reportErr.Error(), nil)
	case errors.As(err, &provErr):
		apiErrors.WriteError(w, provErr.Code, provErr.Error(), nil)
	case errors.As(err, &ledgerErr):
		apiErrors.WriteError(w, ledgerErr.Code, ledgerErr.Error(), nil)
	default:
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, fallback, nil)
	}
}

func detailsOf(saleID string) map[string]any {
	if saleID == "" {
		return nil
	}
	return map[string]any{"sale_id": saleID}
}

func claimsOf(w http.ResponseWriter, r *http.Request) (*domain.Claims, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
		return nil, false
	}
	return claims, true
}

// windowFromQuery lê start_date e end_date no formato yyyy-mm-dd
func windowFromQuery(w http.ResponseWriter, r *http.Request) (domain.MetricsWindow, bool) {
	query := r.URL.Query()

	start, err := utils.ParseDate(strings.TrimSpace(query.Get("start_date")))
	if err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "start_date deve estar no formato yyyy-mm-dd", nil)
		return domain.MetricsWindow{}, false
	}

	end, err := utils.ParseDate(strings.TrimSpace(query.Get("end_date")))
	if err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "end_date deve estar no formato yyyy-mm-dd", nil)
		return domain.MetricsWindow{}, false
	}

	if start != nil && end != nil && end.Before(*start) {
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "end_date anterior a start_date", nil)
		return domain.MetricsWindow{}, false
	}

	return domain.MetricsWindow{StartDate: start, EndDate: end}, true
}
