package handler

import (
	"context"
	"net/http"

	"github.com/isacLima251/MeuPainel0.2/pkg/apiErrors"
	"github.com/isacLima251/MeuPainel0.2/pkg/log"
	"github.com/julienschmidt/httprouter"
)

const CronJobTypeMonthlyMetrics = "monthly-metrics"

// SnapshotJob é o agendador acionável manualmente
type SnapshotJob interface {
	TriggerManualSync(ctx context.Context) bool
	GetStatus() map[string]any
}

// CronJobServices contém os agendadores que podem ser executados manualmente
type CronJobServices struct {
	MonthlyMetricsSnapshot SnapshotJob
}

// RunCronJob dispara manualmente um agendador
func RunCronJob(services CronJobServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")

		switch cronType {
		case CronJobTypeMonthlyMetrics:
			if services.MonthlyMetricsSnapshot == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Fechamento mensal não disponível", nil)
				return
			}

			if !services.MonthlyMetricsSnapshot.TriggerManualSync(r.Context()) {
				apiErrors.WriteError(w, apiErrors.ErrResourceConflict, "Fechamento mensal já em andamento", nil)
				return
			}
		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: monthly-metrics", nil)
			return
		}

		log.ForContext(r.Context()).WithField("type", cronType).Info("cron: execução manual iniciada")

		writeJSON(w, r, http.StatusAccepted, map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		})
	})
}

func GetCronStatus(services CronJobServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{}
		if services.MonthlyMetricsSnapshot != nil {
			status[CronJobTypeMonthlyMetrics] = services.MonthlyMetricsSnapshot.GetStatus()
		}

		writeJSON(w, r, http.StatusOK, status)
	})
}
