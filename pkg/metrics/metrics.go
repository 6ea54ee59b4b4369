package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// WebhooksProcessed conta as notificações pelo resultado: created, updated ou rejected.
	WebhooksProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meupainel_webhooks_processed_total",
			Help: "Total de notificações de venda processadas",
		},
		[]string{"outcome"},
	)

	UnidentifiedSales = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meupainel_unidentified_sales_total",
		Help: "Total de gravações de venda marcadas como não identificadas",
	})

	AuthorizationDenied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meupainel_authorization_denied_total",
		Help: "Total de vendas com atendente sem permissão para o criativo",
	})

	ManualEdits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meupainel_manual_sale_edits_total",
		Help: "Total de edições manuais de vendas",
	})

	CommissionResolved = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "meupainel_commission_value",
		Help:    "Valor das comissões calculadas para vendas pagas",
		Buckets: []float64{0, 5, 10, 20, 50, 100, 200, 500},
	})

	MetricsCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meupainel_metrics_cache_total",
			Help: "Consultas ao cache de métricas do dashboard",
		},
		[]string{"result"}, // hit, miss
	)

	SnapshotRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meupainel_monthly_snapshot_runs_total",
			Help: "Execuções do fechamento mensal por tenant",
		},
		[]string{"status"}, // success, failed
	)
)

// Handler expõe as métricas no formato do Prometheus
func Handler() http.Handler {
	return promhttp.Handler()
}
