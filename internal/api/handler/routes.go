package handler

import (
	"net/http"

	"github.com/isacLima251/MeuPainel0.2/internal/api/handler/router"
	"github.com/isacLima251/MeuPainel0.2/internal/usecases/expensing"
	"github.com/isacLima251/MeuPainel0.2/internal/usecases/provisioning"
	"github.com/isacLima251/MeuPainel0.2/internal/usecases/reconciling"
	"github.com/isacLima251/MeuPainel0.2/internal/usecases/reporting"
	"github.com/isacLima251/MeuPainel0.2/internal/usecases/selling"
	"github.com/isacLima251/MeuPainel0.2/pkg/metrics"
	"github.com/isacLima251/MeuPainel0.2/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: metrics.Handler(),
		},
	}
}

func Webhooks(service reconciling.Reconciler) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/webhooks/braip",
			Method:  http.MethodPost,
			Handler: ReceiveBraipWebhook(service),
		},
	}
}

func Sales(service selling.SaleService) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/sales",
			Method:      http.MethodGet,
			Handler:     ListSales(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrAttendant()},
		},
		{
			Path:        "/v1/sales/:id",
			Method:      http.MethodGet,
			Handler:     GetSale(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/sales/:id",
			Method:      http.MethodPut,
			Handler:     UpdateSale(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}

func Dashboard(service reporting.Reporter) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/dashboard/metrics",
			Method:      http.MethodGet,
			Handler:     GetDashboardMetrics(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrAttendant()},
		},
		{
			Path:        "/v1/dashboard/monthly",
			Method:      http.MethodGet,
			Handler:     GetMonthlyMetrics(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}

func Ledger(service expensing.Ledger) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/expenses",
			Method:      http.MethodPost,
			Handler:     CreateExpense(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/expenses",
			Method:      http.MethodGet,
			Handler:     ListExpenses(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/expenses/:id",
			Method:      http.MethodDelete,
			Handler:     DeleteExpense(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/creative-spends",
			Method:      http.MethodPost,
			Handler:     CreateCreativeSpend(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/creative-spends",
			Method:      http.MethodGet,
			Handler:     ListCreativeSpends(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/creative-spends/:id",
			Method:      http.MethodDelete,
			Handler:     DeleteCreativeSpend(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}

func Provisioning(service provisioning.Provisioner) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/attendants",
			Method:      http.MethodPost,
			Handler:     CreateAttendant(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/tenants",
			Method:      http.MethodPost,
			Handler:     CreateTenant(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.SuperAdminOnly()},
		},
		{
			Path:        "/v1/tenants/:id/active",
			Method:      http.MethodPut,
			Handler:     SetTenantActive(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.SuperAdminOnly()},
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}
