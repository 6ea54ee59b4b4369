package main

import (
	"context"
	"time"

	"github.com/isacLima251/MeuPainel0.2/infrastructure/cache"
	"github.com/isacLima251/MeuPainel0.2/infrastructure/database/postgres"
	"github.com/isacLima251/MeuPainel0.2/infrastructure/repository"
	"github.com/isacLima251/MeuPainel0.2/internal/api"
	"github.com/isacLima251/MeuPainel0.2/internal/api/handler"
	"github.com/isacLima251/MeuPainel0.2/internal/config"
	"github.com/isacLima251/MeuPainel0.2/internal/scheduler"
	"github.com/isacLima251/MeuPainel0.2/internal/usecases/authenticating"
	"github.com/isacLima251/MeuPainel0.2/internal/usecases/expensing"
	"github.com/isacLima251/MeuPainel0.2/internal/usecases/provisioning"
	"github.com/isacLima251/MeuPainel0.2/internal/usecases/reconciling"
	"github.com/isacLima251/MeuPainel0.2/internal/usecases/reporting"
	"github.com/isacLima251/MeuPainel0.2/internal/usecases/selling"
	"github.com/sirupsen/logrus"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	tenantRepo := repository.NewTenantRepository(pgConn)
	userRepo := repository.NewUserRepository(pgConn)
	attendantRepo := repository.NewAttendantRepository(pgConn)
	kitRepo := repository.NewKitRepository(pgConn)
	creativeRepo := repository.NewCreativeRepository(pgConn)
	saleRepo := repository.NewSaleRepository(pgConn)
	expenseRepo := repository.NewExpenseRepository(pgConn)
	creativeSpendRepo := repository.NewCreativeSpendRepository(pgConn)
	monthlyRepo := repository.NewMonthlyMetricsRepository(pgConn)

	locker, metricsCache, closeCache := cacheLayer(ctx, cfg)
	defer closeCache()

	authenticator := authenticating.NewService(cfg, tenantRepo)

	reconciler := reconciling.NewService(
		tenantRepo,
		kitRepo,
		creativeRepo,
		attendantRepo,
		saleRepo,
		locker,
		metricsCache,
		cfg.Webhook.Secret,
	)

	saleService := selling.NewService(saleRepo, kitRepo, creativeRepo, attendantRepo, locker, metricsCache)

	reporter := reporting.NewService(
		saleRepo,
		kitRepo,
		attendantRepo,
		expenseRepo,
		creativeSpendRepo,
		monthlyRepo,
		metricsCache,
	)

	ledger := expensing.NewService(expenseRepo, creativeSpendRepo, creativeRepo, metricsCache)
	provisioner := provisioning.NewService(tenantRepo, userRepo, attendantRepo, kitRepo, creativeRepo)

	monthlySnapshotService := scheduler.NewMonthlyMetricsSnapshotService(tenantRepo, reporter, cfg)
	if err := monthlySnapshotService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador do fechamento mensal")
	}

	server, err := api.New(cfg, api.Services{
		Authenticator: authenticator,
		Reconciler:    reconciler,
		Sales:         saleService,
		Reporter:      reporter,
		Ledger:        ledger,
		Provisioner:   provisioner,
		CronJobs: handler.CronJobServices{
			MonthlyMetricsSnapshot: monthlySnapshotService,
		},
	})
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	if err := conn.Ping(ctx); err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}

// cacheLayer monta o lock por pedido e o cache de métricas. Sem Redis, o lock
// fica restrito ao processo e o cache é desligado.
func cacheLayer(ctx context.Context, cfg *config.Config) (cache.Locker, cache.MetricsCache, func()) {
	if !cfg.Redis.Enabled() {
		logrus.Warn("REDIS_URL não configurada, usando lock local e sem cache de métricas")
		return cache.NewLocalLocker(), cache.NopMetricsCache{}, func() {}
	}

	client, err := cache.NewClient(ctx, cfg.Redis.URL)
	if err != nil {
		logrus.WithError(err).Warn("Redis indisponível, usando lock local e sem cache de métricas")
		return cache.NewLocalLocker(), cache.NopMetricsCache{}, func() {}
	}

	closeFn := func() {
		if err := client.Close(); err != nil {
			logrus.WithError(err).Warn("Erro ao fechar conexão com Redis")
		}
	}

	return cache.NewRedisLocker(client, cfg.Webhook.LockTTL), cache.NewMetricsCache(client, cfg.Metrics.CacheTTL), closeFn
}
