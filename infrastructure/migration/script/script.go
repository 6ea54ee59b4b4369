package main

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"time"

	"github.com/isacLima251/MeuPainel0.2/infrastructure/database/postgres"
	"github.com/isacLima251/MeuPainel0.2/internal/config"
	"github.com/isacLima251/MeuPainel0.2/pkg/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// schema é idempotente e pode rodar a cada deploy
var schema = []string{
	`CREATE TABLE IF NOT EXISTS tenants (
		id             VARCHAR(32) PRIMARY KEY,
		name           VARCHAR(255) NOT NULL,
		document       VARCHAR(32) NOT NULL,
		plan           VARCHAR(16) NOT NULL DEFAULT 'basic',
		active         BOOLEAN NOT NULL DEFAULT TRUE,
		webhook_secret VARCHAR(255),
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            VARCHAR(32) PRIMARY KEY,
		tenant_id     VARCHAR(32) REFERENCES tenants (id),
		name          VARCHAR(255) NOT NULL,
		email         VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role          VARCHAR(16) NOT NULL,
		active        BOOLEAN NOT NULL DEFAULT TRUE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS kits (
		id                    VARCHAR(32) PRIMARY KEY,
		tenant_id             VARCHAR(32) NOT NULL REFERENCES tenants (id),
		name                  VARCHAR(255) NOT NULL,
		code                  VARCHAR(64),
		fixed_commission      NUMERIC(12, 2),
		percentage_commission NUMERIC(6, 2),
		active                BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS creatives (
		id        VARCHAR(32) PRIMARY KEY,
		tenant_id VARCHAR(32) NOT NULL REFERENCES tenants (id),
		name      VARCHAR(255) NOT NULL,
		campaign  VARCHAR(255) NOT NULL DEFAULT '',
		status    VARCHAR(16) NOT NULL DEFAULT 'active'
	)`,
	`CREATE TABLE IF NOT EXISTS attendants (
		id               VARCHAR(32) PRIMARY KEY,
		tenant_id        VARCHAR(32) NOT NULL REFERENCES tenants (id),
		user_id          VARCHAR(32) REFERENCES users (id),
		name             VARCHAR(255) NOT NULL,
		code             VARCHAR(64) NOT NULL,
		monthly_salary   NUMERIC(12, 2) NOT NULL DEFAULT 0,
		active           BOOLEAN NOT NULL DEFAULT TRUE,
		goal_sales_count INTEGER,
		goal_sales_value NUMERIC(12, 2),
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (tenant_id, code)
	)`,
	`CREATE TABLE IF NOT EXISTS attendant_commission_overrides (
		attendant_id VARCHAR(32) NOT NULL REFERENCES attendants (id) ON DELETE CASCADE,
		kit_id       VARCHAR(32) NOT NULL REFERENCES kits (id),
		type         VARCHAR(16) NOT NULL,
		value        NUMERIC(12, 2) NOT NULL,
		PRIMARY KEY (attendant_id, kit_id)
	)`,
	`CREATE TABLE IF NOT EXISTS attendant_creatives (
		attendant_id VARCHAR(32) NOT NULL REFERENCES attendants (id) ON DELETE CASCADE,
		creative_id  VARCHAR(32) NOT NULL REFERENCES creatives (id),
		PRIMARY KEY (attendant_id, creative_id)
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		id                VARCHAR(32) PRIMARY KEY,
		tenant_id         VARCHAR(32) NOT NULL REFERENCES tenants (id),
		external_order_id VARCHAR(128) NOT NULL,
		customer_name     VARCHAR(255) NOT NULL DEFAULT '',
		customer_phone    VARCHAR(32) NOT NULL DEFAULT '',
		customer_document VARCHAR(32) NOT NULL DEFAULT '',
		customer_state    VARCHAR(8) NOT NULL DEFAULT '',
		attendant_id      VARCHAR(32) REFERENCES attendants (id),
		creative_id       VARCHAR(32) REFERENCES creatives (id),
		kit_id            VARCHAR(32) REFERENCES kits (id),
		status            VARCHAR(32) NOT NULL,
		scheduled_at      TIMESTAMPTZ NOT NULL,
		paid_at           TIMESTAMPTZ,
		value             NUMERIC(12, 2) NOT NULL DEFAULT 0,
		commission        NUMERIC(12, 2) NOT NULL DEFAULT 0,
		discount_value    NUMERIC(12, 2) NOT NULL DEFAULT 0,
		discount_mode     VARCHAR(16) NOT NULL DEFAULT 'none',
		campaign_code     VARCHAR(255) NOT NULL DEFAULT '',
		creative_code     VARCHAR(255) NOT NULL DEFAULT '',
		attendant_code    VARCHAR(64) NOT NULL DEFAULT '',
		unidentified      BOOLEAN NOT NULL DEFAULT FALSE,
		notes             TEXT NOT NULL DEFAULT '',
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (tenant_id, external_order_id)
	)`,
	`CREATE INDEX IF NOT EXISTS sales_tenant_scheduled_idx ON sales (tenant_id, scheduled_at)`,
	`CREATE INDEX IF NOT EXISTS sales_tenant_attendant_idx ON sales (tenant_id, attendant_id)`,
	`CREATE TABLE IF NOT EXISTS sale_status_history (
		id         VARCHAR(32) PRIMARY KEY,
		sale_id    VARCHAR(32) NOT NULL REFERENCES sales (id) ON DELETE CASCADE,
		old_status VARCHAR(32) NOT NULL DEFAULT '',
		new_status VARCHAR(32) NOT NULL,
		origin     VARCHAR(16) NOT NULL,
		actor      VARCHAR(255) NOT NULL,
		notes      TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS sale_status_history_sale_idx ON sale_status_history (sale_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS expenses (
		id          VARCHAR(32) PRIMARY KEY,
		tenant_id   VARCHAR(32) NOT NULL REFERENCES tenants (id),
		description VARCHAR(255) NOT NULL,
		value       NUMERIC(12, 2) NOT NULL,
		category    VARCHAR(64) NOT NULL DEFAULT '',
		date        DATE NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS expenses_tenant_date_idx ON expenses (tenant_id, date)`,
	`CREATE TABLE IF NOT EXISTS creative_spends (
		id          VARCHAR(32) PRIMARY KEY,
		tenant_id   VARCHAR(32) NOT NULL REFERENCES tenants (id),
		creative_id VARCHAR(32) NOT NULL REFERENCES creatives (id),
		value       NUMERIC(12, 2) NOT NULL,
		date        DATE NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS creative_spends_tenant_date_idx ON creative_spends (tenant_id, date)`,
	`CREATE TABLE IF NOT EXISTS monthly_metrics (
		id         VARCHAR(32) PRIMARY KEY,
		tenant_id  VARCHAR(32) NOT NULL REFERENCES tenants (id),
		period     VARCHAR(7) NOT NULL,
		metrics    JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (tenant_id, period)
	)`,
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	logrus.Info("Iniciando migração do banco...")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao carregar configuração")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}
	defer db.Close()

	if err := applySchema(ctx, db); err != nil {
		logrus.WithError(err).Fatal("Erro ao aplicar schema")
	}

	email := strings.ToLower(strings.TrimSpace(os.Getenv("SUPER_ADMIN_EMAIL")))
	password := os.Getenv("SUPER_ADMIN_PASSWORD")
	if email != "" && password != "" {
		if err := seedSuperAdmin(ctx, db, email, password); err != nil {
			logrus.WithError(err).Fatal("Erro ao criar super admin")
		}
	}

	logrus.Info("Migração concluída")
}

func applySchema(ctx context.Context, db *postgres.Connection) error {
	startTime := time.Now()

	err := db.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for i, stmt := range schema {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				logrus.WithField("statement", i).WithError(err).Error("Erro ao executar instrução")
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"statements": len(schema),
		"duration":   time.Since(startTime).String(),
	}).Info("Schema aplicado")
	return nil
}

// seedSuperAdmin cria o usuário da plataforma, sem tenant. Não faz nada se o
// email já existir.
func seedSuperAdmin(ctx context.Context, db *postgres.Connection, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	id, err := utils.GenerateID()
	if err != nil {
		return err
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO users (id, tenant_id, name, email, password_hash, role, active)
		 VALUES ($1, NULL, $2, $3, $4, 'super_admin', TRUE)
		 ON CONFLICT (email) DO NOTHING`,
		id, "Super Admin", email, string(hash))
	if err != nil {
		return err
	}

	if rows, _ := result.RowsAffected(); rows == 0 {
		logrus.WithField("email", email).Info("Super admin já existe")
		return nil
	}

	logrus.WithField("email", email).Info("Super admin criado")
	return nil
}
