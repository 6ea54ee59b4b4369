package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App                App                `mapstructure:",squash"`
	Server             Server             `mapstructure:",squash"`
	Database           Database           `mapstructure:",squash"`
	Redis              Redis              `mapstructure:",squash"`
	Auth               Auth               `mapstructure:",squash"`
	Webhook            Webhook            `mapstructure:",squash"`
	Metrics            Metrics            `mapstructure:",squash"`
	MonthlyMetricsSync MonthlyMetricsSync `mapstructure:",squash"`
}

type App struct {
	LogLevel       string   `mapstructure:"log_level"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

// Redis vazio desliga o cache de métricas e o lock distribuído; nesse caso a
// serialização por pedido usa o lock em memória.
type Redis struct {
	URL string `mapstructure:"redis_url"`
}

func (r Redis) Enabled() bool {
	return r.URL != ""
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

type Webhook struct {
	Secret  string        `mapstructure:"webhook_secret"`
	LockTTL time.Duration `mapstructure:"webhook_lock_ttl"`
}

type Metrics struct {
	CacheTTL time.Duration `mapstructure:"metrics_cache_ttl"`
}

type MonthlyMetricsSync struct {
	CronSchedule      string `mapstructure:"monthly_metrics_sync_cron"`
	MaxConcurrentJobs int    `mapstructure:"monthly_metrics_sync_max_concurrent_jobs"`
	Enabled           bool   `mapstructure:"monthly_metrics_sync_enabled"`
	MonthLookBack     int    `mapstructure:"monthly_metrics_sync_month_lookback"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/meupainel?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("REDIS_URL", "")

	viper.SetDefault("AUTH_SECRET", "your_secret_key")

	viper.SetDefault("WEBHOOK_SECRET", "")       // Vazio desativa a verificação global
	viper.SetDefault("WEBHOOK_LOCK_TTL", "30s")  // Tempo máximo segurando o lock de um pedido
	viper.SetDefault("METRICS_CACHE_TTL", "60s") // Zero desativa o cache do dashboard
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")

	// Fechamento mensal das métricas
	viper.SetDefault("MONTHLY_METRICS_SYNC_CRON", "0 5 1 * *")      // No primeiro dia de cada mês às 5h da manhã
	viper.SetDefault("MONTHLY_METRICS_SYNC_MAX_CONCURRENT_JOBS", 3) // 3 tenants em paralelo
	viper.SetDefault("MONTHLY_METRICS_SYNC_ENABLED", false)
	viper.SetDefault("MONTHLY_METRICS_SYNC_MONTH_LOOKBACK", 1)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if config.MonthlyMetricsSync.MaxConcurrentJobs <= 0 {
		config.MonthlyMetricsSync.MaxConcurrentJobs = 1
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
