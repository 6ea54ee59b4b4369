package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/isacLima251/MeuPainel0.2/internal/domain"
	"github.com/isacLima251/MeuPainel0.2/pkg/log"
	"github.com/isacLima251/MeuPainel0.2/pkg/metrics"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MetricsCache guarda o resultado do agregador por tenant, recorte e janela.
// Falhas do cache nunca quebram a requisição.
//
// Cada entrada carrega a versão do tenant lida antes do cálculo. Invalidar
// incrementa a versão, então um resultado calculado antes da invalidação e
// gravado depois dela fica em uma chave que ninguém mais lê.
type MetricsCache interface {
	Version(ctx context.Context, tenantID string) int64
	Get(ctx context.Context, tenantID string, version int64, scope domain.MetricsScope, window domain.MetricsWindow) (*domain.DashboardMetrics, bool)
	Set(ctx context.Context, tenantID string, version int64, scope domain.MetricsScope, window domain.MetricsWindow, value *domain.DashboardMetrics)
	InvalidateTenant(ctx context.Context, tenantID string)
}

type redisMetricsCache struct {
	client *Client
	ttl    time.Duration
}

// NewMetricsCache devolve o cache em Redis, ou um cache inerte quando não há
// cliente ou o TTL é zero.
func NewMetricsCache(client *Client, ttl time.Duration) MetricsCache {
	if client == nil || ttl <= 0 {
		return NopMetricsCache{}
	}

	return &redisMetricsCache{
		client: client,
		ttl:    ttl,
	}
}

func metricsKey(tenantID string, version int64, scope domain.MetricsScope, window domain.MetricsWindow) string {
	return fmt.Sprintf("metrics:%s:v%d:%s:%s", tenantID, version, scope.Key(), window.Key())
}

// fora do padrão metrics:{tenant}:* para sobreviver à limpeza
func versionKey(tenantID string) string {
	return fmt.Sprintf("metrics_version:%s", tenantID)
}

func (c *redisMetricsCache) Version(ctx context.Context, tenantID string) int64 {
	raw, err := c.client.Get(ctx, versionKey(tenantID))
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.ForContext(ctx).WithError(err).Warn("Erro ao ler versão das métricas")
		}
		return 0
	}

	version, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.ForContext(ctx).WithError(err).Warn("Versão das métricas corrompida")
		return 0
	}

	return version
}

func (c *redisMetricsCache) Get(ctx context.Context, tenantID string, version int64, scope domain.MetricsScope, window domain.MetricsWindow) (*domain.DashboardMetrics, bool) {
	raw, err := c.client.Get(ctx, metricsKey(tenantID, version, scope, window))
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.ForContext(ctx).WithError(err).Warn("Erro ao ler métricas do cache")
		}
		metrics.MetricsCache.WithLabelValues("miss").Inc()
		return nil, false
	}

	var value domain.DashboardMetrics
	if err := json.UnmarshalFromString(raw, &value); err != nil {
		log.ForContext(ctx).WithError(err).Warn("Métricas em cache corrompidas")
		metrics.MetricsCache.WithLabelValues("miss").Inc()
		return nil, false
	}

	metrics.MetricsCache.WithLabelValues("hit").Inc()
	return &value, true
}

func (c *redisMetricsCache) Set(ctx context.Context, tenantID string, version int64, scope domain.MetricsScope, window domain.MetricsWindow, value *domain.DashboardMetrics) {
	raw, err := json.MarshalToString(value)
	if err != nil {
		log.ForContext(ctx).WithError(err).Warn("Erro ao serializar métricas para o cache")
		return
	}

	if err := c.client.Set(ctx, metricsKey(tenantID, version, scope, window), raw, c.ttl); err != nil {
		log.ForContext(ctx).WithError(err).Warn("Erro ao gravar métricas no cache")
	}
}

func (c *redisMetricsCache) InvalidateTenant(ctx context.Context, tenantID string) {
	if _, err := c.client.Incr(ctx, versionKey(tenantID)); err != nil {
		log.ForContext(ctx).WithError(err).Warn("Erro ao avançar versão das métricas")
	}

	deleted, err := c.client.DeletePattern(ctx, fmt.Sprintf("metrics:%s:*", tenantID))
	if err != nil {
		log.ForContext(ctx).WithError(err).Warn("Erro ao invalidar métricas do tenant")
		return
	}

	log.ForContext(ctx).Debugf("%d entradas de métricas invalidadas", deleted)
}

type NopMetricsCache struct{}

func (NopMetricsCache) Version(context.Context, string) int64 { return 0 }

func (NopMetricsCache) Get(context.Context, string, int64, domain.MetricsScope, domain.MetricsWindow) (*domain.DashboardMetrics, bool) {
	return nil, false
}

func (NopMetricsCache) Set(context.Context, string, int64, domain.MetricsScope, domain.MetricsWindow, *domain.DashboardMetrics) {
}

func (NopMetricsCache) InvalidateTenant(context.Context, string) {}
