package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/isacLima251/MeuPainel0.2/pkg/log"
	"github.com/redis/go-redis/v9"
)

var ErrLockTimeout = errors.New("tempo esgotado aguardando lock")

const lockRetryInterval = 25 * time.Millisecond

// Locker serializa o processamento por chave. A função devolvida libera o lock.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// Só apaga a chave se ela ainda pertence a quem adquiriu o lock.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisLocker struct {
	client *Client
	ttl    time.Duration
}

// NewRedisLocker usa SET NX com expiração. O TTL também limita a espera.
func NewRedisLocker(client *Client, ttl time.Duration) Locker {
	return &redisLocker{
		client: client,
		ttl:    ttl,
	}
}

func (l *redisLocker) Lock(ctx context.Context, key string) (func(), error) {
	token := uuid.New().String()
	lockKey := "lock:" + key

	waitCtx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	ticker := time.NewTicker(lockRetryInterval)
	defer ticker.Stop()

	for {
		acquired, err := l.client.Redis.SetNX(waitCtx, lockKey, token, l.ttl).Result()
		if err != nil && waitCtx.Err() == nil {
			return nil, fmt.Errorf("erro ao adquirir lock %s: %w", key, err)
		}

		if acquired {
			release := func() {
				releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()

				if err := releaseScript.Run(releaseCtx, l.client.Redis, []string{lockKey}, token).Err(); err != nil {
					log.ForContext(ctx).WithError(err).Warnf("Falha ao liberar lock %s", key)
				}
			}
			return release, nil
		}

		select {
		case <-waitCtx.Done():
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, key)
		case <-ticker.C:
		}
	}
}

type localEntry struct {
	mu   sync.Mutex
	refs int
}

type localLocker struct {
	mu      sync.Mutex
	entries map[string]*localEntry
}

// NewLocalLocker serializa apenas dentro do processo. Usado quando não há Redis.
func NewLocalLocker() Locker {
	return &localLocker{
		entries: make(map[string]*localEntry),
	}
}

func (l *localLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	entry, ok := l.entries[key]
	if !ok {
		entry = &localEntry{}
		l.entries[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	acquired := make(chan struct{})
	go func() {
		entry.mu.Lock()
		close(acquired)
	}()

	select {
	case <-acquired:
	case <-ctx.Done():
		// a goroutine ainda vai pegar o mutex; solta assim que conseguir
		go func() {
			<-acquired
			l.unlock(key, entry)
		}()
		return nil, fmt.Errorf("%w: %s", ErrLockTimeout, key)
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.unlock(key, entry) })
	}, nil
}

func (l *localLocker) unlock(key string, entry *localEntry) {
	entry.mu.Unlock()

	l.mu.Lock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.entries, key)
	}
	l.mu.Unlock()
}
