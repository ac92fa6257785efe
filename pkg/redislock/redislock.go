package redislock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

var (
	// ErrNotAcquired блокировка занята дольше допустимого ожидания
	ErrNotAcquired = errors.New("redislock: lock not acquired")

	// ErrRedis ошибка обращения к Redis
	ErrRedis = errors.New("redislock: redis error")
)

// releaseScript удаляет ключ, только если он принадлежит владельцу токена
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Client минимальный набор команд Redis
type Client interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
	EvalSha(ctx context.Context, sha1 string, keys []string, args ...interface{}) *redis.Cmd
	ScriptExists(ctx context.Context, hashes ...string) *redis.BoolSliceCmd
	ScriptLoad(ctx context.Context, script string) *redis.StringCmd
}

// Locker распределённая блокировка по ключу (SET NX PX + проверка токена при снятии)
type Locker struct {
	client    Client
	prefix    string
	ttl       time.Duration
	wait      time.Duration
	retryStep time.Duration
}

// New создает Locker. ttl - время жизни блокировки, wait - максимальное ожидание захвата.
func New(client Client, prefix string, ttl, wait time.Duration) *Locker {
	return &Locker{
		client:    client,
		prefix:    prefix,
		ttl:       ttl,
		wait:      wait,
		retryStep: 25 * time.Millisecond,
	}
}

// Lock захватывает блокировку key, ожидая не дольше wait
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	token, err := newToken()
	if err != nil {
		return nil, fmt.Errorf("%w: token: %v", ErrRedis, err)
	}

	fullKey := l.prefix + key
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, fullKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: SETNX %s: %v", ErrRedis, fullKey, err)
		}
		if ok {
			return l.unlockFunc(fullKey, token), nil
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s", ErrNotAcquired, key)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retryStep):
		}
	}
}

func (l *Locker) unlockFunc(key, token string) func() {
	return func() {
		// Снимаем блокировку даже если контекст запроса уже отменён
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, l.client, []string{key}, token).Err()
	}
}

func newToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
