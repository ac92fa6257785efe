package keylock

import (
	"context"
	"sync"
)

// KeyLock мьютекс по ключу внутри процесса.
// Записи для ключа удаляются, когда их никто не держит и не ждёт.
type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	sem  chan struct{}
	refs int
}

func New() *KeyLock {
	return &KeyLock{locks: make(map[string]*entry)}
}

// Lock захватывает блокировку key. Ожидание прерывается отменой ctx.
func (l *KeyLock) Lock(ctx context.Context, key string) (func(), error) {
	e := l.acquireEntry(key)

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		l.releaseEntry(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	unlock := func() {
		once.Do(func() {
			<-e.sem
			l.releaseEntry(key, e)
		})
	}
	return unlock, nil
}

func (l *KeyLock) acquireEntry(key string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.locks[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	return e
}

func (l *KeyLock) releaseEntry(key string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}

// size количество активных ключей
func (l *KeyLock) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
