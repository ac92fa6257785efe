package events

import (
	"context"
	"sync"
)

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// Broker in-process рассылка событий подписчикам.
// Publish никогда не блокируется: если буфер подписчика полон, событие для него отбрасывается.
type Broker struct {
	mu     sync.RWMutex
	subs   map[uint64]chan Event
	next   uint64
	closed bool
	logger Logger
}

func NewBroker(logger Logger) *Broker {
	return &Broker{
		subs:   make(map[uint64]chan Event),
		logger: logger,
	}
}

// Subscribe регистрирует подписчика. cancel закрывает канал и идемпотентен.
func (b *Broker) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 0 {
		buffer = 0
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

// Publish рассылает событие всем текущим подписчикам
func (b *Broker) Publish(_ context.Context, event Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subs {
		select {
		case ch <- event:
		default:
			if b.logger != nil {
				b.logger.Warn("events: subscriber %d is slow, dropped event booking=%s status=%s",
					id, event.BookingID, event.NewStatus)
			}
		}
	}
	return nil
}

// Close закрывает всех подписчиков
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
