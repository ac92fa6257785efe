package clock

import (
	"sync"
	"time"
)

// Clock источник текущего времени
type Clock interface {
	Now() time.Time
}

// Real реальное время
type Real struct{}

// Now возвращает текущее время
func (Real) Now() time.Time {
	return time.Now()
}

// Manual управляемые часы для тестов
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual создает часы, остановленные на now
func NewManual(now time.Time) *Manual {
	return &Manual{now: now}
}

// Now возвращает текущее значение
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set устанавливает время
func (m *Manual) Set(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// Advance сдвигает время вперед на d
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}
