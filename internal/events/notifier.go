package events

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// NotifyLogger логгер уведомлений
type NotifyLogger interface {
	Info(format string, v ...interface{})
}

// Notifier доставляет уведомления участникам бронирования.
// Канал доставки пока один - журнал.
type Notifier struct {
	logger NotifyLogger
}

func NewNotifier(logger NotifyLogger) *Notifier {
	return &Notifier{logger: logger}
}

// Run читает события до закрытия канала или отмены ctx
func (n *Notifier) Run(ctx context.Context, ch <-chan Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			n.Deliver(e)
		}
	}
}

// Deliver уведомляет каждого адресата события. Возвращает число уведомлений.
func (n *Notifier) Deliver(e Event) int {
	sent := 0
	for _, role := range e.Notify {
		userID, ok := recipient(e, role)
		if !ok {
			continue
		}
		n.logger.Info("Notify %s=%d: booking %s %s -> %s by %s",
			role, userID, e.BookingID, statusOrNew(e.OldStatus), e.NewStatus, e.Role)
		sent++
	}
	return sent
}

func recipient(e Event, role domain.Role) (int64, bool) {
	switch role {
	case domain.RoleClient:
		return e.ClientID, true
	case domain.RoleProfessional:
		return e.ProfessionalID, true
	default:
		return 0, false
	}
}

func statusOrNew(s domain.BookingStatus) string {
	if s == "" {
		return "new"
	}
	return string(s)
}
