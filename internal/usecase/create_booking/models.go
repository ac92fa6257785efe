package create_booking

import (
	"strconv"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	Actor          domain.Actor // Кто создаёт бронирование
	ClientID       int64        // ID клиента
	ProfessionalID int64        // ID специалиста
	ServiceID      int64        // ID услуги в каталоге
	Start          time.Time    // Начало интервала
	End            time.Time    // Конец интервала (если не указан, берётся длительность услуги)
}

// Outcome результаты для метрик
const (
	outcomeCreated           = "created"
	outcomeSlotUnavailable   = "slot_unavailable"
	outcomeOutOfAvailability = "out_of_availability"
	outcomeConflict          = "conflict"
	outcomeError             = "error"
)

// lockKey ключ блокировки расписания специалиста
func lockKey(professionalID int64) string {
	return "professional:" + strconv.FormatInt(professionalID, 10)
}
