package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ProfessionalID  int64     // ID специалиста
	From            time.Time // Первый день периода
	To              time.Time // Последний день периода (включительно)
	DurationMinutes *int      // Длительность слота (опционально)
	ServiceID       *int64    // Услуга, длительность которой использовать (опционально)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	ProfessionalID  int64
	From            time.Time
	To              time.Time
	DurationMinutes int
	Slots           []domain.Slot // По возрастанию начала
}
