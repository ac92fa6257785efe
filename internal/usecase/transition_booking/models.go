package transition_booking

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/lifecycle"
)

// Request модель запроса на смену статуса
type Request struct {
	BookingID uuid.UUID
	To        domain.BookingStatus
	Actor     domain.Actor
	Reason    *string // Причина отмены/отказа (опционально)
}

// Response обновлённое бронирование и применённое решение
type Response struct {
	Booking  *domain.Booking
	Decision lifecycle.Decision
}

// Outcome результаты для метрик
const (
	outcomeOK       = "ok"
	outcomeRejected = "rejected"
	outcomeError    = "error"
)

// notifyTargets кого уведомить по эффектам решения
func notifyTargets(d lifecycle.Decision) []domain.Role {
	var roles []domain.Role
	if d.Has(lifecycle.EffectNotifyClient) {
		roles = append(roles, domain.RoleClient)
	}
	if d.Has(lifecycle.EffectNotifyProfessional) {
		roles = append(roles, domain.RoleProfessional)
	}
	return roles
}
