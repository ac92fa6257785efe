package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	ProfessionalID  int64           `json:"professionalId"`
	From            string          `json:"from"`
	To              string          `json:"to"`
	DurationMinutes int             `json:"durationMinutes"`
	Slots           []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			Start: slot.Start,
			End:   slot.End,
		}
	}

	return &AvailableSlotsResponse{
		ProfessionalID:  resp.ProfessionalID,
		From:            resp.From.Format(domain.DateFormat),
		To:              resp.To.Format(domain.DateFormat),
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}
