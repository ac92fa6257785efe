package catalog

import "github.com/shopspring/decimal"

// Service модель услуги из каталога
type Service struct {
	ID              int64           `json:"id"`
	ProfessionalID  int64           `json:"professional_id"`
	Name            string          `json:"name"`
	DurationMinutes int             `json:"duration_minutes"`
	Price           decimal.Decimal `json:"price"`
	DirectBooking   bool            `json:"direct_booking"` // бронирование без подтверждения специалистом
}
