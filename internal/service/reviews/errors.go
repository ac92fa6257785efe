package reviews

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = fmt.Errorf("reviews: booking %w", domain.ErrNotFound)

	// ErrNotEligible возвращается, когда оставить отзыв нельзя
	ErrNotEligible = fmt.Errorf("reviews: %w", domain.ErrNotEligible)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("reviews service: internal error")
)
