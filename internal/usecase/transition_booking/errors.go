package transition_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = fmt.Errorf("transition_booking: booking %w", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда пользователь не участник бронирования
	ErrAccessDenied = fmt.Errorf("transition_booking: %w", domain.ErrAccessDenied)

	// ErrConcurrencyConflict возвращается, когда бронирование изменили параллельно дважды подряд
	ErrConcurrencyConflict = fmt.Errorf("transition_booking: %w", domain.ErrConcurrencyConflict)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("transition_booking: %w", domain.ErrInvalidArgument)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("transition_booking: internal error")
)
