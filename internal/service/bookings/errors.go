package bookings

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = fmt.Errorf("booking %w", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = fmt.Errorf("bookings: %w", domain.ErrAccessDenied)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("bookings: %w", domain.ErrInvalidArgument)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings service: internal error")
)
