package create_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrClientNotFound возвращается, когда клиент не найден в UserService
	ErrClientNotFound = fmt.Errorf("create_booking: client %w", domain.ErrNotFound)

	// ErrProfessionalNotFound возвращается, когда специалист не найден в UserService
	ErrProfessionalNotFound = fmt.Errorf("create_booking: professional %w", domain.ErrNotFound)

	// ErrServiceNotFound возвращается, когда услуга не найдена или не принадлежит специалисту
	ErrServiceNotFound = fmt.Errorf("create_booking: service %w", domain.ErrNotFound)

	// ErrOutOfAvailability возвращается, когда интервал вне рабочего времени специалиста
	ErrOutOfAvailability = fmt.Errorf("create_booking: %w", domain.ErrOutOfAvailability)

	// ErrSlotUnavailable возвращается, когда интервал пересекается с активным бронированием
	ErrSlotUnavailable = fmt.Errorf("create_booking: %w", domain.ErrSlotUnavailable)

	// ErrConcurrencyConflict возвращается, когда конкурентная запись не разрешилась после повтора
	ErrConcurrencyConflict = fmt.Errorf("create_booking: %w", domain.ErrConcurrencyConflict)

	// ErrAccessDenied возвращается, когда клиент бронирует от имени другого клиента
	ErrAccessDenied = fmt.Errorf("create_booking: %w", domain.ErrAccessDenied)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("create_booking: %w", domain.ErrInvalidArgument)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
