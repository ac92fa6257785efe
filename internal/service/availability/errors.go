package availability

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrAvailabilityNotFound возвращается, когда расписание не задано
	ErrAvailabilityNotFound = fmt.Errorf("availability %w", domain.ErrNotFound)

	// ErrProfessionalNotFound возвращается, когда специалист не найден в UserService
	ErrProfessionalNotFound = fmt.Errorf("professional %w", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда расписание меняет не владелец
	ErrAccessDenied = fmt.Errorf("availability: %w", domain.ErrAccessDenied)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("availability service: internal error")
)
