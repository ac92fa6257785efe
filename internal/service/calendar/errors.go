package calendar

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrAccessDenied возвращается, когда календарь запрашивает не владелец
	ErrAccessDenied = fmt.Errorf("calendar: %w", domain.ErrAccessDenied)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("calendar: %w", domain.ErrInvalidArgument)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("calendar service: internal error")
)
