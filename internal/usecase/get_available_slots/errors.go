package get_available_slots

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrAvailabilityNotFound возвращается, когда специалист не задал расписание
	ErrAvailabilityNotFound = fmt.Errorf("get_available_slots: availability %w", domain.ErrNotFound)

	// ErrServiceNotFound возвращается, когда услуга не найдена или не принадлежит специалисту
	ErrServiceNotFound = fmt.Errorf("get_available_slots: service %w", domain.ErrNotFound)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("get_available_slots: %w", domain.ErrInvalidArgument)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
