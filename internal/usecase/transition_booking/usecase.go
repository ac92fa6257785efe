package transition_booking

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/events"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AppointmentService/internal/lifecycle"
)

// maxAttempts первая попытка и один повтор после перечитывания
const maxAttempts = 2

// UseCase use case смены статуса бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	machine      StateMachine
	publisher    EventPublisher
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	machine StateMachine,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		machine:      machine,
		publisher:    publisher,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute переводит бронирование в новый статус.
// Запись идёт с проверкой версии; при конфликте бронирование перечитывается
// и решение принимается заново один раз.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("TransitionBooking: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("TransitionBooking: booking=%s to=%s by user=%d role=%s",
		req.BookingID, req.To, req.Actor.UserID(), req.Actor.Role())

	var (
		resp *Response
		err  error
	)
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err = uc.attempt(ctx, req)
		if !errors.Is(err, bookingRepo.ErrVersionConflict) {
			break
		}
		uc.logger.Warn("TransitionBooking: attempt %d/%d: booking=%s changed concurrently", attempt, maxAttempts, req.BookingID)
	}

	if errors.Is(err, bookingRepo.ErrVersionConflict) {
		uc.logger.Warn("TransitionBooking: booking=%s: giving up after %d attempts", req.BookingID, maxAttempts)
		return nil, fmt.Errorf("%w: %v", ErrConcurrencyConflict, err)
	}
	if err != nil {
		return nil, err
	}

	uc.logger.Info("TransitionBooking: booking=%s moved %s -> %s (version=%d)",
		resp.Booking.ID, resp.Decision.From, resp.Decision.To, resp.Booking.Version)

	// 6. Публикуем событие. Ошибка публикации не откатывает переход
	event := events.Event{
		BookingID:      resp.Booking.ID,
		ProfessionalID: resp.Booking.ProfessionalID,
		ClientID:       resp.Booking.ClientID,
		OldStatus:      resp.Decision.From,
		NewStatus:      resp.Decision.To,
		Role:           resp.Decision.Role,
		Notify:         notifyTargets(resp.Decision),
		OccurredAt:     resp.Booking.UpdatedAt,
	}
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Error("TransitionBooking: failed to publish event for booking=%s: %v", resp.Booking.ID, err)
	}

	return resp, nil
}

func (uc *UseCase) attempt(ctx context.Context, req *Request) (*Response, error) {
	// 2. Загружаем бронирование
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("TransitionBooking: booking=%s not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("TransitionBooking: failed to get booking=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	// 3. Проверяем, что пользователь участник бронирования
	if err := checkOwnership(booking, req.Actor); err != nil {
		uc.logger.Warn("TransitionBooking: user=%d role=%s has no access to booking=%s",
			req.Actor.UserID(), req.Actor.Role(), booking.ID)
		return nil, err
	}

	// 4. Решение автомата статусов
	now := uc.timeProvider.Now()
	decision, err := uc.machine.Decide(booking, req.To, req.Actor, now)
	if err != nil {
		uc.metrics.Transition(string(booking.Status), string(req.To), outcomeRejected)
		uc.logger.Warn("TransitionBooking: booking=%s: %v", booking.ID, err)
		return nil, err
	}

	// 5. Сохраняем с проверкой версии
	next := lifecycle.Apply(*booking, decision, req.Reason, now)
	updated, err := uc.bookingRepo.UpdateStatus(ctx, &next, booking.Version)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrVersionConflict) {
			uc.metrics.Transition(string(decision.From), string(decision.To), outcomeError)
			return nil, err
		}
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		uc.metrics.Transition(string(decision.From), string(decision.To), outcomeError)
		uc.logger.Error("TransitionBooking: failed to update booking=%s: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
	}

	uc.metrics.Transition(string(decision.From), string(decision.To), outcomeOK)
	return &Response{Booking: updated, Decision: decision}, nil
}

// checkOwnership клиент и специалист действуют только в своих бронированиях
func checkOwnership(b *domain.Booking, actor domain.Actor) error {
	switch a := actor.(type) {
	case domain.ClientActor:
		if b.ClientID != a.ID {
			return ErrAccessDenied
		}
	case domain.ProfessionalActor:
		if b.ProfessionalID != a.ID {
			return ErrAccessDenied
		}
	}
	return nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Actor == nil {
		return fmt.Errorf("%w: actor is required", ErrInvalidInput)
	}

	if req.BookingID == uuid.Nil {
		return fmt.Errorf("%w: bookingID is required", ErrInvalidInput)
	}

	if !req.To.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.To)
	}

	if req.Reason != nil && utf8.RuneCountInString(*req.Reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: reason is longer than %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	return nil
}
