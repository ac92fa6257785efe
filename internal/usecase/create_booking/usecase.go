package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/events"
	availabilityRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/availability"
	catalogClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/catalog"
	userClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/userservice"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/redislock"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

// maxAttempts первая попытка и один автоматический повтор при конфликте
const maxAttempts = 2

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo      BookingRepository
	availabilityRepo AvailabilityRepository
	userClient       UserServiceClient
	catalogClient    CatalogClient
	txManager        TransactionManager
	locker           Locker
	publisher        EventPublisher
	metrics          Metrics
	location         *time.Location
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	availabilityRepo AvailabilityRepository,
	userClient UserServiceClient,
	catalogClient CatalogClient,
	txManager TransactionManager,
	locker Locker,
	publisher EventPublisher,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		bookingRepo:      bookingRepo,
		availabilityRepo: availabilityRepo,
		userClient:       userClient,
		catalogClient:    catalogClient,
		txManager:        txManager,
		locker:           locker,
		publisher:        publisher,
		metrics:          metrics,
		location:         location,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания бронирования.
// Проверка свободного интервала и запись выполняются под блокировкой специалиста
// в сериализуемой транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Booking, error) {
	uc.logger.Info("CreateBooking: client=%d, professional=%d, service=%d, start=%s",
		req.ClientID, req.ProfessionalID, req.ServiceID, req.Start.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Клиент может бронировать только для себя
	if client, ok := req.Actor.(domain.ClientActor); ok && client.ID != req.ClientID {
		uc.logger.Warn("CreateBooking: client=%d tried to book for client=%d", client.ID, req.ClientID)
		return nil, ErrAccessDenied
	}

	// 3. Проверяем клиента и специалиста в UserService
	if err := uc.checkUser(ctx, req.ClientID, ErrClientNotFound); err != nil {
		return nil, err
	}
	if err := uc.checkUser(ctx, req.ProfessionalID, ErrProfessionalNotFound); err != nil {
		return nil, err
	}

	// 4. Получаем услугу из каталога
	service, err := uc.catalogClient.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if service.ProfessionalID != req.ProfessionalID {
		uc.logger.Warn("CreateBooking: service id=%d belongs to professional=%d, not %d",
			service.ID, service.ProfessionalID, req.ProfessionalID)
		return nil, ErrServiceNotFound
	}

	// 5. Вычисляем интервал и проверяем, что он в будущем
	start := req.Start
	end := req.End
	if end.IsZero() {
		end = start.Add(time.Duration(service.DurationMinutes) * time.Minute)
	}
	now := uc.timeProvider.Now()
	if err := validateInterval(start, end, now); err != nil {
		uc.logger.Warn("CreateBooking: interval validation failed: %v", err)
		return nil, err
	}

	// 6. Записываем бронирование, повторяя один раз при конфликте
	var created *domain.Booking
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		created, err = uc.create(ctx, req, service, start, end, now)
		if err == nil || !errors.Is(err, ErrConcurrencyConflict) {
			break
		}
		uc.logger.Warn("CreateBooking: attempt %d/%d hit concurrency conflict: %v", attempt, maxAttempts, err)
	}
	if err != nil {
		uc.metrics.BookingCreated(outcomeFor(err))
		return nil, err
	}
	uc.metrics.BookingCreated(outcomeCreated)

	uc.logger.Info("CreateBooking: successfully created booking id=%s status=%s", created.ID, created.Status)

	// 7. Публикуем событие. Ошибка публикации не отменяет бронирование
	event := events.Event{
		BookingID:      created.ID,
		ProfessionalID: created.ProfessionalID,
		ClientID:       created.ClientID,
		NewStatus:      created.Status,
		Role:           req.Actor.Role(),
		Notify:         []domain.Role{domain.RoleProfessional},
		OccurredAt:     now,
	}
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Error("CreateBooking: failed to publish event for booking id=%s: %v", created.ID, err)
	}

	return created, nil
}

// create одна попытка записи под блокировкой специалиста
func (uc *UseCase) create(
	ctx context.Context,
	req *Request,
	service *catalogClient.Service,
	start, end, now time.Time,
) (*domain.Booking, error) {
	unlock, err := uc.locker.Lock(ctx, lockKey(req.ProfessionalID))
	if err != nil {
		if errors.Is(err, redislock.ErrNotAcquired) {
			return nil, fmt.Errorf("%w: lock: %v", ErrConcurrencyConflict, err)
		}
		uc.logger.Error("CreateBooking: failed to lock professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to lock: %v", ErrInternal, err)
	}
	defer unlock()

	var result *domain.Booking

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Перечитываем расписание специалиста
		avail, err := uc.availabilityRepo.Get(txCtx, req.ProfessionalID)
		if err != nil {
			if errors.Is(err, availabilityRepo.ErrAvailabilityNotFound) {
				uc.logger.Warn("CreateBooking: professional=%d has no availability", req.ProfessionalID)
				return ErrOutOfAvailability
			}
			uc.logger.Error("CreateBooking: failed to get availability: %v", err)
			return fmt.Errorf("%w: failed to get availability: %w", ErrInternal, err)
		}

		// 6.2. Интервал должен целиком лежать в одном диапазоне расписания
		if !avail.Contains(start, end, uc.location) {
			uc.logger.Warn("CreateBooking: interval %s-%s is outside availability of professional=%d",
				start.Format(time.RFC3339), end.Format(time.RFC3339), req.ProfessionalID)
			return ErrOutOfAvailability
		}

		// 6.3. Проверяем пересечения с активными бронированиями
		overlapping, err := uc.bookingRepo.GetActiveOverlapping(txCtx, req.ProfessionalID, start, end)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get overlapping bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
		}
		if len(overlapping) > 0 {
			uc.logger.Warn("CreateBooking: slot not available, %d overlapping bookings", len(overlapping))
			return ErrSlotUnavailable
		}

		// 6.4. Создаем бронирование
		status := domain.StatusPending
		if service.DirectBooking {
			status = domain.StatusConfirmed
		}
		booking := &domain.Booking{
			ID:             uuid.New(),
			ClientID:       req.ClientID,
			ProfessionalID: req.ProfessionalID,
			ServiceID:      req.ServiceID,
			ScheduledStart: start,
			ScheduledEnd:   end,
			Status:         status,
			Price:          ptr.Ptr(service.Price),
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrSerializationFailure) {
			return nil, fmt.Errorf("%w: %v", ErrConcurrencyConflict, err)
		}
		return nil, err
	}

	return result, nil
}

// checkUser проверяет существование пользователя в UserService
func (uc *UseCase) checkUser(ctx context.Context, userID int64, notFound error) error {
	if _, err := uc.userClient.GetUser(ctx, userID); err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			uc.logger.Warn("CreateBooking: user id=%d not found", userID)
			return notFound
		}
		uc.logger.Error("CreateBooking: failed to get user id=%d: %v", userID, err)
		return fmt.Errorf("%w: failed to get user: %v", ErrInternal, err)
	}
	return nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Actor == nil {
		return fmt.Errorf("%w: actor is required", ErrInvalidInput)
	}

	if req.ClientID <= 0 {
		return fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	if req.ProfessionalID <= 0 {
		return fmt.Errorf("%w: professionalID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Start.IsZero() {
		return fmt.Errorf("%w: start is required", ErrInvalidInput)
	}

	return nil
}

// validateInterval проверяет, что интервал непустой и начинается в будущем
func validateInterval(start, end, now time.Time) error {
	if !start.Before(end) {
		return fmt.Errorf("%w: start must be before end", ErrInvalidInput)
	}

	if !start.After(now) {
		return fmt.Errorf("%w: start must be in the future", ErrInvalidInput)
	}

	return nil
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, ErrSlotUnavailable):
		return outcomeSlotUnavailable
	case errors.Is(err, ErrOutOfAvailability):
		return outcomeOutOfAvailability
	case errors.Is(err, ErrConcurrencyConflict):
		return outcomeConflict
	default:
		return outcomeError
	}
}
