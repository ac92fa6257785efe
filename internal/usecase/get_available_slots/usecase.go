package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/availability"
	catalogClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/catalog"
)

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	bookingRepo      BookingRepository
	availabilityRepo AvailabilityRepository
	catalogClient    CatalogClient
	generator        SlotGenerator
	metrics          Metrics
	defaultDuration  int
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case.
// defaultDurationMinutes используется, когда длительность не задана ни запросом, ни услугой.
func NewUseCase(
	bookingRepo BookingRepository,
	availabilityRepo AvailabilityRepository,
	catalogClient CatalogClient,
	generator SlotGenerator,
	metrics Metrics,
	defaultDurationMinutes int,
	logger Logger,
) *UseCase {
	if defaultDurationMinutes <= 0 {
		defaultDurationMinutes = domain.DefaultSlotDurationMinutes
	}
	return &UseCase{
		bookingRepo:      bookingRepo,
		availabilityRepo: availabilityRepo,
		catalogClient:    catalogClient,
		generator:        generator,
		metrics:          metrics,
		defaultDuration:  defaultDurationMinutes,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: professional=%d, from=%s, to=%s",
		req.ProfessionalID, req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Определяем длительность слота
	durationMinutes, err := uc.resolveDuration(ctx, req)
	if err != nil {
		return nil, err
	}
	duration := time.Duration(durationMinutes) * time.Minute
	dateRange := domain.DateRange{From: req.From, To: req.To}

	// 3. Проверяем период до обращения к хранилищу
	if err := uc.generator.Validate(dateRange, duration); err != nil {
		uc.logger.Warn("GetAvailableSlots: invalid range for professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 4. Получаем расписание специалиста
	avail, err := uc.availabilityRepo.Get(ctx, req.ProfessionalID)
	if err != nil {
		if errors.Is(err, availabilityRepo.ErrAvailabilityNotFound) {
			uc.logger.Warn("GetAvailableSlots: professional=%d has no availability", req.ProfessionalID)
			return nil, ErrAvailabilityNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get availability for professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to get availability: %v", ErrInternal, err)
	}

	// 5. Получаем активные бронирования, пересекающиеся с периодом
	loc := uc.generator.Location()
	rangeStart := domain.StartOfDay(req.From.In(loc))
	rangeEnd := domain.StartOfDay(req.To.In(loc)).AddDate(0, 0, 1)

	booked, err := uc.bookingRepo.GetActiveOverlapping(ctx, req.ProfessionalID, rangeStart, rangeEnd)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings for professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 6. Генерируем слоты
	seq, err := uc.generator.Generate(avail, booked, dateRange, duration, uc.timeProvider.Now())
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: generation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	slots := slices.Collect(seq)
	if slots == nil {
		slots = []domain.Slot{}
	}

	uc.metrics.SlotsGenerated(len(slots))
	uc.logger.Info("GetAvailableSlots: found %d slots for professional=%d (%d active bookings)",
		len(slots), req.ProfessionalID, len(booked))

	return &Response{
		ProfessionalID:  req.ProfessionalID,
		From:            rangeStart,
		To:              domain.StartOfDay(req.To.In(loc)),
		DurationMinutes: durationMinutes,
		Slots:           slots,
	}, nil
}

// resolveDuration длительность из запроса, иначе из услуги, иначе по умолчанию
func (uc *UseCase) resolveDuration(ctx context.Context, req *Request) (int, error) {
	if req.DurationMinutes != nil {
		return *req.DurationMinutes, nil
	}

	if req.ServiceID == nil {
		return uc.defaultDuration, nil
	}

	service, err := uc.catalogClient.GetService(ctx, *req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", *req.ServiceID)
			return 0, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", *req.ServiceID, err)
		return 0, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if service.ProfessionalID != req.ProfessionalID {
		uc.logger.Warn("GetAvailableSlots: service id=%d does not belong to professional=%d", service.ID, req.ProfessionalID)
		return 0, ErrServiceNotFound
	}

	return service.DurationMinutes, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ProfessionalID <= 0 {
		return fmt.Errorf("%w: professionalID must be positive", ErrInvalidInput)
	}

	if req.DurationMinutes != nil && (*req.DurationMinutes < domain.MinSlotDurationMinutes || *req.DurationMinutes > domain.MaxSlotDurationMinutes) {
		return fmt.Errorf("%w: durationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}

	if req.ServiceID != nil && *req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	return nil
}
