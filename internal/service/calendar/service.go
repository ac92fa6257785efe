package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/calendar/models"
	"github.com/m04kA/SMC-AppointmentService/internal/views"
)

// maxCalendarDays ограничение периода календаря (помесячная группировка за год)
const maxCalendarDays = 366

// Service сервис календаря и дашборда специалиста.
// Представления пересчитываются из снимка бронирований на каждый запрос.
type Service struct {
	bookingRepo  BookingRepository
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса календаря
func NewService(
	bookingRepo BookingRepository,
	location *time.Location,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		bookingRepo:  bookingRepo,
		location:     location,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// GetCalendar группирует бронирования специалиста по дням, неделям или месяцам
func (s *Service) GetCalendar(ctx context.Context, req *models.CalendarRequest) (*models.CalendarResponse, error) {
	s.logger.Info("GetCalendar: professional=%d, from=%s, to=%s, groupBy=%s",
		req.ProfessionalID, req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat), req.GroupBy)

	if !canView(req.Actor, req.ProfessionalID) {
		s.logger.Warn("GetCalendar: access denied for professional=%d", req.ProfessionalID)
		return nil, ErrAccessDenied
	}

	grouping, err := views.ParseGrouping(req.GroupBy)
	if err != nil {
		s.logger.Warn("GetCalendar: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	dateRange := domain.DateRange{From: req.From.In(s.location), To: req.To.In(s.location)}
	if err := dateRange.Validate(maxCalendarDays); err != nil {
		s.logger.Warn("GetCalendar: invalid range: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	from := domain.StartOfDay(dateRange.From)
	to := domain.StartOfDay(dateRange.To).AddDate(0, 0, 1)
	bookings, err := s.snapshot(ctx, "GetCalendar", req.ProfessionalID, &from, &to)
	if err != nil {
		return nil, err
	}

	buckets := views.Group(bookings, grouping, s.location)
	s.logger.Info("GetCalendar: %d bookings in %d buckets for professional=%d", len(bookings), len(buckets), req.ProfessionalID)

	return &models.CalendarResponse{
		ProfessionalID: req.ProfessionalID,
		GroupBy:        string(grouping),
		Buckets:        models.FromBuckets(buckets),
	}, nil
}

// GetDashboard считает статистику специалиста и делит бронирования на предстоящие и прошедшие
func (s *Service) GetDashboard(ctx context.Context, req *models.DashboardRequest) (*models.DashboardResponse, error) {
	s.logger.Info("GetDashboard: professional=%d", req.ProfessionalID)

	if !canView(req.Actor, req.ProfessionalID) {
		s.logger.Warn("GetDashboard: access denied for professional=%d", req.ProfessionalID)
		return nil, ErrAccessDenied
	}

	if req.From != nil && req.To != nil && !req.From.Before(*req.To) {
		return nil, fmt.Errorf("%w: from must be before to", ErrInvalidInput)
	}

	bookings, err := s.snapshot(ctx, "GetDashboard", req.ProfessionalID, req.From, req.To)
	if err != nil {
		return nil, err
	}

	now := s.timeProvider.Now()
	upcoming, past := views.Partition(bookings, now)
	stats := views.Aggregate(bookings, views.Window{})

	return &models.DashboardResponse{
		ProfessionalID: req.ProfessionalID,
		Stats:          models.FromStats(stats),
		Upcoming:       models.FromBookings(upcoming),
		Past:           models.FromBookings(past),
	}, nil
}

// snapshot бронирования специалиста со временем начала в [from, to)
func (s *Service) snapshot(ctx context.Context, op string, professionalID int64, from, to *time.Time) ([]domain.Booking, error) {
	list, err := s.bookingRepo.List(ctx, domain.BookingsFilter{
		ProfessionalID: &professionalID,
		From:           from,
		To:             to,
	})
	if err != nil {
		s.logger.Error("%s: repository error for professional=%d: %v", op, professionalID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	result := make([]domain.Booking, 0, len(list))
	for _, b := range list {
		result = append(result, *b)
	}
	return result, nil
}

func canView(actor domain.Actor, professionalID int64) bool {
	if actor == nil {
		return false
	}
	if domain.IsPrivileged(actor) {
		return true
	}
	p, ok := actor.(domain.ProfessionalActor)
	return ok && p.ID == professionalID
}
