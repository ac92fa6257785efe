package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

// Service сервис чтения бронирований
type Service struct {
	bookingRepo BookingRepository
	policy      TransitionPolicy
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	policy TransitionPolicy,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		policy:      policy,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID.
// Доступно клиенту и специалисту бронирования, а также администратору.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, actor domain.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s for user=%d role=%s", id, actor.UserID(), actor.Role())

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%s not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if !canView(booking, actor) {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%s", actor.UserID(), id)
		return nil, ErrAccessDenied
	}

	resp := models.FromDomainBooking(booking)
	resp.AllowedTransitions = models.StatusStrings(s.policy.Allowed(booking.Status, actor.Role()))

	s.logger.Info("GetByID: successfully fetched booking id=%s", id)
	return resp, nil
}

// GetForProfessional получает бронирования специалиста, отсортированные по времени начала.
// Опционально фильтрует по статусу.
func (s *Service) GetForProfessional(ctx context.Context, req *models.GetBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetForProfessional: fetching bookings for professional=%d, status=%v", req.UserID, req.Status)

	if !isSelfOrPrivileged(req.Actor, domain.RoleProfessional, req.UserID) {
		s.logger.Warn("GetForProfessional: access denied for user=%d to professional=%d", req.Actor.UserID(), req.UserID)
		return nil, ErrAccessDenied
	}

	return s.list(ctx, "GetForProfessional", req, true)
}

// GetForClient получает историю бронирований клиента, отсортированную по времени начала.
// Опционально фильтрует по статусу.
func (s *Service) GetForClient(ctx context.Context, req *models.GetBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetForClient: fetching bookings for client=%d, status=%v", req.UserID, req.Status)

	if !isSelfOrPrivileged(req.Actor, domain.RoleClient, req.UserID) {
		s.logger.Warn("GetForClient: access denied for user=%d to client=%d", req.Actor.UserID(), req.UserID)
		return nil, ErrAccessDenied
	}

	return s.list(ctx, "GetForClient", req, false)
}

func (s *Service) list(ctx context.Context, op string, req *models.GetBookingsRequest, byProfessional bool) (*models.BookingListResponse, error) {
	if req.UserID <= 0 {
		return nil, fmt.Errorf("%w: user id must be positive", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter(byProfessional)
	if err != nil {
		s.logger.Warn("%s: invalid filter for user=%d: %v", op, req.UserID, err)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("%s: repository error for user=%d: %v", op, req.UserID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	s.logger.Info("%s: successfully fetched %d bookings for user=%d", op, len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// Вспомогательные функции

// canView участники бронирования и администраторы
func canView(b *domain.Booking, actor domain.Actor) bool {
	switch a := actor.(type) {
	case domain.ClientActor:
		return b.ClientID == a.ID
	case domain.ProfessionalActor:
		return b.ProfessionalID == a.ID
	case domain.AdminActor, domain.SystemActor:
		return true
	default:
		return false
	}
}

func isSelfOrPrivileged(actor domain.Actor, role domain.Role, userID int64) bool {
	if actor == nil {
		return false
	}
	if domain.IsPrivileged(actor) {
		return true
	}
	return actor.Role() == role && actor.UserID() == userID
}
